package logprojector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saan-system/hos-trip-service/internal/geo"
	"github.com/saan-system/hos-trip-service/internal/hos"
	"github.com/saan-system/hos-trip-service/internal/trip"
)

func namedPlace(name string) *geo.NamedPlace {
	p := geo.NewNamedPlace(name, name, geo.Coordinate{Lat: 39.0, Lng: -94.0})
	return &p
}

// a multi-day activity tiling: pre-trip, a long drive spanning a midnight
// boundary, then a second day of driving and wrap-up.
func multiDayActivities(zone *time.Location) []trip.Activity {
	start := time.Date(2026, 1, 5, 20, 0, 0, 0, zone) // 8pm day 1

	a1End := start.Add(30 * time.Minute)
	a2End := a1End.Add(10 * time.Hour) // crosses midnight into day 2
	a3Start := a2End.Add(10 * time.Hour)
	a3End := a3Start.Add(2 * time.Hour)

	return []trip.Activity{
		{Status: hos.OnDutyNotDriving, Start: start, End: a1End, Description: "Pre-trip inspection", Place: namedPlace("origin")},
		{Status: hos.Driving, Start: a1End, End: a2End, Description: "Driving to dropoff location"},
		{Status: hos.OffDuty, Start: a2End, End: a3Start, Description: "10-hour rest break", Place: namedPlace("rest stop")},
		{Status: hos.OnDutyNotDriving, Start: a3Start, End: a3End, Description: "Unloading cargo", Place: namedPlace("dropoff")},
	}
}

func TestProject_EveryDaySumsToTwentyFourHours(t *testing.T) {
	zone := time.FixedZone("fixed-6", -6*60*60)
	activities := multiDayActivities(zone)

	days, err := Project(activities, zone, 500)
	require.NoError(t, err)
	require.NotEmpty(t, days)

	for _, d := range days {
		assert.InDelta(t, 24.0, d.Hours.Sum(), 1.0/60.0, "day %d hours must sum to ~24h", d.DayNumber)
	}
}

func TestProject_DayNumbersAreSequential(t *testing.T) {
	zone := time.UTC
	activities := multiDayActivities(zone)

	days, err := Project(activities, zone, 500)
	require.NoError(t, err)

	for i, d := range days {
		assert.Equal(t, i+1, d.DayNumber)
	}
}

func TestProject_RemarksOnlyFromDescribedActivities(t *testing.T) {
	zone := time.UTC
	activities := multiDayActivities(zone)

	days, err := Project(activities, zone, 500)
	require.NoError(t, err)

	var totalRemarks int
	for _, d := range days {
		totalRemarks += len(d.Remarks)
		for _, r := range d.Remarks {
			assert.NotEmpty(t, r.Activity)
		}
	}
	assert.Equal(t, len(activities), totalRemarks)
}

func TestProject_MilesProratedByDrivingShare(t *testing.T) {
	zone := time.UTC
	activities := multiDayActivities(zone)

	days, err := Project(activities, zone, 500)
	require.NoError(t, err)

	var totalMiles float64
	for _, d := range days {
		totalMiles += d.TotalMiles
	}
	assert.InDelta(t, 500, totalMiles, 0.01)
}

func TestProject_EmptyActivitiesYieldsNoLedgers(t *testing.T) {
	days, err := Project(nil, time.UTC, 0)
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestProject_SingleDayTripHasOneLedger(t *testing.T) {
	zone := time.UTC
	start := time.Date(2026, 1, 5, 6, 0, 0, 0, zone)
	activities := []trip.Activity{
		{Status: hos.OnDutyNotDriving, Start: start, End: start.Add(30 * time.Minute), Description: "Pre-trip inspection"},
		{Status: hos.Driving, Start: start.Add(30 * time.Minute), End: start.Add(3*time.Hour + 30*time.Minute), Description: "Driving to dropoff location"},
	}

	days, err := Project(activities, zone, 150)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.InDelta(t, 150, days[0].TotalMiles, 0.01)
}
