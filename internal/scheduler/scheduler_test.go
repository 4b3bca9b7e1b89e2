package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saan-system/hos-trip-service/internal/geo"
	"github.com/saan-system/hos-trip-service/internal/hos"
	"github.com/saan-system/hos-trip-service/internal/routing"
	"github.com/saan-system/hos-trip-service/internal/trip"
)

func place(name string, lat, lng float64) geo.NamedPlace {
	return geo.NewNamedPlace(name, name, geo.Coordinate{Lat: lat, Lng: lng})
}

func seg(distanceMiles, durationHours float64) routing.Segment {
	return routing.Segment{DistanceMiles: distanceMiles, DurationHours: durationHours}
}

func basePlan(openingCycleHours float64) Plan {
	start := time.Date(2026, 1, 5, 6, 0, 0, 0, time.UTC)
	return Plan{
		StartTime:         start,
		StartPlace:        place("current", 39.0, -94.0),
		PickupPlace:       place("pickup", 39.5, -94.5),
		DropoffPlace:      place("dropoff", 41.0, -96.0),
		SegToPickup:       seg(30, 0.5),
		SegToDropoff:      seg(600, 9),
		OpeningCycleHours: openingCycleHours,
	}
}

func totalDrivingHours(activities []trip.Activity) float64 {
	var total float64
	for _, a := range activities {
		if a.Status == hos.Driving {
			total += a.Hours()
		}
	}
	return total
}

// S1: a short trip well within every limit produces no rest/break/restart
// stops beyond the fixed START/PICKUP/DROPOFF/END_POST_TRIP activities.
func TestSchedule_ShortTripNoInterruptions(t *testing.T) {
	s := New(hos.Default, nil)
	plan := basePlan(0)
	plan.SegToDropoff = seg(200, 3)

	result, err := s.Schedule(context.Background(), plan)
	require.NoError(t, err)

	counts := map[trip.StopKind]int{}
	for _, stop := range result.Stops {
		counts[stop.Kind]++
	}
	assert.Equal(t, 1, counts[trip.StopStart])
	assert.Equal(t, 1, counts[trip.StopPickup])
	assert.Equal(t, 1, counts[trip.StopDropoff])
	assert.Equal(t, 1, counts[trip.StopEndPostTrip])
	assert.Zero(t, counts[trip.StopBreak30Min])
	assert.Zero(t, counts[trip.StopRest10Hr])
	assert.Zero(t, counts[trip.StopRestart34Hr])
}

// S2: driving past 8 cumulative hours inserts a 30-minute qualifying break
// that does not reset the on-duty window.
func TestSchedule_BreakAfterEightHoursDriving(t *testing.T) {
	s := New(hos.Default, nil)
	plan := basePlan(0)
	plan.SegToPickup = seg(0, 0)
	plan.SegToDropoff = seg(540, 9) // 9h of driving > 8h break threshold

	result, err := s.Schedule(context.Background(), plan)
	require.NoError(t, err)

	counts := map[trip.StopKind]int{}
	for _, stop := range result.Stops {
		counts[stop.Kind]++
	}
	assert.Equal(t, 1, counts[trip.StopBreak30Min])
	assert.Zero(t, counts[trip.StopRest10Hr])
}

// S3: driving past the 11-hour daily limit forces a 10-hour reset, and
// total accumulated driving hours for the trip equal the segment totals.
func TestSchedule_RestAfterElevenHoursDriving(t *testing.T) {
	s := New(hos.Default, nil)
	plan := basePlan(0)
	plan.SegToPickup = seg(0, 0)
	plan.SegToDropoff = seg(780, 13) // 13h > 11h driving limit

	result, err := s.Schedule(context.Background(), plan)
	require.NoError(t, err)

	counts := map[trip.StopKind]int{}
	for _, stop := range result.Stops {
		counts[stop.Kind]++
	}
	assert.GreaterOrEqual(t, counts[trip.StopRest10Hr], 1)
	assert.InDelta(t, 13, totalDrivingHours(result.Activities), 0.01)
}

// S4: opening_cycle_hours already at the 70-hour ceiling forces an
// immediate 34-hour restart before any driving begins.
func TestSchedule_OpeningCycleAtLimitForcesImmediateRestart(t *testing.T) {
	s := New(hos.Default, nil)
	plan := basePlan(70)

	result, err := s.Schedule(context.Background(), plan)
	require.NoError(t, err)

	require.NotEmpty(t, result.Stops)
	assert.Equal(t, trip.StopRestart34Hr, result.Stops[0].Kind)
	assert.Equal(t, plan.StartPlace, result.Stops[0].Place, "initialization restart must stay at start_place, never snap to a rest stop")
	require.True(t, len(result.Stops) > 1)
	assert.Equal(t, trip.StopStart, result.Stops[1].Kind)
	assert.Equal(t, plan.StartPlace, result.Stops[1].Place, "the START stop must also be at start_place, not wherever the restart snapped to")
}

// Boundary: opening_cycle_hours of exactly 0 and exactly 70 are both
// within the valid [0, 70] range and must not error.
func TestSchedule_OpeningCycleBoundaries(t *testing.T) {
	s := New(hos.Default, nil)
	for _, hours := range []float64{0, 65, 70} {
		_, err := s.Schedule(context.Background(), basePlan(hours))
		assert.NoError(t, err, "opening_cycle_hours=%v should be valid", hours)
	}
}

// Plan.Validate rejects opening_cycle_hours outside [0, 70].
func TestSchedule_OpeningCycleOutOfRangeRejected(t *testing.T) {
	s := New(hos.Default, nil)
	_, err := s.Schedule(context.Background(), basePlan(70.5))
	assert.Error(t, err)

	_, err = s.Schedule(context.Background(), basePlan(-1))
	assert.Error(t, err)
}

// A trip under an hour produces driving activity but no interruption
// stops at all.
func TestSchedule_SubHourTrip(t *testing.T) {
	s := New(hos.Default, nil)
	plan := basePlan(0)
	plan.SegToPickup = seg(5, 0.1)
	plan.SegToDropoff = seg(10, 0.2)

	result, err := s.Schedule(context.Background(), plan)
	require.NoError(t, err)

	for _, stop := range result.Stops {
		assert.NotEqual(t, trip.StopBreak30Min, stop.Kind)
		assert.NotEqual(t, trip.StopRest10Hr, stop.Kind)
		assert.NotEqual(t, trip.StopRestart34Hr, stop.Kind)
	}
}

// A zero-distance pickup segment (current location == pickup location)
// skips the driving loop entirely but still emits the PICKUP stop.
func TestSchedule_ZeroDistancePickupSegment(t *testing.T) {
	s := New(hos.Default, nil)
	plan := basePlan(0)
	plan.SegToPickup = seg(0, 0)

	result, err := s.Schedule(context.Background(), plan)
	require.NoError(t, err)

	var sawPickup bool
	for i, stop := range result.Stops {
		if stop.Kind == trip.StopPickup {
			sawPickup = true
			// pickup must immediately follow START with no driving activity
			// between them for a zero-distance leg.
			assert.Equal(t, result.Stops[i-1].Kind, trip.StopStart)
		}
	}
	assert.True(t, sawPickup)
}

// Stops and activities returned by Schedule are internally consistent:
// ordinals are monotonic and arrival never precedes the prior departure.
func TestSchedule_StopSequenceIsValid(t *testing.T) {
	s := New(hos.Default, nil)
	plan := basePlan(0)
	plan.SegToDropoff = seg(900, 15)

	result, err := s.Schedule(context.Background(), plan)
	require.NoError(t, err)
	require.NoError(t, trip.ValidateSequence(result.Stops))
}
