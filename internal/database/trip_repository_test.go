package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saan-system/hos-trip-service/internal/geo"
	"github.com/saan-system/hos-trip-service/internal/hos"
	"github.com/saan-system/hos-trip-service/internal/repository"
	"github.com/saan-system/hos-trip-service/internal/trip"
)

// requireTestDB skips unless TEST_DATABASE_URL points at a reachable
// Postgres instance with the trips/trip_stops/trip_daily_ledgers schema
// already applied — these are round-trip integration tests, not unit
// tests, verifying a persisted trip round-trips byte-for-byte.
func requireTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping repository integration test")
	}
	db, err := NewConnection(url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func namedPlace(name string, lat, lng float64) geo.NamedPlace {
	return geo.NewNamedPlace(name, name, geo.Coordinate{Lat: lat, Lng: lng})
}

func sampleTrip(ownerID uuid.UUID) *trip.Trip {
	start := time.Date(2026, 1, 5, 6, 0, 0, 0, time.UTC)
	stops := []trip.Stop{
		{
			Ordinal:   1,
			Kind:      trip.StopStart,
			Place:     namedPlace("current", 39.0, -94.0),
			Arrival:   start,
			Departure: start.Add(30 * time.Minute),
			Activity:  "Pre-trip inspection",
			Status:    hos.OnDutyNotDriving,
		},
	}
	ledgers := []trip.DailyLedger{
		{
			Date:          start,
			DayNumber:     1,
			Timezone:      "UTC",
			StartLocation: "current",
			EndLocation:   "dropoff",
			TotalMiles:    250,
			Hours:         trip.HourTotals{OffDutyHours: 10, DrivingHours: 10, OnDutyHours: 4},
			Entries:       []trip.LedgerEntry{{Status: hos.Driving, Start: start, End: start.Add(10 * time.Hour)}},
			Remarks:       []trip.Remark{{Time: start, Location: "current", Activity: "Pre-trip inspection"}},
		},
	}
	summary := trip.Summary{
		TotalDistanceMiles:  250,
		TotalDrivingHours:   10,
		TotalDays:           1,
		CycleHoursUsed:      10,
		CycleHoursRemaining: 60,
		StopKindCounts:      map[trip.StopKind]int{trip.StopStart: 1},
		StartTime:           start,
		EndTime:             start.Add(14 * time.Hour),
	}

	return trip.NewTrip(
		ownerID,
		namedPlace("current", 39.0, -94.0),
		namedPlace("pickup", 39.5, -94.5),
		namedPlace("dropoff", 41.0, -96.0),
		10,
		"encoded-polyline",
		stops,
		ledgers,
		summary,
	)
}

func TestTripRepository_CreateGetDeleteRoundTrip(t *testing.T) {
	db := requireTestDB(t)
	repo := NewTripRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	want := sampleTrip(ownerID)

	require.NoError(t, repo.Create(ctx, want))
	t.Cleanup(func() { _ = repo.Delete(ctx, want.ID) })

	got, err := repo.GetByID(ctx, want.ID)
	require.NoError(t, err)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.OwnerID, got.OwnerID)
	assert.Equal(t, want.CurrentPlace, got.CurrentPlace)
	assert.Equal(t, want.PickupPlace, got.PickupPlace)
	assert.Equal(t, want.DropoffPlace, got.DropoffPlace)
	assert.Equal(t, want.StartingCycleHours, got.StartingCycleHours)
	assert.Equal(t, want.Polyline, got.Polyline)
	assert.Equal(t, want.Summary, got.Summary)
	require.Len(t, got.Stops, 1)
	assert.Equal(t, want.Stops[0].Kind, got.Stops[0].Kind)
	require.Len(t, got.DailyLogs, 1)
	assert.Equal(t, want.DailyLogs[0].Hours, got.DailyLogs[0].Hours)

	require.NoError(t, repo.Delete(ctx, want.ID))
	_, err = repo.GetByID(ctx, want.ID)
	assert.ErrorIs(t, err, repository.ErrTripNotFound)
}

func TestTripRepository_ListByOwnerFiltersAndPaginates(t *testing.T) {
	db := requireTestDB(t)
	repo := NewTripRepository(db)
	ctx := context.Background()

	ownerA := uuid.New()
	ownerB := uuid.New()

	tripA1 := sampleTrip(ownerA)
	tripA2 := sampleTrip(ownerA)
	tripB1 := sampleTrip(ownerB)

	for _, tr := range []*trip.Trip{tripA1, tripA2, tripB1} {
		require.NoError(t, repo.Create(ctx, tr))
		id := tr.ID
		t.Cleanup(func() { _ = repo.Delete(ctx, id) })
	}

	results, err := repo.ListByOwner(ctx, ownerA, 10, 0)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, ownerA, r.OwnerID)
	}
}

func TestTripRepository_DeleteNonexistentReturnsNotFound(t *testing.T) {
	db := requireTestDB(t)
	repo := NewTripRepository(db)

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrTripNotFound)
}
