package trip

import (
	"time"

	"github.com/google/uuid"
	"github.com/saan-system/hos-trip-service/internal/geo"
)

// Trip is the persisted aggregate produced by a single `calculate`
// invocation. Immutable after insertion; deletion cascades to its Stops
// and DailyLedgers.
type Trip struct {
	ID                  uuid.UUID      `json:"trip_id" db:"id"`
	OwnerID             uuid.UUID      `json:"-" db:"owner_id"`
	CurrentPlace        geo.NamedPlace `json:"current_location" db:"-"`
	PickupPlace         geo.NamedPlace `json:"pickup_location" db:"-"`
	DropoffPlace        geo.NamedPlace `json:"dropoff_location" db:"-"`
	StartingCycleHours  float64        `json:"starting_cycle_hours" db:"starting_cycle_hours"`
	Polyline            string         `json:"polyline" db:"polyline"`
	Stops               []Stop         `json:"stops" db:"-"`
	DailyLogs           []DailyLedger  `json:"daily_logs" db:"-"`
	Summary             Summary        `json:"summary" db:"-"`
	CreatedAt           time.Time      `json:"created_at" db:"created_at"`
}

// NewTrip builds a Trip aggregate from a completed scheduling run. It does
// not validate HOS invariants itself — the scheduler and projector are
// responsible for producing a legal timeline before this constructor runs.
func NewTrip(ownerID uuid.UUID, current, pickup, dropoff geo.NamedPlace, startingCycleHours float64, polyline string, stops []Stop, logs []DailyLedger, summary Summary) *Trip {
	return &Trip{
		ID:                 uuid.New(),
		OwnerID:            ownerID,
		CurrentPlace:       current,
		PickupPlace:        pickup,
		DropoffPlace:       dropoff,
		StartingCycleHours: startingCycleHours,
		Polyline:           polyline,
		Stops:              stops,
		DailyLogs:          logs,
		Summary:            summary,
		CreatedAt:          time.Now(),
	}
}
