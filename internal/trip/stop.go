package trip

import (
	"errors"
	"time"

	"github.com/saan-system/hos-trip-service/internal/geo"
	"github.com/saan-system/hos-trip-service/internal/hos"
)

// StopKind is the kind of a trip event.
type StopKind string

const (
	StopStart        StopKind = "START"
	StopPickup       StopKind = "PICKUP"
	StopDropoff      StopKind = "DROPOFF"
	StopFuel         StopKind = "FUEL"
	StopBreak30Min   StopKind = "BREAK_30MIN"
	StopRest10Hr     StopKind = "REST_10HR"
	StopRestart34Hr  StopKind = "RESTART_34HR"
	StopEndPostTrip  StopKind = "END_POST_TRIP"
)

// ErrInvalidStop is returned by Stop.Validate when departure precedes
// arrival.
var ErrInvalidStop = errors.New("stop departure precedes arrival")

// Stop is an ordered, time-bounded event along the trip that is not
// continuous driving.
type Stop struct {
	Ordinal         int            `json:"order" db:"ordinal"`
	Kind            StopKind       `json:"kind" db:"kind"`
	Place           geo.NamedPlace `json:"place" db:"-"`
	Arrival         time.Time      `json:"arrival" db:"arrival"`
	Departure       time.Time      `json:"departure" db:"departure"`
	Activity        string         `json:"activity" db:"activity"`
	Status          hos.DutyStatus `json:"status" db:"status"`
}

// DurationMinutes returns departure-arrival rounded to the nearest minute,
// ties to even.
func (s Stop) DurationMinutes() int {
	return roundMinutesTiesToEven(s.Departure.Sub(s.Arrival))
}

// Validate checks the per-stop invariant.
func (s Stop) Validate() error {
	if s.Departure.Before(s.Arrival) {
		return ErrInvalidStop
	}
	return nil
}

// ErrOutOfOrder is returned by ValidateSequence when stop ordering is
// violated.
var ErrOutOfOrder = errors.New("stops are not in monotonic order")

// ValidateSequence checks the ordered-list invariants: ordinals are
// 1-based and monotonic, and arrival[i+1] >= departure[i].
func ValidateSequence(stops []Stop) error {
	for i, s := range stops {
		if s.Ordinal != i+1 {
			return ErrOutOfOrder
		}
		if err := s.Validate(); err != nil {
			return err
		}
		if i > 0 && s.Arrival.Before(stops[i-1].Departure) {
			return ErrOutOfOrder
		}
	}
	return nil
}
