// Package scheduler implements the HOS Scheduler, the core state machine
// that consumes a two-segment routed trip plan and emits a legal
// stop/activity timeline plus summary totals.
//
// The scheduler is deterministic and pure: no time.Now() calls, no shared
// mutable state, safe for concurrent use across requests.
package scheduler

import (
	"context"
	"math"
	"time"

	"github.com/saan-system/hos-trip-service/internal/apperr"
	"github.com/saan-system/hos-trip-service/internal/geo"
	"github.com/saan-system/hos-trip-service/internal/hos"
	"github.com/saan-system/hos-trip-service/internal/reststop"
	"github.com/saan-system/hos-trip-service/internal/routing"
	"github.com/saan-system/hos-trip-service/internal/trip"
)

// epsilonHours absorbs float64 drift when comparing accumulated hours
// against a limit; one tenth of a second.
const epsilonHours = 1.0 / 36000.0

// Plan is the scheduler's input contract.
type Plan struct {
	StartTime         time.Time
	StartPlace        geo.NamedPlace
	PickupPlace       geo.NamedPlace
	DropoffPlace      geo.NamedPlace
	SegToPickup       routing.Segment
	SegToDropoff      routing.Segment
	OpeningCycleHours float64
}

// Validate enforces the opening_cycle_hours range invariant:
// 0 <= opening_cycle_hours <= 70.
func (p Plan) Validate(rules hos.Rules) error {
	if p.OpeningCycleHours < 0 || p.OpeningCycleHours > rules.CycleLimitHours {
		return apperr.New(apperr.KindValidation, "current_cycle_hours must be between 0 and 70").
			WithDetails(map[string]any{"field": "current_cycle_hours"})
	}
	if p.SegToPickup.DistanceMiles < 0 || p.SegToPickup.DurationHours < 0 {
		return apperr.New(apperr.KindValidation, "seg_to_pickup distance and duration must be non-negative")
	}
	if p.SegToDropoff.DistanceMiles < 0 || p.SegToDropoff.DurationHours < 0 {
		return apperr.New(apperr.KindValidation, "seg_to_dropoff distance and duration must be non-negative")
	}
	return nil
}

// Result is the scheduler's output contract.
type Result struct {
	Stops      []trip.Stop
	Activities []trip.Activity
}

// Scheduler runs the HOS state machine against a Rules table and a
// RestStopLocator.
type Scheduler struct {
	rules   hos.Rules
	locator reststop.Locator
}

// New builds a Scheduler. locator may be nil, in which case every
// rest-stop insertion falls back to the synthetic placeholder.
func New(rules hos.Rules, locator reststop.Locator) *Scheduler {
	return &Scheduler{rules: rules, locator: locator}
}

// run is the mutable cursor state carried through scheduling: now,
// drive_today, window_start, drive_since_break, cycle_used,
// miles_since_fuel, position.
type run struct {
	rules   hos.Rules
	locator reststop.Locator

	now             time.Time
	driveToday      float64
	windowStart     *time.Time
	driveSinceBreak float64
	cycleUsed       float64
	milesSinceFuel  float64
	position        geo.NamedPlace

	ordinal    int
	stops      []trip.Stop
	activities []trip.Activity
}

// Schedule executes the state machine against plan and returns the
// resulting stop/activity timeline. ctx bounds any rest-stop locator
// calls made while snapping rest positions.
func (s *Scheduler) Schedule(ctx context.Context, plan Plan) (Result, error) {
	if err := plan.Validate(s.rules); err != nil {
		return Result{}, err
	}

	r := &run{
		rules:    s.rules,
		locator:  s.locator,
		now:      plan.StartTime,
		cycleUsed: plan.OpeningCycleHours,
		position: plan.StartPlace,
	}

	if r.cycleUsed >= s.rules.CycleLimitHours-epsilonHours {
		r.emitInitialRestart()
	}

	// 1. START + pre-trip inspection. Opens the window.
	r.windowStart = timePtr(r.now)
	r.emitFixed(trip.StopStart, r.position, s.rules.PreTripHours, hos.OnDutyNotDriving, "Pre-trip inspection")

	// 2. Drive start -> pickup.
	if err := r.driveSegment(ctx, plan.SegToPickup, plan.PickupPlace, "Driving to pickup location"); err != nil {
		return Result{}, err
	}
	r.position = plan.PickupPlace

	// 3. PICKUP.
	r.emitFixed(trip.StopPickup, plan.PickupPlace, s.rules.PickupHours, hos.OnDutyNotDriving, "Loading cargo")

	// 4. Drive pickup -> dropoff.
	if err := r.driveSegment(ctx, plan.SegToDropoff, plan.DropoffPlace, "Driving to dropoff location"); err != nil {
		return Result{}, err
	}
	r.position = plan.DropoffPlace

	// 5. DROPOFF.
	r.emitFixed(trip.StopDropoff, plan.DropoffPlace, s.rules.DropoffHours, hos.OnDutyNotDriving, "Unloading cargo")

	// 6. END_POST_TRIP. Closes the window.
	r.emitFixed(trip.StopEndPostTrip, plan.DropoffPlace, s.rules.PostTripHours, hos.OnDutyNotDriving, "Post-trip inspection")
	r.windowStart = nil

	return Result{Stops: r.stops, Activities: r.activities}, nil
}

func timePtr(t time.Time) *time.Time { return &t }

// emitFixed appends a fixed-duration Stop and matching Activity and
// advances now by duration hours.
func (r *run) emitFixed(kind trip.StopKind, place geo.NamedPlace, durationHours float64, status hos.DutyStatus, description string) {
	start := r.now
	end := start.Add(hoursToDuration(durationHours))

	r.activities = append(r.activities, trip.Activity{
		Status:      status,
		Start:       start,
		End:         end,
		Description: description,
		Place:       &place,
	})

	r.ordinal++
	r.stops = append(r.stops, trip.Stop{
		Ordinal:   r.ordinal,
		Kind:      kind,
		Place:     place,
		Arrival:   start,
		Departure: end,
		Activity:  description,
		Status:    status,
	})

	r.now = end
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

// snapPlace asks the locator for a named place near coord, falling back
// to the synthetic placeholder on any failure; never fatal.
func (r *run) snapPlace(ctx context.Context, coord geo.Coordinate, kind reststop.StopKind) geo.NamedPlace {
	if r.locator == nil {
		return reststop.Placeholder(coord)
	}
	place, err := r.locator.Locate(ctx, coord, kind)
	if err != nil {
		return reststop.Placeholder(coord)
	}
	return place
}

// emitInitialRestart inserts the RESTART_34HR required when
// opening_cycle_hours already meets the cycle limit. No driving has
// happened yet, so the restart is emitted at start_place itself — no
// locator snapping, and position does not move.
func (r *run) emitInitialRestart() {
	r.emitFixed(trip.StopRestart34Hr, r.position, r.rules.RestartDurationHours, hos.OffDuty, "34-hour restart")
	r.cycleUsed = 0
	r.driveToday = 0
	r.driveSinceBreak = 0
	r.windowStart = nil
}

// emitRestart inserts an in-loop RESTART_34HR stop, snapped to a nearby
// rest-stop place, triggered by the priority-1 tie-break once driving is
// underway.
func (r *run) emitRestart(ctx context.Context) {
	place := r.snapPlace(ctx, r.position.Coordinate, reststop.KindRest)
	r.emitFixed(trip.StopRestart34Hr, place, r.rules.RestartDurationHours, hos.OffDuty, "34-hour restart")
	r.position = place
	r.cycleUsed = 0
	r.driveToday = 0
	r.driveSinceBreak = 0
	r.windowStart = nil
}

// emitRest10 inserts a 10-hour reset.
func (r *run) emitRest10(ctx context.Context) {
	place := r.snapPlace(ctx, r.position.Coordinate, reststop.KindRest)
	r.emitFixed(trip.StopRest10Hr, place, r.rules.OffDutyResetHours, hos.OffDuty, "10-hour rest break")
	r.position = place
	r.driveToday = 0
	r.driveSinceBreak = 0
	r.windowStart = nil
}

// emitBreak inserts a 30-minute qualifying break. It does not reset the
// on-duty window: only drive_since_break clears.
func (r *run) emitBreak(ctx context.Context) {
	place := r.snapPlace(ctx, r.position.Coordinate, reststop.KindRest)
	r.emitFixed(trip.StopBreak30Min, place, r.rules.BreakDurationHours, hos.OnDutyNotDriving, "30-minute break")
	r.position = place
	r.driveSinceBreak = 0
}

// emitFuel inserts a fueling stop.
func (r *run) emitFuel(ctx context.Context) {
	place := r.snapPlace(ctx, r.position.Coordinate, reststop.KindFuel)
	r.emitFixed(trip.StopFuel, place, r.rules.FuelingHours, hos.OnDutyNotDriving, "Fueling")
	r.position = place
	r.milesSinceFuel = 0
}

// windowElapsedHours returns the elapsed on-duty window, or 0 if the
// window is closed.
func (r *run) windowElapsedHours() float64 {
	if r.windowStart == nil {
		return 0
	}
	return r.now.Sub(*r.windowStart).Hours()
}

// availableHours computes the four-term clamped minimum across the
// cycle, drive, window, and break limits.
func (r *run) availableHours() float64 {
	cycleTerm := r.rules.CycleLimitHours - r.cycleUsed
	driveTerm := r.rules.DrivingLimitHours - r.driveToday
	breakTerm := r.rules.BreakAfterHours - r.driveSinceBreak

	windowTerm := math.Inf(1)
	if r.windowStart != nil {
		windowTerm = r.rules.OnDutyWindowHours - r.windowElapsedHours()
	}

	available := math.Min(math.Min(driveTerm, windowTerm), math.Min(breakTerm, cycleTerm))
	return math.Max(available, 0)
}

// resolveBindingLimit applies the strict tie-break priority when
// available hours hit 0: cycle restart outranks a 10-hour reset, which
// outranks a qualifying break.
func (r *run) resolveBindingLimit(ctx context.Context) {
	switch {
	case r.cycleUsed >= r.rules.CycleLimitHours-epsilonHours:
		r.emitRestart(ctx)
	case r.driveToday >= r.rules.DrivingLimitHours-epsilonHours || r.windowElapsedHours() >= r.rules.OnDutyWindowHours-epsilonHours:
		r.emitRest10(ctx)
	default:
		r.emitBreak(ctx)
	}
}

// driveSegment drives the un-driven portion of seg toward destination,
// inserting rest/break/fuel/restart stops as the four limits require.
func (r *run) driveSegment(ctx context.Context, seg routing.Segment, destination geo.NamedPlace, activityDesc string) error {
	if seg.DistanceMiles <= 0 && seg.DurationHours <= 0 {
		return nil // identical coordinates; no driving for this segment
	}

	speed := seg.AverageSpeedMPH()
	path, err := routing.DecodePolyline(seg.Polyline)
	if err != nil || len(path) < 2 {
		path = []geo.Coordinate{r.position.Coordinate, destination.Coordinate}
	}

	hoursRemaining := seg.DurationHours

	if r.windowStart == nil {
		r.windowStart = timePtr(r.now)
	}

	for hoursRemaining > epsilonHours {
		available := r.availableHours()

		if available <= epsilonHours {
			r.resolveBindingLimit(ctx)
			if r.windowStart == nil {
				r.windowStart = timePtr(r.now)
			}
			continue
		}

		if r.milesSinceFuel >= r.rules.FuelIntervalMiles && available >= r.rules.FuelingHours {
			r.emitFuel(ctx)
			available -= r.rules.FuelingHours
			if available <= epsilonHours {
				continue
			}
		}

		t := math.Min(available, hoursRemaining)
		if t <= epsilonHours {
			continue
		}

		start := r.now
		r.now = r.now.Add(hoursToDuration(t))

		r.activities = append(r.activities, trip.Activity{
			Status:      hos.Driving,
			Start:       start,
			End:         r.now,
			Description: activityDesc,
		})

		r.driveToday += t
		r.driveSinceBreak += t
		r.cycleUsed += t
		hoursRemaining -= t

		fraction := 1.0
		if seg.DurationHours > 0 {
			fraction = 1 - hoursRemaining/seg.DurationHours
		}
		r.position = geo.NewNamedPlace(destination.Address, destination.DisplayName,
			geo.InterpolateAlongPath(path, fraction))
		r.milesSinceFuel += t * speed
	}

	return nil
}
