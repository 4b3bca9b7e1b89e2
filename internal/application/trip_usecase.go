// Package application orchestrates the collaborators into the single
// `calculate` data flow: geocode three addresses concurrently, route the
// two legs they imply, run the HOS Scheduler, project daily ledgers,
// persist the result and publish a domain event, following the same
// mutate+persist+publish ordering used elsewhere in this codebase for
// route creation.
package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/saan-system/hos-trip-service/internal/apperr"
	"github.com/saan-system/hos-trip-service/internal/events"
	"github.com/saan-system/hos-trip-service/internal/geo"
	"github.com/saan-system/hos-trip-service/internal/geocode"
	"github.com/saan-system/hos-trip-service/internal/hos"
	"github.com/saan-system/hos-trip-service/internal/logprojector"
	"github.com/saan-system/hos-trip-service/internal/repository"
	"github.com/saan-system/hos-trip-service/internal/routing"
	"github.com/saan-system/hos-trip-service/internal/scheduler"
	"github.com/saan-system/hos-trip-service/internal/trip"
	"github.com/saan-system/hos-trip-service/internal/tzapprox"
)

// GeocodeUseCase implements the `GET /geocode` passthrough.
type GeocodeUseCase struct {
	geocoder geocode.Geocoder
}

// NewGeocodeUseCase builds a GeocodeUseCase over geocoder.
func NewGeocodeUseCase(geocoder geocode.Geocoder) *GeocodeUseCase {
	return &GeocodeUseCase{geocoder: geocoder}
}

// Search returns up to limit candidate places for address.
func (uc *GeocodeUseCase) Search(ctx context.Context, address string, limit int) ([]geo.NamedPlace, error) {
	if address == "" {
		return nil, apperr.New(apperr.KindValidation, "address query parameter is required")
	}
	if limit <= 0 {
		limit = 5
	}
	return uc.geocoder.Search(ctx, address, limit)
}

// CalculateRequest is the `POST /trips/calculate` request body.
type CalculateRequest struct {
	CurrentLocation   string    `json:"current_location"`
	PickupLocation    string    `json:"pickup_location"`
	DropoffLocation   string    `json:"dropoff_location"`
	CurrentCycleHours float64   `json:"current_cycle_hours"`
	StartTime         time.Time `json:"start_time"`
}

// Validate checks the request-shape invariants that belong at the use-case
// boundary, before any adapter is called.
func (req CalculateRequest) Validate() error {
	if req.CurrentLocation == "" || req.PickupLocation == "" || req.DropoffLocation == "" {
		return apperr.New(apperr.KindValidation, "current_location, pickup_location and dropoff_location are required")
	}
	if req.CurrentCycleHours < 0 || req.CurrentCycleHours > hos.Default.CycleLimitHours {
		return apperr.New(apperr.KindValidation, "current_cycle_hours must be between 0 and 70").
			WithDetails(map[string]any{"field": "current_cycle_hours"})
	}
	return nil
}

// TripUseCase implements the `calculate` flow.
type TripUseCase struct {
	geocoder  geocode.Geocoder
	router    routing.Router
	scheduler *scheduler.Scheduler
	trips     repository.TripRepository
	publisher *events.Publisher
	rules     hos.Rules
}

// NewTripUseCase wires the four collaborators plus persistence/publishing.
func NewTripUseCase(geocoder geocode.Geocoder, router routing.Router, sched *scheduler.Scheduler, trips repository.TripRepository, publisher *events.Publisher, rules hos.Rules) *TripUseCase {
	return &TripUseCase{
		geocoder:  geocoder,
		router:    router,
		scheduler: sched,
		trips:     trips,
		publisher: publisher,
		rules:     rules,
	}
}

// CalculateResult bundles the persisted Trip with the two routed
// segments — the segments themselves are not part of the persisted
// aggregate (see Trip), so they travel alongside it only for the
// `calculate` response.
type CalculateResult struct {
	Trip         *trip.Trip
	SegToPickup  routing.Segment
	SegToDropoff routing.Segment
}

// Calculate runs the full pipeline and persists the resulting Trip. Every
// successful call persists its Trip and publishes a domain event.
func (uc *TripUseCase) Calculate(ctx context.Context, ownerID uuid.UUID, req CalculateRequest) (*CalculateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	startTime := req.StartTime
	if startTime.IsZero() {
		startTime = time.Now()
	}

	current, pickup, dropoff, err := uc.geocodeAll(ctx, req)
	if err != nil {
		return nil, err
	}

	segToPickup, segToDropoff, err := uc.routeBothLegs(ctx, current, pickup, dropoff)
	if err != nil {
		return nil, err
	}

	plan := scheduler.Plan{
		StartTime:         startTime,
		StartPlace:        current,
		PickupPlace:       pickup,
		DropoffPlace:      dropoff,
		SegToPickup:       segToPickup,
		SegToDropoff:      segToDropoff,
		OpeningCycleHours: req.CurrentCycleHours,
	}

	result, err := uc.scheduler.Schedule(ctx, plan)
	if err != nil {
		return nil, err
	}

	zone := tzapprox.Resolve(current.Coordinate)
	totalMiles := segToPickup.DistanceMiles + segToDropoff.DistanceMiles
	ledgers, err := logprojector.Project(result.Activities, zone, totalMiles)
	if err != nil {
		return nil, err
	}

	summary := buildSummary(result, ledgers, uc.rules, plan.OpeningCycleHours, totalMiles)
	polyline := fullRoutePolyline(segToPickup, segToDropoff)

	t := trip.NewTrip(ownerID, current, pickup, dropoff, req.CurrentCycleHours, polyline, result.Stops, ledgers, summary)

	if err := uc.trips.Create(ctx, t); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to persist trip", err)
	}

	if uc.publisher != nil {
		_ = uc.publisher.PublishTripEvent(ctx, t.ID, events.TripCalculated, map[string]any{
			"trip_id":              t.ID.String(),
			"owner_id":             ownerID.String(),
			"total_distance_miles": summary.TotalDistanceMiles,
			"total_days":           summary.TotalDays,
			"created_at":           t.CreatedAt,
		})
	}

	return &CalculateResult{Trip: t, SegToPickup: segToPickup, SegToDropoff: segToDropoff}, nil
}

// geocodeAll resolves the three addresses concurrently.
func (uc *TripUseCase) geocodeAll(ctx context.Context, req CalculateRequest) (current, pickup, dropoff geo.NamedPlace, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		place, err := uc.geocoder.Geocode(gctx, req.CurrentLocation)
		current = place
		return err
	})
	g.Go(func() error {
		place, err := uc.geocoder.Geocode(gctx, req.PickupLocation)
		pickup = place
		return err
	})
	g.Go(func() error {
		place, err := uc.geocoder.Geocode(gctx, req.DropoffLocation)
		dropoff = place
		return err
	})

	if err := g.Wait(); err != nil {
		return geo.NamedPlace{}, geo.NamedPlace{}, geo.NamedPlace{}, err
	}
	return current, pickup, dropoff, nil
}

// routeBothLegs sequences the two Router calls after geocoding completes,
// since both depend on geocoded output, running them concurrently with
// each other via errgroup since neither depends on the other's result.
func (uc *TripUseCase) routeBothLegs(ctx context.Context, current, pickup, dropoff geo.NamedPlace) (routing.Segment, routing.Segment, error) {
	var segToPickup, segToDropoff routing.Segment
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		seg, err := uc.router.Route(gctx, current, pickup)
		segToPickup = seg
		return err
	})
	g.Go(func() error {
		seg, err := uc.router.Route(gctx, pickup, dropoff)
		segToDropoff = seg
		return err
	})

	if err := g.Wait(); err != nil {
		return routing.Segment{}, routing.Segment{}, err
	}
	return segToPickup, segToDropoff, nil
}

func buildSummary(result scheduler.Result, ledgers []trip.DailyLedger, rules hos.Rules, openingCycleHours, totalMiles float64) trip.Summary {
	totalDriving := 0.0
	for _, l := range ledgers {
		totalDriving += l.Hours.DrivingHours
	}

	counts := make(map[trip.StopKind]int)
	for _, s := range result.Stops {
		counts[s.Kind]++
	}

	cycleUsed := openingCycleHours + totalDriving
	if cycleUsed > rules.CycleLimitHours {
		cycleUsed = rules.CycleLimitHours
	}

	var start, end time.Time
	if len(result.Activities) > 0 {
		start = result.Activities[0].Start
		end = result.Activities[len(result.Activities)-1].End
	}

	return trip.Summary{
		TotalDistanceMiles:  totalMiles,
		TotalDrivingHours:   totalDriving,
		TotalDays:           len(ledgers),
		CycleHoursUsed:      cycleUsed,
		CycleHoursRemaining: rules.CycleLimitHours - cycleUsed,
		StopKindCounts:      counts,
		StartTime:           start,
		EndTime:             end,
	}
}

const defaultListLimit = 20

// List returns ownerID's trips newest-first, truncated fields.
func (uc *TripUseCase) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*trip.Trip, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	trips, err := uc.trips.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list trips", err)
	}
	return trips, nil
}

// Get returns a single trip, enforcing ownership — not-owned and
// not-found are indistinguishable to the caller.
func (uc *TripUseCase) Get(ctx context.Context, ownerID, tripID uuid.UUID) (*trip.Trip, error) {
	t, err := uc.trips.GetByID(ctx, tripID)
	if err != nil {
		if err == repository.ErrTripNotFound {
			return nil, apperr.New(apperr.KindNotFound, "trip not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load trip", err)
	}
	if t.OwnerID != ownerID {
		return nil, apperr.New(apperr.KindNotFound, "trip not found")
	}
	return t, nil
}

// Delete removes a trip, enforcing ownership, and publishes trip.deleted.
func (uc *TripUseCase) Delete(ctx context.Context, ownerID, tripID uuid.UUID) error {
	if _, err := uc.Get(ctx, ownerID, tripID); err != nil {
		return err
	}
	if err := uc.trips.Delete(ctx, tripID); err != nil {
		if err == repository.ErrTripNotFound {
			return apperr.New(apperr.KindNotFound, "trip not found")
		}
		return apperr.Wrap(apperr.KindInternal, "failed to delete trip", err)
	}
	if uc.publisher != nil {
		_ = uc.publisher.PublishTripEvent(ctx, tripID, events.TripDeleted, map[string]any{
			"trip_id":  tripID.String(),
			"owner_id": ownerID.String(),
		})
	}
	return nil
}

// fullRoutePolyline re-encodes the concatenated decoded path of both legs
// into a single polyline for the `route.polyline` response field. Falls
// back to an empty string if either leg's polyline fails to decode — the
// per-segment polylines remain available on the Segment values themselves
// for anything that needs them.
func fullRoutePolyline(segToPickup, segToDropoff routing.Segment) string {
	first, err := routing.DecodePolyline(segToPickup.Polyline)
	if err != nil {
		return ""
	}
	second, err := routing.DecodePolyline(segToDropoff.Polyline)
	if err != nil {
		return ""
	}
	path := append(append([]geo.Coordinate{}, first...), second...)
	return routing.EncodePolyline(path)
}
