package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/saan-system/hos-trip-service/internal/application"
	"github.com/saan-system/hos-trip-service/internal/trip"
	"github.com/saan-system/hos-trip-service/internal/transport/http/middleware"
)

// TripHandler implements the `/trips/*` routes.
type TripHandler struct {
	trips *application.TripUseCase
}

// NewTripHandler builds a TripHandler.
func NewTripHandler(trips *application.TripUseCase) *TripHandler {
	return &TripHandler{trips: trips}
}

// Calculate handles POST /trips/calculate.
func (h *TripHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeUnauthorizedError(w, r)
		return
	}

	var req application.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestError(w, r, "invalid request body")
		return
	}

	result, err := h.trips.Calculate(r.Context(), ownerID, req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSONResponse(w, r, http.StatusOK, calculateResponseFrom(result))
}

// List handles GET /trips.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeUnauthorizedError(w, r)
		return
	}

	limit := atoiOrDefault(r.URL.Query().Get("limit"), 20)
	offset := atoiOrDefault(r.URL.Query().Get("offset"), 0)

	trips, err := h.trips.List(r.Context(), ownerID, limit, offset)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	items := make([]tripSummaryDTO, 0, len(trips))
	for _, t := range trips {
		items = append(items, tripSummaryDTOFrom(t))
	}
	writeJSONResponse(w, r, http.StatusOK, map[string]any{"trips": items})
}

// Get handles GET /trips/{id}.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeUnauthorizedError(w, r)
		return
	}

	tripID, err := parseUUID(mux.Vars(r)["id"])
	if err != nil {
		writeBadRequestError(w, r, "invalid trip id")
		return
	}

	t, err := h.trips.Get(r.Context(), ownerID, tripID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSONResponse(w, r, http.StatusOK, tripResponseFrom(t))
}

// Delete handles DELETE /trips/{id}.
func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeUnauthorizedError(w, r)
		return
	}

	tripID, err := parseUUID(mux.Vars(r)["id"])
	if err != nil {
		writeBadRequestError(w, r, "invalid trip id")
		return
	}

	if err := h.trips.Delete(r.Context(), ownerID, tripID); err != nil {
		writeAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func atoiOrDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// --- response DTOs ---

type summaryDTO struct {
	TotalDistanceMiles  float64        `json:"total_distance_miles"`
	TotalDrivingHours   float64        `json:"total_driving_hours"`
	TotalDays           int            `json:"total_days"`
	StartTime           string         `json:"start_time"`
	EndTime             string         `json:"end_time"`
	CycleHoursUsed      float64        `json:"cycle_hours_used"`
	CycleHoursRemaining float64        `json:"cycle_hours_remaining"`
	StopKindCounts      map[string]int `json:"stop_kind_counts,omitempty"`
}

type routeSegmentDTO struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	DistanceMiles float64 `json:"distance_miles"`
	DurationHours float64 `json:"duration_hours"`
}

type routeDTO struct {
	Polyline string            `json:"polyline"`
	Segments []routeSegmentDTO `json:"segments"`
}

type coordinatesDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type stopDTO struct {
	Order           int            `json:"order"`
	Kind            trip.StopKind  `json:"kind"`
	Name            string         `json:"name"`
	Address         string         `json:"address"`
	Coordinates     coordinatesDTO `json:"coordinates"`
	Arrival         string         `json:"arrival"`
	Departure       string         `json:"departure"`
	DurationMinutes int            `json:"duration_minutes"`
	Activity        string         `json:"activity"`
}

type hoursDTO struct {
	OffDuty      float64 `json:"off_duty"`
	SleeperBerth float64 `json:"sleeper_berth"`
	Driving      float64 `json:"driving"`
	OnDuty       float64 `json:"on_duty"`
}

type ledgerEntryDTO struct {
	Status   string `json:"status"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Location string `json:"location"`
	Activity string `json:"activity,omitempty"`
}

type remarkDTO struct {
	Time     string `json:"time"`
	Location string `json:"location"`
	Activity string `json:"activity"`
}

type dailyLogDTO struct {
	Day           int              `json:"day"`
	Date          string           `json:"date"`
	Timezone      string           `json:"timezone"`
	StartLocation string           `json:"start_location"`
	EndLocation   string           `json:"end_location"`
	TotalMiles    float64          `json:"total_miles"`
	Hours         hoursDTO         `json:"hours"`
	Entries       []ledgerEntryDTO `json:"entries"`
	Remarks       []remarkDTO      `json:"remarks"`
}

type tripResponseDTO struct {
	TripID    string        `json:"trip_id"`
	Summary   summaryDTO    `json:"summary"`
	Route     routeDTO      `json:"route"`
	Stops     []stopDTO     `json:"stops"`
	DailyLogs []dailyLogDTO `json:"daily_logs"`
}

type tripSummaryDTO struct {
	TripID    string     `json:"trip_id"`
	CreatedAt string     `json:"created_at"`
	Summary   summaryDTO `json:"summary"`
}

func calculateResponseFrom(result *application.CalculateResult) tripResponseDTO {
	dto := tripResponseFrom(result.Trip)
	dto.Route.Segments = []routeSegmentDTO{
		{
			From:          result.SegToPickup.Origin.DisplayName,
			To:            result.SegToPickup.Destination.DisplayName,
			DistanceMiles: result.SegToPickup.DistanceMiles,
			DurationHours: result.SegToPickup.DurationHours,
		},
		{
			From:          result.SegToDropoff.Origin.DisplayName,
			To:            result.SegToDropoff.Destination.DisplayName,
			DistanceMiles: result.SegToDropoff.DistanceMiles,
			DurationHours: result.SegToDropoff.DurationHours,
		},
	}
	return dto
}

func tripResponseFrom(t *trip.Trip) tripResponseDTO {
	stopKindCounts := make(map[string]int, len(t.Summary.StopKindCounts))
	for k, v := range t.Summary.StopKindCounts {
		stopKindCounts[string(k)] = v
	}

	stops := make([]stopDTO, 0, len(t.Stops))
	for _, s := range t.Stops {
		stops = append(stops, stopDTO{
			Order:   s.Ordinal,
			Kind:    s.Kind,
			Name:    s.Place.DisplayName,
			Address: s.Place.Address,
			Coordinates: coordinatesDTO{
				Lat: s.Place.Coordinate.Lat,
				Lng: s.Place.Coordinate.Lng,
			},
			Arrival:         s.Arrival.Format(timeLayout),
			Departure:       s.Departure.Format(timeLayout),
			DurationMinutes: s.DurationMinutes(),
			Activity:        s.Activity,
		})
	}

	logs := make([]dailyLogDTO, 0, len(t.DailyLogs))
	for _, l := range t.DailyLogs {
		entries := make([]ledgerEntryDTO, 0, len(l.Entries))
		for _, e := range l.Entries {
			entries = append(entries, ledgerEntryDTO{
				Status:   string(e.Status),
				Start:    e.Start.Format(timeLayout),
				End:      e.End.Format(timeLayout),
				Location: e.Location,
				Activity: e.Activity,
			})
		}
		remarks := make([]remarkDTO, 0, len(l.Remarks))
		for _, rem := range l.Remarks {
			remarks = append(remarks, remarkDTO{
				Time:     rem.Time.Format(timeLayout),
				Location: rem.Location,
				Activity: rem.Activity,
			})
		}
		logs = append(logs, dailyLogDTO{
			Day:           l.DayNumber,
			Date:          l.Date.Format("2006-01-02"),
			Timezone:      l.Timezone,
			StartLocation: l.StartLocation,
			EndLocation:   l.EndLocation,
			TotalMiles:    l.TotalMiles,
			Hours: hoursDTO{
				OffDuty:      l.Hours.OffDutyHours,
				SleeperBerth: l.Hours.SleeperHours,
				Driving:      l.Hours.DrivingHours,
				OnDuty:       l.Hours.OnDutyHours,
			},
			Entries: entries,
			Remarks: remarks,
		})
	}

	return tripResponseDTO{
		TripID: t.ID.String(),
		Summary: summaryDTO{
			TotalDistanceMiles:  t.Summary.TotalDistanceMiles,
			TotalDrivingHours:   t.Summary.TotalDrivingHours,
			TotalDays:           t.Summary.TotalDays,
			StartTime:           t.Summary.StartTime.Format(timeLayout),
			EndTime:             t.Summary.EndTime.Format(timeLayout),
			CycleHoursUsed:      t.Summary.CycleHoursUsed,
			CycleHoursRemaining: t.Summary.CycleHoursRemaining,
			StopKindCounts:      stopKindCounts,
		},
		Route: routeDTO{
			Polyline: t.Polyline,
		},
		Stops:     stops,
		DailyLogs: logs,
	}
}

func tripSummaryDTOFrom(t *trip.Trip) tripSummaryDTO {
	return tripSummaryDTO{
		TripID:    t.ID.String(),
		CreatedAt: t.CreatedAt.Format(timeLayout),
		Summary: summaryDTO{
			TotalDistanceMiles:  t.Summary.TotalDistanceMiles,
			TotalDrivingHours:   t.Summary.TotalDrivingHours,
			TotalDays:           t.Summary.TotalDays,
			StartTime:           t.Summary.StartTime.Format(timeLayout),
			EndTime:             t.Summary.EndTime.Format(timeLayout),
			CycleHoursUsed:      t.Summary.CycleHoursUsed,
			CycleHoursRemaining: t.Summary.CycleHoursRemaining,
		},
	}
}

const timeLayout = "2006-01-02T15:04:05Z07:00"
