package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/saan-system/hos-trip-service/internal/cache"
	"github.com/saan-system/hos-trip-service/internal/events"
)

// HealthHandler handles health/readiness check endpoints, wired to the
// real database/cache/event-bus dependencies rather than a static "ok"
// stub.
type HealthHandler struct {
	startTime time.Time
	db        *sqlx.DB
	cache     *cache.Cache
	publisher *events.Publisher
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sqlx.DB, c *cache.Cache, publisher *events.Publisher) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		db:        db,
		cache:     c,
		publisher: publisher,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

// ReadinessResponse represents the readiness check response.
type ReadinessResponse struct {
	Status     string            `json:"status"`
	Service    string            `json:"service"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// Health returns the liveness status of the service.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Service:   "hos-trip-service",
		Timestamp: time.Now(),
		Uptime:    time.Since(h.startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// Ready checks each dependency and reports readiness.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := map[string]string{
		"database": componentStatus(h.db.PingContext(ctx)),
		"redis":    componentStatus(h.cache.Health(ctx)),
		"kafka":    componentStatus(h.publisher.Health(ctx)),
	}

	status := "ready"
	for _, componentStatus := range components {
		if componentStatus != "ok" {
			status = "not_ready"
			break
		}
	}

	response := ReadinessResponse{
		Status:     status,
		Service:    "hos-trip-service",
		Timestamp:  time.Now(),
		Components: components,
	}

	statusCode := http.StatusOK
	if status != "ready" {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

func componentStatus(err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
