package handler

import (
	"net/http"
	"strconv"

	"github.com/saan-system/hos-trip-service/internal/application"
)

// GeocodeHandler implements `GET /geocode`.
type GeocodeHandler struct {
	geocode *application.GeocodeUseCase
}

// NewGeocodeHandler builds a GeocodeHandler.
func NewGeocodeHandler(geocode *application.GeocodeUseCase) *GeocodeHandler {
	return &GeocodeHandler{geocode: geocode}
}

// Search handles GET /geocode?address=...&limit=...
func (h *GeocodeHandler) Search(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	places, err := h.geocode.Search(r.Context(), address, limit)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSONResponse(w, r, http.StatusOK, map[string]any{"results": places})
}
