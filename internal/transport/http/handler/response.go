package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/saan-system/hos-trip-service/internal/apperr"
)

// APIResponse represents a standard success response
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// errorEnvelope is the uniform error shape returned by every failing
// endpoint: a human-readable message at the top level, the apperr Kind as
// code, and structured (not stringified) details.
type errorEnvelope struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// writeJSONResponse writes a JSON response
func writeJSONResponse(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	requestID := getRequestID(r)

	response := APIResponse{
		Success:   statusCode < 400,
		Data:      data,
		RequestID: requestID,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// writeErrorResponse writes the uniform error envelope.
func writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, code, message string, details map[string]any) {
	response := errorEnvelope{
		Error:   message,
		Code:    code,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// getRequestID extracts request ID from context
func getRequestID(r *http.Request) string {
	if requestID := r.Context().Value("request_id"); requestID != nil {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return uuid.New().String()
}

// parseUUID parses UUID from string
func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// Common error responses
func writeBadRequestError(w http.ResponseWriter, r *http.Request, message string) {
	writeErrorResponse(w, r, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

func writeUnauthorizedError(w http.ResponseWriter, r *http.Request) {
	writeErrorResponse(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required", nil)
}

// writeAppError maps an apperr.Error (or any error, falling back to
// KindInternal) to the uniform error envelope, using ToHTTPStatus as the
// single place a Kind becomes a status code.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		writeErrorResponse(w, r, http.StatusInternalServerError, string(apperr.KindInternal), "internal server error", map[string]any{"cause": err.Error()})
		return
	}

	writeErrorResponse(w, r, appErr.ToHTTPStatus(), string(appErr.Kind), appErr.Message, appErr.Details)
}
