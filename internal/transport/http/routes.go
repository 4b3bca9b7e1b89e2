package http

import (
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/saan-system/hos-trip-service/internal/auth"
	"github.com/saan-system/hos-trip-service/internal/transport/http/handler"
	"github.com/saan-system/hos-trip-service/internal/transport/http/middleware"
)

// setupRoutes configures all HTTP routes for the HOS trip service.
func setupRoutes(
	router *mux.Router,
	tripHandler *handler.TripHandler,
	geocodeHandler *handler.GeocodeHandler,
	authHandler *handler.AuthHandler,
	healthHandler *handler.HealthHandler,
	issuer *auth.TokenIssuer,
	allowedOrigins []string,
	logger *zap.Logger,
) {
	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))

	// Health check endpoints
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/ready", healthHandler.Ready).Methods("GET")

	// Auth routes
	authRoutes := router.PathPrefix("/auth").Subrouter()
	authRoutes.HandleFunc("/register", authHandler.Register).Methods("POST")
	authRoutes.HandleFunc("/login", authHandler.Login).Methods("POST")
	authRoutes.HandleFunc("/refresh", authHandler.Refresh).Methods("POST")
	authRoutes.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	// Geocode passthrough
	router.HandleFunc("/geocode", geocodeHandler.Search).Methods("GET")

	// Trip routes, gated behind bearer-token auth
	tripRoutes := router.PathPrefix("/trips").Subrouter()
	tripRoutes.Use(middleware.Auth(issuer))
	tripRoutes.HandleFunc("/calculate", tripHandler.Calculate).Methods("POST")
	tripRoutes.HandleFunc("", tripHandler.List).Methods("GET")
	tripRoutes.HandleFunc("/{id}", tripHandler.Get).Methods("GET")
	tripRoutes.HandleFunc("/{id}", tripHandler.Delete).Methods("DELETE")
}
