package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/saan-system/hos-trip-service/internal/application"
	"github.com/saan-system/hos-trip-service/internal/auth"
	"github.com/saan-system/hos-trip-service/internal/cache"
	"github.com/saan-system/hos-trip-service/internal/events"
	"github.com/saan-system/hos-trip-service/internal/transport/http/handler"
)

// Server represents the HTTP server.
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// NewServer creates a new HTTP server, wiring the trip/geocode/auth use
// cases into handlers and the handlers into routes.
func NewServer(
	addr string,
	tripUseCase *application.TripUseCase,
	geocodeUseCase *application.GeocodeUseCase,
	authService *auth.Service,
	issuer *auth.TokenIssuer,
	db *sqlx.DB,
	c *cache.Cache,
	publisher *events.Publisher,
	allowedOrigins []string,
	logger *zap.Logger,
) *Server {
	tripHandler := handler.NewTripHandler(tripUseCase)
	geocodeHandler := handler.NewGeocodeHandler(geocodeUseCase)
	authHandler := handler.NewAuthHandler(authService)
	healthHandler := handler.NewHealthHandler(db, c, publisher)

	router := mux.NewRouter()
	setupRoutes(router, tripHandler, geocodeHandler, authHandler, healthHandler, issuer, allowedOrigins, logger)

	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping http server")
	return s.server.Shutdown(ctx)
}
