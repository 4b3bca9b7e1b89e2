package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/saan-system/hos-trip-service/internal/application"
	"github.com/saan-system/hos-trip-service/internal/auth"
	"github.com/saan-system/hos-trip-service/internal/cache"
	"github.com/saan-system/hos-trip-service/internal/config"
	"github.com/saan-system/hos-trip-service/internal/database"
	"github.com/saan-system/hos-trip-service/internal/events"
	"github.com/saan-system/hos-trip-service/internal/geocode"
	"github.com/saan-system/hos-trip-service/internal/hos"
	"github.com/saan-system/hos-trip-service/internal/reststop"
	"github.com/saan-system/hos-trip-service/internal/routing"
	"github.com/saan-system/hos-trip-service/internal/scheduler"
	transporthttp "github.com/saan-system/hos-trip-service/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisCache, err := cache.NewFromURL(cfg.RedisURL, cfg.ServiceName)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.ServiceName)
	defer publisher.Close()

	geocoder := geocode.NewNominatimGeocoder(cfg.NominatimBaseURL, cfg.ServiceName+"/1.0", redisCache)
	router := routing.NewOSRMRouter(cfg.RouterBaseURL, redisCache)
	restStopLocator := reststop.NewOverpassLocator(cfg.OverpassBaseURL, redisCache)
	sched := scheduler.New(hos.Default, restStopLocator)

	tripRepo := database.NewTripRepository(db)
	tripUseCase := application.NewTripUseCase(geocoder, router, sched, tripRepo, publisher, hos.Default)
	geocodeUseCase := application.NewGeocodeUseCase(geocoder)

	tokenIssuer := auth.NewTokenIssuer(
		cfg.JWTSigningKey,
		time.Duration(cfg.AccessTokenTTLSeconds)*time.Second,
		time.Duration(cfg.RefreshTokenTTLSeconds)*time.Second,
	)
	userRepo := database.NewUserRepository(db)
	refreshTokenRepo := database.NewRefreshTokenRepository(db)
	authService := auth.NewService(userRepo, refreshTokenRepo, tokenIssuer, cfg.BcryptCost)

	server := transporthttp.NewServer(
		cfg.HTTPListenAddr,
		tripUseCase,
		geocodeUseCase,
		authService,
		tokenIssuer,
		db,
		redisCache,
		publisher,
		cfg.AllowedOrigins,
		logger,
	)

	go func() {
		logger.Info("starting hos trip service", zap.String("addr", cfg.HTTPListenAddr))
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
