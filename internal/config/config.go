// Package config loads process configuration from the environment using
// plain os.Getenv-with-default, no third-party config library required.
package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPListenAddr         string
	DatabaseURL            string
	RedisURL               string
	KafkaBrokers           []string
	KafkaTopic             string
	ServiceName            string
	AllowedOrigins         []string
	NominatimBaseURL       string
	RouterBaseURL          string
	OverpassBaseURL        string
	JWTSigningKey          string
	BcryptCost             int
	AccessTokenTTLSeconds  int
	RefreshTokenTTLSeconds int
	RequestDeadlineSeconds int
}

func Load() *Config {
	return &Config{
		HTTPListenAddr:         getEnv("HTTP_LISTEN_ADDR", ":8000"),
		DatabaseURL:            getEnv("DATABASE_URL", "postgres://localhost/hos_trip?sslmode=disable"),
		RedisURL:               getEnv("REDIS_URL", "redis://localhost:6379"),
		KafkaBrokers:           strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:             getEnv("KAFKA_TOPIC", "hos-trip.events"),
		ServiceName:            getEnv("SERVICE_NAME", "hos-trip-service"),
		AllowedOrigins:         strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		NominatimBaseURL:       getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		RouterBaseURL:          getEnv("ROUTER_BASE_URL", "https://router.project-osrm.org"),
		OverpassBaseURL:        getEnv("OVERPASS_BASE_URL", "https://overpass-api.de/api/interpreter"),
		JWTSigningKey:          getEnv("JWT_SIGNING_KEY", "development-signing-key-change-me"),
		BcryptCost:             getEnvInt("BCRYPT_COST", 12),
		AccessTokenTTLSeconds:  getEnvInt("ACCESS_TOKEN_TTL_SECONDS", 15*60),
		RefreshTokenTTLSeconds: getEnvInt("REFRESH_TOKEN_TTL_SECONDS", 30*24*60*60),
		RequestDeadlineSeconds: getEnvInt("REQUEST_DEADLINE_SECONDS", 30),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
