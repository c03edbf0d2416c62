// Package config loads service configuration from environment variables.
package config

import (
	"os"
	"strings"
	"time"
)

// Config holds the wayfinder API configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// Environment is the deployment environment name.
	Environment string

	// TelemetryEnabled turns on OTLP export.
	TelemetryEnabled bool

	// OTLPEndpoint is the OpenTelemetry collector endpoint.
	OTLPEndpoint string

	// AdapterTimeout bounds each provider adapter call during gathering.
	AdapterTimeout time.Duration

	// UberServerToken enables live Uber price estimates.
	UberServerToken string

	// LyftClientID and LyftClientSecret enable live Lyft cost estimates.
	LyftClientID     string
	LyftClientSecret string

	// LimeGBFSURL is the free_bike_status feed for scooter availability.
	LimeGBFSURL string

	// TransitLine overrides the default transit line name.
	TransitLine string

	// NominatimBaseURL overrides the geocoding base URL.
	NominatimBaseURL string

	// AllowedOrigins lists CORS origins for browser and mobile web
	// clients. Defaults to "*"; set CORS_ALLOWED_ORIGINS to a comma
	// separated list to restrict.
	AllowedOrigins []string
}

// FromEnv creates a Config from environment variables.
func FromEnv() Config {
	adapterTimeout, err := time.ParseDuration(getEnvOrDefault("ADAPTER_TIMEOUT", "5s"))
	if err != nil {
		adapterTimeout = 5 * time.Second
	}

	return Config{
		Port:             getEnvOrDefault("APP_PORT", "8080"),
		Environment:      getEnvOrDefault("APP_ENV", "development"),
		TelemetryEnabled: os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint:     getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		AdapterTimeout:   adapterTimeout,
		UberServerToken:  os.Getenv("UBER_SERVER_TOKEN"),
		LyftClientID:     os.Getenv("LYFT_CLIENT_ID"),
		LyftClientSecret: os.Getenv("LYFT_CLIENT_SECRET"),
		LimeGBFSURL:      os.Getenv("LIME_GBFS_URL"),
		TransitLine:      os.Getenv("TRANSIT_LINE"),
		NominatimBaseURL: os.Getenv("NOMINATIM_BASE_URL"),
		AllowedOrigins:   splitOrigins(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
	}
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
