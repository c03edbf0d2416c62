// Package main provides the entrypoint for the Wayfinder API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayfinder/wayfinder/internal/api"
	"github.com/wayfinder/wayfinder/internal/api/middleware"
	"github.com/wayfinder/wayfinder/internal/config"
	"github.com/wayfinder/wayfinder/internal/gather"
	"github.com/wayfinder/wayfinder/internal/geocode"
	"github.com/wayfinder/wayfinder/internal/plan"
	"github.com/wayfinder/wayfinder/internal/provider/baseline"
	"github.com/wayfinder/wayfinder/internal/provider/micromobility"
	"github.com/wayfinder/wayfinder/internal/provider/resilience"
	"github.com/wayfinder/wayfinder/internal/provider/ridehail"
	"github.com/wayfinder/wayfinder/internal/provider/transit"
	"github.com/wayfinder/wayfinder/internal/safety"
	"github.com/wayfinder/wayfinder/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "wayfinder-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Wayfinder API")

	cfg := config.FromEnv()

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.TelemetryEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Provider health registry shared by every upstream client
	registry := resilience.NewRegistry()

	// Quote adapters, priced providers first
	uber := ridehail.NewUber(ridehail.UberConfig{
		ServerToken: cfg.UberServerToken,
		Registry:    registry,
		Logger:      log,
	})
	if cfg.UberServerToken == "" {
		log.Warn().Msg("UBER_SERVER_TOKEN not set, uber quotes use heuristic pricing")
	}

	lyft := ridehail.NewLyft(ridehail.LyftConfig{
		ClientID:     cfg.LyftClientID,
		ClientSecret: cfg.LyftClientSecret,
		Registry:     registry,
		Logger:       log,
	})
	if cfg.LyftClientID == "" || cfg.LyftClientSecret == "" {
		log.Warn().Msg("lyft credentials not set, lyft quotes use heuristic pricing")
	}

	lime := micromobility.NewLime(micromobility.LimeConfig{
		GBFSURL:  cfg.LimeGBFSURL,
		Registry: registry,
		Logger:   log,
	})

	muni := transit.NewAdapter(transit.AdapterConfig{
		Line:   cfg.TransitLine,
		Logger: log,
	})

	fallback := baseline.NewAdapter(baseline.AdapterConfig{Logger: log})

	orchestrator := gather.NewOrchestrator(gather.OrchestratorConfig{
		Adapters:       []gather.Adapter{uber, lyft, lime, muni, fallback},
		Fallback:       fallback,
		Logger:         log,
		AdapterTimeout: cfg.AdapterTimeout,
	})
	log.Info().
		Strs("adapters", orchestrator.AdapterNames()).
		Msg("gathering orchestrator initialized")

	planService := plan.NewService(plan.ServiceConfig{
		Gatherer: orchestrator,
		Safety:   safety.NewService(safety.ServiceConfig{Logger: log}),
		Logger:   log,
	})
	log.Info().Msg("plan service initialized")

	geocodeService := geocode.NewService(geocode.ServiceConfig{
		BaseURL:  cfg.NominatimBaseURL,
		Registry: registry,
		Logger:   log,
	})
	log.Info().Msg("geocode service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:        Version,
		BuildTime:      BuildTime,
		Logger:         log,
		ServiceName:    serviceName,
		Metrics:        metrics,
		PlanService:    planService,
		GeocodeService: geocodeService,
		Providers:      registry,
		AdapterNames:   orchestrator.AdapterNames(),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
