// Package api provides the HTTP API for wayfinder.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/wayfinder/wayfinder/internal/api/handler"
	"github.com/wayfinder/wayfinder/internal/api/middleware"
	"github.com/wayfinder/wayfinder/internal/geocode"
	"github.com/wayfinder/wayfinder/internal/plan"
	"github.com/wayfinder/wayfinder/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	PlanService    *plan.Service
	GeocodeService *geocode.Service

	// Providers is the resilient-client health registry shown on the
	// ops endpoint.
	Providers *resilience.Registry

	// AdapterNames lists the registered gather adapters in order.
	AdapterNames []string

	// AllowedOrigins configures CORS for browser clients. Empty
	// disables cross-origin access.
	AllowedOrigins []string
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "wayfinder-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS)
	r.Use(middleware.RequireJSON)
	r.Use(middleware.ContentTypeJSON)

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			MaxAge:         300,
		}))
	}

	planHandler := handler.NewPlanHandler(cfg.PlanService)
	geocodeHandler := handler.NewGeocodeHandler(cfg.GeocodeService)
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Providers, cfg.AdapterNames)

	planRateLimit := middleware.RateLimitByIP(middleware.PlanRateLimit)
	geocodeRateLimit := middleware.RateLimitByIP(middleware.GeocodeRateLimit)

	r.Route("/v1", func(r chi.Router) {
		// Plan computation fans out to every provider, keep it tight
		r.With(planRateLimit).Post("/plan", planHandler.ComputePlan)

		r.Route("/geocode", func(r chi.Router) {
			r.Use(geocodeRateLimit)
			r.Get("/autocomplete", geocodeHandler.Autocomplete)
			r.Get("/reverse", geocodeHandler.Reverse)
		})

		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/providers", opsHandler.Providers)
		})
	})

	return r
}
