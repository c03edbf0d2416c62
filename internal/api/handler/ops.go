package handler

import (
	"net/http"
	"time"

	"github.com/wayfinder/wayfinder/internal/api/models"
	"github.com/wayfinder/wayfinder/internal/api/response"
	"github.com/wayfinder/wayfinder/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
	adapters  []string
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry, adapters []string) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
		adapters:  adapters,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
// The service has no hard dependencies: providers degrade to heuristics
// and the baseline adapter needs nothing, so readiness equals liveness.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// Providers handles GET /v1/ops/providers - per-provider circuit health.
func (h *OpsHandler) Providers(w http.ResponseWriter, r *http.Request) {
	var providers []*resilience.ProviderHealth
	if h.registry != nil {
		providers = h.registry.AllHealth()
	}

	status := models.HealthStatusOK
	for _, p := range providers {
		if !p.Healthy() {
			status = models.HealthStatusDegraded
			break
		}
	}

	response.JSON(w, r, http.StatusOK, models.ProvidersStatus{
		Status:    status,
		Time:      models.Timestamp(time.Now()),
		Providers: providers,
		Adapters:  h.adapters,
	})
}
