package models

import (
	"github.com/wayfinder/wayfinder/internal/provider/resilience"
)

// Health represents the health status of the service.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ProvidersStatus represents the state of every registered provider client.
type ProvidersStatus struct {
	Status    HealthStatus                 `json:"status"`
	Time      Timestamp                    `json:"time"`
	Providers []*resilience.ProviderHealth `json:"providers"`
	Adapters  []string                     `json:"adapters"`
}
