package models

import (
	"github.com/wayfinder/wayfinder/internal/mobility"
)

// PlanRequest is the body for POST /v1/plan.
type PlanRequest struct {
	Origin      *mobility.Location `json:"origin"`
	Destination *mobility.Location `json:"destination"`

	// When is an optional RFC3339 departure time. Empty means "now" for
	// scoring purposes with no night-risk context.
	When string `json:"when,omitempty"`
}

// PlanResponse carries the gathered options and one recommendation per agent.
type PlanResponse struct {
	GeneratedAt Timestamp                          `json:"generatedAt"`
	Options     []mobility.Option                  `json:"options"`
	Agents      map[string]mobility.Recommendation `json:"agents"`
}
