// Package mobility defines the normalized data model shared by provider
// adapters, the gathering orchestrator, and the scoring agents.
package mobility

import (
	"errors"
	"fmt"
)

// Sentinel errors for plan operations.
var (
	// ErrNoOptions indicates that gathering, including the baseline fallback,
	// yielded no travel options.
	ErrNoOptions = errors.New("no travel options available")
	// ErrInvalidCoordinates indicates the provided coordinates are out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrInvalidWhen indicates the departure time string could not be parsed.
	ErrInvalidWhen = errors.New("invalid departure time")
)

// Mode identifies the travel mode of an option.
type Mode string

const (
	ModeWalk          Mode = "walk"
	ModeBike          Mode = "bike"
	ModeDrive         Mode = "drive"
	ModeTransit       Mode = "transit"
	ModeMicromobility Mode = "micromobility"
	ModeRidehail      Mode = "ridehail"
)

// Location represents a geographic point in WGS84 degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks that the coordinates are within valid WGS84 ranges.
func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("%w: latitude %f out of range [-90, 90]", ErrInvalidCoordinates, l.Lat)
	}
	if l.Lng < -180 || l.Lng > 180 {
		return fmt.Errorf("%w: longitude %f out of range [-180, 180]", ErrInvalidCoordinates, l.Lng)
	}
	return nil
}

// Option is the canonical representation of one travel option. Adapters
// construct options at the provider boundary; scoring agents consume them
// unchanged. Options are request-scoped and never persisted.
type Option struct {
	// ID uniquely identifies the option within a single gather call.
	ID string `json:"id"`

	Mode     Mode   `json:"mode"`
	Provider string `json:"provider"`

	// Product is an optional service tier (e.g. "UberX", "Lime Scooter").
	Product string `json:"product,omitempty"`
	// Line is an optional transit line name.
	Line string `json:"line,omitempty"`

	// ETAPickupMin is the pickup wait for ridehail options, nil when not
	// applicable. WaitMin is the boarding wait for transit/micromobility.
	ETAPickupMin *int `json:"eta_pickup_min,omitempty"`
	WaitMin      *int `json:"wait_min,omitempty"`

	// DurationMin is the in-transit duration in minutes.
	DurationMin int `json:"duration_min"`
	// WalkMin is the access/egress walking portion in minutes.
	WalkMin int `json:"walk_min,omitempty"`

	CostUSD float64 `json:"cost_usd"`

	// CO2Grams is the estimated emission in grams of CO2.
	CO2Grams int `json:"co2_g,omitempty"`

	// Deeplink is an optional app deep-link URL.
	Deeplink string `json:"deeplink,omitempty"`
}

// TotalTimeMin returns the door-to-door time: pickup or boarding wait, plus
// in-transit duration, plus walking.
func (o Option) TotalTimeMin() int {
	wait := 0
	switch {
	case o.ETAPickupMin != nil:
		wait = *o.ETAPickupMin
	case o.WaitMin != nil:
		wait = *o.WaitMin
	}
	return wait + o.DurationMin + o.WalkMin
}

// EffectiveCostUSD returns the cost used for comparison across options.
func (o Option) EffectiveCostUSD() float64 {
	return o.CostUSD
}

// Recommendation is one agent's top pick with a normalized score and a
// one-line rationale. OptionID is empty only when no options exist.
type Recommendation struct {
	OptionID string  `json:"option_id"`
	Score    float64 `json:"score"`
	Why      string  `json:"why"`
}

// SafetyContext carries the request-scoped risk context consumed by the
// safety scoring agent. The zero value is the safe default.
type SafetyContext struct {
	// RiskPenalty is a bounded scalar in [0.0, 0.3].
	RiskPenalty float64 `json:"risk_penalty"`
	// NightWalkMinutes is the number of walking minutes falling in night hours.
	NightWalkMinutes int `json:"night_walk_minutes"`
}
