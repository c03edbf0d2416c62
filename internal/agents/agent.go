// Package agents implements the independent scoring strategies that turn a
// set of normalized travel options into per-objective recommendations.
package agents

import (
	"github.com/wayfinder/wayfinder/internal/mobility"
)

// Agent is a single scoring strategy. Implementations must be deterministic
// for identical inputs, free of side effects, and break argmin/argmax ties
// in favor of the first option in input order.
type Agent interface {
	// Name identifies the agent in the plan response ("speed", "cost", ...).
	Name() string

	// Score selects the agent's top option from the set. The safety context
	// is meaningful only to the safety agent; others ignore it. An empty
	// option set yields the shared terminal recommendation.
	Score(options []mobility.Option, sctx mobility.SafetyContext) mobility.Recommendation
}

// All returns the full agent set in response order.
func All() []Agent {
	return []Agent{
		NewSpeedAgent(),
		NewCostAgent(),
		NewEcoAgent(),
		NewSafetyAgent(),
	}
}

// noOptions is the sole shared terminal case for an empty option set.
func noOptions() mobility.Recommendation {
	return mobility.Recommendation{
		OptionID: "",
		Score:    0.0,
		Why:      "No options available",
	}
}

// inverseScore linearly maps value within [min, max] to a score where the
// minimum earns 1.0 and the maximum 0.1. Equal bounds earn 1.0.
func inverseScore(value, min, max float64) float64 {
	if max == min {
		return 1.0
	}
	return 1.0 - ((value-min)/(max-min))*0.9
}

// clamp01 bounds a score to [0.0, 1.0].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
