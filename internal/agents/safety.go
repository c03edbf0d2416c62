package agents

import (
	"fmt"

	"github.com/wayfinder/wayfinder/internal/mobility"
)

// timeScoreWindowMin is the window over which the time score decays linearly
// from 1.0 to 0.0.
const timeScoreWindowMin = 120.0

// SafetyAgent recommends the option minimizing exposure: shorter trips score
// higher, walking is penalized (heavily when any of the request's walking
// falls at night), and the precomputed risk penalty discounts every option.
type SafetyAgent struct{}

// NewSafetyAgent creates a new safety agent.
func NewSafetyAgent() *SafetyAgent {
	return &SafetyAgent{}
}

func (a *SafetyAgent) Name() string {
	return "safety"
}

func (a *SafetyAgent) Score(options []mobility.Option, sctx mobility.SafetyContext) mobility.Recommendation {
	if len(options) == 0 {
		return noOptions()
	}

	best := options[0]
	bestScore := safetyScore(best, sctx)
	for _, opt := range options[1:] {
		if s := safetyScore(opt, sctx); s > bestScore {
			best = opt
			bestScore = s
		}
	}

	var why string
	switch {
	case best.WalkMin > 5:
		why = fmt.Sprintf("Minimal walking (%d min) reduces exposure", best.WalkMin)
	case best.Mode == mobility.ModeRidehail:
		why = "Door-to-door service avoids walking at night"
	default:
		why = "Balanced route with safety considerations"
	}

	return mobility.Recommendation{
		OptionID: best.ID,
		Score:    bestScore,
		Why:      why,
	}
}

// safetyScore computes the per-option safety score, clamped to [0, 1].
func safetyScore(opt mobility.Option, sctx mobility.SafetyContext) float64 {
	timeScore := 1.0 - clamp01(float64(opt.TotalTimeMin())/timeScoreWindowMin)

	walkPenalty := 0.0
	if opt.WalkMin > 0 {
		if sctx.NightWalkMinutes > 0 {
			walkPenalty = float64(opt.WalkMin) * 0.1
			if walkPenalty > 0.4 {
				walkPenalty = 0.4
			}
		} else {
			walkPenalty = float64(opt.WalkMin) * 0.05
			if walkPenalty > 0.2 {
				walkPenalty = 0.2
			}
		}
	}

	return clamp01(timeScore - walkPenalty - sctx.RiskPenalty*0.5)
}
