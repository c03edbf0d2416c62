package agents

import (
	"fmt"

	"github.com/wayfinder/wayfinder/internal/mobility"
)

// timeCapFactor bounds cost candidates to twice the fastest option's time.
const timeCapFactor = 2.0

// CostAgent recommends the cheapest option among those within an advisory
// time cap of 2x the fastest option. If nothing meets the cap, it falls back
// to the full set and halves the winner's score instead of returning nothing.
type CostAgent struct{}

// NewCostAgent creates a new cost agent.
func NewCostAgent() *CostAgent {
	return &CostAgent{}
}

func (a *CostAgent) Name() string {
	return "cost"
}

func (a *CostAgent) Score(options []mobility.Option, _ mobility.SafetyContext) mobility.Recommendation {
	if len(options) == 0 {
		return noOptions()
	}

	fastestTime := options[0].TotalTimeMin()
	for _, opt := range options[1:] {
		if t := opt.TotalTimeMin(); t < fastestTime {
			fastestTime = t
		}
	}
	timeCap := float64(fastestTime) * timeCapFactor

	candidates := make([]mobility.Option, 0, len(options))
	for _, opt := range options {
		if float64(opt.TotalTimeMin()) <= timeCap {
			candidates = append(candidates, opt)
		}
	}
	if len(candidates) == 0 {
		candidates = options
	}

	cheapest := candidates[0]
	minCost := cheapest.EffectiveCostUSD()
	maxCost := minCost
	for _, opt := range candidates[1:] {
		c := opt.EffectiveCostUSD()
		if c < minCost {
			cheapest = opt
			minCost = c
		}
		if c > maxCost {
			maxCost = c
		}
	}

	score := inverseScore(cheapest.EffectiveCostUSD(), minCost, maxCost)
	if float64(cheapest.TotalTimeMin()) > timeCap {
		// Fallback path: the winner itself busts the cap, penalize but keep it.
		score *= 0.5
	}
	if score < 0.1 {
		score = 0.1
	}

	return mobility.Recommendation{
		OptionID: cheapest.ID,
		Score:    score,
		Why:      fmt.Sprintf("Lowest fare at $%.2f with reasonable time", cheapest.EffectiveCostUSD()),
	}
}
