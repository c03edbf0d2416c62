package agents

import (
	"fmt"

	"github.com/wayfinder/wayfinder/internal/mobility"
)

// co2PenaltyPerGram converts emission grams into a score penalty.
const co2PenaltyPerGram = 0.0001

// modeWeights ranks travel modes by environmental friendliness.
var modeWeights = map[mobility.Mode]float64{
	mobility.ModeWalk:          1.0,
	mobility.ModeBike:          0.95,
	mobility.ModeTransit:       0.90,
	mobility.ModeMicromobility: 0.85,
	mobility.ModeRidehail:      0.50,
	mobility.ModeDrive:         0.30,
}

// modeNames provides human-readable mode names for rationales.
var modeNames = map[mobility.Mode]string{
	mobility.ModeWalk:          "walking",
	mobility.ModeBike:          "biking",
	mobility.ModeTransit:       "public transit",
	mobility.ModeMicromobility: "scooter",
	mobility.ModeRidehail:      "ridehail",
	mobility.ModeDrive:         "driving",
}

// EcoAgent recommends the most environmentally friendly option, weighing the
// travel mode and penalizing estimated CO2 emissions.
type EcoAgent struct{}

// NewEcoAgent creates a new eco agent.
func NewEcoAgent() *EcoAgent {
	return &EcoAgent{}
}

func (a *EcoAgent) Name() string {
	return "eco"
}

func (a *EcoAgent) Score(options []mobility.Option, _ mobility.SafetyContext) mobility.Recommendation {
	if len(options) == 0 {
		return noOptions()
	}

	best := options[0]
	bestScore := ecoScore(best)
	for _, opt := range options[1:] {
		if s := ecoScore(opt); s > bestScore {
			best = opt
			bestScore = s
		}
	}

	modeName, ok := modeNames[best.Mode]
	if !ok {
		modeName = string(best.Mode)
	}

	co2Text := ""
	if best.CO2Grams > 0 && best.CO2Grams < 500 {
		co2Text = fmt.Sprintf(" with low emissions (%dg CO₂)", best.CO2Grams)
	}

	return mobility.Recommendation{
		OptionID: best.ID,
		Score:    bestScore,
		Why:      fmt.Sprintf("Eco-friendly %s option%s", modeName, co2Text),
	}
}

// ecoScore computes the per-option eco score: mode weight minus an emission
// penalty, clamped to [0, 1]. Unknown modes weigh 0.5.
func ecoScore(opt mobility.Option) float64 {
	weight, ok := modeWeights[opt.Mode]
	if !ok {
		weight = 0.5
	}
	return clamp01(weight - co2PenaltyPerGram*float64(opt.CO2Grams))
}
