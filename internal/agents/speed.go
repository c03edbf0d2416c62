package agents

import (
	"fmt"

	"github.com/wayfinder/wayfinder/internal/mobility"
)

// SpeedAgent recommends the option with the lowest door-to-door time.
type SpeedAgent struct{}

// NewSpeedAgent creates a new speed agent.
func NewSpeedAgent() *SpeedAgent {
	return &SpeedAgent{}
}

func (a *SpeedAgent) Name() string {
	return "speed"
}

// Score selects argmin(total time). The score is the linear-normalized
// inverse of time across the set, floored at 0.1.
func (a *SpeedAgent) Score(options []mobility.Option, _ mobility.SafetyContext) mobility.Recommendation {
	if len(options) == 0 {
		return noOptions()
	}

	fastest := options[0]
	minTime := fastest.TotalTimeMin()
	maxTime := minTime
	for _, opt := range options[1:] {
		t := opt.TotalTimeMin()
		if t < minTime {
			fastest = opt
			minTime = t
		}
		if t > maxTime {
			maxTime = t
		}
	}

	score := inverseScore(float64(fastest.TotalTimeMin()), float64(minTime), float64(maxTime))
	if score < 0.1 {
		score = 0.1
	}

	return mobility.Recommendation{
		OptionID: fastest.ID,
		Score:    score,
		Why:      fmt.Sprintf("Fastest door-to-door at %d minutes", fastest.TotalTimeMin()),
	}
}
