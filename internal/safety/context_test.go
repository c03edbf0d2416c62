package safety_test

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/wayfinder/wayfinder/internal/mobility"
	"github.com/wayfinder/wayfinder/internal/safety"
)

func newService() *safety.Service {
	return safety.NewService(safety.ServiceConfig{Logger: zerolog.New(io.Discard)})
}

// segmentsOfWalkMinutes builds a two-point segment whose great-circle length
// corresponds to roughly the given number of walking minutes at 83.4 m/min.
// One degree of latitude is ~111.2km.
func segmentsOfWalkMinutes(minutes float64) []mobility.Location {
	meters := minutes * 83.4
	deltaLat := meters / 111195.0
	return []mobility.Location{
		{Lat: 37.7749, Lng: -122.4194},
		{Lat: 37.7749 + deltaLat, Lng: -122.4194},
	}
}

func TestCompute_DaytimeShortWalk(t *testing.T) {
	ctx := newService().Compute(segmentsOfWalkMinutes(1.5), "2025-06-10T14:00:00Z")
	assert.Equal(t, 0.0, ctx.RiskPenalty)
	assert.Equal(t, 0, ctx.NightWalkMinutes)
}

func TestCompute_NightLongWalk(t *testing.T) {
	ctx := newService().Compute(segmentsOfWalkMinutes(13), "2025-06-10T23:00:00Z")
	// 0.15 night factor plus 0.10 long-walk factor.
	assert.InDelta(t, 0.25, ctx.RiskPenalty, 1e-9)
	assert.Equal(t, 13, ctx.NightWalkMinutes)
}

func TestCompute_EveningShoulder(t *testing.T) {
	ctx := newService().Compute(segmentsOfWalkMinutes(1), "2025-06-10T21:00:00Z")
	assert.InDelta(t, 0.08, ctx.RiskPenalty, 1e-9)
	assert.Equal(t, 0, ctx.NightWalkMinutes)
}

func TestCompute_EarlyMorningShoulder(t *testing.T) {
	ctx := newService().Compute(segmentsOfWalkMinutes(1), "2025-06-10T07:00:00Z")
	assert.InDelta(t, 0.08, ctx.RiskPenalty, 1e-9)
}

func TestCompute_WalkLengthTiers(t *testing.T) {
	svc := newService()
	tests := []struct {
		minutes float64
		want    float64
	}{
		{1, 0.0},
		{3, 0.02},
		{7, 0.05},
		{15, 0.10},
	}
	for _, tt := range tests {
		ctx := svc.Compute(segmentsOfWalkMinutes(tt.minutes), "2025-06-10T12:00:00Z")
		assert.InDelta(t, tt.want, ctx.RiskPenalty, 1e-9, "walk of %.0f minutes", tt.minutes)
	}
}

func TestCompute_RiskPenaltyBounded(t *testing.T) {
	ctx := newService().Compute(segmentsOfWalkMinutes(60), "2025-06-10T23:30:00Z")
	assert.LessOrEqual(t, ctx.RiskPenalty, 0.3)
	assert.GreaterOrEqual(t, ctx.RiskPenalty, 0.0)
}

func TestCompute_MalformedWhen(t *testing.T) {
	ctx := newService().Compute(segmentsOfWalkMinutes(13), "not-a-timestamp")
	// Only the length-based factor applies, and no night minutes.
	assert.InDelta(t, 0.10, ctx.RiskPenalty, 1e-9)
	assert.Equal(t, 0, ctx.NightWalkMinutes)
}

func TestCompute_AbsentWhen(t *testing.T) {
	ctx := newService().Compute(segmentsOfWalkMinutes(7), "")
	assert.InDelta(t, 0.05, ctx.RiskPenalty, 1e-9)
	assert.Equal(t, 0, ctx.NightWalkMinutes)
}

func TestCompute_TooFewSegments(t *testing.T) {
	ctx := newService().Compute([]mobility.Location{{Lat: 37.77, Lng: -122.42}}, "2025-06-10T23:00:00Z")
	// Time factor only, no length factor and no night minutes.
	assert.InDelta(t, 0.15, ctx.RiskPenalty, 1e-9)
	assert.Equal(t, 0, ctx.NightWalkMinutes)
}

func TestCompute_NightWalkCrossingDawn(t *testing.T) {
	// 13 minute walk starting 5 minutes before 06:00: only 5 night minutes.
	ctx := newService().Compute(segmentsOfWalkMinutes(13), "2025-06-10T05:55:00Z")
	assert.Equal(t, 5, ctx.NightWalkMinutes)
}

func TestCompute_DayWalkCrossingNightfall(t *testing.T) {
	// 10 minute walk starting 21:55 pushes 5 minutes past 22:00.
	ctx := newService().Compute(segmentsOfWalkMinutes(10), "2025-06-10T21:55:00Z")
	assert.Equal(t, 5, ctx.NightWalkMinutes)
}

func TestCompute_Deterministic(t *testing.T) {
	svc := newService()
	segments := segmentsOfWalkMinutes(7)
	first := svc.Compute(segments, "2025-06-10T23:00:00Z")
	second := svc.Compute(segments, "2025-06-10T23:00:00Z")
	assert.Equal(t, first, second)
}
