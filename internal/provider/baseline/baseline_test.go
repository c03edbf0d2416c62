package baseline_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder/wayfinder/internal/mobility"
	"github.com/wayfinder/wayfinder/internal/provider/baseline"
)

var (
	ferryBuilding = mobility.Location{Lat: 37.7955, Lng: -122.3937}
	missionDist   = mobility.Location{Lat: 37.7599, Lng: -122.4148}
)

func newAdapter() *baseline.Adapter {
	return baseline.NewAdapter(baseline.AdapterConfig{Logger: zerolog.Nop()})
}

func TestFetch_OneOptionPerSubMode(t *testing.T) {
	options, err := newAdapter().Fetch(context.Background(), ferryBuilding, missionDist, "")
	require.NoError(t, err)
	require.Len(t, options, 3)

	assert.Equal(t, mobility.ModeWalk, options[0].Mode)
	assert.Equal(t, mobility.ModeBike, options[1].Mode)
	assert.Equal(t, mobility.ModeDrive, options[2].Mode)
	for _, opt := range options {
		assert.NotEmpty(t, opt.ID)
		assert.Equal(t, "baseline", opt.Provider)
	}
}

func TestFetch_SpeedOrdering(t *testing.T) {
	options, err := newAdapter().Fetch(context.Background(), ferryBuilding, missionDist, "")
	require.NoError(t, err)

	walk, bike, drive := options[0], options[1], options[2]
	assert.Greater(t, walk.DurationMin, bike.DurationMin)
	assert.Greater(t, bike.DurationMin, drive.DurationMin)
}

func TestFetch_WalkIsAllWalking(t *testing.T) {
	options, err := newAdapter().Fetch(context.Background(), ferryBuilding, missionDist, "")
	require.NoError(t, err)

	walk := options[0]
	assert.Equal(t, walk.DurationMin, walk.WalkMin)
	assert.Zero(t, walk.CostUSD)
	assert.Zero(t, walk.CO2Grams)
}

func TestFetch_DriveCostAndEmissions(t *testing.T) {
	options, err := newAdapter().Fetch(context.Background(), ferryBuilding, missionDist, "")
	require.NoError(t, err)

	drive := options[2]
	assert.Greater(t, drive.CostUSD, 0.0)
	assert.Greater(t, drive.CO2Grams, 0)
	assert.Zero(t, drive.WalkMin)
}

func TestFetch_SameOriginDestination(t *testing.T) {
	options, err := newAdapter().Fetch(context.Background(), ferryBuilding, ferryBuilding, "")
	require.NoError(t, err)
	require.Len(t, options, 3)

	assert.Zero(t, options[0].DurationMin)
	assert.Equal(t, 1, options[2].DurationMin)
}

func TestFetch_InvalidCoordinates(t *testing.T) {
	_, err := newAdapter().Fetch(context.Background(), mobility.Location{Lat: 91}, missionDist, "")
	assert.ErrorIs(t, err, mobility.ErrInvalidCoordinates)

	_, err = newAdapter().Fetch(context.Background(), ferryBuilding, mobility.Location{Lng: -200}, "")
	assert.ErrorIs(t, err, mobility.ErrInvalidCoordinates)
}
