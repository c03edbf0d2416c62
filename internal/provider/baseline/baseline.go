// Package baseline estimates walk, bike, and drive options from
// straight-line distance. It needs no upstream service, which makes it
// the orchestrator's fallback of last resort.
package baseline

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wayfinder/wayfinder/internal/mobility"
	"github.com/wayfinder/wayfinder/pkg/geo"
)

// AdapterName identifies this adapter for logging and metrics.
const AdapterName = "baseline"

const (
	walkSpeedMetersPerSec  = 1.39  // ~5 km/h
	bikeSpeedMetersPerSec  = 4.17  // ~15 km/h
	driveSpeedMetersPerSec = 11.11 // ~40 km/h city average

	driveCostPerMileUSD = 0.50
	driveCO2GramsPerKM  = 200
	bikeCO2Grams        = 50

	metersPerMile = 1609.34
)

// AdapterConfig holds configuration for the baseline adapter.
type AdapterConfig struct {
	// Logger for adapter operations.
	Logger zerolog.Logger
}

// Adapter produces one option per sub-mode: walk, bike, drive.
type Adapter struct {
	logger zerolog.Logger
}

// NewAdapter creates a new baseline adapter.
func NewAdapter(cfg AdapterConfig) *Adapter {
	return &Adapter{
		logger: cfg.Logger.With().Str("adapter", AdapterName).Logger(),
	}
}

// Name returns the adapter identifier.
func (a *Adapter) Name() string {
	return AdapterName
}

// Fetch returns walk, bike, and drive estimates for the trip. It is the
// only adapter that validates coordinates, because it runs synchronously
// as the fallback and its error is the caller's last signal.
func (a *Adapter) Fetch(_ context.Context, origin, destination mobility.Location, _ string) ([]mobility.Option, error) {
	if err := origin.Validate(); err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	distanceM := geo.Haversine(origin.Lat, origin.Lng, destination.Lat, destination.Lng)

	walkMin := durationMin(distanceM, walkSpeedMetersPerSec)
	bikeMin := durationMin(distanceM, bikeSpeedMetersPerSec)
	driveMin := durationMin(distanceM, driveSpeedMetersPerSec)
	if driveMin < 1 {
		driveMin = 1
	}

	distanceKM := distanceM / 1000
	driveCost := math.Round(distanceM/metersPerMile*driveCostPerMileUSD*100) / 100

	return []mobility.Option{
		{
			ID:          optionID(mobility.ModeWalk),
			Mode:        mobility.ModeWalk,
			Provider:    AdapterName,
			DurationMin: walkMin,
			WalkMin:     walkMin,
			CostUSD:     0,
			CO2Grams:    0,
		},
		{
			ID:          optionID(mobility.ModeBike),
			Mode:        mobility.ModeBike,
			Provider:    AdapterName,
			DurationMin: bikeMin,
			CostUSD:     0,
			CO2Grams:    bikeCO2Grams,
		},
		{
			ID:          optionID(mobility.ModeDrive),
			Mode:        mobility.ModeDrive,
			Provider:    AdapterName,
			DurationMin: driveMin,
			CostUSD:     driveCost,
			CO2Grams:    int(distanceKM * driveCO2GramsPerKM),
		},
	}, nil
}

func durationMin(distanceM, speedMetersPerSec float64) int {
	return int(distanceM/speedMetersPerSec) / 60
}

func optionID(mode mobility.Mode) string {
	return fmt.Sprintf("%s_%s", mode, uuid.NewString()[:8])
}
