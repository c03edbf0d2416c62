// Package transit provides a Muni-style public transit adapter using a
// fixed access/headway/egress model over straight-line distance.
package transit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wayfinder/wayfinder/internal/mobility"
	"github.com/wayfinder/wayfinder/pkg/geo"
)

// AdapterName identifies this adapter for logging and metrics.
const AdapterName = "transit"

const (
	providerName = "muni"
	defaultLine  = "38"

	fareUSD        = 2.50
	co2Grams       = 200
	vehicleKMH     = 30.0
	accessWalkMin  = 5
	headwayWaitMin = 5
	egressWalkMin  = 3
)

// AdapterConfig holds configuration for the transit adapter.
type AdapterConfig struct {
	// Line overrides the default line name (optional).
	Line string

	// Logger for adapter operations.
	Logger zerolog.Logger
}

// Adapter produces a single fixed-fare transit option.
type Adapter struct {
	line   string
	logger zerolog.Logger
}

// NewAdapter creates a new transit adapter.
func NewAdapter(cfg AdapterConfig) *Adapter {
	line := cfg.Line
	if line == "" {
		line = defaultLine
	}

	return &Adapter{
		line:   line,
		logger: cfg.Logger.With().Str("adapter", AdapterName).Logger(),
	}
}

// Name returns the adapter identifier.
func (a *Adapter) Name() string {
	return AdapterName
}

// Fetch returns one transit option: walk to the stop, wait one headway,
// ride, walk from the stop.
func (a *Adapter) Fetch(_ context.Context, origin, destination mobility.Location, _ string) ([]mobility.Option, error) {
	distanceKM := geo.Haversine(origin.Lat, origin.Lng, destination.Lat, destination.Lng) / 1000

	durationMin := int(distanceKM / vehicleKMH * 60)
	if durationMin < 1 {
		durationMin = 1
	}

	wait := headwayWaitMin
	return []mobility.Option{{
		ID:          fmt.Sprintf("%s_%s", AdapterName, uuid.NewString()[:8]),
		Mode:        mobility.ModeTransit,
		Provider:    providerName,
		Line:        a.line,
		WaitMin:     &wait,
		DurationMin: durationMin,
		WalkMin:     accessWalkMin + egressWalkMin,
		CostUSD:     fareUSD,
		CO2Grams:    co2Grams,
	}}, nil
}
