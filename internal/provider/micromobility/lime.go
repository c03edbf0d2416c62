// Package micromobility provides the Lime scooter adapter. Vehicle
// availability comes from a GBFS free_bike_status feed when one is
// configured; otherwise a nearby vehicle is assumed so development
// deployments still produce a scooter option.
package micromobility

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wayfinder/wayfinder/internal/mobility"
	"github.com/wayfinder/wayfinder/internal/provider/resilience"
	"github.com/wayfinder/wayfinder/pkg/geo"
)

const (
	// LimeAdapterName identifies the Lime adapter.
	LimeAdapterName = "lime"

	limeProduct = "Lime Scooter"

	limeUnlockUSD       = 1.0
	limePerMinUSD       = 0.55
	scooterSpeedMPS     = 5.56 // ~20 km/h
	walkSpeedMetersMin  = 83.4
	vehicleSearchRadius = 400.0 // meters

	defaultWalkToVehicleMin   = 2
	defaultWalkFromVehicleMin = 1
)

// LimeConfig holds configuration for the Lime adapter.
type LimeConfig struct {
	// GBFSURL is the free_bike_status feed URL. Empty skips the lookup
	// and assumes a vehicle within the default walk time.
	GBFSURL string

	// HTTPClient is the resilient client for feed calls (optional).
	HTTPClient *resilience.Client

	// Registry records call outcomes for ops health (optional).
	Registry *resilience.Registry

	// Logger for adapter operations.
	Logger zerolog.Logger
}

// Lime is the Lime scooter adapter.
type Lime struct {
	gbfsURL    string
	httpClient *resilience.Client
	registry   *resilience.Registry
	logger     zerolog.Logger
}

// NewLime creates a new Lime adapter.
func NewLime(cfg LimeConfig) *Lime {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(LimeAdapterName))
	}
	if cfg.Registry != nil && cfg.GBFSURL != "" {
		cfg.Registry.Register(LimeAdapterName, httpClient)
	}

	return &Lime{
		gbfsURL:    cfg.GBFSURL,
		httpClient: httpClient,
		registry:   cfg.Registry,
		logger:     cfg.Logger.With().Str("adapter", LimeAdapterName).Logger(),
	}
}

// Name returns the adapter identifier.
func (l *Lime) Name() string {
	return LimeAdapterName
}

// Fetch returns at most one scooter option. A configured GBFS feed with no
// vehicle inside the search radius yields zero options; feed failure is an
// error for the orchestrator to absorb.
func (l *Lime) Fetch(ctx context.Context, origin, destination mobility.Location, _ string) ([]mobility.Option, error) {
	walkToVehicleMin := defaultWalkToVehicleMin

	if l.gbfsURL != "" {
		distanceM, found, err := l.nearestVehicle(ctx, origin)
		if err != nil {
			if l.registry != nil {
				l.registry.RecordFailure(LimeAdapterName, err)
			}
			return nil, fmt.Errorf("gbfs lookup: %w", err)
		}
		if l.registry != nil {
			l.registry.RecordSuccess(LimeAdapterName)
		}
		if !found {
			return nil, nil
		}
		walkToVehicleMin = int(math.Ceil(distanceM / walkSpeedMetersMin))
		if walkToVehicleMin < 1 {
			walkToVehicleMin = 1
		}
	}

	rideDistanceM := geo.Haversine(origin.Lat, origin.Lng, destination.Lat, destination.Lng)
	durationMin := int(rideDistanceM/scooterSpeedMPS) / 60
	if durationMin < 1 {
		durationMin = 1
	}

	costUSD := math.Round((limeUnlockUSD+float64(durationMin)*limePerMinUSD)*100) / 100

	return []mobility.Option{{
		ID:          fmt.Sprintf("%s_%s", LimeAdapterName, uuid.NewString()[:8]),
		Mode:        mobility.ModeMicromobility,
		Provider:    LimeAdapterName,
		Product:     limeProduct,
		WaitMin:     &walkToVehicleMin,
		DurationMin: durationMin,
		WalkMin:     defaultWalkFromVehicleMin,
		CostUSD:     costUSD,
		Deeplink:    fmt.Sprintf("limebike://?lat=%v&lng=%v", destination.Lat, destination.Lng),
	}}, nil
}

type gbfsResponse struct {
	Data struct {
		Bikes []struct {
			BikeID     string  `json:"bike_id"`
			Lat        float64 `json:"lat"`
			Lon        float64 `json:"lon"`
			IsDisabled bool    `json:"is_disabled"`
			IsReserved bool    `json:"is_reserved"`
		} `json:"bikes"`
	} `json:"data"`
}

// nearestVehicle returns the distance to the closest available vehicle
// within the search radius, or found=false when none qualifies.
func (l *Lime) nearestVehicle(ctx context.Context, origin mobility.Location) (distanceM float64, found bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.gbfsURL, http.NoBody)
	if err != nil {
		return 0, false, fmt.Errorf("creating request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var feed gbfsResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return 0, false, fmt.Errorf("decoding response: %w", err)
	}

	nearest := math.MaxFloat64
	for _, bike := range feed.Data.Bikes {
		if bike.IsDisabled || bike.IsReserved {
			continue
		}
		d := geo.Haversine(origin.Lat, origin.Lng, bike.Lat, bike.Lon)
		if d < nearest {
			nearest = d
		}
	}

	if nearest > vehicleSearchRadius {
		return 0, false, nil
	}
	return nearest, true, nil
}
