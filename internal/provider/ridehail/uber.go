package ridehail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/wayfinder/wayfinder/internal/mobility"
	"github.com/wayfinder/wayfinder/internal/provider/resilience"
)

const (
	// UberAdapterName identifies the Uber adapter.
	UberAdapterName = "uber"

	// DefaultUberBaseURL is the Uber API base URL.
	DefaultUberBaseURL = "https://api.uber.com/v1.2"

	uberBaseFareUSD  = 8.0
	uberPerKMUSD     = 1.5
	uberPickupETAMin = 5
	uberProduct      = "UberX"
)

// UberConfig holds configuration for the Uber adapter.
type UberConfig struct {
	// ServerToken enables live price estimates. Empty means heuristic only.
	ServerToken string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the resilient client for upstream calls (optional).
	HTTPClient *resilience.Client

	// Registry records call outcomes for ops health (optional).
	Registry *resilience.Registry

	// Logger for adapter operations.
	Logger zerolog.Logger
}

// Uber is the Uber ridehail adapter.
type Uber struct {
	serverToken string
	baseURL     string
	httpClient  *resilience.Client
	registry    *resilience.Registry
	logger      zerolog.Logger
}

// NewUber creates a new Uber adapter.
func NewUber(cfg UberConfig) *Uber {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultUberBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(UberAdapterName))
	}
	if cfg.Registry != nil {
		cfg.Registry.Register(UberAdapterName, httpClient)
	}

	return &Uber{
		serverToken: cfg.ServerToken,
		baseURL:     baseURL,
		httpClient:  httpClient,
		registry:    cfg.Registry,
		logger:      cfg.Logger.With().Str("adapter", UberAdapterName).Logger(),
	}
}

// Name returns the adapter identifier.
func (u *Uber) Name() string {
	return UberAdapterName
}

// Fetch returns a single UberX option. With a server token it refines the
// heuristic with a live price estimate; upstream failure degrades back to
// the heuristic rather than dropping the option.
func (u *Uber) Fetch(ctx context.Context, origin, destination mobility.Location, _ string) ([]mobility.Option, error) {
	costUSD, durationMin := heuristicQuote(origin, destination, uberBaseFareUSD, uberPerKMUSD)

	if u.serverToken != "" {
		if est, err := u.fetchEstimate(ctx, origin, destination); err != nil {
			u.logger.Warn().Err(err).Msg("price estimate failed, using heuristic")
			if u.registry != nil {
				u.registry.RecordFailure(UberAdapterName, err)
			}
		} else {
			costUSD = est.costUSD
			durationMin = est.durationMin
			if u.registry != nil {
				u.registry.RecordSuccess(UberAdapterName)
			}
		}
	}

	return []mobility.Option{{
		ID:           optionID(UberAdapterName),
		Mode:         mobility.ModeRidehail,
		Provider:     UberAdapterName,
		Product:      uberProduct,
		ETAPickupMin: intPtr(uberPickupETAMin),
		DurationMin:  durationMin,
		CostUSD:      costUSD,
		Deeplink:     uberDeeplink(origin, destination),
	}}, nil
}

type uberEstimate struct {
	costUSD     float64
	durationMin int
}

type uberPriceResponse struct {
	Prices []struct {
		DisplayName  string  `json:"display_name"`
		LowEstimate  float64 `json:"low_estimate"`
		HighEstimate float64 `json:"high_estimate"`
		Duration     int     `json:"duration"`
	} `json:"prices"`
}

func (u *Uber) fetchEstimate(ctx context.Context, origin, destination mobility.Location) (*uberEstimate, error) {
	reqURL := fmt.Sprintf("%s/estimates/price?start_latitude=%.6f&start_longitude=%.6f&end_latitude=%.6f&end_longitude=%.6f",
		u.baseURL, origin.Lat, origin.Lng, destination.Lat, destination.Lng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+u.serverToken)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var priceResp uberPriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&priceResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	for _, p := range priceResp.Prices {
		if p.DisplayName != uberProduct {
			continue
		}
		durationMin := p.Duration / 60
		if durationMin < 1 {
			durationMin = 1
		}
		return &uberEstimate{
			costUSD:     (p.LowEstimate + p.HighEstimate) / 2,
			durationMin: durationMin,
		}, nil
	}
	return nil, fmt.Errorf("no %s estimate in response", uberProduct)
}

func uberDeeplink(origin, destination mobility.Location) string {
	v := url.Values{}
	v.Set("action", "setPickup")
	v.Set("pickup[latitude]", fmt.Sprintf("%v", origin.Lat))
	v.Set("pickup[longitude]", fmt.Sprintf("%v", origin.Lng))
	v.Set("dropoff[latitude]", fmt.Sprintf("%v", destination.Lat))
	v.Set("dropoff[longitude]", fmt.Sprintf("%v", destination.Lng))
	return "uber://?" + v.Encode()
}
