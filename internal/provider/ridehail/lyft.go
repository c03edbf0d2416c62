package ridehail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayfinder/wayfinder/internal/mobility"
	"github.com/wayfinder/wayfinder/internal/provider/resilience"
)

const (
	// LyftAdapterName identifies the Lyft adapter.
	LyftAdapterName = "lyft"

	// DefaultLyftBaseURL is the Lyft API base URL.
	DefaultLyftBaseURL = "https://api.lyft.com"

	lyftBaseFareUSD  = 7.5
	lyftPerKMUSD     = 1.4
	lyftPickupETAMin = 4
	lyftProduct      = "Lyft"
	lyftRideType     = "lyft"
)

// LyftConfig holds configuration for the Lyft adapter.
type LyftConfig struct {
	// ClientID and ClientSecret enable live cost estimates via OAuth
	// client credentials. Either empty means heuristic only.
	ClientID     string
	ClientSecret string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the resilient client for upstream calls (optional).
	HTTPClient *resilience.Client

	// Registry records call outcomes for ops health (optional).
	Registry *resilience.Registry

	// Logger for adapter operations.
	Logger zerolog.Logger
}

// Lyft is the Lyft ridehail adapter.
type Lyft struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *resilience.Client
	registry     *resilience.Registry
	logger       zerolog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewLyft creates a new Lyft adapter.
func NewLyft(cfg LyftConfig) *Lyft {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultLyftBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(LyftAdapterName))
	}
	if cfg.Registry != nil {
		cfg.Registry.Register(LyftAdapterName, httpClient)
	}

	return &Lyft{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      baseURL,
		httpClient:   httpClient,
		registry:     cfg.Registry,
		logger:       cfg.Logger.With().Str("adapter", LyftAdapterName).Logger(),
	}
}

// Name returns the adapter identifier.
func (l *Lyft) Name() string {
	return LyftAdapterName
}

// Fetch returns a single Lyft option. With client credentials it refines
// the heuristic with a live cost estimate; upstream failure degrades back
// to the heuristic rather than dropping the option.
func (l *Lyft) Fetch(ctx context.Context, origin, destination mobility.Location, _ string) ([]mobility.Option, error) {
	costUSD, durationMin := heuristicQuote(origin, destination, lyftBaseFareUSD, lyftPerKMUSD)

	if l.clientID != "" && l.clientSecret != "" {
		if est, err := l.fetchCost(ctx, origin, destination); err != nil {
			l.logger.Warn().Err(err).Msg("cost estimate failed, using heuristic")
			if l.registry != nil {
				l.registry.RecordFailure(LyftAdapterName, err)
			}
		} else {
			costUSD = est.costUSD
			durationMin = est.durationMin
			if l.registry != nil {
				l.registry.RecordSuccess(LyftAdapterName)
			}
		}
	}

	return []mobility.Option{{
		ID:           optionID(LyftAdapterName),
		Mode:         mobility.ModeRidehail,
		Provider:     LyftAdapterName,
		Product:      lyftProduct,
		ETAPickupMin: intPtr(lyftPickupETAMin),
		DurationMin:  durationMin,
		CostUSD:      costUSD,
		Deeplink:     lyftDeeplink(origin, destination),
	}}, nil
}

type lyftEstimate struct {
	costUSD     float64
	durationMin int
}

type lyftCostResponse struct {
	CostEstimates []struct {
		RideType           string `json:"ride_type"`
		EstimatedCostCents int    `json:"estimated_cost_cents_max"`
		EstimatedDurationS int    `json:"estimated_duration_seconds"`
	} `json:"cost_estimates"`
}

func (l *Lyft) fetchCost(ctx context.Context, origin, destination mobility.Location) (*lyftEstimate, error) {
	token, err := l.ensureToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("oauth token: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1/cost?start_lat=%.6f&start_lng=%.6f&end_lat=%.6f&end_lng=%.6f&ride_type=%s",
		l.baseURL, origin.Lat, origin.Lng, destination.Lat, destination.Lng, lyftRideType)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var costResp lyftCostResponse
	if err := json.NewDecoder(resp.Body).Decode(&costResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	for _, est := range costResp.CostEstimates {
		if est.RideType != lyftRideType {
			continue
		}
		durationMin := est.EstimatedDurationS / 60
		if durationMin < 1 {
			durationMin = 1
		}
		return &lyftEstimate{
			costUSD:     float64(est.EstimatedCostCents) / 100,
			durationMin: durationMin,
		}, nil
	}
	return nil, fmt.Errorf("no %s estimate in response", lyftRideType)
}

type lyftTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// ensureToken returns a cached client-credentials token, refreshing it
// when it is within a minute of expiry.
func (l *Lyft) ensureToken(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.accessToken != "" && time.Until(l.tokenExpiry) > time.Minute {
		return l.accessToken, nil
	}

	body := strings.NewReader(`{"grant_type": "client_credentials", "scope": "public"}`)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/oauth/token", body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(l.clientID, l.clientSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var tokenResp lyftTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("empty access token")
	}

	l.accessToken = tokenResp.AccessToken
	l.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return l.accessToken, nil
}

func lyftDeeplink(origin, destination mobility.Location) string {
	return fmt.Sprintf("lyft://ridetype?id=%s&pickup=%v,%v&dropoff=%v,%v",
		lyftRideType, origin.Lat, origin.Lng, destination.Lat, destination.Lng)
}
