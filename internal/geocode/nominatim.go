// Package geocode provides address autocomplete and reverse geocoding
// backed by Nominatim (OpenStreetMap). All lookups are best-effort: an
// upstream failure yields empty results, never a plan failure.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wayfinder/wayfinder/internal/mobility"
	"github.com/wayfinder/wayfinder/internal/provider/resilience"
)

const (
	// ServiceName identifies this service for the provider registry.
	ServiceName = "nominatim"

	// DefaultBaseURL is the public Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// DefaultLimit bounds autocomplete results when no limit is given.
	DefaultLimit = 5

	// userAgent is mandatory under the Nominatim usage policy.
	userAgent = "wayfinder/1.0"

	// biasRadiusDegrees is ~20 km of latitude, the viewbox half-width
	// used to bias results toward the caller's position.
	biasRadiusDegrees = 0.18
)

// Suggestion is one geocoding result.
type Suggestion struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	PlaceID     int64   `json:"place_id,omitempty"`
}

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// BaseURL is the Nominatim base URL (optional).
	BaseURL string

	// HTTPClient is the resilient client for upstream calls (optional).
	HTTPClient *resilience.Client

	// Registry records call outcomes for ops health (optional).
	Registry *resilience.Registry

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service is a Nominatim-backed geocoding service.
type Service struct {
	baseURL    string
	httpClient *resilience.Client
	registry   *resilience.Registry
	logger     zerolog.Logger
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ServiceName))
	}
	if cfg.Registry != nil {
		cfg.Registry.Register(ServiceName, httpClient)
	}

	return &Service{
		baseURL:    baseURL,
		httpClient: httpClient,
		registry:   cfg.Registry,
		logger:     cfg.Logger.With().Str("service", "geocode").Logger(),
	}
}

// Autocomplete returns up to limit suggestions for a free-text query,
// biased toward bias when it is non-nil. Queries shorter than 2 runes
// return no suggestions without an upstream call.
func (s *Service) Autocomplete(ctx context.Context, query string, limit int, bias *mobility.Location) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("addressdetails", "1")

	if bias != nil {
		params.Set("viewbox", fmt.Sprintf("%v,%v,%v,%v",
			bias.Lng-biasRadiusDegrees, bias.Lat+biasRadiusDegrees,
			bias.Lng+biasRadiusDegrees, bias.Lat-biasRadiusDegrees))
		params.Set("bounded", "1")
		params.Set("lat", fmt.Sprintf("%v", bias.Lat))
		params.Set("lon", fmt.Sprintf("%v", bias.Lng))
	}

	var results []nominatimResult
	if err := s.get(ctx, "/search", params, &results); err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(results))
	for _, r := range results {
		suggestions = append(suggestions, r.toSuggestion())
	}
	return suggestions, nil
}

// Geocode resolves a query to its best-matching location, or nil when
// nothing matches.
func (s *Service) Geocode(ctx context.Context, query string, bias *mobility.Location) (*mobility.Location, error) {
	suggestions, err := s.Autocomplete(ctx, query, 1, bias)
	if err != nil {
		return nil, err
	}
	if len(suggestions) == 0 {
		return nil, nil
	}
	return &mobility.Location{Lat: suggestions[0].Lat, Lng: suggestions[0].Lng}, nil
}

// Reverse resolves coordinates to the nearest named place, or nil when
// Nominatim has nothing for them.
func (s *Service) Reverse(ctx context.Context, loc mobility.Location) (*Suggestion, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%v", loc.Lat))
	params.Set("lon", fmt.Sprintf("%v", loc.Lng))
	params.Set("format", "json")
	params.Set("addressdetails", "1")

	var result nominatimResult
	if err := s.get(ctx, "/reverse", params, &result); err != nil {
		return nil, err
	}
	if result.DisplayName == "" {
		return nil, nil
	}

	suggestion := result.toSuggestion()
	return &suggestion, nil
}

type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	PlaceID     int64  `json:"place_id"`
}

func (r nominatimResult) toSuggestion() Suggestion {
	lat, _ := strconv.ParseFloat(r.Lat, 64)
	lng, _ := strconv.ParseFloat(r.Lon, 64)
	return Suggestion{
		DisplayName: r.DisplayName,
		Lat:         lat,
		Lng:         lng,
		PlaceID:     r.PlaceID,
	}
}

func (s *Service) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if s.registry != nil {
			s.registry.RecordFailure(ServiceName, err)
		}
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		if s.registry != nil {
			s.registry.RecordFailure(ServiceName, err)
		}
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if s.registry != nil {
		s.registry.RecordSuccess(ServiceName)
	}
	return nil
}
