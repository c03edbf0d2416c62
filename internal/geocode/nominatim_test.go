package geocode_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder/wayfinder/internal/geocode"
	"github.com/wayfinder/wayfinder/internal/mobility"
)

func newService(baseURL string) *geocode.Service {
	return geocode.NewService(geocode.ServiceConfig{BaseURL: baseURL, Logger: zerolog.Nop()})
}

func TestAutocomplete_ReturnsSuggestions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "ferry building", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"display_name": "Ferry Building, San Francisco", "lat": "37.7955", "lon": "-122.3937", "place_id": 101},
			{"display_name": "Ferry Plaza", "lat": "37.7950", "lon": "-122.3940", "place_id": 102}
		]`))
	}))
	defer server.Close()

	suggestions, err := newService(server.URL).Autocomplete(context.Background(), "ferry building", 0, nil)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "Ferry Building, San Francisco", suggestions[0].DisplayName)
	assert.InDelta(t, 37.7955, suggestions[0].Lat, 0.0001)
	assert.Equal(t, int64(101), suggestions[0].PlaceID)
}

func TestAutocomplete_LocationBiasSetsBoundedViewbox(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("bounded"))
		assert.NotEmpty(t, q.Get("viewbox"))
		assert.Equal(t, "37.7955", q.Get("lat"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	bias := &mobility.Location{Lat: 37.7955, Lng: -122.3937}
	_, err := newService(server.URL).Autocomplete(context.Background(), "coffee", 5, bias)
	require.NoError(t, err)
}

func TestAutocomplete_ShortQuerySkipsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("upstream should not be called")
	}))
	defer server.Close()

	suggestions, err := newService(server.URL).Autocomplete(context.Background(), " a ", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestGeocode_FirstMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"display_name": "Mission District", "lat": "37.7599", "lon": "-122.4148"}]`))
	}))
	defer server.Close()

	loc, err := newService(server.URL).Geocode(context.Background(), "mission district", nil)
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.InDelta(t, 37.7599, loc.Lat, 0.0001)
}

func TestGeocode_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	loc, err := newService(server.URL).Geocode(context.Background(), "nowhere at all", nil)
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestReverse_ResolvesPlace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name": "Pier 1, The Embarcadero", "lat": "37.7955", "lon": "-122.3937", "place_id": 7}`))
	}))
	defer server.Close()

	suggestion, err := newService(server.URL).Reverse(context.Background(),
		mobility.Location{Lat: 37.7955, Lng: -122.3937})
	require.NoError(t, err)
	require.NotNil(t, suggestion)
	assert.Equal(t, "Pier 1, The Embarcadero", suggestion.DisplayName)
}

func TestReverse_UpstreamErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newService(server.URL).Reverse(context.Background(),
		mobility.Location{Lat: 37.7955, Lng: -122.3937})
	assert.Error(t, err)
}
