package handler

import (
	"net/http"
	"strconv"

	"github.com/wayfinder/wayfinder/internal/api/models"
	"github.com/wayfinder/wayfinder/internal/api/response"
	"github.com/wayfinder/wayfinder/internal/geocode"
	"github.com/wayfinder/wayfinder/internal/mobility"
)

// GeocodeHandler handles geocoding endpoints.
type GeocodeHandler struct {
	service *geocode.Service
}

// NewGeocodeHandler creates a new GeocodeHandler.
func NewGeocodeHandler(service *geocode.Service) *GeocodeHandler {
	return &GeocodeHandler{service: service}
}

// Autocomplete handles GET /v1/geocode/autocomplete?q=...&limit=...&lat=...&lng=...
func (h *GeocodeHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, r, "q is required", []models.FieldError{
			{Field: "q", Message: "required"},
		})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 20 {
			response.BadRequest(w, r, "limit must be an integer between 1 and 20", []models.FieldError{
				{Field: "limit", Message: "must be between 1 and 20"},
			})
			return
		}
		limit = parsed
	}

	bias, ok := optionalBias(w, r)
	if !ok {
		return
	}

	suggestions, err := h.service.Autocomplete(r.Context(), query, limit, bias)
	if err != nil {
		response.ServiceUnavailable(w, r, "geocoding is temporarily unavailable")
		return
	}
	if suggestions == nil {
		suggestions = []geocode.Suggestion{}
	}

	response.JSON(w, r, http.StatusOK, models.AutocompleteResponse{Suggestions: suggestions})
}

// Reverse handles GET /v1/geocode/reverse?lat=...&lng=...
func (h *GeocodeHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	loc, ok := requiredLocation(w, r)
	if !ok {
		return
	}

	result, err := h.service.Reverse(r.Context(), loc)
	if err != nil {
		response.ServiceUnavailable(w, r, "geocoding is temporarily unavailable")
		return
	}
	if result == nil {
		response.NotFound(w, r, "no place found at these coordinates")
		return
	}

	response.JSON(w, r, http.StatusOK, models.ReverseResponse{Result: result})
}

// optionalBias parses lat/lng query params when both are present. A half
// specified or malformed pair is a validation error.
func optionalBias(w http.ResponseWriter, r *http.Request) (*mobility.Location, bool) {
	rawLat := r.URL.Query().Get("lat")
	rawLng := r.URL.Query().Get("lng")
	if rawLat == "" && rawLng == "" {
		return nil, true
	}

	lat, latErr := strconv.ParseFloat(rawLat, 64)
	lng, lngErr := strconv.ParseFloat(rawLng, 64)
	if latErr != nil || lngErr != nil {
		response.BadRequest(w, r, "lat and lng must both be valid numbers", []models.FieldError{
			{Field: "lat", Message: "must be a number"},
			{Field: "lng", Message: "must be a number"},
		})
		return nil, false
	}

	loc := mobility.Location{Lat: lat, Lng: lng}
	if err := loc.Validate(); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return nil, false
	}
	return &loc, true
}

func requiredLocation(w http.ResponseWriter, r *http.Request) (mobility.Location, bool) {
	loc, ok := optionalBias(w, r)
	if !ok {
		return mobility.Location{}, false
	}
	if loc == nil {
		response.BadRequest(w, r, "lat and lng are required", []models.FieldError{
			{Field: "lat", Message: "required"},
			{Field: "lng", Message: "required"},
		})
		return mobility.Location{}, false
	}
	return *loc, true
}
