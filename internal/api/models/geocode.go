package models

import (
	"github.com/wayfinder/wayfinder/internal/geocode"
)

// AutocompleteResponse is the body for GET /v1/geocode/autocomplete.
type AutocompleteResponse struct {
	Suggestions []geocode.Suggestion `json:"suggestions"`
}

// ReverseResponse is the body for GET /v1/geocode/reverse.
type ReverseResponse struct {
	Result *geocode.Suggestion `json:"result"`
}
