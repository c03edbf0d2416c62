// Package ridehail provides Uber and Lyft adapters. Both fall back to a
// distance-based heuristic quote when no upstream credentials are
// configured, so a development deployment still produces ridehail options.
package ridehail

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/wayfinder/wayfinder/internal/mobility"
	"github.com/wayfinder/wayfinder/pkg/geo"
)

const rideSpeedKMH = 45.0 // city average with pickup routing

// heuristicQuote estimates cost and in-ride duration from straight-line
// distance using a base fare plus a per-kilometer rate.
func heuristicQuote(origin, destination mobility.Location, baseUSD, perKMUSD float64) (costUSD float64, durationMin int) {
	distanceKM := geo.Haversine(origin.Lat, origin.Lng, destination.Lat, destination.Lng) / 1000

	costUSD = math.Round((baseUSD+distanceKM*perKMUSD)*100) / 100
	durationMin = int(distanceKM / rideSpeedKMH * 60)
	if durationMin < 1 {
		durationMin = 1
	}
	return costUSD, durationMin
}

func optionID(provider string) string {
	return fmt.Sprintf("%s_%s", provider, uuid.NewString()[:8])
}

func intPtr(v int) *int {
	return &v
}
