// Package safety computes the request-scoped risk context used by the
// safety scoring agent: a bounded risk penalty and an estimate of how many
// walking minutes fall in night hours.
package safety

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayfinder/wayfinder/internal/mobility"
	"github.com/wayfinder/wayfinder/pkg/geo"
)

const (
	// walkSpeedMetersPerMin is a fixed 5 km/h walking speed model.
	walkSpeedMetersPerMin = 83.4

	// maxRiskPenalty bounds the accumulated risk penalty.
	maxRiskPenalty = 0.3

	nightStartHour = 22
	nightEndHour   = 6
)

// ServiceConfig holds configuration for the safety context service.
type ServiceConfig struct {
	// Logger for service operations.
	Logger zerolog.Logger
}

// Service computes safety context. It is best-effort: malformed departure
// times degrade to the length-based factors only, never to an error.
type Service struct {
	logger zerolog.Logger
}

// NewService creates a new safety context service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{logger: cfg.Logger}
}

// Compute returns the safety context for the given walking segments and
// departure time. when is an RFC3339 timestamp; an empty or unparsable value
// is treated as absent.
func (s *Service) Compute(segments []mobility.Location, when string) mobility.SafetyContext {
	departure, hasTime := parseWhen(when)
	if when != "" && !hasTime {
		s.logger.Debug().Str("when", when).Msg("unparsable departure time, ignoring time-based risk")
	}

	walkMinutes := walkDurationMinutes(segments)

	risk := 0.0
	if hasTime {
		risk += timeOfDayRisk(departure)
	}
	if len(segments) >= 2 {
		risk += walkLengthRisk(walkMinutes)
	}
	risk = math.Min(maxRiskPenalty, math.Max(0.0, risk))

	nightMinutes := 0
	if hasTime && len(segments) >= 2 {
		nightMinutes = nightWalkMinutes(departure, walkMinutes)
	}

	return mobility.SafetyContext{
		RiskPenalty:      risk,
		NightWalkMinutes: nightMinutes,
	}
}

// parseWhen parses an RFC3339 timestamp, reporting failures as absent.
func parseWhen(when string) (time.Time, bool) {
	if when == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, when)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// walkDurationMinutes converts the total segment distance to minutes at the
// fixed walking speed.
func walkDurationMinutes(segments []mobility.Location) float64 {
	if len(segments) < 2 {
		return 0
	}
	points := make([]geo.Point, len(segments))
	for i, s := range segments {
		points[i] = geo.Point{Lat: s.Lat, Lng: s.Lng}
	}
	return geo.PathDistance(points) / walkSpeedMetersPerMin
}

// timeOfDayRisk returns the time-of-day risk factor: night window
// [22:00, 06:00) carries the highest penalty, the evening and early-morning
// shoulders [20:00, 22:00) and [06:00, 08:00) a reduced one.
func timeOfDayRisk(t time.Time) float64 {
	hour := t.Hour()
	switch {
	case hour >= nightStartHour || hour < nightEndHour:
		return 0.15
	case hour >= 20 || hour < 8:
		return 0.08
	default:
		return 0.0
	}
}

// walkLengthRisk returns the walk-length risk tier.
func walkLengthRisk(walkMinutes float64) float64 {
	switch {
	case walkMinutes > 10:
		return 0.10
	case walkMinutes > 5:
		return 0.05
	case walkMinutes > 2:
		return 0.02
	default:
		return 0.0
	}
}

// nightWalkMinutes returns how many of the walk's minutes fall within night
// hours [22:00, 06:00), capped at the total walk duration. A walk starting at
// night counts minutes until dawn; a daytime walk counts minutes past 22:00
// if the duration pushes it there.
func nightWalkMinutes(start time.Time, walkMinutes float64) int {
	if walkMinutes <= 0 {
		return 0
	}

	hour := start.Hour()
	if hour >= nightStartHour || hour < nightEndHour {
		dawn := time.Date(start.Year(), start.Month(), start.Day(), nightEndHour, 0, 0, 0, start.Location())
		if hour >= nightStartHour {
			dawn = dawn.AddDate(0, 0, 1)
		}
		untilDawn := dawn.Sub(start).Minutes()
		return int(math.Round(math.Min(walkMinutes, untilDawn)))
	}

	nightfall := time.Date(start.Year(), start.Month(), start.Day(), nightStartHour, 0, 0, 0, start.Location())
	end := start.Add(time.Duration(walkMinutes * float64(time.Minute)))
	if end.After(nightfall) {
		return int(math.Round(math.Min(walkMinutes, end.Sub(nightfall).Minutes())))
	}
	return 0
}
