// Package plan assembles the full trip plan: gathered provider options plus
// one recommendation per scoring agent.
package plan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wayfinder/wayfinder/internal/agents"
	"github.com/wayfinder/wayfinder/internal/mobility"
)

const tracerName = "github.com/wayfinder/wayfinder/internal/plan"

// Gatherer collects normalized options from all providers.
type Gatherer interface {
	Gather(ctx context.Context, origin, destination mobility.Location, when string) []mobility.Option
}

// SafetyProvider computes the request-scoped safety context. It is
// best-effort: the service treats any failure as the zero context.
type SafetyProvider interface {
	Compute(segments []mobility.Location, when string) mobility.SafetyContext
}

// ServiceConfig holds configuration for the plan service.
type ServiceConfig struct {
	// Gatherer is the gathering orchestrator.
	Gatherer Gatherer

	// Safety is the safety context provider. Optional; nil degrades to the
	// zero context.
	Safety SafetyProvider

	// Agents is the scoring agent set. Defaults to agents.All().
	Agents []agents.Agent

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service coordinates gathering, safety context, and scoring.
type Service struct {
	gatherer Gatherer
	safety   SafetyProvider
	agents   []agents.Agent
	logger   zerolog.Logger
}

// Result is the assembled plan response.
type Result struct {
	Options []mobility.Option                  `json:"options"`
	Agents  map[string]mobility.Recommendation `json:"agents"`
}

// NewService creates a new plan service.
func NewService(cfg ServiceConfig) *Service {
	agentSet := cfg.Agents
	if len(agentSet) == 0 {
		agentSet = agents.All()
	}

	return &Service{
		gatherer: cfg.Gatherer,
		safety:   cfg.Safety,
		agents:   agentSet,
		logger:   cfg.Logger,
	}
}

// Plan gathers options for the trip and scores them with every agent.
// It fails only on invalid input or when gathering, including the baseline
// fallback, yields no options at all; individual agent defects degrade to a
// placeholder recommendation instead of aborting the request.
func (s *Service) Plan(ctx context.Context, origin, destination mobility.Location, when string) (*Result, error) {
	if err := origin.Validate(); err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}
	if when != "" {
		if _, err := time.Parse(time.RFC3339, when); err != nil {
			return nil, fmt.Errorf("%w: %q", mobility.ErrInvalidWhen, when)
		}
	}

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "plan")
	defer span.End()

	start := time.Now()
	options := s.gatherer.Gather(ctx, origin, destination, when)
	span.SetAttributes(attribute.Int("plan.option_count", len(options)))

	if len(options) == 0 {
		s.logger.Warn().
			Float64("origin_lat", origin.Lat).
			Float64("origin_lng", origin.Lng).
			Float64("dest_lat", destination.Lat).
			Float64("dest_lng", destination.Lng).
			Msg("gathering yielded no options")
		return nil, mobility.ErrNoOptions
	}

	sctx := s.computeSafetyContext(origin, destination, when)

	recommendations := s.scoreAll(options, sctx)

	s.logger.Info().
		Int("option_count", len(options)).
		Int("agent_count", len(recommendations)).
		Dur("elapsed", time.Since(start)).
		Msg("plan assembled")

	return &Result{
		Options: options,
		Agents:  recommendations,
	}, nil
}

// computeSafetyContext runs the safety provider, degrading any failure to
// the zero context.
func (s *Service) computeSafetyContext(origin, destination mobility.Location, when string) (sctx mobility.SafetyContext) {
	if s.safety == nil {
		return mobility.SafetyContext{}
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Interface("panic", r).
				Msg("safety context provider failed, using default context")
			sctx = mobility.SafetyContext{}
		}
	}()

	segments := []mobility.Location{origin, destination}
	return s.safety.Compute(segments, when)
}

// scoreAll runs every agent concurrently. A single agent's defect yields a
// placeholder recommendation pointing at the first option so the response
// always carries one entry per agent.
func (s *Service) scoreAll(options []mobility.Option, sctx mobility.SafetyContext) map[string]mobility.Recommendation {
	recommendations := make(map[string]mobility.Recommendation, len(s.agents))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, agent := range s.agents {
		wg.Add(1)
		go func(agent agents.Agent) {
			defer wg.Done()
			rec := s.scoreOne(agent, options, sctx)
			mu.Lock()
			recommendations[agent.Name()] = rec
			mu.Unlock()
		}(agent)
	}
	wg.Wait()

	return recommendations
}

// scoreOne invokes one agent with panic isolation.
func (s *Service) scoreOne(agent agents.Agent, options []mobility.Option, sctx mobility.SafetyContext) (rec mobility.Recommendation) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("agent", agent.Name()).
				Interface("panic", r).
				Msg("agent failed, substituting placeholder recommendation")
			rec = mobility.Recommendation{
				OptionID: options[0].ID,
				Score:    0.5,
				Why:      "Agent unavailable, using first option",
			}
		}
	}()

	return agent.Score(options, sctx)
}
