// Package gather implements the concurrent multi-provider collection phase:
// all registered adapters are invoked in parallel with per-adapter timeouts,
// failures are isolated, and an empty result triggers one synchronous
// baseline fallback.
package gather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayfinder/wayfinder/internal/mobility"
)

// DefaultAdapterTimeout bounds a single adapter invocation.
const DefaultAdapterTimeout = 5 * time.Second

// Adapter is one mobility data source. Implementations must be safe for
// concurrent invocation and should honor context cancellation; the
// orchestrator enforces the time budget regardless.
type Adapter interface {
	// Fetch returns zero or more normalized options for the trip. Errors are
	// logged and treated as zero results by the orchestrator, never
	// propagated to the caller.
	Fetch(ctx context.Context, origin, destination mobility.Location, when string) ([]mobility.Option, error)

	// Name returns the adapter identifier for logging and metrics.
	Name() string
}

// OrchestratorConfig holds configuration for the orchestrator.
type OrchestratorConfig struct {
	// Adapters is the registered adapter set. Concatenation order of results
	// follows this registration order, not completion order.
	Adapters []Adapter

	// Fallback is invoked synchronously when the concurrent phase yields
	// nothing. Typically the baseline walk/bike/drive adapter.
	Fallback Adapter

	// Logger for orchestrator operations.
	Logger zerolog.Logger

	// AdapterTimeout bounds each adapter call (default: 5 seconds).
	AdapterTimeout time.Duration
}

// Orchestrator fans out to all adapters and fans results back in.
type Orchestrator struct {
	adapters []Adapter
	fallback Adapter
	logger   zerolog.Logger
	timeout  time.Duration
	metrics  *adapterMetrics
}

// NewOrchestrator creates a new gathering orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	timeout := cfg.AdapterTimeout
	if timeout == 0 {
		timeout = DefaultAdapterTimeout
	}

	return &Orchestrator{
		adapters: cfg.Adapters,
		fallback: cfg.Fallback,
		logger:   cfg.Logger,
		timeout:  timeout,
		metrics:  newAdapterMetrics(),
	}
}

// Gather collects options from every adapter concurrently. One adapter's
// failure, timeout, or panic never cancels or blocks the others. The only
// way the result is empty is if the baseline fallback also yields nothing,
// which is a legitimate "no route found" outcome for the caller to surface.
func (o *Orchestrator) Gather(ctx context.Context, origin, destination mobility.Location, when string) []mobility.Option {
	results := make([][]mobility.Option, len(o.adapters))

	var wg sync.WaitGroup
	for i, adapter := range o.adapters {
		wg.Add(1)
		go func(i int, adapter Adapter) {
			defer wg.Done()
			results[i] = o.fetchOne(ctx, adapter, origin, destination, when)
		}(i, adapter)
	}
	wg.Wait()

	var options []mobility.Option
	for _, r := range results {
		options = append(options, r...)
	}

	if len(options) == 0 && o.fallback != nil {
		o.logger.Warn().Msg("all adapters returned empty, retrying baseline fallback")
		options = o.fetchOne(ctx, o.fallback, origin, destination, when)
	}

	o.logger.Debug().
		Int("option_count", len(options)).
		Int("adapter_count", len(o.adapters)).
		Msg("gather complete")

	return options
}

type fetchResult struct {
	options []mobility.Option
	err     error
}

// fetchOne runs a single adapter under the time budget, converting every
// failure mode, including panics and deadline overruns, into zero results.
// The Fetch call runs in its own goroutine so an adapter that ignores
// context cancellation cannot block the fan-out past the deadline; a late
// result is discarded.
func (o *Orchestrator) fetchOne(ctx context.Context, adapter Adapter, origin, destination mobility.Location, when string) []mobility.Option {
	start := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	// Buffered so the adapter goroutine can always complete its send and
	// exit, even after the deadline branch has already returned.
	done := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetchResult{err: fmt.Errorf("adapter panicked: %v", r)}
			}
		}()
		opts, err := adapter.Fetch(fetchCtx, origin, destination, when)
		done <- fetchResult{options: opts, err: err}
	}()

	select {
	case res := <-done:
		o.metrics.record(adapter.Name(), time.Since(start), res.err != nil)
		if res.err != nil {
			o.logger.Warn().
				Err(res.err).
				Str("adapter", adapter.Name()).
				Dur("elapsed", time.Since(start)).
				Msg("adapter failed, continuing without it")
			return nil
		}
		return res.options
	case <-fetchCtx.Done():
		o.metrics.record(adapter.Name(), time.Since(start), true)
		o.logger.Warn().
			Str("adapter", adapter.Name()).
			Dur("elapsed", time.Since(start)).
			Msg("adapter exceeded its deadline, discarding its results")
		return nil
	}
}

// AdapterNames returns registered adapter names in registration order.
func (o *Orchestrator) AdapterNames() []string {
	names := make([]string, len(o.adapters))
	for i, a := range o.adapters {
		names[i] = a.Name()
	}
	return names
}
