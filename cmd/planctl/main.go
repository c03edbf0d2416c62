// Package main provides planctl, a command line client for computing
// trip plans with the same provider stack the API server uses.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wayfinder/wayfinder/internal/config"
	"github.com/wayfinder/wayfinder/internal/gather"
	"github.com/wayfinder/wayfinder/internal/mobility"
	"github.com/wayfinder/wayfinder/internal/plan"
	"github.com/wayfinder/wayfinder/internal/provider/baseline"
	"github.com/wayfinder/wayfinder/internal/provider/micromobility"
	"github.com/wayfinder/wayfinder/internal/provider/resilience"
	"github.com/wayfinder/wayfinder/internal/provider/ridehail"
	"github.com/wayfinder/wayfinder/internal/provider/transit"
	"github.com/wayfinder/wayfinder/internal/safety"
)

var (
	fromLat float64
	fromLng float64
	toLat   float64
	toLng   float64
	whenArg string
	timeout time.Duration
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "Compute a trip plan across mobility providers",
	Long: `planctl gathers travel options from ride-hail, micromobility, transit
and baseline providers, scores them with the four advisor agents, and
prints each agent's recommendation.

Provider credentials are read from the same environment variables the
API server uses (UBER_SERVER_TOKEN, LYFT_CLIENT_ID, LYFT_CLIENT_SECRET,
LIME_GBFS_URL). Without credentials every provider quotes heuristically.`,
	RunE: runPlan,
}

func init() {
	rootCmd.Flags().Float64Var(&fromLat, "from-lat", 0, "Origin latitude")
	rootCmd.Flags().Float64Var(&fromLng, "from-lng", 0, "Origin longitude")
	rootCmd.Flags().Float64Var(&toLat, "to-lat", 0, "Destination latitude")
	rootCmd.Flags().Float64Var(&toLng, "to-lng", 0, "Destination longitude")
	rootCmd.Flags().StringVar(&whenArg, "when", "", "Departure time (RFC3339, default now)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "Overall plan timeout")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	for _, flag := range []string{"from-lat", "from-lng", "to-lat", "to-lng"} {
		if err := rootCmd.MarkFlagRequired(flag); err != nil {
			panic(err)
		}
	}
}

func runPlan(cmd *cobra.Command, _ []string) error {
	log := zerolog.Nop()
	if verbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().
			Timestamp().
			Logger()
	}

	cfg := config.FromEnv()
	service := buildPlanService(cfg, log)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result, err := service.Plan(ctx,
		mobility.Location{Lat: fromLat, Lng: fromLng},
		mobility.Location{Lat: toLat, Lng: toLng},
		whenArg,
	)
	if err != nil {
		return fmt.Errorf("computing plan: %w", err)
	}

	printResult(cmd, result)
	return nil
}

func buildPlanService(cfg config.Config, log zerolog.Logger) *plan.Service {
	registry := resilience.NewRegistry()

	uber := ridehail.NewUber(ridehail.UberConfig{
		ServerToken: cfg.UberServerToken,
		Registry:    registry,
		Logger:      log,
	})
	lyft := ridehail.NewLyft(ridehail.LyftConfig{
		ClientID:     cfg.LyftClientID,
		ClientSecret: cfg.LyftClientSecret,
		Registry:     registry,
		Logger:       log,
	})
	lime := micromobility.NewLime(micromobility.LimeConfig{
		GBFSURL:  cfg.LimeGBFSURL,
		Registry: registry,
		Logger:   log,
	})
	muni := transit.NewAdapter(transit.AdapterConfig{
		Line:   cfg.TransitLine,
		Logger: log,
	})
	fallback := baseline.NewAdapter(baseline.AdapterConfig{Logger: log})

	orchestrator := gather.NewOrchestrator(gather.OrchestratorConfig{
		Adapters:       []gather.Adapter{uber, lyft, lime, muni, fallback},
		Fallback:       fallback,
		Logger:         log,
		AdapterTimeout: cfg.AdapterTimeout,
	})

	return plan.NewService(plan.ServiceConfig{
		Gatherer: orchestrator,
		Safety:   safety.NewService(safety.ServiceConfig{Logger: log}),
		Logger:   log,
	})
}

func printResult(cmd *cobra.Command, result *plan.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Options (%d):\n", len(result.Options))
	for _, opt := range result.Options {
		fmt.Fprintf(out, "  %-28s %-14s %3d min  $%.2f", opt.ID, opt.Provider, opt.TotalTimeMin(), opt.CostUSD)
		if opt.CO2Grams > 0 {
			fmt.Fprintf(out, "  %dg CO2", opt.CO2Grams)
		}
		fmt.Fprintln(out)
	}

	names := make([]string, 0, len(result.Agents))
	for name := range result.Agents {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "\nRecommendations:")
	for _, name := range names {
		rec := result.Agents[name]
		fmt.Fprintf(out, "  %-8s %-28s score %.2f  %s\n", name, rec.OptionID, rec.Score, rec.Why)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
