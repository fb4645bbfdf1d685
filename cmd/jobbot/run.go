package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mehdishayek-png/ai-job-bot/internal/observability"
)

var (
	runFreeOnly bool
	runParallel bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one search cycle and print the matches",
	Long:  "Generate queries from your profile, search all configured providers, score and rank the results, and print the matches. Results are persisted when DATABASE_URL is set.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runFreeOnly, "free-only", false, "Skip paid providers, search free feeds only")
	runCmd.Flags().BoolVar(&runParallel, "parallel", true, "Fan queries out concurrently")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !runFreeOnly {
		if err := cfg.RequireSearchProvider(); err != nil {
			return err
		}
	}

	profile, err := loadProfile(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := connectStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if store != nil {
		defer store.Close()
	}

	tracker := newQuotaTracker(cfg)
	p := buildPipeline(cfg, profile, tracker, store, runFreeOnly, runParallel)

	summary, err := p.Run(ctx)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintMatches(summary.Matches)
	printer.PrintQuota(tracker.Status())
	return nil
}
