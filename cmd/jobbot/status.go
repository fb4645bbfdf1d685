package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mehdishayek-png/ai-job-bot/internal/observability"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show remaining provider quota and the last run",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tracker := newQuotaTracker(cfg)
	observability.NewPrinter(os.Stdout).PrintQuota(tracker.Status())

	if cfg.DatabaseURL == "" {
		return nil
	}

	ctx := cmd.Context()
	store, err := connectStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	run, err := store.LatestRun(ctx)
	if err != nil {
		return err
	}
	if run == nil {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("Last run: %s at %s", run.Status, run.StartedAt.Format("2006-01-02 15:04"))
	if run.FinishedAt != nil {
		fmt.Printf(" (%d jobs, %d matches)", run.JobsFound, run.Matches)
	}
	fmt.Println()
	if run.Error != nil {
		fmt.Printf("Error: %s\n", *run.Error)
	}
	return nil
}
