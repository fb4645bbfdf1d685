package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mehdishayek-png/ai-job-bot/internal/schedule"
)

var watchIntervalHours int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run search cycles on a recurring schedule",
	Long:  "Run the pipeline immediately and then on a fixed interval until interrupted. Pair with Telegram notifications to get digests as runs complete.",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchIntervalHours, "interval", 6, "Hours between runs")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if watchIntervalHours < 1 {
		return fmt.Errorf("interval must be at least 1 hour")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireSearchProvider(); err != nil {
		return err
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
	p := buildPipeline(cfg, profile, tracker, store, false, true)

	scheduler := schedule.New(func(ctx context.Context) error {
		_, err := p.Run(ctx)
		return err
	}, watchIntervalHours)

	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer scheduler.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return nil
}
