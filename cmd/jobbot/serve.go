package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mehdishayek-png/ai-job-bot/internal/pipeline"
	"github.com/mehdishayek-png/ai-job-bot/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	Long:  "Start the HTTP server behind the dashboard: login, ranked matches, pinning, quota status, and on-demand search runs. Requires DATABASE_URL.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

// pipelineRunner adapts the pipeline to the server's runner interface.
type pipelineRunner struct {
	pipeline *pipeline.Pipeline
}

func (r *pipelineRunner) Run(ctx context.Context) (int, int, error) {
	summary, err := r.pipeline.Run(ctx)
	if err != nil {
		return 0, 0, err
	}
	return summary.JobsFound, len(summary.Matches), nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required for the dashboard")
	}
	if cfg.DashboardPassword == "" {
		return fmt.Errorf("config error: DASHBOARD_PASSWORD_HASH is required (generate one with `jobbot hash-password`)")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("config error: JWT_SECRET is required for the dashboard")
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
	defer store.Close()

	tracker := newQuotaTracker(cfg)
	p := buildPipeline(cfg, profile, tracker, store, false, true)

	port := cfg.ServerPort
	if servePort != 0 {
		port = servePort
	}

	srv, err := server.New(server.Config{
		Port:         port,
		PasswordHash: cfg.DashboardPassword,
		JWTSecret:    cfg.JWTSecret,
	}, store, tracker, &pipelineRunner{pipeline: p})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
