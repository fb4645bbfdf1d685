package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mehdishayek-png/ai-job-bot/internal/config"
	"github.com/mehdishayek-png/ai-job-bot/internal/db"
	"github.com/mehdishayek-png/ai-job-bot/internal/fetch"
	"github.com/mehdishayek-png/ai-job-bot/internal/notify"
	"github.com/mehdishayek-png/ai-job-bot/internal/pipeline"
	"github.com/mehdishayek-png/ai-job-bot/internal/providers"
	"github.com/mehdishayek-png/ai-job-bot/internal/quota"
	"github.com/mehdishayek-png/ai-job-bot/internal/scoring"
	"github.com/mehdishayek-png/ai-job-bot/internal/search"
	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

const defaultProfilePath = "data/profile.json"

func loadConfig() (*config.Config, error) {
	cfg, err := config.Resolve(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func profilePath(cfg *config.Config) string {
	if cfg.ProfilePath != "" {
		return cfg.ProfilePath
	}
	return defaultProfilePath
}

func loadProfile(cfg *config.Config) (*types.Profile, error) {
	path := profilePath(cfg)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s (run `jobbot profile` first): %w", path, err)
	}
	var profile types.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if len(profile.Skills) == 0 && profile.Headline == "" {
		return nil, fmt.Errorf("profile %s has no skills or headline", path)
	}
	return &profile, nil
}

func saveProfile(path string, profile *types.Profile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

func newQuotaTracker(cfg *config.Config) *quota.Tracker {
	return quota.New(cfg.QuotaFile, map[string]int{
		"serper":  cfg.SerperLimit,
		"serpapi": cfg.SerpAPILimit,
	})
}

// buildOrchestrator assembles the provider chain: paid providers in
// priority order, then the free feeds.
func buildOrchestrator(cfg *config.Config, tracker *quota.Tracker, freeOnly, parallel bool) *search.Orchestrator {
	var paid []providers.Provider
	if !freeOnly {
		if cfg.SerperAPIKey != "" {
			paid = append(paid, providers.NewSerper(cfg.SerperAPIKey))
		}
		if cfg.SerpAPIKey != "" {
			paid = append(paid, providers.NewSerpAPI(cfg.SerpAPIKey))
		}
	}

	free := []providers.Provider{providers.NewRemotive()}
	for _, feed := range providers.DefaultFeeds() {
		free = append(free, feed)
	}

	return &search.Orchestrator{
		Paid:     paid,
		Free:     free,
		Quota:    tracker,
		Parallel: parallel,
	}
}

// connectStore opens the optional Postgres store. Returns nil without error
// when no DATABASE_URL is configured.
func connectStore(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// buildNotifier creates the Telegram notifier when configured, nil otherwise.
func buildNotifier(cfg *config.Config) pipeline.Notifier {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == 0 {
		return nil
	}
	n, err := notify.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("[jobbot] telegram disabled: %v", err)
		return nil
	}
	return n
}

// buildPipeline wires a full pipeline. The caller owns closing the store.
func buildPipeline(cfg *config.Config, profile *types.Profile, tracker *quota.Tracker, store *db.DB, freeOnly, parallel bool) *pipeline.Pipeline {
	p := &pipeline.Pipeline{
		Config:   cfg,
		Profile:  profile,
		Searcher: buildOrchestrator(cfg, tracker, freeOnly, parallel),
		Engine:   scoring.NewEngine(),
		Enricher: fetch.NewEnricher(cfg.UseBrowser),
		Notifier: buildNotifier(cfg),
	}
	if store != nil {
		p.Store = store
	}
	return p
}
