package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mehdishayek-png/ai-job-bot/internal/letters"
	"github.com/mehdishayek-png/ai-job-bot/internal/llm"
	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

var (
	letterTop     int
	letterTitle   string
	letterCompany string
	letterSummary string
	letterURL     string
)

var coverLetterCmd = &cobra.Command{
	Use:   "coverletter",
	Short: "Generate cover letters for matches",
	Long:  "Generate short cover letters. By default letters are written for the top stored matches (requires DATABASE_URL); pass --title and --company to write one for an arbitrary job instead.",
	RunE:  runCoverLetter,
}

func init() {
	coverLetterCmd.Flags().IntVar(&letterTop, "top", 3, "How many of the top stored matches to cover")
	coverLetterCmd.Flags().StringVar(&letterTitle, "title", "", "Job title for a one-off letter")
	coverLetterCmd.Flags().StringVar(&letterCompany, "company", "", "Company for a one-off letter")
	coverLetterCmd.Flags().StringVar(&letterSummary, "summary", "", "Job description text for a one-off letter")
	coverLetterCmd.Flags().StringVar(&letterURL, "url", "", "Apply URL for a one-off letter")
	rootCmd.AddCommand(coverLetterCmd)
}

func runCoverLetter(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireLLM(); err != nil {
		return err
	}

	profile, err := loadProfile(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, llm.DefaultGeminiConfig())
	if err != nil {
		return err
	}
	defer func() { _ = gemini.Close() }()

	gen := letters.NewGenerator(gemini, cfg.OutputDir)

	adhoc := letterTitle != "" || letterCompany != ""
	if adhoc {
		if letterTitle == "" || letterCompany == "" {
			return fmt.Errorf("one-off letters need both --title and --company")
		}
		job := types.JobPosting{
			Title:    letterTitle,
			Company:  letterCompany,
			Summary:  letterSummary,
			ApplyURL: letterURL,
		}
		path, err := gen.GenerateToFile(ctx, job, *profile)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required to cover stored matches (or pass --title/--company)")
	}
	store, err := connectStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	matches, err := store.ListMatches(ctx, letterTop)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no stored matches; run `jobbot run` first")
	}

	for _, rec := range matches {
		path, err := gen.GenerateToFile(ctx, rec.Job, *profile)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}
