package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mehdishayek-png/ai-job-bot/internal/llm"
	"github.com/mehdishayek-png/ai-job-bot/internal/observability"
	"github.com/mehdishayek-png/ai-job-bot/internal/resume"
)

var (
	profileResumeFile string
	profileOutFile    string
	profileHeuristic  bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Build a search profile from your resume",
	Long:  "Extract a search profile (skills, headline, preferred titles) from a plain-text resume. Uses Gemini unless --heuristic is set.",
	RunE:  runProfile,
}

func init() {
	profileCmd.Flags().StringVarP(&profileResumeFile, "resume", "r", "", "Path to plain-text resume (required)")
	profileCmd.Flags().StringVarP(&profileOutFile, "out", "o", "", "Where to write the profile JSON (default: configured profile path)")
	profileCmd.Flags().BoolVar(&profileHeuristic, "heuristic", false, "Skip the LLM and use keyword extraction only")
	_ = profileCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	resumeText, err := os.ReadFile(profileResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume %s: %w", profileResumeFile, err)
	}

	ctx := cmd.Context()
	var client llm.Client
	if !profileHeuristic {
		if err := cfg.RequireLLM(); err != nil {
			return err
		}
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, llm.DefaultGeminiConfig())
		if err != nil {
			return err
		}
		defer func() { _ = gemini.Close() }()
		client = gemini
	}

	profile, err := resume.NewExtractor(client).Extract(ctx, string(resumeText))
	if err != nil {
		return err
	}

	outPath := profileOutFile
	if outPath == "" {
		outPath = profilePath(cfg)
	}
	if err := saveProfile(outPath, &profile); err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintProfile(&profile)
	fmt.Printf("Profile written to %s\n", outPath)
	return nil
}
