// Package letters generates short cover letters for matched jobs.
package letters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mehdishayek-png/ai-job-bot/internal/llm"
	"github.com/mehdishayek-png/ai-job-bot/internal/prompts"
	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

const maxSkillsInPrompt = 6

// Generator produces cover letters through an LLM. A generation failure is
// always returned to the caller; a missing letter must be visible, not a
// silently empty file.
type Generator struct {
	LLM       llm.Client
	OutputDir string
}

// NewGenerator returns a Generator writing letters under outputDir.
func NewGenerator(client llm.Client, outputDir string) *Generator {
	return &Generator{LLM: client, OutputDir: outputDir}
}

// Generate writes a cover letter for the job and returns its text.
func (g *Generator) Generate(ctx context.Context, job types.JobPosting, profile types.Profile) (string, error) {
	if g.LLM == nil {
		return "", fmt.Errorf("no llm client configured for cover letters")
	}

	template, err := prompts.Get("letters.json", "cover-letter")
	if err != nil {
		return "", err
	}

	skills := profile.Skills
	if len(skills) > maxSkillsInPrompt {
		skills = skills[:maxSkillsInPrompt]
	}

	prompt := prompts.Format(template, map[string]string{
		"Name":     profile.Name,
		"Headline": profile.Headline,
		"Skills":   strings.Join(skills, ", "),
		"Title":    job.Title,
		"Company":  job.Company,
		"Summary":  truncate(job.Summary, 1200),
	})

	letter, err := g.LLM.GenerateContent(ctx, llm.TierStandard, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate cover letter for %s at %s: %w", job.Title, job.Company, err)
	}

	letter = strings.TrimSpace(letter)
	if letter == "" {
		return "", fmt.Errorf("model returned empty cover letter for %s at %s", job.Title, job.Company)
	}
	return letter, nil
}

// GenerateToFile generates a letter and writes it to
// <OutputDir>/<Company>__<Title>.txt, returning the file path.
func (g *Generator) GenerateToFile(ctx context.Context, job types.JobPosting, profile types.Profile) (string, error) {
	letter, err := g.Generate(ctx, job, profile)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(g.OutputDir, LetterFilename(job))
	if err := os.WriteFile(path, []byte(letter+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("failed to write cover letter: %w", err)
	}
	return path, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// LetterFilename builds a filesystem-safe name for a job's letter.
func LetterFilename(job types.JobPosting) string {
	company := sanitizeFilePart(job.Company)
	title := sanitizeFilePart(job.Title)
	if company == "" {
		company = "unknown"
	}
	if title == "" {
		title = "role"
	}
	return company + "__" + title + ".txt"
}

func sanitizeFilePart(s string) string {
	s = unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(s), "_")
	s = strings.Trim(s, "_")
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
