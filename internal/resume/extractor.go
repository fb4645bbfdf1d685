// Package resume turns raw resume text into a search profile.
package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/mehdishayek-png/ai-job-bot/internal/llm"
	"github.com/mehdishayek-png/ai-job-bot/internal/prompts"
	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// genericSkills are traits the model sometimes returns that are useless as
// search terms. They are dropped from the extracted skill list.
var genericSkills = map[string]bool{
	"teamwork":             true,
	"communication":        true,
	"leadership":           true,
	"problem solving":      true,
	"problem-solving":      true,
	"time management":      true,
	"critical thinking":    true,
	"attention to detail":  true,
	"work ethic":           true,
	"interpersonal skills": true,
	"adaptability":         true,
	"collaboration":        true,
	"creativity":           true,
	"organization":         true,
	"multitasking":         true,
}

// Extractor builds a profile from resume text using an LLM, falling back to
// keyword heuristics when no client is configured.
type Extractor struct {
	LLM llm.Client
}

// NewExtractor returns an Extractor. A nil client is allowed; Extract then
// uses the heuristic path only.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{LLM: client}
}

type profilePayload struct {
	Name            string   `json:"name"`
	Headline        string   `json:"headline"`
	Skills          []string `json:"skills"`
	SearchTerms     []string `json:"search_terms"`
	YearsExperience int      `json:"years_experience"`
}

// Extract parses resume text into a Profile. The model output is validated
// against a schema and cleaned before use; if the LLM is unavailable or its
// output is unusable, a heuristic extraction is returned instead.
func (e *Extractor) Extract(ctx context.Context, resumeText string) (types.Profile, error) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return types.Profile{}, fmt.Errorf("resume text is empty")
	}

	if e.LLM == nil {
		return HeuristicProfile(resumeText), nil
	}

	profile, err := e.extractWithLLM(ctx, resumeText)
	if err != nil {
		log.Printf("[resume] llm extraction failed, using heuristic fallback: %v", err)
		return HeuristicProfile(resumeText), nil
	}
	return profile, nil
}

func (e *Extractor) extractWithLLM(ctx context.Context, resumeText string) (types.Profile, error) {
	template, err := prompts.Get("parsing.json", "extract-profile")
	if err != nil {
		return types.Profile{}, err
	}
	prompt := prompts.Format(template, map[string]string{"Resume": resumeText})

	raw, err := e.LLM.GenerateJSON(ctx, llm.TierLite, prompt)
	if err != nil {
		return types.Profile{}, err
	}

	if err := validateProfileJSON(raw); err != nil {
		return types.Profile{}, err
	}

	var payload profilePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return types.Profile{}, fmt.Errorf("failed to parse profile json: %w", err)
	}

	skills := CleanSkills(payload.Skills)
	if len(skills) == 0 {
		return types.Profile{}, fmt.Errorf("extracted profile has no usable skills")
	}

	return types.Profile{
		Name:            strings.TrimSpace(payload.Name),
		Headline:        strings.TrimSpace(payload.Headline),
		Skills:          skills,
		SearchTerms:     CleanSkills(payload.SearchTerms),
		YearsExperience: payload.YearsExperience,
	}, nil
}

// CleanSkills lowercases, trims, dedupes and drops generic traits from a
// skill list, preserving order.
func CleanSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || genericSkills[s] || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
