package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

func TestPrintMatches_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMatches(nil)

	assert.Contains(t, buf.String(), "No matches this run.")
}

func TestPrintMatches_ShowsScoresAndPin(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMatches([]types.MatchResult{
		{
			Job:        types.JobPosting{Title: "Staff Accountant", Company: "Acme", ApplyURL: "https://a.example"},
			TotalScore: 75,
			Breakdown:  types.ScoreBreakdown{Skills: 30, Title: 20, Experience: 10, Recency: 15, MatchedSkills: []string{"payroll"}},
			Pinned:     true,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Staff Accountant — Acme [pinned]")
	assert.Contains(t, out, "Score: 75")
	assert.Contains(t, out, "payroll")
	assert.Contains(t, out, "https://a.example")
}

func TestPrintMatches_TruncatesList(t *testing.T) {
	matches := make([]types.MatchResult, 14)
	for i := range matches {
		matches[i] = types.MatchResult{Job: types.JobPosting{Title: "Role", Company: "Co"}}
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintMatches(matches)

	out := buf.String()
	assert.Contains(t, out, "and 4 more matches")
	assert.Equal(t, maxMatchesToShow, strings.Count(out, "Role — Co"))
}

func TestPrintQuota_SortedAndFlagged(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintQuota(map[string]types.QuotaStatus{
		"serpapi": {Limit: 100, Used: 100, Remaining: 0},
		"serper":  {Limit: 2500, Used: 12, Remaining: 2488},
	})

	out := buf.String()
	assert.Contains(t, out, "100/100 used, 0 remaining")
	assert.Contains(t, out, "(exhausted)")
	assert.Less(t, strings.Index(out, "serpapi"), strings.Index(out, "serper"))
}

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProfile(&types.Profile{
		Name:            "Mehdi",
		Headline:        "accountant",
		Skills:          []string{"payroll", "excel"},
		SearchTerms:     []string{"accountant"},
		YearsExperience: 5,
	})

	out := buf.String()
	assert.Contains(t, out, "Mehdi")
	assert.Contains(t, out, "payroll, excel")
	assert.Contains(t, out, "Years:    5")
}

func TestPrintProfile_NilIsSilent(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProfile(nil)
	assert.Empty(t, buf.String())
}
