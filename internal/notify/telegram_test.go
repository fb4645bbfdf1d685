package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

func match(title, company string, score int) types.MatchResult {
	return types.MatchResult{
		Job:        types.JobPosting{Title: title, Company: company, ApplyURL: "https://example.com/apply"},
		TotalScore: score,
	}
}

func TestFormatDigest_Empty(t *testing.T) {
	assert.Equal(t, "No new matches this run.", FormatDigest(nil))
}

func TestFormatDigest_ContainsJobs(t *testing.T) {
	text := FormatDigest([]types.MatchResult{
		match("Staff Accountant", "Maple Ledger", 72),
		match("Payroll Analyst", "Acme", 61),
	})

	assert.Contains(t, text, "2 new matches")
	assert.Contains(t, text, "Staff Accountant")
	assert.Contains(t, text, "score 72")
	assert.Contains(t, text, "Payroll Analyst")
	assert.Contains(t, text, "https://example.com/apply")
}

func TestFormatDigest_EscapesHTML(t *testing.T) {
	text := FormatDigest([]types.MatchResult{
		match("C++ <Senior> Dev", "A & B Co", 55),
	})

	assert.Contains(t, text, "C++ &lt;Senior&gt; Dev")
	assert.Contains(t, text, "A &amp; B Co")
	assert.NotContains(t, text, "<Senior>")
}

func TestFormatDigest_TruncatesLongRuns(t *testing.T) {
	var matches []types.MatchResult
	for i := 0; i < 15; i++ {
		matches = append(matches, match("Role", "Co", 50+i))
	}

	text := FormatDigest(matches)
	assert.Contains(t, text, "15 new matches")
	assert.Contains(t, text, "and 5 more")
	assert.Equal(t, maxJobsPerMessage, strings.Count(text, "🔗"))
}
