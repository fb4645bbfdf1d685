package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

func TestNewMatchRecord(t *testing.T) {
	runID := uuid.New()
	posted := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	match := types.MatchResult{
		Job: types.JobPosting{
			Title:      "Staff Accountant",
			Company:    "Maple Ledger",
			PostedDate: &posted,
		},
		TotalScore: 72,
		Breakdown: types.ScoreBreakdown{
			Skills:        30,
			MatchedSkills: []string{"payroll"},
		},
		Pinned: true,
	}

	rec := NewMatchRecord(runID, match)

	assert.Equal(t, match.Key(), rec.DedupeKey)
	assert.Equal(t, runID, rec.RunID)
	assert.Equal(t, 72, rec.Score)
	assert.Equal(t, 30, rec.Breakdown.Skills)
	assert.True(t, rec.Pinned)
	assert.Equal(t, &posted, rec.Job.PostedDate)
}

func TestNewMatchRecord_KeyNormalization(t *testing.T) {
	a := NewMatchRecord(uuid.Nil, types.MatchResult{
		Job: types.JobPosting{Title: "Staff  Accountant", Company: "MAPLE ledger"},
	})
	b := NewMatchRecord(uuid.Nil, types.MatchResult{
		Job: types.JobPosting{Title: "staff accountant", Company: "Maple Ledger"},
	})
	assert.Equal(t, a.DedupeKey, b.DedupeKey)
}
