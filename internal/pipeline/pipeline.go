// Package pipeline runs the full search cycle: query generation, provider
// search, enrichment, scoring, ranking, persistence and notification.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/mehdishayek-png/ai-job-bot/internal/config"
	"github.com/mehdishayek-png/ai-job-bot/internal/db"
	"github.com/mehdishayek-png/ai-job-bot/internal/ranking"
	"github.com/mehdishayek-png/ai-job-bot/internal/scoring"
	"github.com/mehdishayek-png/ai-job-bot/internal/search"
	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// defaultMaxResultsPerQuery bounds what each provider is asked for per query.
const defaultMaxResultsPerQuery = 20

// Searcher is the search layer the pipeline drives.
type Searcher interface {
	MultiSearch(ctx context.Context, queries []search.Query, maxResultsPerQuery int) []types.JobPosting
}

// Enricher fills thin job summaries from their apply URLs.
type Enricher interface {
	Enrich(ctx context.Context, job *types.JobPosting) (bool, error)
}

// Store persists runs and matches. All methods are optional at the pipeline
// level; a nil Store runs everything in memory.
type Store interface {
	CreateRun(ctx context.Context, id uuid.UUID) error
	CompleteRun(ctx context.Context, id uuid.UUID, status string, jobsFound, matches int, runErr error) error
	UpsertMatch(ctx context.Context, rec db.MatchRecord) error
	PinnedKeys(ctx context.Context) (map[string]bool, error)
}

// Notifier pushes run results to the user.
type Notifier interface {
	SendDigest(matches []types.MatchResult) error
	SendError(runErr error) error
}

// Pipeline wires the stages together. Store, Enricher and Notifier may be
// nil; their stages are then skipped.
type Pipeline struct {
	Config   *config.Config
	Profile  *types.Profile
	Searcher Searcher
	Engine   *scoring.Engine
	Enricher Enricher
	Store    Store
	Notifier Notifier
}

// Summary reports what one run did.
type Summary struct {
	RunID     uuid.UUID           `json:"run_id"`
	Queries   int                 `json:"queries"`
	JobsFound int                 `json:"jobs_found"`
	Matches   []types.MatchResult `json:"matches"`
}

// Run executes one full search cycle. A failed run is recorded and
// reported before the error is returned; it never disappears silently.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.New()
	log.Printf("[pipeline] run %s started", runID)

	if p.Store != nil {
		if err := p.Store.CreateRun(ctx, runID); err != nil {
			return nil, fmt.Errorf("failed to record run start: %w", err)
		}
	}

	summary, err := p.execute(ctx, runID)
	if err != nil {
		p.finishRun(ctx, runID, db.RunStatusFailed, 0, 0, err)
		if p.Notifier != nil {
			if nerr := p.Notifier.SendError(err); nerr != nil {
				log.Printf("[pipeline] failed to send error notification: %v", nerr)
			}
		}
		return nil, err
	}

	p.finishRun(ctx, runID, db.RunStatusCompleted, summary.JobsFound, len(summary.Matches), nil)
	log.Printf("[pipeline] run %s complete: %d jobs, %d matches",
		runID, summary.JobsFound, len(summary.Matches))
	return summary, nil
}

func (p *Pipeline) execute(ctx context.Context, runID uuid.UUID) (*Summary, error) {
	queries := search.GenerateQueries(p.Profile, p.Config.MaxQueries)
	if len(queries) == 0 {
		return nil, fmt.Errorf("profile produced no search queries")
	}
	log.Printf("[pipeline] generated %d queries", len(queries))

	jobs := p.Searcher.MultiSearch(ctx, queries, defaultMaxResultsPerQuery)
	log.Printf("[pipeline] search returned %d unique jobs", len(jobs))
	if len(jobs) == 0 {
		log.Printf("[pipeline] warning: zero results across all providers, check quota and credentials")
	}

	if p.Enricher != nil {
		enriched := 0
		for i := range jobs {
			updated, err := p.Enricher.Enrich(ctx, &jobs[i])
			if err != nil {
				log.Printf("[pipeline] enrichment failed for %s: %v", jobs[i].ApplyURL, err)
				continue
			}
			if updated {
				enriched++
			}
		}
		log.Printf("[pipeline] enriched %d job descriptions", enriched)
	}

	results := make([]types.MatchResult, 0, len(jobs))
	for i := range jobs {
		results = append(results, p.Engine.Score(&jobs[i], p.Profile, p.Profile.YearsExperience))
	}

	var pinned map[string]bool
	if p.Store != nil {
		var err error
		pinned, err = p.Store.PinnedKeys(ctx)
		if err != nil {
			log.Printf("[pipeline] failed to load pinned matches: %v", err)
		}
	}

	matches := ranking.Rank(results, ranking.Options{
		MinScore:      p.Config.MatchThreshold,
		MaxMatches:    p.Config.MaxMatches,
		MaxPerCompany: p.Config.MaxPerCompany,
		PinnedKeys:    pinned,
	})
	log.Printf("[pipeline] %d matches above threshold %d", len(matches), p.Config.MatchThreshold)

	if p.Store != nil {
		for _, m := range matches {
			if err := p.Store.UpsertMatch(ctx, db.NewMatchRecord(runID, m)); err != nil {
				return nil, fmt.Errorf("failed to persist match %s: %w", m.Key(), err)
			}
		}
	}

	if p.Notifier != nil && len(matches) > 0 {
		if err := p.Notifier.SendDigest(matches); err != nil {
			log.Printf("[pipeline] failed to send digest: %v", err)
		}
	}

	return &Summary{
		RunID:     runID,
		Queries:   len(queries),
		JobsFound: len(jobs),
		Matches:   matches,
	}, nil
}

func (p *Pipeline) finishRun(ctx context.Context, runID uuid.UUID, status string, jobsFound, matches int, runErr error) {
	if p.Store == nil {
		return
	}
	if err := p.Store.CompleteRun(ctx, runID, status, jobsFound, matches, runErr); err != nil {
		log.Printf("[pipeline] failed to record run completion: %v", err)
	}
}
