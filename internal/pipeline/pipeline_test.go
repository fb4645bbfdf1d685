package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehdishayek-png/ai-job-bot/internal/config"
	"github.com/mehdishayek-png/ai-job-bot/internal/db"
	"github.com/mehdishayek-png/ai-job-bot/internal/scoring"
	"github.com/mehdishayek-png/ai-job-bot/internal/search"
	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

type fakeSearcher struct {
	jobs    []types.JobPosting
	queries []search.Query
}

func (f *fakeSearcher) MultiSearch(ctx context.Context, queries []search.Query, maxResultsPerQuery int) []types.JobPosting {
	f.queries = queries
	return f.jobs
}

type memStore struct {
	runs      map[uuid.UUID]string
	saved     []db.MatchRecord
	pinned    map[string]bool
	upsertErr error
}

func newMemStore() *memStore {
	return &memStore{runs: make(map[uuid.UUID]string), pinned: make(map[string]bool)}
}

func (s *memStore) CreateRun(ctx context.Context, id uuid.UUID) error {
	s.runs[id] = db.RunStatusRunning
	return nil
}

func (s *memStore) CompleteRun(ctx context.Context, id uuid.UUID, status string, jobsFound, matches int, runErr error) error {
	s.runs[id] = status
	return nil
}

func (s *memStore) UpsertMatch(ctx context.Context, rec db.MatchRecord) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.saved = append(s.saved, rec)
	return nil
}

func (s *memStore) PinnedKeys(ctx context.Context) (map[string]bool, error) {
	return s.pinned, nil
}

type memNotifier struct {
	digests [][]types.MatchResult
	errs    []error
}

func (n *memNotifier) SendDigest(matches []types.MatchResult) error {
	n.digests = append(n.digests, matches)
	return nil
}

func (n *memNotifier) SendError(runErr error) error {
	n.errs = append(n.errs, runErr)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		MatchThreshold: 50,
		MaxMatches:     25,
		MaxQueries:     8,
		MaxPerCompany:  3,
	}
}

func testProfile() *types.Profile {
	return &types.Profile{
		Headline:        "staff accountant",
		Skills:          []string{"accounting", "payroll", "excel", "reconciliation"},
		SearchTerms:     []string{"accountant"},
		YearsExperience: 5,
	}
}

func goodJob(company string) types.JobPosting {
	now := time.Now().Add(-2 * time.Hour)
	return types.JobPosting{
		Title:      "Staff Accountant",
		Company:    company,
		Summary:    "Looking for accounting and payroll experience, strong excel and reconciliation skills.",
		ApplyURL:   "https://example.com/" + company,
		PostedDate: &now,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	store := newMemStore()
	notifier := &memNotifier{}
	searcher := &fakeSearcher{jobs: []types.JobPosting{goodJob("acme"), goodJob("globex")}}

	p := &Pipeline{
		Config:   testConfig(),
		Profile:  testProfile(),
		Searcher: searcher,
		Engine:   scoring.NewEngine(),
		Store:    store,
		Notifier: notifier,
	}

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, searcher.queries)
	assert.Equal(t, 2, summary.JobsFound)
	require.Len(t, summary.Matches, 2)
	assert.Len(t, store.saved, 2)
	assert.Equal(t, db.RunStatusCompleted, store.runs[summary.RunID])

	require.Len(t, notifier.digests, 1)
	assert.Len(t, notifier.digests[0], 2)
}

func TestRun_ZeroResultsIsNotAnError(t *testing.T) {
	store := newMemStore()
	notifier := &memNotifier{}
	p := &Pipeline{
		Config:   testConfig(),
		Profile:  testProfile(),
		Searcher: &fakeSearcher{},
		Engine:   scoring.NewEngine(),
		Store:    store,
		Notifier: notifier,
	}

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.JobsFound)
	assert.Empty(t, summary.Matches)
	assert.Empty(t, notifier.digests, "no digest for an empty run")
	assert.Equal(t, db.RunStatusCompleted, store.runs[summary.RunID])
}

func TestRun_PersistFailureFailsRun(t *testing.T) {
	store := newMemStore()
	store.upsertErr = errors.New("db down")
	notifier := &memNotifier{}
	p := &Pipeline{
		Config:   testConfig(),
		Profile:  testProfile(),
		Searcher: &fakeSearcher{jobs: []types.JobPosting{goodJob("acme")}},
		Engine:   scoring.NewEngine(),
		Store:    store,
		Notifier: notifier,
	}

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.upsertErr)

	require.Len(t, notifier.errs, 1)
	for _, status := range store.runs {
		assert.Equal(t, db.RunStatusFailed, status)
	}
}

func TestRun_PinnedKeysReachRanking(t *testing.T) {
	store := newMemStore()
	pinnedJob := goodJob("acme")
	store.pinned[pinnedJob.DedupeKey()] = true

	p := &Pipeline{
		Config:   testConfig(),
		Profile:  testProfile(),
		Searcher: &fakeSearcher{jobs: []types.JobPosting{goodJob("globex"), pinnedJob}},
		Engine:   scoring.NewEngine(),
		Store:    store,
	}

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, summary.Matches)
	assert.Equal(t, pinnedJob.DedupeKey(), summary.Matches[0].Key())
	assert.True(t, summary.Matches[0].Pinned)
}

func TestRun_NoStoreNoNotifier(t *testing.T) {
	p := &Pipeline{
		Config:   testConfig(),
		Profile:  testProfile(),
		Searcher: &fakeSearcher{jobs: []types.JobPosting{goodJob("acme")}},
		Engine:   scoring.NewEngine(),
	}

	summary, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, summary.Matches, 1)
}

func TestRun_EmptyProfileUsesFallbackQuery(t *testing.T) {
	searcher := &fakeSearcher{}
	p := &Pipeline{
		Config:   testConfig(),
		Profile:  &types.Profile{},
		Searcher: searcher,
		Engine:   scoring.NewEngine(),
	}

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, searcher.queries)
	assert.Equal(t, "jobs", searcher.queries[0].Text)
}
