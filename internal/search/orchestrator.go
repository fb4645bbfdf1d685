package search

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/mehdishayek-png/ai-job-bot/internal/providers"
	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// QuotaTracker is the slice of the quota tracker the orchestrator needs.
type QuotaTracker interface {
	HasQuota(provider string) bool
	RecordUsage(provider string)
}

// Orchestrator executes queries against providers in priority order with
// quota-aware failover, then deduplicates the merged results.
type Orchestrator struct {
	// Paid providers, tried in order until one returns results. A provider
	// without remaining quota is skipped for the whole cycle.
	Paid []providers.Provider
	// Free providers are always queried; their results are appended.
	Free []providers.Provider

	Quota QuotaTracker

	// Parallel fans queries out concurrently. Results are merged in query
	// order, so the output is identical either way.
	Parallel bool
}

// MultiSearch runs every query and returns the deduplicated union of all
// provider results. Provider failures are logged and treated as zero
// results; the run never aborts over one provider or one query.
func (o *Orchestrator) MultiSearch(ctx context.Context, queries []Query, maxResultsPerQuery int) []types.JobPosting {
	if len(queries) == 0 {
		return nil
	}

	perQuery := make([][]types.JobPosting, len(queries))

	if o.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, q := range queries {
			g.Go(func() error {
				perQuery[i] = o.searchOne(gctx, q, maxResultsPerQuery)
				return nil
			})
		}
		// Workers never return errors; failures degrade to empty slots.
		_ = g.Wait()
	} else {
		for i, q := range queries {
			perQuery[i] = o.searchOne(ctx, q, maxResultsPerQuery)
		}
	}

	// Merge in query order so dedupe keeps the same winners regardless of
	// completion order.
	var merged []types.JobPosting
	for _, jobs := range perQuery {
		merged = append(merged, jobs...)
	}

	unique := Deduplicate(merged)
	log.Printf("[search] %d unique jobs from %d raw results across %d queries",
		len(unique), len(merged), len(queries))
	return unique
}

// searchOne tries the paid providers in priority order until one returns
// results, then appends the always-on free providers.
func (o *Orchestrator) searchOne(ctx context.Context, q Query, maxResults int) []types.JobPosting {
	var jobs []types.JobPosting

	for _, p := range o.Paid {
		if o.Quota != nil && !o.Quota.HasQuota(p.Name()) {
			log.Printf("[search] %s quota exhausted, skipping for %q", p.Name(), q.Text)
			continue
		}

		results, err := o.attempt(ctx, p, q, maxResults)
		if err != nil {
			log.Printf("[search] %s failed for %q: %v", p.Name(), q.Text, err)
			continue
		}
		if len(results) == 0 {
			log.Printf("[search] %s returned no results for %q, trying next provider", p.Name(), q.Text)
			continue
		}

		jobs = append(jobs, results...)
		break
	}

	for _, p := range o.Free {
		results, err := p.Search(ctx, q.Text, q.Location, maxResults)
		if err != nil {
			log.Printf("[search] %s failed for %q: %v", p.Name(), q.Text, err)
			continue
		}
		jobs = append(jobs, results...)
	}

	return jobs
}

// attempt performs one provider call, recording usage whether it succeeds
// or not: the provider-side budget is consumed either way.
func (o *Orchestrator) attempt(ctx context.Context, p providers.Provider, q Query, maxResults int) ([]types.JobPosting, error) {
	if o.Quota != nil && !p.Free() {
		o.Quota.RecordUsage(p.Name())
	}
	return p.Search(ctx, q.Text, q.Location, maxResults)
}

// Deduplicate removes postings sharing an apply URL or a (normalized
// company, normalized title) signature, keeping the first occurrence.
func Deduplicate(jobs []types.JobPosting) []types.JobPosting {
	seenURLs := make(map[string]bool)
	seenKeys := make(map[string]bool)

	unique := make([]types.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		if job.ApplyURL != "" && seenURLs[job.ApplyURL] {
			continue
		}
		key := job.DedupeKey()
		if seenKeys[key] {
			continue
		}
		if job.ApplyURL != "" {
			seenURLs[job.ApplyURL] = true
		}
		seenKeys[key] = true
		unique = append(unique, job)
	}
	return unique
}
