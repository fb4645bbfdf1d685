// Package ranking filters, orders and truncates scored match results.
package ranking

import (
	"sort"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// Options control one ranking pass. Pinned keys are explicit session state
// owned by the caller, never ambient globals.
type Options struct {
	MinScore      int
	MaxMatches    int
	MaxPerCompany int             // 0 disables the per-company cap
	PinnedKeys    map[string]bool // dedupe keys forced to the front
}

// Rank drops disqualified and sub-threshold results, stable-sorts the rest
// by score descending (ties keep fetch order), limits how many results one
// company may occupy, moves pinned results to the front preserving relative
// order within both groups, and truncates to MaxMatches.
func Rank(results []types.MatchResult, opts Options) []types.MatchResult {
	qualified := make([]types.MatchResult, 0, len(results))
	for _, r := range results {
		if r.Disqualified || r.TotalScore < opts.MinScore {
			continue
		}
		qualified = append(qualified, r)
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].TotalScore > qualified[j].TotalScore
	})

	if opts.MaxPerCompany > 0 {
		qualified = capPerCompany(qualified, opts.MaxPerCompany)
	}

	if len(opts.PinnedKeys) > 0 {
		qualified = pinnedFirst(qualified, opts.PinnedKeys)
	}

	if opts.MaxMatches > 0 && len(qualified) > opts.MaxMatches {
		qualified = qualified[:opts.MaxMatches]
	}
	return qualified
}

// capPerCompany keeps at most max results per normalized company name so a
// single employer cannot flood the list.
func capPerCompany(results []types.MatchResult, max int) []types.MatchResult {
	counts := make(map[string]int)
	out := make([]types.MatchResult, 0, len(results))
	for _, r := range results {
		company := types.NormalizeKey(r.Job.Company)
		if counts[company] >= max {
			continue
		}
		counts[company]++
		out = append(out, r)
	}
	return out
}

// pinnedFirst partitions results into pinned and unpinned groups, keeping
// the existing order inside each group.
func pinnedFirst(results []types.MatchResult, pinned map[string]bool) []types.MatchResult {
	out := make([]types.MatchResult, 0, len(results))
	var rest []types.MatchResult
	for _, r := range results {
		if pinned[r.Key()] {
			r.Pinned = true
			out = append(out, r)
		} else {
			rest = append(rest, r)
		}
	}
	return append(out, rest...)
}
