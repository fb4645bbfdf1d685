// Package search generates query strings from a candidate profile and
// orchestrates multi-provider search with quota-aware failover.
package search

import (
	"strings"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// Query is one search request: a query string plus an optional location
// hint for the provider.
type Query struct {
	Text     string
	Location string
}

const (
	maxPrimaryTerms  = 3
	maxSkillVariants = 2
)

// GenerateQueries combines the profile's preferred titles, top skills and
// location preference into a bounded, deduplicated, deterministic query
// list. Identical profiles always produce identical queries in the same
// order.
func GenerateQueries(profile *types.Profile, maxQueries int) []Query {
	if maxQueries <= 0 {
		return nil
	}

	terms := profile.SearchTerms
	if len(terms) == 0 {
		if strings.TrimSpace(profile.Headline) != "" {
			terms = []string{profile.Headline}
		} else {
			terms = []string{"jobs"}
		}
	}

	location := profile.PrimaryLocation()

	var queries []Query
	seen := make(map[string]bool)
	add := func(q Query) {
		q.Text = strings.Join(strings.Fields(q.Text), " ")
		if q.Text == "" || len(queries) >= maxQueries {
			return
		}
		sig := strings.ToLower(q.Text) + "|" + strings.ToLower(q.Location)
		if seen[sig] {
			return
		}
		seen[sig] = true
		queries = append(queries, q)
	}

	// Base queries from the preferred titles
	for i, term := range terms {
		if i >= maxPrimaryTerms {
			break
		}
		add(Query{Text: term, Location: location})
	}

	// Skill-enhanced variants of the primary term for variety
	if len(profile.Skills) > 0 && len(terms) > 0 {
		for i, skill := range profile.Skills {
			if i >= maxSkillVariants {
				break
			}
			add(Query{Text: terms[0] + " " + skill, Location: location})
		}
	}

	// Remote variant when the candidate has no location restriction
	if profile.IsGlobal() && len(terms) > 0 {
		add(Query{Text: terms[0] + " remote"})
	}

	return queries
}
