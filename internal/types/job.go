package types

import (
	"strings"
	"time"
)

// UnknownCompany is the canonical placeholder for a posting whose company
// could not be determined from the provider payload.
const UnknownCompany = "Unknown"

// JobPosting is the canonical posting record produced by provider adapters.
// Immutable after creation.
type JobPosting struct {
	Title      string     `json:"title"`
	Company    string     `json:"company"`
	Summary    string     `json:"summary"`
	Location   string     `json:"location,omitempty"`
	PostedDate *time.Time `json:"posted_date,omitempty"`
	ApplyURL   string     `json:"apply_url"`
	Source     string     `json:"source"`
}

// Text returns the combined title and summary text used for keyword and
// skill matching.
func (j *JobPosting) Text() string {
	return strings.TrimSpace(j.Title + " " + j.Summary)
}

// DedupeKey returns the (normalized company, normalized title) signature
// used to deduplicate postings across providers and queries.
func (j *JobPosting) DedupeKey() string {
	return NormalizeKey(j.Company) + ":" + NormalizeKey(j.Title)
}

// NormalizeKey lowercases and collapses whitespace for dedupe comparisons.
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
