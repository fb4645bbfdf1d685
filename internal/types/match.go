package types

// ScoreBreakdown maps sub-score names to their values, retained for
// explainability in the UI and logs.
type ScoreBreakdown struct {
	Skills        int      `json:"skills"`
	Title         int      `json:"title"`
	Experience    int      `json:"experience"`
	Recency       int      `json:"recency"`
	MatchedSkills []string `json:"matched_skills,omitempty"`
}

// MatchResult is the output of scoring one posting against a profile.
// Immutable; ordering over a collection of MatchResult is the ranking
// contract.
type MatchResult struct {
	Job          JobPosting     `json:"job"`
	TotalScore   int            `json:"total_score"`
	Breakdown    ScoreBreakdown `json:"breakdown"`
	Disqualified bool           `json:"disqualified"`
	Reason       string         `json:"reason,omitempty"` // Negative keyword that disqualified, if any
	Pinned       bool           `json:"pinned,omitempty"`
}

// Key returns the dedupe signature of the underlying posting, used for
// pinning and persistence.
func (m *MatchResult) Key() string {
	return m.Job.DedupeKey()
}
