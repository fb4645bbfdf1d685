// Package scoring computes composite match scores for (job, profile) pairs.
//
// Score is a pure function: identical inputs always produce an identical
// MatchResult, with no hidden state. Every sub-score is retained in the
// breakdown for explainability.
package scoring

import (
	"strings"
	"time"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// Weights holds the tunable scoring constants. The defaults are carried
// over from long-running hand tuning; they encode "more recent and more
// overlapping scores higher", nothing deeper.
type Weights struct {
	SkillExact   int // exact multi-word substring match
	SkillPartial int // single significant word match
	SkillCap     int // cap on the summed skill score

	TitleScale float64 // applied to the 0-100 Jaccard similarity

	ExperienceBase        int // granted when the band is consistent or ambiguous
	PenaltyJuniorToSenior int // <3 years candidate, senior-band title
	PenaltySeniorToJunior int // >8 years candidate, explicitly junior title

	RecencyDay   int // posted <24h ago
	Recency3Days int // posted <3 days ago
	RecencyWeek  int // posted <7 days ago

	MaxTotal int // clamp on the summed total
}

// DefaultWeights returns the tuned constants.
func DefaultWeights() Weights {
	return Weights{
		SkillExact:            10,
		SkillPartial:          5,
		SkillCap:              30,
		TitleScale:            0.2,
		ExperienceBase:        10,
		PenaltyJuniorToSenior: 30,
		PenaltySeniorToJunior: 15,
		RecencyDay:            15,
		Recency3Days:          10,
		RecencyWeek:           5,
		MaxTotal:              100,
	}
}

// Engine scores postings against a profile.
type Engine struct {
	Weights  Weights
	Negative []string // disqualifying keywords, lowercase
	now      func() time.Time
}

// NewEngine creates an Engine with the default weights and negative
// keyword list.
func NewEngine() *Engine {
	return &Engine{
		Weights:  DefaultWeights(),
		Negative: DefaultNegativeKeywords,
		now:      time.Now,
	}
}

// Score computes the composite match for one posting. Disqualification
// short-circuits everything else: the result carries total 0 and the
// keyword that triggered it.
func (e *Engine) Score(job *types.JobPosting, profile *types.Profile, candidateYears int) types.MatchResult {
	if keyword, bad := e.disqualified(job); bad {
		return types.MatchResult{Job: *job, Disqualified: true, Reason: keyword}
	}

	jobText := strings.ToLower(job.Text())

	skillScore, matched := e.skillScore(jobText, profile.Skills)
	titleScore := e.titleScore(profile.Headline, job.Title)
	expScore := e.experienceScore(candidateYears, job.Title)
	recencyScore := e.recencyScore(job.PostedDate)

	total := skillScore + titleScore + expScore + recencyScore
	if total < 0 {
		total = 0
	}
	if total > e.Weights.MaxTotal {
		total = e.Weights.MaxTotal
	}

	return types.MatchResult{
		Job:        *job,
		TotalScore: total,
		Breakdown: types.ScoreBreakdown{
			Skills:        skillScore,
			Title:         titleScore,
			Experience:    expScore,
			Recency:       recencyScore,
			MatchedSkills: matched,
		},
	}
}

// disqualified reports whether the job text contains a negative keyword.
func (e *Engine) disqualified(job *types.JobPosting) (string, bool) {
	text := strings.ToLower(job.Text())
	for _, keyword := range e.Negative {
		if strings.Contains(text, keyword) {
			return keyword, true
		}
	}
	return "", false
}

// skillScore awards SkillExact for an exact substring match of the whole
// skill and SkillPartial when any significant word of the skill appears,
// summed and capped at SkillCap.
func (e *Engine) skillScore(jobText string, skills []string) (int, []string) {
	score := 0
	var matched []string

	for _, skill := range skills {
		skillLower := strings.ToLower(strings.TrimSpace(skill))
		if skillLower == "" {
			continue
		}

		if strings.Contains(jobText, skillLower) {
			score += e.Weights.SkillExact
			matched = append(matched, skill)
			continue
		}

		for _, word := range strings.Fields(skillLower) {
			if len(word) > 3 && strings.Contains(jobText, word) {
				score += e.Weights.SkillPartial
				matched = append(matched, skill)
				break
			}
		}
	}

	if score > e.Weights.SkillCap {
		score = e.Weights.SkillCap
	}
	return score, matched
}

// titleScore computes a Jaccard token-set similarity between the profile
// headline and the job title, scaled into points.
func (e *Engine) titleScore(headline, title string) int {
	headlineTokens := titleTokens(headline)
	jobTokens := titleTokens(title)
	if len(headlineTokens) == 0 || len(jobTokens) == 0 {
		return 0
	}

	intersection := 0
	for token := range headlineTokens {
		if jobTokens[token] {
			intersection++
		}
	}
	union := len(headlineTokens) + len(jobTokens) - intersection
	if union == 0 {
		return 0
	}

	similarity := float64(intersection) / float64(union) * 100
	return int(similarity * e.Weights.TitleScale)
}

// titleTokens lowercases a title and drops stop words and short tokens.
func titleTokens(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		if len(w) > 2 && !titleStopWords[w] {
			tokens[w] = true
		}
	}
	return tokens
}

// experienceScore grants the base points, less a penalty when the title's
// seniority band conflicts with the candidate's years. An ambiguous title
// carries no penalty.
func (e *Engine) experienceScore(candidateYears int, title string) int {
	penalty := 0
	switch band := titleSeniority(title); {
	case candidateYears < 3 && band == bandSenior:
		penalty = e.Weights.PenaltyJuniorToSenior
	case candidateYears > 8 && band == bandOpen && strings.Contains(strings.ToLower(title), "junior"):
		penalty = e.Weights.PenaltySeniorToJunior
	}
	return e.Weights.ExperienceBase - penalty
}

type seniorityBand int

const (
	bandOpen seniorityBand = iota
	bandMid
	bandSenior
)

// titleSeniority classifies a job title's seniority band from its markers.
func titleSeniority(title string) seniorityBand {
	t := strings.ToLower(title)
	for _, m := range seniorMarkers {
		if strings.Contains(t, m) {
			return bandSenior
		}
	}
	for _, m := range midMarkers {
		if strings.Contains(t, m) {
			return bandMid
		}
	}
	return bandOpen
}

// recencyScore grants a monotonically non-increasing bonus by posting age.
// A missing date earns zero, never a penalty.
func (e *Engine) recencyScore(posted *time.Time) int {
	if posted == nil {
		return 0
	}
	age := e.now().Sub(*posted)
	switch {
	case age < 0:
		return e.Weights.RecencyDay // future-dated postings count as fresh
	case age < 24*time.Hour:
		return e.Weights.RecencyDay
	case age < 3*24*time.Hour:
		return e.Weights.Recency3Days
	case age < 7*24*time.Hour:
		return e.Weights.RecencyWeek
	default:
		return 0
	}
}
