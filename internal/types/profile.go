// Package types provides type definitions for structured data used throughout the job bot.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// LocationGlobal is the sentinel location preference meaning "anywhere".
const LocationGlobal = "global"

// Profile represents the candidate record derived from a resume.
// It is created once by resume parsing, edited by the user, and read-only
// to the scoring engine.
type Profile struct {
	Name                string   `json:"name"`
	Headline            string   `json:"headline"`
	Skills              []string `json:"skills"`
	SearchTerms         []string `json:"search_terms,omitempty"` // Preferred job titles for query generation
	YearsExperience     int      `json:"years_experience"`
	LocationPreferences []string `json:"location_preferences,omitempty"` // Ordered, or ["global"]
}

// IsGlobal reports whether the profile has no location restriction.
func (p *Profile) IsGlobal() bool {
	if len(p.LocationPreferences) == 0 {
		return true
	}
	for _, loc := range p.LocationPreferences {
		if strings.EqualFold(strings.TrimSpace(loc), LocationGlobal) {
			return true
		}
	}
	return false
}

// PrimaryLocation returns the first concrete location preference, or empty
// when the profile is global.
func (p *Profile) PrimaryLocation() string {
	if p.IsGlobal() {
		return ""
	}
	return strings.TrimSpace(p.LocationPreferences[0])
}
