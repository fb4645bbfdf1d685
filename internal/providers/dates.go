package providers

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relativeAgoRe = regexp.MustCompile(`(\d+)\s*(hour|day|week|month)s?\s*ago`)

// ParseRelativeDate turns a provider's human-readable age string ("posted
// 3 days ago", "today", "yesterday") into an absolute time. Returns nil
// when the string cannot be interpreted; a missing date is never an error.
func ParseRelativeDate(s string, now time.Time) *time.Time {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}

	if strings.Contains(s, "today") || strings.Contains(s, "just posted") {
		return &now
	}
	if strings.Contains(s, "yesterday") {
		t := now.AddDate(0, 0, -1)
		return &t
	}

	m := relativeAgoRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	var t time.Time
	switch m[2] {
	case "hour":
		t = now.Add(-time.Duration(n) * time.Hour)
	case "day":
		t = now.AddDate(0, 0, -n)
	case "week":
		t = now.AddDate(0, 0, -7*n)
	case "month":
		t = now.AddDate(0, 0, -30*n)
	default:
		return nil
	}
	return &t
}

// ParseISODate parses an ISO-8601 timestamp or date. Returns nil when the
// value is empty or unparseable.
func ParseISODate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
