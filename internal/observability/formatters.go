// Package observability provides formatted CLI output for matches and quota.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxMatchesToShow caps how many matches the summary box lists
	maxMatchesToShow = 10
)

// Printer handles formatted terminal output.
type Printer struct {
	out io.Writer
}

// clipRunes cuts s at max bytes without splitting a multibyte rune.
func clipRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = clipRunes(line, boxWidth-7) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMatches renders the ranked match list.
func (p *Printer) PrintMatches(matches []types.MatchResult) {
	if len(matches) == 0 {
		p.printBox("MATCHES", "No matches this run.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total matches: %d\n", len(matches)))

	count := len(matches)
	if count > maxMatchesToShow {
		count = maxMatchesToShow
	}
	for i := 0; i < count; i++ {
		m := matches[i]
		sb.WriteString("\n")
		pin := ""
		if m.Pinned {
			pin = " [pinned]"
		}
		sb.WriteString(fmt.Sprintf("#%d  %s — %s%s\n", i+1, m.Job.Title, m.Job.Company, pin))
		sb.WriteString(fmt.Sprintf("    Score: %d (skills %d, title %d, exp %d, recency %d)\n",
			m.TotalScore, m.Breakdown.Skills, m.Breakdown.Title,
			m.Breakdown.Experience, m.Breakdown.Recency))
		if len(m.Breakdown.MatchedSkills) > 0 {
			skills := strings.Join(m.Breakdown.MatchedSkills, ", ")
			if len(skills) > 48 {
				skills = clipRunes(skills, 45) + "..."
			}
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", skills))
		}
		if m.Job.ApplyURL != "" {
			sb.WriteString(fmt.Sprintf("    Apply:  %s\n", m.Job.ApplyURL))
		}
	}

	if len(matches) > maxMatchesToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more matches", len(matches)-maxMatchesToShow))
	}

	p.printBox("MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuota renders remaining provider quota, providers sorted by name.
func (p *Printer) PrintQuota(status map[string]types.QuotaStatus) {
	if len(status) == 0 {
		p.printBox("SEARCH QUOTA", "No quota-tracked providers configured.")
		return
	}

	names := make([]string, 0, len(status))
	for name := range status {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for i, name := range names {
		q := status[name]
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%-10s %d/%d used, %d remaining", name, q.Used, q.Limit, q.Remaining))
		if q.Remaining == 0 {
			sb.WriteString("  (exhausted)")
		}
	}

	p.printBox("SEARCH QUOTA", sb.String())
}

// PrintProfile renders the active candidate profile.
func (p *Printer) PrintProfile(profile *types.Profile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	if profile.Name != "" {
		sb.WriteString(fmt.Sprintf("Name:     %s\n", profile.Name))
	}
	sb.WriteString(fmt.Sprintf("Headline: %s\n", profile.Headline))
	sb.WriteString(fmt.Sprintf("Years:    %d\n", profile.YearsExperience))
	sb.WriteString(fmt.Sprintf("Skills:   %s", strings.Join(profile.Skills, ", ")))
	if len(profile.SearchTerms) > 0 {
		sb.WriteString(fmt.Sprintf("\nSearch:   %s", strings.Join(profile.SearchTerms, ", ")))
	}

	p.printBox("PROFILE", sb.String())
}
