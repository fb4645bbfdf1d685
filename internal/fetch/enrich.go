package fetch

import (
	"context"
	"log"
	"time"
	"unicode/utf8"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// minUsefulSummary is the summary length below which a posting is worth
// enriching from its apply URL.
const minUsefulSummary = 200

// maxSummaryLength caps how much fetched description is kept on a posting.
const maxSummaryLength = 4000

// Enricher fills thin job summaries by fetching the apply URL.
type Enricher struct {
	Options *Options
	// UseBrowser enables the headless-Chrome fallback for pages that
	// render their description with JavaScript.
	UseBrowser bool
	Verbose    bool
}

// NewEnricher returns an Enricher with default fetch options.
func NewEnricher(useBrowser bool) *Enricher {
	return &Enricher{Options: DefaultOptions(), UseBrowser: useBrowser}
}

// Enrich replaces a thin summary with text fetched from the posting page.
// It returns true when the summary was updated. Failures leave the posting
// unchanged; a search result with a short summary is still a result.
func (e *Enricher) Enrich(ctx context.Context, job *types.JobPosting) (bool, error) {
	if job.ApplyURL == "" || len(job.Summary) >= minUsefulSummary {
		return false, nil
	}

	result, err := URL(ctx, job.ApplyURL, e.Options)
	if err != nil {
		return false, err
	}

	text, err := ExtractMainText(result.HTML, JobPostingSelectors())
	if err != nil {
		return false, err
	}

	if ShouldUseBrowser(text) && e.UseBrowser {
		html, berr := WithBrowser(ctx, job.ApplyURL, 30*time.Second, e.Verbose)
		if berr != nil {
			log.Printf("[fetch] browser fallback failed for %s: %v", job.ApplyURL, berr)
		} else if rendered, rerr := ExtractMainText(html, JobPostingSelectors()); rerr == nil && len(rendered) > len(text) {
			text = rendered
		}
	}

	if len(text) <= len(job.Summary) {
		return false, nil
	}
	if len(text) > maxSummaryLength {
		// Back off to a rune boundary so the cut never splits a character
		cut := maxSummaryLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	job.Summary = text
	return true, nil
}
