// Package providers contains the search provider adapters that turn
// heterogeneous search-API payloads into canonical JobPosting records.
//
// Every adapter implements the same contract: a failed or malformed
// response yields an error that the orchestrator logs and treats as zero
// results, and a payload whose job list is absent (a web-search shape where
// a jobs shape was expected) is rejected outright rather than parsed into
// placeholder records.
package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// DefaultTimeout is the per-request timeout for provider calls.
const DefaultTimeout = 20 * time.Second

// Provider is a single external search API supplying job postings.
type Provider interface {
	// Name identifies the provider in quota tracking and logs.
	Name() string
	// Free reports whether calls consume no quota budget.
	Free() bool
	// Search executes one query and returns normalized postings.
	// Transient failures (timeout, non-2xx, malformed or wrong-shaped
	// payload) are returned as errors; callers treat them as zero results.
	Search(ctx context.Context, query, locale string, maxResults int) ([]types.JobPosting, error)
}

// Error wraps a provider failure with enough context to log usefully.
type Error struct {
	Provider string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WrongShapeError marks a payload that parsed as JSON but lacks the
// structured job list the adapter expects, e.g. a generic web-search
// response with an "organic" field. Parsing such a payload into postings
// with placeholder companies was the most damaging bug in this tool's
// history, so the mismatch is a distinct error type callers can assert on.
type WrongShapeError struct {
	Provider string
	Got      string // short description of the shape actually received
}

func (e *WrongShapeError) Error() string {
	return fmt.Sprintf("%s: response has no job list (got %s); wrong endpoint or response shape", e.Provider, e.Got)
}

// truncateSummary caps s at max bytes, backing off to a rune boundary so a
// multibyte character is never split.
func truncateSummary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// checkStatus converts a non-2xx response into a provider error.
func checkStatus(provider string, resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Provider: provider,
			Message:  fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}
	return nil
}
