// Package quota tracks per-provider monthly API usage so searches never
// exceed a provider's free-tier budget.
//
// State is persisted as a small JSON file between runs. The tracker is
// deliberately forgiving: corrupt or missing state is treated as "usage
// unknown, assume available" and a failed save is logged but never blocks a
// search.
package quota

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// Tracker manages monthly usage counters for search providers. The parallel
// search path calls it from one goroutine per query, so every method takes
// the tracker lock.
type Tracker struct {
	mu     sync.Mutex
	path   string
	states map[string]types.QuotaState
	now    func() time.Time
}

// New creates a Tracker backed by the JSON file at path, seeding counters
// for the given provider limits. Existing persisted state takes precedence
// over the seeds; unreadable state falls back to fresh counters.
func New(path string, limits map[string]int) *Tracker {
	t := &Tracker{
		path:   path,
		states: make(map[string]types.QuotaState),
		now:    time.Now,
	}

	persisted, err := load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[quota] state unreadable, starting fresh: %v", err)
		}
		persisted = nil
	}

	for provider, limit := range limits {
		state, ok := persisted[provider]
		if !ok {
			state = types.QuotaState{Limit: limit, ResetDate: nextMonth(t.now())}
		}
		// Limits follow configuration, not the persisted snapshot.
		state.Limit = limit
		t.states[provider] = state
	}
	return t
}

func load(path string) (map[string]types.QuotaState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var states map[string]types.QuotaState
	if err := json.Unmarshal(data, &states); err != nil {
		return nil, fmt.Errorf("failed to parse quota state: %w", err)
	}
	return states, nil
}

// nextMonth returns the first instant of the month after t.
func nextMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
}

// checkReset zeroes the counter when the current time has passed the stored
// reset boundary. Callers must hold t.mu.
func (t *Tracker) checkReset(provider string) {
	state, ok := t.states[provider]
	if !ok {
		return
	}
	if !t.now().Before(state.ResetDate) {
		log.Printf("[quota] %s counter reset (new month)", provider)
		state.Used = 0
		state.ResetDate = nextMonth(t.now())
		t.states[provider] = state
		t.save()
	}
}

// HasQuota reports whether the provider has remaining budget in the current
// period. An unknown provider is assumed available.
func (t *Tracker) HasQuota(provider string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.checkReset(provider)
	state, ok := t.states[provider]
	if !ok {
		return true
	}
	return state.Used < state.Limit
}

// RecordUsage increments the provider's counter. Both successful and failed
// provider calls count, since the provider-side budget is consumed either
// way. Persistence failures are logged, never returned: losing a count is
// better than blocking a search.
func (t *Tracker) RecordUsage(provider string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.checkReset(provider)
	state, ok := t.states[provider]
	if !ok {
		return
	}
	state.Used++
	t.states[provider] = state
	t.save()
	log.Printf("[quota] %s: %d/%d searches used", provider, state.Used, state.Limit)
}

// Status returns a read-only snapshot of every tracked provider. A counter
// whose reset boundary has passed is reported as zeroed without mutating
// the persisted state.
func (t *Tracker) Status() map[string]types.QuotaStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]types.QuotaStatus, len(t.states))
	for provider, state := range t.states {
		used := state.Used
		if !t.now().Before(state.ResetDate) {
			used = 0
		}
		remaining := state.Limit - used
		if remaining < 0 {
			remaining = 0
		}
		out[provider] = types.QuotaStatus{Limit: state.Limit, Used: used, Remaining: remaining}
	}
	return out
}

// save persists the counters with a write-temp-then-rename so a crash
// mid-write never leaves a partial file. Callers must hold t.mu.
func (t *Tracker) save() {
	dir := filepath.Dir(t.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("[quota] failed to create state dir: %v", err)
			return
		}
	}

	data, err := json.MarshalIndent(t.states, "", "  ")
	if err != nil {
		log.Printf("[quota] failed to encode state: %v", err)
		return
	}

	tmp, err := os.CreateTemp(dir, ".quota-*.json")
	if err != nil {
		log.Printf("[quota] failed to create temp state file: %v", err)
		return
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		log.Printf("[quota] failed to write state: %v", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		log.Printf("[quota] failed to close state file: %v", err)
		return
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		os.Remove(tmpName)
		log.Printf("[quota] failed to replace state file: %v", err)
	}
}
