// Package schedule runs the search pipeline on a recurring interval.
package schedule

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// RunFunc executes one pipeline run.
type RunFunc func(ctx context.Context) error

// Scheduler wraps robfig/cron around the pipeline run loop.
type Scheduler struct {
	cron *cron.Cron
	run  RunFunc
	spec string

	mu      sync.Mutex
	running bool
}

// New creates a Scheduler firing every intervalHours hours.
func New(run RunFunc, intervalHours int) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		run:  run,
		spec: fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. One run fires
// immediately so results exist before the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] started, spec %s", s.spec)

	go s.runOnce(ctx)
	return nil
}

// Stop shuts the scheduler down. A run already in flight finishes.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] stopped")
}

// runOnce executes the pipeline, skipping when a previous run is still
// going. Search runs can outlast short intervals and must not overlap.
func (s *Scheduler) runOnce(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Println("[scheduler] previous run still in progress, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	log.Println("[scheduler] run started")
	if err := s.run(ctx); err != nil {
		log.Printf("[scheduler] run failed: %v", err)
		return
	}
	log.Println("[scheduler] run complete")
}
