// Package scheduler coordinates recurring survey cycles. Continuous mode is
// a cooperative loop that sleeps between full cycles and honors cancellation
// only at cycle boundaries, so a half-updated catalog is never exported.
// Unattended recurring surveys run on cron expressions.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"wifiscout/internal/logging"
)

// Cycle is one full scan-parse-report pass.
type Cycle func(ctx context.Context) error

// Scheduler runs survey cycles on an interval or a cron schedule.
type Scheduler struct {
	interval time.Duration
	cron     *cron.Cron
	log      *logging.Logger

	mu      sync.Mutex
	running bool
}

// New creates a scheduler with the given pause between continuous cycles.
func New(interval time.Duration, log *logging.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		cron:     cron.New(),
		log:      log.WithComponent("scheduler"),
	}
}

// RunLoop executes cycles until the context is canceled. A cycle in flight
// always finishes; cancellation takes effect during the pause.
func (s *Scheduler) RunLoop(ctx context.Context, cycle Cycle) error {
	count := 0
	for {
		select {
		case <-ctx.Done():
			s.log.Info("continuous mode stopped", "cycles", count)
			return ctx.Err()
		default:
		}

		count++
		s.log.Debug("starting cycle", "cycle", count)
		if err := cycle(context.WithoutCancel(ctx)); err != nil {
			// Per-cycle failures are logged and the loop continues; only
			// cancellation stops continuous mode.
			s.log.Error("cycle failed", "cycle", count, "error", err)
		}

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("continuous mode stopped", "cycles", count)
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Schedule registers a cycle on a cron expression for unattended surveys.
func (s *Scheduler) Schedule(spec string, cycle Cycle) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() {
		if err := cycle(context.Background()); err != nil {
			s.log.Error("scheduled cycle failed", "spec", spec, "error", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return id, nil
}

// Start begins executing scheduled entries.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("scheduler is already running")
	}
	s.cron.Start()
	s.running = true
	s.log.Info("scheduler started", "entries", len(s.cron.Entries()))
	return nil
}

// Stop halts the cron schedule, waiting for a running entry to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.running = false
	s.log.Info("scheduler stopped")
}

// Entries returns the registered cron entries.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}
