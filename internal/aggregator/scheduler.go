package aggregator

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler triggers refresh cycles: once at startup, then on a fixed
// interval. Cycles never overlap; a tick that fires while a refresh is
// still in flight is skipped.
type Scheduler struct {
	agg      *Aggregator
	interval time.Duration
	runOnce  bool
	mu       sync.Mutex
	inFlight bool
	stopCh   chan struct{}
	stopOnce sync.Once
}

type SchedulerConfig struct {
	Interval time.Duration
	RunOnce  bool
}

func NewScheduler(agg *Aggregator, config SchedulerConfig) *Scheduler {
	if config.Interval == 0 {
		config.Interval = 30 * time.Minute
	}

	return &Scheduler{
		agg:      agg,
		interval: config.Interval,
		runOnce:  config.RunOnce,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the initial refresh and then ticks until the context is
// canceled or Stop is called. With RunOnce set it returns after the first
// refresh.
func (s *Scheduler) Start(ctx context.Context) error {
	s.trigger(ctx)

	if s.runOnce {
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.trigger(ctx)
		}
	}
}

// Stop ends the schedule loop. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

// trigger runs one refresh unless a previous one is still in flight.
func (s *Scheduler) trigger(ctx context.Context) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		slog.Warn("scheduled refresh skipped, previous cycle still running")
		return
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	if _, err := s.agg.Refresh(ctx); err != nil && err != context.Canceled {
		slog.Error("scheduled refresh failed", "error", err)
	}
}
