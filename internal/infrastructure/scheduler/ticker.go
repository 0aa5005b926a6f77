package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"NewsMosaic/internal/ports"
)

// ErrRunning is returned by Start when the scheduler is already active.
var ErrRunning = errors.New("scheduler already running")

// TickerScheduler runs a job immediately and then once per interval.
// Runs never overlap; ticks missed while a job runs are coalesced.
type TickerScheduler struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

var _ ports.Scheduler = (*TickerScheduler)(nil)

// NewTickerScheduler builds a scheduler with the given interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	return &TickerScheduler{interval: interval}
}

// Start launches the loop in the background.
func (s *TickerScheduler) Start(ctx context.Context, job func(context.Context, time.Time)) error {
	if job == nil {
		return errors.New("scheduler job is nil")
	}
	if s.interval <= 0 {
		return errors.New("scheduler interval must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return ErrRunning
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.loop(ctx, job, s.stop, s.done)
	return nil
}

func (s *TickerScheduler) loop(ctx context.Context, job func(context.Context, time.Time), stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	job(ctx, time.Now())
	for {
		select {
		case t := <-ticker.C:
			job(ctx, t)
		case <-ctx.Done():
			return
		case <-stop:
			return
		}
	}
}

// Stop halts the loop and waits for an in-flight job to return.
func (s *TickerScheduler) Stop() error {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)
	<-done
	return nil
}

// Wait blocks until the loop exits, which happens when ctx ends or Stop is called.
func (s *TickerScheduler) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}
