package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// DefaultInterval is used when no positive interval is configured.
const DefaultInterval = 10 * time.Minute

// Refresher runs one refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler periodically runs refresh cycles. Cycles never overlap: a tick
// that arrives while a cycle is still running is skipped.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
	log       *slog.Logger
}

// New creates a new Scheduler. timeout bounds a single cycle; zero means no bound.
func New(refresher Refresher, interval, timeout time.Duration, log *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = slog.Default()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
		timeout:   timeout,
		log:       log,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first cycle runs immediately.
func (s *Scheduler) Start() error {
	if s.refresher == nil {
		return errors.New("scheduler: no refresher configured")
	}

	_, err := s.scheduler.Every(s.interval).Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Info("scheduler started", "interval", s.interval)
	return nil
}

func (s *Scheduler) run() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// The refresher logs its own outcome; the next tick is the retry.
	_ = s.refresher.Refresh(ctx)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
