package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status describes the outcome of the most recent refresh cycles.
type Status struct {
	Source              string    `json:"source"`
	ReportTime          string    `json:"reportTime,omitempty"`
	LastAttempt         time.Time `json:"lastAttempt"`
	LastSuccess         time.Time `json:"lastSuccess"`
	Rows                int       `json:"rows"`
	Published           []string  `json:"published"`
	Pruned              []string  `json:"pruned,omitempty"`
	LastError           string    `json:"lastError,omitempty"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
}

// Service runs refresh cycles: fetch, parse, extract and synchronize.
type Service struct {
	fetcher  Fetcher
	registry *Registry
	syncer   *Synchronizer
	observer RefreshObserver
	log      *slog.Logger

	mu     sync.RWMutex
	status Status
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithObserver reports every cycle outcome to o.
func WithObserver(o RefreshObserver) ServiceOption {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService creates a new Service.
func NewService(fetcher Fetcher, registry *Registry, syncer *Synchronizer, opts ...ServiceOption) *Service {
	s := &Service{
		fetcher:  fetcher,
		registry: registry,
		syncer:   syncer,
		observer: nopObserver{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.status.Source = fetcher.Name()
	return s
}

// Refresh runs one full cycle. Any fetch or parse failure aborts the cycle
// before the metric store is modified, so the previously published values
// stay in place.
func (s *Service) Refresh(ctx context.Context) error {
	started := time.Now()
	log := s.log.With("cycle", uuid.NewString(), "source", s.fetcher.Name())
	log.Debug("refresh started")

	res, reportTime, rows, err := s.refresh(ctx)
	took := time.Since(started)
	s.observer.ObserveRefresh(started, took, err)
	s.record(started, reportTime, rows, res, err)

	if err != nil {
		log.Error("refresh failed", "err", err, "duration", took)
		return err
	}
	log.Info("refresh completed",
		"report_time", reportTime,
		"rows", rows,
		"published", len(res.Published),
		"set", res.Set,
		"removed", res.Removed,
		"pruned", len(res.Pruned),
		"duration", took,
	)
	return nil
}

func (s *Service) refresh(ctx context.Context) (SyncResult, string, int, error) {
	body, err := s.fetcher.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, ErrConnection) {
			err = fmt.Errorf("%w: %v", ErrConnection, err)
		}
		return SyncResult{}, "", 0, err
	}

	doc, err := ParseDocumentBytes(body)
	if err != nil {
		return SyncResult{}, "", 0, err
	}
	reportTime, err := doc.Timestamp()
	if err != nil {
		return SyncResult{}, "", 0, err
	}

	rows := doc.Rows()
	records, err := s.registry.ExtractAll(rows)
	if err != nil {
		return SyncResult{}, reportTime, len(rows), err
	}

	res, err := s.syncer.Synchronize(records)
	return res, reportTime, len(rows), err
}

func (s *Service) record(started time.Time, reportTime string, rows int, res SyncResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.LastAttempt = started.UTC()
	if err != nil {
		s.status.LastError = err.Error()
		s.status.ConsecutiveFailures++
		return
	}
	s.status.LastSuccess = started.UTC()
	s.status.LastError = ""
	s.status.ConsecutiveFailures = 0
	s.status.ReportTime = reportTime
	s.status.Rows = rows
	s.status.Published = res.Published
	s.status.Pruned = res.Pruned
}

// Status returns a copy of the latest refresh status.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.status
	st.Published = append([]string(nil), s.status.Published...)
	st.Pruned = append([]string(nil), s.status.Pruned...)
	return st
}
