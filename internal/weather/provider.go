package weather

import (
	"context"
	"time"
)

// Fetcher retrieves the raw observation document.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// MetricStore is the contract the gauge store must satisfy. Set overwrites,
// Remove is a no-op when the series does not exist.
type MetricStore interface {
	Set(family, station string, value float64) error
	Remove(family, station string) error
	Render() (string, error)
}

// RefreshObserver is notified once per refresh cycle with its outcome.
type RefreshObserver interface {
	ObserveRefresh(started time.Time, took time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveRefresh(time.Time, time.Duration, error) {}
