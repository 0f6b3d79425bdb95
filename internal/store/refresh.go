package store

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/i474232898/arso-exporter/internal/weather"
)

const (
	resultSuccess         = "success"
	resultConnectionError = "connection_error"
	resultParseError      = "parse_error"
	resultError           = "error"
)

// RefreshMetrics records the outcome of every refresh cycle.
type RefreshMetrics struct {
	total       *prometheus.CounterVec
	duration    prometheus.Histogram
	lastSuccess prometheus.Gauge
}

// NewRefreshMetrics creates the refresh collectors and registers them on r.
func NewRefreshMetrics(r prometheus.Registerer) (*RefreshMetrics, error) {
	m := &RefreshMetrics{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arso",
			Subsystem: "refresh",
			Name:      "total",
			Help:      "Refresh cycles by result",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "arso",
			Subsystem: "refresh",
			Name:      "duration_seconds",
			Help:      "Time spent in one refresh cycle",
			Buckets:   prometheus.DefBuckets,
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "arso",
			Subsystem: "refresh",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful refresh cycle",
		}),
	}

	for _, c := range []prometheus.Collector{m.total, m.duration, m.lastSuccess} {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	for _, res := range []string{resultSuccess, resultConnectionError, resultParseError, resultError} {
		m.total.WithLabelValues(res)
	}
	return m, nil
}

// ObserveRefresh implements weather.RefreshObserver.
func (m *RefreshMetrics) ObserveRefresh(started time.Time, took time.Duration, err error) {
	m.duration.Observe(took.Seconds())
	m.total.WithLabelValues(refreshResult(err)).Inc()
	if err == nil {
		m.lastSuccess.Set(float64(started.Add(took).Unix()))
	}
}

func refreshResult(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case errors.Is(err, weather.ErrConnection):
		return resultConnectionError
	case errors.Is(err, weather.ErrParse):
		return resultParseError
	default:
		return resultError
	}
}
