package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/i474232898/arso-exporter/internal/weather"
)

// StationLabel is the label carrying the station name on every gauge.
const StationLabel = "city"

var (
	// ErrUnknownFamily is returned when a series is addressed by a family the
	// store was not created with.
	ErrUnknownFamily = errors.New("unknown metric family")
)

// MemoryStore is a concurrency-safe in-memory gauge store. Each family is a
// GaugeVec labeled by station and registered on a private registry, so the
// store holds nothing but the series published by this process.
type MemoryStore struct {
	registry *prometheus.Registry

	// key: family name; fixed after construction
	families map[string]*prometheus.GaugeVec
}

// NewMemoryStore creates a store holding one gauge family per entry.
func NewMemoryStore(families []weather.Family) (*MemoryStore, error) {
	s := &MemoryStore{
		registry: prometheus.NewRegistry(),
		families: make(map[string]*prometheus.GaugeVec, len(families)),
	}

	for _, f := range families {
		if _, dup := s.families[f.Name]; dup {
			return nil, fmt.Errorf("duplicate metric family %q", f.Name)
		}
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: f.Name,
			Help: f.Help,
		}, []string{StationLabel})
		if err := s.registry.Register(vec); err != nil {
			return nil, fmt.Errorf("register %s: %w", f.Name, err)
		}
		s.families[f.Name] = vec
	}

	return s, nil
}

// Registerer exposes the store's registry so auxiliary collectors are
// rendered alongside the station gauges.
func (s *MemoryStore) Registerer() prometheus.Registerer {
	return s.registry
}

// Gatherer returns the store's registry for scraping.
func (s *MemoryStore) Gatherer() prometheus.Gatherer {
	return s.registry
}

// Set overwrites the value of the station's series in family.
func (s *MemoryStore) Set(family, station string, value float64) error {
	vec, ok := s.families[family]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFamily, family)
	}
	vec.WithLabelValues(station).Set(value)
	return nil
}

// Remove deletes the station's series from family. Removing a series that
// does not exist is not an error.
func (s *MemoryStore) Remove(family, station string) error {
	vec, ok := s.families[family]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFamily, family)
	}
	vec.DeleteLabelValues(station)
	return nil
}

// Render returns the text exposition of every current series.
func (s *MemoryStore) Render() (string, error) {
	mfs, err := s.registry.Gather()
	if err != nil {
		return "", fmt.Errorf("gather metrics: %w", err)
	}

	var b strings.Builder
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(&b, mf); err != nil {
			return "", fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return b.String(), nil
}
