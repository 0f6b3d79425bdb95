package weather

import (
	"fmt"
	"sort"
)

// Synchronizer mirrors extracted records into the metric store for the
// stations on the watchlist.
type Synchronizer struct {
	registry  *Registry
	store     MetricStore
	watchlist Watchlist

	// pruneMissing removes every series of a watched station that has no
	// row in the current document.
	pruneMissing bool
}

// SyncResult summarizes one synchronization pass.
type SyncResult struct {
	Published []string `json:"published"`
	Pruned    []string `json:"pruned,omitempty"`
	Set       int      `json:"set"`
	Removed   int      `json:"removed"`
}

// NewSynchronizer creates a Synchronizer.
func NewSynchronizer(registry *Registry, store MetricStore, watchlist Watchlist, pruneMissing bool) *Synchronizer {
	return &Synchronizer{
		registry:     registry,
		store:        store,
		watchlist:    watchlist,
		pruneMissing: pruneMissing,
	}
}

// Synchronize applies records to the store. Known values overwrite the
// station's series; unknown values remove it. Records for stations outside
// the watchlist are ignored and their series are never touched.
func (s *Synchronizer) Synchronize(records []StationRecord) (SyncResult, error) {
	var res SyncResult
	seen := make(map[string]struct{}, len(records))

	for _, rec := range records {
		if !s.watchlist.Contains(rec.Name) {
			continue
		}
		if _, dup := seen[rec.Name]; !dup {
			res.Published = append(res.Published, rec.Name)
		}
		seen[rec.Name] = struct{}{}

		for _, f := range s.registry.fields {
			if v, ok := rec.Get(f.Kind); ok {
				if err := s.store.Set(f.Family.Name, rec.Name, v); err != nil {
					return res, fmt.Errorf("set %s for %q: %w", f.Family.Name, rec.Name, err)
				}
				res.Set++
				continue
			}
			if err := s.store.Remove(f.Family.Name, rec.Name); err != nil {
				return res, fmt.Errorf("remove %s for %q: %w", f.Family.Name, rec.Name, err)
			}
			res.Removed++
		}
	}

	if !s.pruneMissing {
		return res, nil
	}

	for name := range s.watchlist {
		if _, ok := seen[name]; ok {
			continue
		}
		for _, f := range s.registry.fields {
			if err := s.store.Remove(f.Family.Name, name); err != nil {
				return res, fmt.Errorf("remove %s for %q: %w", f.Family.Name, name, err)
			}
		}
		res.Pruned = append(res.Pruned, name)
	}
	sort.Strings(res.Pruned)
	return res, nil
}
