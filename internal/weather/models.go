package weather

import "strings"

// Kind identifies one measurement reported per station.
type Kind int

const (
	KindTemperature Kind = iota
	KindRelativeHumidity
	KindWindAverage
	KindWindMax
	KindRainfall
	KindSolarRadiation
	KindSnowDepth

	numKinds
)

var kindNames = [numKinds]string{
	KindTemperature:      "temperature",
	KindRelativeHumidity: "relative humidity",
	KindWindAverage:      "average wind",
	KindWindMax:          "max wind",
	KindRainfall:         "rainfall",
	KindSolarRadiation:   "solar radiation",
	KindSnowDepth:        "snow depth",
}

// String returns the human-readable field name used in diagnostics.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds returns every measurement kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Reading is one optional measurement value. Known is false when the station
// does not currently report the measurement; Value is then meaningless.
type Reading struct {
	Value float64 `json:"value"`
	Known bool    `json:"known"`
}

// StationRecord holds the measurements extracted from one observation row.
type StationRecord struct {
	Name     string
	readings [numKinds]Reading
}

// NewStationRecord returns a record for the named station with every
// measurement unknown.
func NewStationRecord(name string) StationRecord {
	return StationRecord{Name: name}
}

// Get returns the value for kind and whether it is known.
func (r StationRecord) Get(kind Kind) (float64, bool) {
	if kind < 0 || kind >= numKinds {
		return 0, false
	}
	rd := r.readings[kind]
	return rd.Value, rd.Known
}

// Set stores a known value for kind.
func (r *StationRecord) Set(kind Kind, value float64) {
	if kind < 0 || kind >= numKinds {
		return
	}
	r.readings[kind] = Reading{Value: value, Known: true}
}

// Unset marks kind as not reported.
func (r *StationRecord) Unset(kind Kind) {
	if kind < 0 || kind >= numKinds {
		return
	}
	r.readings[kind] = Reading{}
}

// Readings returns a copy of all readings keyed by kind.
func (r StationRecord) Readings() map[Kind]Reading {
	out := make(map[Kind]Reading, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		out[k] = r.readings[k]
	}
	return out
}

// Watchlist is the set of station names whose measurements are published.
type Watchlist map[string]struct{}

// NewWatchlist builds a Watchlist from station names. Names are trimmed;
// empty entries are ignored.
func NewWatchlist(names []string) Watchlist {
	w := make(Watchlist, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		w[n] = struct{}{}
	}
	return w
}

// Contains reports whether the station is watched.
func (w Watchlist) Contains(name string) bool {
	_, ok := w[name]
	return ok
}
