package weather

import (
	"fmt"
	"math"
	"strconv"
)

// Extract builds one StationRecord from an observation row.
//
// A missing station name or field cell means the page layout changed and is
// reported as ErrParse. A present cell whose text is not a number (ARSO uses
// "-" for stations without the sensor) leaves the measurement unknown.
func (r *Registry) Extract(row Row) (StationRecord, error) {
	name, ok := row.cell(r.stationName)
	if !ok {
		return StationRecord{}, fmt.Errorf("%w: station name column (%s) not found", ErrParse, stationNameSelector)
	}

	rec := NewStationRecord(name)
	for _, f := range r.fields {
		text, ok := row.cell(f.locator)
		if !ok {
			return StationRecord{}, fmt.Errorf("%w: %s field (%s) not found for station %q", ErrParse, f.Name(), f.Selector, name)
		}
		if v, ok := parseMeasurement(text); ok {
			rec.Set(f.Kind, v)
		} else {
			rec.Unset(f.Kind)
		}
	}
	return rec, nil
}

// ExtractAll extracts every row, stopping at the first failure.
func (r *Registry) ExtractAll(rows []Row) ([]StationRecord, error) {
	records := make([]StationRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := r.Extract(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseMeasurement(text string) (float64, bool) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
