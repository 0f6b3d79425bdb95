package weather_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// station describes one observation row; empty strings render as "-".
type station struct {
	name string

	temp, rh, windAvg, windMax, rain, solar, snowDepth string
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (s station) row() string {
	return fmt.Sprintf(`<tr>
<td class="meteoSI-th">%s</td>
<td class="nn_icon_wwsyn_icon"><img src="x.png"></td>
<td class="t">%s</td>
<td class="rh">%s</td>
<td class="ddavg_icon"></td>
<td class="ffavg_val">%s</td>
<td class="ffmax_val">%s</td>
<td class="msl">1015</td>
<td class="rr_val">%s</td>
<td class="gSunRadavg">%s</td>
<td class="snow">%s</td>
</tr>`, s.name, dash(s.temp), dash(s.rh), dash(s.windAvg), dash(s.windMax), dash(s.rain), dash(s.solar), dash(s.snowDepth))
}

func page(timestamp string, rows ...string) string {
	header := ""
	if timestamp != "" {
		header = fmt.Sprintf(`<tr><th class="meteoSI-header" colspan="11">%s</th></tr>`, timestamp)
	}
	return `<!DOCTYPE html><html><head><title>ARSO</title></head><body>
<table class="meteoSI-table">
<thead>` + header + `</thead>
<tbody>
` + strings.Join(rows, "\n") + `
</tbody>
</table>
</body></html>`
}

// fakeFetcher serves a fixed body, or err when set.
type fakeFetcher struct {
	mu    sync.Mutex
	body  string
	err   error
	calls int
}

func (f *fakeFetcher) Name() string { return "fake" }

func (f *fakeFetcher) Fetch(context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.body), nil
}

func (f *fakeFetcher) serve(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.body = body
	f.err = nil
}

func (f *fakeFetcher) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// op is one recorded store mutation.
type op struct {
	kind    string
	family  string
	station string
	value   float64
}

// recordingStore keeps series in a map and records every call.
type recordingStore struct {
	series map[string]float64
	ops    []op
}

func newRecordingStore() *recordingStore {
	return &recordingStore{series: make(map[string]float64)}
}

func key(family, station string) string { return family + "/" + station }

func (s *recordingStore) Set(family, station string, value float64) error {
	s.series[key(family, station)] = value
	s.ops = append(s.ops, op{"set", family, station, value})
	return nil
}

func (s *recordingStore) Remove(family, station string) error {
	delete(s.series, key(family, station))
	s.ops = append(s.ops, op{"remove", family, station, 0})
	return nil
}

func (s *recordingStore) Render() (string, error) {
	var b strings.Builder
	for k, v := range s.series {
		fmt.Fprintf(&b, "%s %v\n", k, v)
	}
	return b.String(), nil
}

func (s *recordingStore) touched(station string) bool {
	for _, o := range s.ops {
		if o.station == station {
			return true
		}
	}
	return false
}
