package weather

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Family describes one exported gauge family.
type Family struct {
	Name string
	Help string
}

// FieldDescriptor binds one measurement to the cell that carries it within an
// observation row and to the gauge family it is published under.
type FieldDescriptor struct {
	Kind     Kind
	Selector string
	Family   Family

	locator goquery.Matcher
}

// Name is the field name used in diagnostics.
func (d FieldDescriptor) Name() string {
	return d.Kind.String()
}

// Locator returns the compiled cell selector.
func (d FieldDescriptor) Locator() goquery.Matcher {
	return d.locator
}

// fieldSpec is the uncompiled form of a descriptor.
type fieldSpec struct {
	kind     Kind
	selector string
	family   Family
}

var observationFields = []fieldSpec{
	{KindTemperature, "td.t", Family{"arso_temperature", "Air temperature in degrees Celsius"}},
	{KindRelativeHumidity, "td.rh", Family{"arso_relative_humidity", "Relative humidity in percent"}},
	{KindWindAverage, "td.ffavg_val", Family{"arso_wind_average", "Average wind speed in m/s"}},
	{KindWindMax, "td.ffmax_val", Family{"arso_wind_max", "Maximum wind gust in m/s"}},
	{KindRainfall, "td.rr_val", Family{"arso_rainfall", "Accumulated rainfall in mm"}},
	{KindSolarRadiation, "td.gSunRadavg", Family{"arso_solar_radiation", "Average global solar radiation in W/m2"}},
	{KindSnowDepth, "td.snow", Family{"arso_snow_depth", "Total snow depth in cm"}},
}

// Registry is the ordered, immutable list of field descriptors. It is built
// once at startup and shared by every refresh cycle.
type Registry struct {
	fields      []FieldDescriptor
	stationName goquery.Matcher
}

// NewRegistry compiles every locator of the ARSO observation table.
func NewRegistry() (*Registry, error) {
	return newRegistry(stationNameSelector, observationFields)
}

func newRegistry(nameSelector string, specs []fieldSpec) (*Registry, error) {
	nameSel, err := cascadia.Compile(nameSelector)
	if err != nil {
		return nil, fmt.Errorf("compile station name locator %q: %w", nameSelector, err)
	}

	seen := make(map[string]Kind, len(specs))
	fields := make([]FieldDescriptor, 0, len(specs))
	for _, s := range specs {
		if prev, dup := seen[s.selector]; dup {
			return nil, fmt.Errorf("locator %q used by both %s and %s", s.selector, prev, s.kind)
		}
		seen[s.selector] = s.kind

		sel, err := cascadia.Compile(s.selector)
		if err != nil {
			return nil, fmt.Errorf("compile locator %q for %s: %w", s.selector, s.kind, err)
		}
		fields = append(fields, FieldDescriptor{
			Kind:     s.kind,
			Selector: s.selector,
			Family:   s.family,
			locator:  sel,
		})
	}

	return &Registry{fields: fields, stationName: nameSel}, nil
}

// Fields returns the descriptors in declaration order.
func (r *Registry) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(r.fields))
	copy(out, r.fields)
	return out
}

// Families returns the gauge families in declaration order.
func (r *Registry) Families() []Family {
	out := make([]Family, 0, len(r.fields))
	for _, f := range r.fields {
		out = append(out, f.Family)
	}
	return out
}
