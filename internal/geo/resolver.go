package geo

import (
	"fmt"
	"strings"
	"time"

	"github.com/litescript/ls-panchang/internal/astro"
)

// DateLayout is the accepted civil date format.
const DateLayout = "2006-01-02"

// timeLayouts are the accepted time-of-day formats, tried in order.
var timeLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"}

// TimeDefault is the time of day used when a query carries only a date.
type TimeDefault int

const (
	DefaultNoon TimeDefault = iota
	DefaultMidnight
)

func (d TimeDefault) String() string {
	if d == DefaultMidnight {
		return "midnight"
	}
	return "noon"
}

// Query is an unresolved civil date, time and place.
type Query struct {
	Date     string // 2006-01-02
	Time     string // optional, 15:04
	Timezone string // optional IANA name; looked up from Location when empty
	Location Location
	Default  TimeDefault
}

// Resolved is a timezone-aware instant at a location.
type Resolved struct {
	Local    time.Time
	Zone     *time.Location
	ZoneName string
	Location Location
}

// UTC returns the instant in UTC.
func (r Resolved) UTC() time.Time {
	return r.Local.UTC()
}

// JD returns the instant as a Julian Day.
func (r Resolved) JD() astro.JD {
	return astro.JulianDay(r.Local)
}

// Midnight returns the start of the resolved civil date.
func (r Resolved) Midnight() time.Time {
	y, m, d := r.Local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.Zone)
}

// Resolver turns queries into instants.
type Resolver struct {
	lookup TimezoneLookup
}

// NewResolver creates a resolver using lookup for coordinates without an
// explicit timezone.
func NewResolver(lookup TimezoneLookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve validates the location, resolves the zone and parses the date and
// time. A missing time uses q.Default.
func (r *Resolver) Resolve(q Query) (Resolved, error) {
	zone, name, err := r.Zone(q.Location, q.Timezone)
	if err != nil {
		return Resolved{}, err
	}

	y, m, d, err := ParseDate(q.Date)
	if err != nil {
		return Resolved{}, err
	}

	hour, min, sec := 12, 0, 0
	if q.Default == DefaultMidnight {
		hour = 0
	}
	if strings.TrimSpace(q.Time) != "" {
		tod, err := ParseTimeOfDay(q.Time)
		if err != nil {
			return Resolved{}, err
		}
		hour, min, sec = tod.Hour(), tod.Minute(), tod.Second()
	}

	return Resolved{
		Local:    time.Date(y, m, d, hour, min, sec, 0, zone),
		Zone:     zone,
		ZoneName: name,
		Location: q.Location,
	}, nil
}

// Zone validates loc and returns the timezone for it. An explicit tz wins
// over the lookup.
func (r *Resolver) Zone(loc Location, tz string) (*time.Location, string, error) {
	if err := loc.Validate(); err != nil {
		return nil, "", err
	}

	name := strings.TrimSpace(tz)
	if name == "" {
		if r.lookup == nil {
			return nil, "", &LocationResolutionError{Lat: loc.Lat, Lon: loc.Lon, Reason: "no timezone lookup configured"}
		}
		var ok bool
		name, ok = r.lookup.TimezoneFor(loc.Lat, loc.Lon)
		if !ok {
			return nil, "", &LocationResolutionError{Lat: loc.Lat, Lon: loc.Lon, Reason: "no timezone found"}
		}
	}

	zone, err := time.LoadLocation(name)
	if err != nil {
		return nil, "", &LocationResolutionError{Lat: loc.Lat, Lon: loc.Lon, Reason: fmt.Sprintf("unknown timezone %q", name)}
	}
	return zone, name, nil
}

// ParseDate parses a civil date in DateLayout.
func ParseDate(s string) (int, time.Month, int, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, 0, &InvalidDateFormatError{Value: s, Layout: DateLayout, Err: err}
	}
	y, m, d := t.Date()
	return y, m, d, nil
}

// ParseTimeOfDay parses a clock time in any accepted layout.
func ParseTimeOfDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, &InvalidDateFormatError{Value: s, Layout: "15:04", Err: firstErr}
}
