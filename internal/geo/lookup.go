package geo

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ringsaturn/tzf"
)

// TimezoneLookup maps coordinates to an IANA timezone name.
type TimezoneLookup interface {
	TimezoneFor(lat, lon float64) (string, bool)
}

// LookupFunc adapts a function to TimezoneLookup.
type LookupFunc func(lat, lon float64) (string, bool)

// TimezoneFor implements TimezoneLookup.
func (f LookupFunc) TimezoneFor(lat, lon float64) (string, bool) {
	return f(lat, lon)
}

// Fixed returns a lookup that answers name for every coordinate.
func Fixed(name string) TimezoneLookup {
	return LookupFunc(func(float64, float64) (string, bool) { return name, true })
}

// PolygonLookup resolves coordinates against the timezone boundary polygons
// embedded in tzf.
type PolygonLookup struct {
	finder tzf.F
}

// NewPolygonLookup loads the embedded boundary data.
func NewPolygonLookup() (*PolygonLookup, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("loading timezone boundaries: %w", err)
	}
	return &PolygonLookup{finder: f}, nil
}

// TimezoneFor implements TimezoneLookup. Points at sea fall in nautical
// Etc/GMT zones, which are not civil time and are reported as not found.
func (l *PolygonLookup) TimezoneFor(lat, lon float64) (string, bool) {
	name := l.finder.GetTimezoneName(lon, lat)
	if name == "" || strings.HasPrefix(name, "Etc/") {
		return "", false
	}
	return name, true
}

var (
	defaultOnce   sync.Once
	defaultLookup TimezoneLookup
)

// DefaultLookup returns the shared PolygonLookup, loading it on first use.
// If the boundary data cannot be loaded every lookup fails, and resolution
// reports a LocationResolutionError.
func DefaultLookup() TimezoneLookup {
	defaultOnce.Do(func() {
		l, err := NewPolygonLookup()
		if err != nil {
			defaultLookup = &unavailableLookup{err: err}
			return
		}
		defaultLookup = l
	})
	return defaultLookup
}

// unavailableLookup stands in when the boundary data failed to load.
type unavailableLookup struct {
	err error
}

func (u *unavailableLookup) TimezoneFor(float64, float64) (string, bool) {
	return "", false
}
