package ephem

import (
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/litescript/ls-panchang/internal/astro"
)

// NOAAProvider uses the NOAA sunrise equation for rise/set and the built-in
// series for longitudes. The sunrise equation always times the upper limb,
// so Config.Horizon does not apply.
type NOAAProvider struct {
	ayanamsa astro.Ayanamsa
}

// NewNOAAProvider creates a NOAA-backed provider.
func NewNOAAProvider(cfg Config) *NOAAProvider {
	return &NOAAProvider{ayanamsa: cfg.Ayanamsa}
}

// Name implements Provider.
func (p *NOAAProvider) Name() string {
	return "noaa"
}

// Longitude implements Provider.
func (p *NOAAProvider) Longitude(t time.Time, body Body) (float64, error) {
	return siderealLongitude(p.ayanamsa, t, body)
}

// RiseSet implements Provider.
func (p *NOAAProvider) RiseSet(date time.Time, body Body, obs astro.Observer, kind EventKind) (time.Time, error) {
	if body != Sun {
		return time.Time{}, fmt.Errorf("%w: %v rise/set", ErrUnsupportedBody, body)
	}

	rise, set := sunrise.SunriseSunset(obs.LatDeg, obs.LonDeg, date.Year(), date.Month(), date.Day())
	t := rise
	if kind == Set {
		t = set
	}
	// Polar day and night come back as the zero time.
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("%w: no sun %v on %s at lat %.4f",
			ErrUnavailable, kind, date.Format("2006-01-02"), obs.LatDeg)
	}
	return t.In(date.Location()), nil
}
