package ephem

import (
	"fmt"
	"time"

	"github.com/litescript/ls-panchang/internal/astro"
)

const (
	riseSetSamples   = 48
	riseSetTolerance = 5 * time.Second
)

// MeeusProvider computes longitudes from the low-precision solar and lunar
// series and solves rise/set on the Sun's altitude curve.
type MeeusProvider struct {
	ayanamsa astro.Ayanamsa
	horizon  Horizon
}

// NewMeeusProvider creates the built-in provider.
func NewMeeusProvider(cfg Config) *MeeusProvider {
	return &MeeusProvider{ayanamsa: cfg.Ayanamsa, horizon: cfg.Horizon}
}

// Name implements Provider.
func (p *MeeusProvider) Name() string {
	return "meeus"
}

// Longitude implements Provider.
func (p *MeeusProvider) Longitude(t time.Time, body Body) (float64, error) {
	return siderealLongitude(p.ayanamsa, t, body)
}

func siderealLongitude(a astro.Ayanamsa, t time.Time, body Body) (float64, error) {
	j := astro.JulianDay(t)
	switch body {
	case Sun:
		return a.Sidereal(astro.SunLongitude(j), j), nil
	case Moon:
		return a.Sidereal(astro.MoonLongitude(j), j), nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedBody, body)
	}
}

// RiseSet implements Provider. Only the Sun is supported.
func (p *MeeusProvider) RiseSet(date time.Time, body Body, obs astro.Observer, kind EventKind) (time.Time, error) {
	return solveSunEvent(date, body, obs, kind, p.horizon)
}

func solveSunEvent(date time.Time, body Body, obs astro.Observer, kind EventKind, h Horizon) (time.Time, error) {
	if body != Sun {
		return time.Time{}, fmt.Errorf("%w: %v rise/set", ErrUnsupportedBody, body)
	}

	start, end := civilDay(date)
	target := h.Degrees() - astro.DipDegrees(obs.AltM)
	dir := astro.CrossingUp
	if kind == Set {
		dir = astro.CrossingDown
	}

	alt := func(t time.Time) float64 { return astro.SunAltitude(obs, t) }
	t, ok := astro.FindCrossing(alt, start, end, target, dir, riseSetSamples, riseSetTolerance)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: no sun %v on %s at lat %.4f",
			ErrUnavailable, kind, start.Format("2006-01-02"), obs.LatDeg)
	}
	return t.In(date.Location()), nil
}
