package ephem

import (
	"time"

	"github.com/litescript/ls-panchang/internal/astro"
	"github.com/litescript/ls-panchang/internal/metrics"
)

// Instrumented wraps a Provider and counts its calls and failures.
type Instrumented struct {
	next Provider
	m    *metrics.Metrics
}

// Instrument returns p wrapped with metrics. A nil m returns p unchanged.
func Instrument(p Provider, m *metrics.Metrics) Provider {
	if m == nil {
		return p
	}
	return &Instrumented{next: p, m: m}
}

// Name implements Provider.
func (i *Instrumented) Name() string {
	return i.next.Name()
}

// Longitude implements Provider.
func (i *Instrumented) Longitude(t time.Time, body Body) (float64, error) {
	i.m.EphemerisCalls.WithLabelValues(i.next.Name(), "longitude", body.String()).Inc()
	lon, err := i.next.Longitude(t, body)
	if err != nil {
		i.m.EphemerisFailures.WithLabelValues(i.next.Name(), "longitude").Inc()
	}
	return lon, err
}

// RiseSet implements Provider.
func (i *Instrumented) RiseSet(date time.Time, body Body, obs astro.Observer, kind EventKind) (time.Time, error) {
	i.m.EphemerisCalls.WithLabelValues(i.next.Name(), kind.String(), body.String()).Inc()
	t, err := i.next.RiseSet(date, body, obs, kind)
	if err != nil {
		i.m.EphemerisFailures.WithLabelValues(i.next.Name(), kind.String()).Inc()
	}
	return t, err
}
