package ephem

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/litescript/ls-panchang/internal/astro"
	"github.com/litescript/ls-panchang/internal/metrics"
)

var ujjain = astro.Observer{LatDeg: 23.1765, LonDeg: 75.7885}

var ist = time.FixedZone("IST", 5*3600+1800)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
	}{
		{"meeus", ModeMeeus},
		{"noaa", ModeNOAA},
		{"NOAA", ModeNOAA},
		{"horizons", ModeHorizons},
		{"", ModeMeeus},        // default
		{"invalid", ModeMeeus}, // default for unknown
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ParseMode(tc.input); got != tc.expected {
				t.Errorf("ParseMode(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected string
	}{
		{ModeMeeus, "meeus"},
		{ModeNOAA, "noaa"},
		{ModeHorizons, "horizons"},
		{Mode(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			if got := tc.mode.String(); got != tc.expected {
				t.Errorf("Mode(%d).String() = %q, want %q", tc.mode, got, tc.expected)
			}
		})
	}
}

func TestParseHorizon(t *testing.T) {
	h, err := ParseHorizon("upper_limb")
	if err != nil || h != HorizonUpperLimb {
		t.Errorf("ParseHorizon(upper_limb) = %v, %v", h, err)
	}
	h, err = ParseHorizon("")
	if err != nil || h != HorizonDiscCenter {
		t.Errorf("ParseHorizon(\"\") = %v, %v", h, err)
	}
	if _, err := ParseHorizon("bogus"); err == nil {
		t.Error("expected error for unknown horizon")
	}
	if HorizonUpperLimb.Degrees() >= HorizonDiscCenter.Degrees() {
		t.Error("upper limb event must be timed lower than disc centre")
	}
}

func TestNewSelectsProvider(t *testing.T) {
	tests := []struct {
		mode Mode
		name string
	}{
		{ModeMeeus, "meeus"},
		{ModeNOAA, "noaa"},
		{ModeHorizons, "horizons"},
	}
	for _, tc := range tests {
		cfg := DefaultConfig()
		cfg.Mode = tc.mode
		if got := New(cfg).Name(); got != tc.name {
			t.Errorf("New(%v).Name() = %q, want %q", tc.mode, got, tc.name)
		}
	}
}

func TestMeeusLongitudeIsSidereal(t *testing.T) {
	at := time.Date(2024, 4, 14, 6, 0, 0, 0, time.UTC)

	lahiri := NewMeeusProvider(DefaultConfig())
	cfg := DefaultConfig()
	cfg.Ayanamsa = astro.AyanamsaNone
	tropical := NewMeeusProvider(cfg)

	for _, body := range []Body{Sun, Moon} {
		sid, err := lahiri.Longitude(at, body)
		if err != nil {
			t.Fatal(err)
		}
		trop, err := tropical.Longitude(at, body)
		if err != nil {
			t.Fatal(err)
		}
		diff := astro.Normalize360(trop - sid)
		if math.Abs(diff-24.2) > 0.05 {
			t.Errorf("%v: tropical - sidereal = %.3f°, want ~24.2°", body, diff)
		}
		if sid < 0 || sid >= 360 {
			t.Errorf("%v longitude out of range: %v", body, sid)
		}
	}

	// Mesha Sankranti: the sidereal Sun enters Aries around 13-14 April.
	sun, _ := lahiri.Longitude(at, Sun)
	if sun > 2 && sun < 358 {
		t.Errorf("sidereal sun on 2024-04-14 = %.3f°, want near 0°", sun)
	}

	if _, err := lahiri.Longitude(at, Body(7)); !errors.Is(err, ErrUnsupportedBody) {
		t.Errorf("expected ErrUnsupportedBody, got %v", err)
	}
}

func TestMeeusRiseSet(t *testing.T) {
	p := NewMeeusProvider(DefaultConfig())
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, ist)

	rise, err := p.RiseSet(date, Sun, ujjain, Rise)
	if err != nil {
		t.Fatalf("rise: %v", err)
	}
	set, err := p.RiseSet(date, Sun, ujjain, Set)
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	// Almanac values for Ujjain mid-January are about 07:10 and 18:00 IST.
	wantRise := time.Date(2024, 1, 15, 7, 10, 0, 0, ist)
	wantSet := time.Date(2024, 1, 15, 18, 0, 0, 0, ist)
	if d := rise.Sub(wantRise); d > 10*time.Minute || d < -10*time.Minute {
		t.Errorf("sunrise = %v, want ~%v", rise, wantRise)
	}
	if d := set.Sub(wantSet); d > 10*time.Minute || d < -10*time.Minute {
		t.Errorf("sunset = %v, want ~%v", set, wantSet)
	}
	if rise.Location() != ist {
		t.Errorf("rise should be reported in the date's zone, got %v", rise.Location())
	}

	if _, err := p.RiseSet(date, Moon, ujjain, Rise); !errors.Is(err, ErrUnsupportedBody) {
		t.Errorf("moonrise: expected ErrUnsupportedBody, got %v", err)
	}
}

func TestRiseSetPolarNight(t *testing.T) {
	svalbard := astro.Observer{LatDeg: 78.22, LonDeg: 15.65}
	date := time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)

	for _, p := range []Provider{NewMeeusProvider(DefaultConfig()), NewNOAAProvider(DefaultConfig())} {
		if _, err := p.RiseSet(date, Sun, svalbard, Rise); !errors.Is(err, ErrUnavailable) {
			t.Errorf("%s: expected ErrUnavailable in polar night, got %v", p.Name(), err)
		}
	}
}

func TestNOAAAgreesWithMeeus(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, ist)
	cfg := DefaultConfig()
	cfg.Horizon = HorizonUpperLimb

	meeus := NewMeeusProvider(cfg)
	noaa := NewNOAAProvider(cfg)

	for _, kind := range []EventKind{Rise, Set} {
		a, err := meeus.RiseSet(date, Sun, ujjain, kind)
		if err != nil {
			t.Fatal(err)
		}
		b, err := noaa.RiseSet(date, Sun, ujjain, kind)
		if err != nil {
			t.Fatal(err)
		}
		if d := a.Sub(b); d > 3*time.Minute || d < -3*time.Minute {
			t.Errorf("%v: meeus %v vs noaa %v", kind, a, b)
		}
	}
}

func TestInstrumented(t *testing.T) {
	m := metrics.New(nil)
	p := Instrument(NewMeeusProvider(DefaultConfig()), m)

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, _ = p.Longitude(at, Sun)
	_, _ = p.Longitude(at, Moon)
	_, _ = p.RiseSet(at, Moon, ujjain, Rise)

	if got := testutil.ToFloat64(m.EphemerisCalls.WithLabelValues("meeus", "longitude", "sun")); got != 1 {
		t.Errorf("sun longitude calls = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.EphemerisFailures.WithLabelValues("meeus", "rise")); got != 1 {
		t.Errorf("rise failures = %v, want 1", got)
	}

	if Instrument(p, nil) != p {
		t.Error("Instrument with nil metrics should return the provider unchanged")
	}
}
