// Package ephem supplies sidereal longitudes and rise/set times for the Sun
// and Moon behind a provider interface.
package ephem

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/litescript/ls-panchang/internal/astro"
)

// Body is a celestial body the providers can report on.
type Body int

const (
	Sun Body = iota
	Moon
)

func (b Body) String() string {
	switch b {
	case Sun:
		return "sun"
	case Moon:
		return "moon"
	default:
		return "unknown"
	}
}

// EventKind selects a rise or a set.
type EventKind int

const (
	Rise EventKind = iota
	Set
)

func (k EventKind) String() string {
	if k == Rise {
		return "rise"
	}
	return "set"
}

// Horizon is the altitude convention used for rise/set events.
type Horizon int

const (
	// HorizonDiscCenter times the event on the centre of the disc with
	// standard refraction.
	HorizonDiscCenter Horizon = iota
	// HorizonUpperLimb times the event on the upper limb (civil almanac
	// convention).
	HorizonUpperLimb
)

// Degrees returns the geometric altitude of the disc centre at the event.
func (h Horizon) Degrees() float64 {
	if h == HorizonUpperLimb {
		return -0.8333
	}
	return -0.5667
}

func (h Horizon) String() string {
	if h == HorizonUpperLimb {
		return "upper_limb"
	}
	return "disc_center"
}

// ParseHorizon parses a horizon convention name.
func ParseHorizon(s string) (Horizon, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "disc_center", "center":
		return HorizonDiscCenter, nil
	case "upper_limb", "limb":
		return HorizonUpperLimb, nil
	default:
		return HorizonDiscCenter, fmt.Errorf("unknown horizon %q", s)
	}
}

var (
	// ErrUnavailable means the provider could not produce a value, e.g. the
	// Sun does not rise on that date at that latitude.
	ErrUnavailable = errors.New("ephemeris value unavailable")
	// ErrUnsupportedBody means the provider does not serve the body.
	ErrUnsupportedBody = errors.New("body not supported by provider")
)

// Provider defines the interface for ephemeris sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Longitude returns the sidereal ecliptic longitude of body at t in
	// degrees, normalized to [0, 360).
	Longitude(t time.Time, body Body) (float64, error)

	// RiseSet returns the rise or set of body on the civil date of date in
	// date's location.
	RiseSet(date time.Time, body Body, obs astro.Observer, kind EventKind) (time.Time, error)
}

// Mode represents which ephemeris source to use.
type Mode int

const (
	ModeMeeus    Mode = iota // Built-in series and altitude solver (default)
	ModeNOAA                 // Built-in longitudes, NOAA sunrise equation
	ModeHorizons             // JPL Horizons longitudes, built-in rise/set
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeMeeus:
		return "meeus"
	case ModeNOAA:
		return "noaa"
	case ModeHorizons:
		return "horizons"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string. Unknown values select ModeMeeus.
func ParseMode(s string) Mode {
	switch strings.ToLower(s) {
	case "noaa":
		return ModeNOAA
	case "horizons":
		return ModeHorizons
	default:
		return ModeMeeus
	}
}

// Config is captured by a provider at construction.
type Config struct {
	Mode     Mode
	Ayanamsa astro.Ayanamsa
	Horizon  Horizon

	// HTTPClient and BaseURL are used by ModeHorizons only.
	HTTPClient *http.Client
	BaseURL    string
}

// DefaultConfig returns the built-in provider with Lahiri ayanamsa and
// disc-centre rise/set.
func DefaultConfig() Config {
	return Config{
		Mode:     ModeMeeus,
		Ayanamsa: astro.AyanamsaLahiri,
		Horizon:  HorizonDiscCenter,
	}
}

// New builds the provider selected by cfg.Mode.
func New(cfg Config) Provider {
	switch cfg.Mode {
	case ModeNOAA:
		return NewNOAAProvider(cfg)
	case ModeHorizons:
		return NewHorizonsProvider(cfg)
	default:
		return NewMeeusProvider(cfg)
	}
}

// civilDay returns local midnight of date and of the following day.
func civilDay(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}
