package calendar

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/litescript/ls-panchang/internal/astro"
	"github.com/litescript/ls-panchang/internal/ephem"
)

// MonthScheme selects how lunar months are delimited.
type MonthScheme int

const (
	// Amanta months run from new moon to new moon and take their name from
	// the Sun's sign at the new moon that opens them.
	Amanta MonthScheme = iota
	// Purnimanta months end at full moon, so the waning fortnight carries
	// the name of the month that follows it in the amanta reckoning.
	Purnimanta
)

func (s MonthScheme) String() string {
	if s == Purnimanta {
		return "purnimanta"
	}
	return "amanta"
}

// ParseMonthScheme parses "amanta" or "purnimanta".
func ParseMonthScheme(s string) (MonthScheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "amanta":
		return Amanta, nil
	case "purnimanta":
		return Purnimanta, nil
	default:
		return Amanta, fmt.Errorf("unknown month scheme %q", s)
	}
}

// Config tunes the classifier's searches.
type Config struct {
	MonthScheme       MonthScheme
	NewMoonIterations int     // correction steps before ErrNotConverged
	NewMoonTolerance  float64 // degrees of residual elongation accepted
	Boundary          BoundaryOptions
}

// DefaultConfig returns amanta months, an 8-step new-moon search to 0.05°,
// and DefaultBoundaryOptions.
func DefaultConfig() Config {
	return Config{
		MonthScheme:       Amanta,
		NewMoonIterations: 8,
		NewMoonTolerance:  0.05,
		Boundary:          DefaultBoundaryOptions(),
	}
}

// Classifier derives calendar elements from an ephemeris provider.
type Classifier struct {
	eph ephem.Provider
	cfg Config
}

// New creates a classifier. Zero-valued config fields take their defaults.
func New(eph ephem.Provider, cfg Config) *Classifier {
	d := DefaultConfig()
	if cfg.NewMoonIterations <= 0 {
		cfg.NewMoonIterations = d.NewMoonIterations
	}
	if cfg.NewMoonTolerance <= 0 {
		cfg.NewMoonTolerance = d.NewMoonTolerance
	}
	cfg.Boundary = cfg.Boundary.withDefaults()
	return &Classifier{eph: eph, cfg: cfg}
}

// Config returns the effective configuration.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Longitudes returns the sidereal Sun and Moon longitudes at t.
func (c *Classifier) Longitudes(t time.Time) (sun, moon float64, err error) {
	sun, err = c.eph.Longitude(t, ephem.Sun)
	if err != nil {
		return 0, 0, fmt.Errorf("sun longitude: %w", err)
	}
	moon, err = c.eph.Longitude(t, ephem.Moon)
	if err != nil {
		return 0, 0, fmt.Errorf("moon longitude: %w", err)
	}
	return sun, moon, nil
}

// Snapshot is every instantaneous calendar element at one moment.
type Snapshot struct {
	Instant   time.Time `json:"instant"`
	SunLon    float64   `json:"sun_longitude"`
	MoonLon   float64   `json:"moon_longitude"`
	Tithi     Tithi     `json:"tithi"`
	Nakshatra Nakshatra `json:"nakshatra"`
	Yoga      Yoga      `json:"yoga"`
	Karana    Karana    `json:"karana"`
	SunSign   Sign      `json:"sun_sign"`
	MoonSign  Sign      `json:"moon_sign"`
}

// Snapshot classifies t from a single pair of longitude lookups.
func (c *Classifier) Snapshot(t time.Time) (Snapshot, error) {
	sun, moon, err := c.Longitudes(t)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Instant:   t,
		SunLon:    sun,
		MoonLon:   moon,
		Tithi:     TithiFromLongitudes(sun, moon),
		Nakshatra: NakshatraFromLongitude(moon),
		Yoga:      YogaFromLongitudes(sun, moon),
		Karana:    KaranaFromLongitudes(sun, moon),
		SunSign:   SignFromLongitude(sun),
		MoonSign:  SignFromLongitude(moon),
	}, nil
}

// TithiAt returns the tithi in force at t.
func (c *Classifier) TithiAt(t time.Time) (Tithi, error) {
	sun, moon, err := c.Longitudes(t)
	if err != nil {
		return Tithi{}, err
	}
	return TithiFromLongitudes(sun, moon), nil
}

// NakshatraAt returns the Moon's nakshatra at t.
func (c *Classifier) NakshatraAt(t time.Time) (Nakshatra, error) {
	moon, err := c.eph.Longitude(t, ephem.Moon)
	if err != nil {
		return Nakshatra{}, fmt.Errorf("moon longitude: %w", err)
	}
	return NakshatraFromLongitude(moon), nil
}

// YogaAt returns the yoga at t.
func (c *Classifier) YogaAt(t time.Time) (Yoga, error) {
	sun, moon, err := c.Longitudes(t)
	if err != nil {
		return Yoga{}, err
	}
	return YogaFromLongitudes(sun, moon), nil
}

// KaranaAt returns the karana at t.
func (c *Classifier) KaranaAt(t time.Time) (Karana, error) {
	sun, moon, err := c.Longitudes(t)
	if err != nil {
		return Karana{}, err
	}
	return KaranaFromLongitudes(sun, moon), nil
}

// SunSignAt returns the Sun's sidereal sign at t.
func (c *Classifier) SunSignAt(t time.Time) (Sign, error) {
	sun, err := c.eph.Longitude(t, ephem.Sun)
	if err != nil {
		return 0, fmt.Errorf("sun longitude: %w", err)
	}
	return SignFromLongitude(sun), nil
}

// NewMoonBefore locates the new moon that opens the month containing t and
// returns it with the Sun's sidereal longitude at that instant. Under
// Amanta this is the conjunction at or before t; under Purnimanta the waning
// fortnight resolves to the following conjunction.
func (c *Classifier) NewMoonBefore(t time.Time) (time.Time, float64, error) {
	sun, moon, err := c.Longitudes(t)
	if err != nil {
		return time.Time{}, 0, err
	}

	j := astro.JulianDay(t)
	diff := Elongation(sun, moon)
	if c.cfg.MonthScheme == Purnimanta && diff > 180 {
		diff -= 360
	}

	for i := 0; ; i++ {
		if math.Abs(diff) < c.cfg.NewMoonTolerance {
			return j.Time().In(t.Location()), sun, nil
		}
		if i == c.cfg.NewMoonIterations {
			break
		}

		j = j.Add(-diff / astro.SynodicRate)
		sun, moon, err = c.Longitudes(j.Time())
		if err != nil {
			return time.Time{}, 0, err
		}
		diff = astro.NormalizeSigned(Elongation(sun, moon))
	}

	return time.Time{}, 0, fmt.Errorf("%w: residual %.4f° after %d steps from %s",
		ErrNotConverged, diff, c.cfg.NewMoonIterations, t.Format(time.RFC3339))
}

// LunarMonthAt returns the lunar month containing t.
func (c *Classifier) LunarMonthAt(t time.Time) (LunarMonth, error) {
	_, sun, err := c.NewMoonBefore(t)
	if err != nil {
		return 0, err
	}
	return MonthFromSunSign(SignFromLongitude(sun)), nil
}

// TithiEnd returns the instant the tithi in force at t ends.
func (c *Classifier) TithiEnd(t time.Time) (time.Time, error) {
	cur, err := c.TithiAt(t)
	if err != nil {
		return time.Time{}, err
	}
	fn := func(at time.Time) (int, error) {
		ti, err := c.TithiAt(at)
		return ti.Ordinal, err
	}
	end, err := FindBoundary(t, fn, cur.Ordinal, c.cfg.Boundary)
	if err != nil {
		return time.Time{}, err
	}
	return end.In(t.Location()), nil
}

// NakshatraEnd returns the instant the nakshatra in force at t ends.
func (c *Classifier) NakshatraEnd(t time.Time) (time.Time, error) {
	cur, err := c.NakshatraAt(t)
	if err != nil {
		return time.Time{}, err
	}
	fn := func(at time.Time) (int, error) {
		n, err := c.NakshatraAt(at)
		return n.Ordinal, err
	}
	end, err := FindBoundary(t, fn, cur.Ordinal, c.cfg.Boundary)
	if err != nil {
		return time.Time{}, err
	}
	return end.In(t.Location()), nil
}
