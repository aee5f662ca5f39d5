package daypart

import (
	"time"

	"github.com/litescript/ls-panchang/internal/ephem"
	"github.com/litescript/ls-panchang/internal/geo"
	"github.com/litescript/ls-panchang/internal/logging"
	"github.com/litescript/ls-panchang/internal/metrics"
)

// Fallback local clock times substituted when the solver finds no event.
const (
	FallbackSunriseHour = 6
	FallbackSunsetHour  = 18
)

// SunTimes holds one day's sun events in the date's location.
type SunTimes struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
	// Approximated is set when either event is a fallback clock time.
	Approximated bool `json:"sun_event_approximated"`
}

// Daylight returns Sunset - Sunrise.
func (s SunTimes) Daylight() time.Duration {
	return s.Sunset.Sub(s.Sunrise)
}

// Day is the full partition of one civil day.
type Day struct {
	Date        time.Time  `json:"date"`
	Weekday     Weekday    `json:"weekday"`
	Sun         SunTimes   `json:"sun"`
	NextSunrise time.Time  `json:"next_sunrise"`
	DaySegs     [8]Segment `json:"day_choghadiya"`
	NightSegs   [8]Segment `json:"night_choghadiya"`
	RahuKalam   Window     `json:"rahu_kalam"`
	Abhijit     Window     `json:"abhijit_muhurat"`
}

// Engine solves sun events through an ephemeris provider.
type Engine struct {
	eph     ephem.Provider
	log     *logging.Logger
	metrics *metrics.Metrics
}

// NewEngine creates an engine. m may be nil.
func NewEngine(eph ephem.Provider, log *logging.Logger, m *metrics.Metrics) *Engine {
	if log == nil {
		log = logging.Discard()
	}
	return &Engine{eph: eph, log: log, metrics: m}
}

// SunriseSunset returns sunrise and sunset for the civil date of date in
// date's location. Solver failures are not returned: the fallback clock time
// is substituted and Approximated is set.
func (e *Engine) SunriseSunset(date time.Time, loc geo.Location) SunTimes {
	obs := loc.Observer()
	var st SunTimes

	rise, err := e.eph.RiseSet(date, ephem.Sun, obs, ephem.Rise)
	if err != nil {
		rise = clock(date, FallbackSunriseHour)
		st.Approximated = true
		e.log.Warn("sunrise unavailable on %s at %s, using %s: %v",
			date.Format(geo.DateLayout), loc, rise.Format(ClockLayout), err)
	}
	set, err := e.eph.RiseSet(date, ephem.Sun, obs, ephem.Set)
	if err != nil {
		set = clock(date, FallbackSunsetHour)
		st.Approximated = true
		e.log.Warn("sunset unavailable on %s at %s, using %s: %v",
			date.Format(geo.DateLayout), loc, set.Format(ClockLayout), err)
	}

	if st.Approximated && e.metrics != nil {
		e.metrics.SunriseFallbacks.Inc()
	}

	st.Sunrise = rise.In(date.Location())
	st.Sunset = set.In(date.Location())
	return st
}

// Sunrise is SunriseSunset(date, loc).Sunrise with its approximation flag.
func (e *Engine) Sunrise(date time.Time, loc geo.Location) (time.Time, bool) {
	st := e.SunriseSunset(date, loc)
	return st.Sunrise, st.Approximated
}

// Day computes the sun events and every partition of date.
func (e *Engine) Day(date time.Time, loc geo.Location) Day {
	st := e.SunriseSunset(date, loc)
	next := e.SunriseSunset(date.AddDate(0, 0, 1), loc)

	wd := WeekdayOf(date)
	day, night := Choghadiya(st.Sunrise, st.Sunset, next.Sunrise, wd)

	return Day{
		Date:        midnight(date),
		Weekday:     wd,
		Sun:         st,
		NextSunrise: next.Sunrise,
		DaySegs:     day,
		NightSegs:   night,
		RahuKalam:   RahuKalam(wd, st.Sunrise, st.Sunset),
		Abhijit:     AbhijitMuhurat(st.Sunrise, st.Sunset),
	}
}

func midnight(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

func clock(date time.Time, hour int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())
}
