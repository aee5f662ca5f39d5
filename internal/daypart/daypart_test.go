package daypart

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/litescript/ls-panchang/internal/astro"
	"github.com/litescript/ls-panchang/internal/ephem"
	"github.com/litescript/ls-panchang/internal/geo"
	"github.com/litescript/ls-panchang/internal/logging"
	"github.com/litescript/ls-panchang/internal/metrics"
)

var ist = time.FixedZone("IST", 5*3600+1800)

var ujjain = geo.Location{Lat: 23.1765, Lon: 75.7885}

func TestVedicWeekday(t *testing.T) {
	tests := []struct {
		in   time.Weekday
		want Weekday
	}{
		{time.Monday, Monday},
		{time.Tuesday, Tuesday},
		{time.Saturday, Saturday},
		{time.Sunday, Sunday},
	}
	for _, tt := range tests {
		if got := VedicWeekday(tt.in); got != tt.want {
			t.Errorf("VedicWeekday(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got := VedicWeekday(tt.in).String(); got != tt.in.String() {
			t.Errorf("String() = %q, want %q", got, tt.in.String())
		}
	}
}

func TestQualities(t *testing.T) {
	tests := []struct {
		q     Quality
		desc  string
		label Label
	}{
		{Amrita, "Best", Good},
		{Shubha, "Good", Good},
		{Labha, "Gain", Good},
		{Chara, "Neutral", Neutral},
		{Udvega, "Bad", Bad},
		{Roga, "Evil", Bad},
		{Kaal, "Loss", Bad},
	}
	for _, tt := range tests {
		if tt.q.Description() != tt.desc || tt.q.Label() != tt.label {
			t.Errorf("%v: got %s/%v, want %s/%v", tt.q, tt.q.Description(), tt.q.Label(), tt.desc, tt.label)
		}
	}
}

func TestChoghadiyaMondayStartsWithAmrita(t *testing.T) {
	rise := time.Date(2024, 1, 15, 7, 5, 0, 0, ist)
	set := time.Date(2024, 1, 15, 18, 0, 0, 0, ist)
	next := time.Date(2024, 1, 16, 7, 5, 0, 0, ist)

	day, night := Choghadiya(rise, set, next, Monday)
	if day[0].Quality != Amrita || day[0].Quality.Description() != "Best" {
		t.Errorf("first Monday segment = %v (%s), want Amrita (Best)", day[0].Quality, day[0].Quality.Description())
	}
	if day[7].Quality != day[0].Quality {
		t.Errorf("eighth day slot %v does not repeat the first %v", day[7].Quality, day[0].Quality)
	}
	if night[0].Quality != Chara || night[7].Quality != Chara {
		t.Errorf("Monday night opens with %v, closes with %v; want Chara", night[0].Quality, night[7].Quality)
	}
}

func TestChoghadiyaTilesExactly(t *testing.T) {
	rise := time.Date(2024, 3, 9, 6, 37, 11, 123456789, ist)
	set := time.Date(2024, 3, 9, 18, 29, 53, 987654321, ist)
	next := time.Date(2024, 3, 10, 6, 36, 2, 7, ist)

	for wd := Monday; wd <= Sunday; wd++ {
		day, night := Choghadiya(rise, set, next, wd)
		checkTiling(t, "day", day, rise, set)
		checkTiling(t, "night", night, set, next)
	}
}

func checkTiling(t *testing.T, name string, segs [8]Segment, start, end time.Time) {
	t.Helper()
	if !segs[0].Start.Equal(start) {
		t.Errorf("%s: first segment starts %v, want %v", name, segs[0].Start, start)
	}
	if !segs[7].End.Equal(end) {
		t.Errorf("%s: last segment ends %v, want %v", name, segs[7].End, end)
	}
	var sum time.Duration
	for i, s := range segs {
		if i > 0 && !s.Start.Equal(segs[i-1].End) {
			t.Errorf("%s: gap between segments %d and %d", name, i-1, i)
		}
		if d := s.Duration() - end.Sub(start)/8; d > time.Nanosecond || d < -time.Nanosecond {
			t.Errorf("%s: segment %d lasts %v, want ~%v", name, i, s.Duration(), end.Sub(start)/8)
		}
		sum += s.Duration()
	}
	if sum != end.Sub(start) {
		t.Errorf("%s: segments sum to %v, want %v", name, sum, end.Sub(start))
	}
}

func TestRahuKalam(t *testing.T) {
	rise := time.Date(2024, 3, 20, 6, 0, 0, 0, ist)
	set := time.Date(2024, 3, 20, 18, 0, 0, 0, ist)

	tests := []struct {
		wd         Weekday
		start, end string
	}{
		{Monday, "07:30 AM", "09:00 AM"},
		{Tuesday, "03:00 PM", "04:30 PM"},
		{Wednesday, "12:00 PM", "01:30 PM"},
		{Thursday, "01:30 PM", "03:00 PM"},
		{Friday, "10:30 AM", "12:00 PM"},
		{Saturday, "09:00 AM", "10:30 AM"},
		{Sunday, "04:30 PM", "06:00 PM"},
	}
	for _, tt := range tests {
		w := RahuKalam(tt.wd, rise, set)
		if got := w.Format(ist); got != tt.start+" - "+tt.end {
			t.Errorf("RahuKalam(%v) = %s, want %s - %s", tt.wd, got, tt.start, tt.end)
		}
		if w.Duration() != 90*time.Minute {
			t.Errorf("RahuKalam(%v) lasts %v", tt.wd, w.Duration())
		}
	}

	if w := RahuKalam(Sunday, rise, set); !w.End.Equal(set) {
		t.Errorf("Sunday Rahu Kalam ends %v, want sunset", w.End)
	}
}

func TestAbhijitMuhurat(t *testing.T) {
	rise := time.Date(2024, 3, 20, 6, 0, 0, 0, ist)
	set := time.Date(2024, 3, 20, 18, 0, 0, 0, ist)

	w := AbhijitMuhurat(rise, set)
	if got := w.Format(ist); got != "11:36 AM - 12:24 PM" {
		t.Errorf("AbhijitMuhurat = %s", got)
	}
	noon := rise.Add(set.Sub(rise) / 2)
	if !w.Contains(noon) {
		t.Errorf("Abhijit %v does not contain midday %v", w, noon)
	}
}

func TestCurrent(t *testing.T) {
	rise := time.Date(2024, 3, 20, 6, 0, 0, 0, ist)
	set := time.Date(2024, 3, 20, 18, 0, 0, 0, ist)
	day, _ := Choghadiya(rise, set, rise.Add(24*time.Hour), Wednesday)

	s, ok := Current(day[:], rise.Add(100*time.Minute))
	if !ok || s.Quality != day[1].Quality {
		t.Errorf("Current = %v, %v; want segment 1", s, ok)
	}
	if _, ok := Current(day[:], set); ok {
		t.Error("sunset should fall outside the day segments")
	}
}

type failingProvider struct{}

func (failingProvider) Name() string { return "failing" }

func (failingProvider) Longitude(time.Time, ephem.Body) (float64, error) {
	return 0, ephem.ErrUnavailable
}

func (failingProvider) RiseSet(time.Time, ephem.Body, astro.Observer, ephem.EventKind) (time.Time, error) {
	return time.Time{}, ephem.ErrUnavailable
}

func TestSunriseFallback(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithWriter(logging.LevelInfo, &buf)
	m := metrics.New(nil)
	e := NewEngine(failingProvider{}, log, m)

	date := time.Date(2024, 12, 21, 0, 0, 0, 0, ist)
	st := e.SunriseSunset(date, geo.Location{Lat: 78.2, Lon: 15.6})

	if !st.Approximated {
		t.Fatal("expected Approximated")
	}
	if want := time.Date(2024, 12, 21, 6, 0, 0, 0, ist); !st.Sunrise.Equal(want) {
		t.Errorf("sunrise = %v, want %v", st.Sunrise, want)
	}
	if want := time.Date(2024, 12, 21, 18, 0, 0, 0, ist); !st.Sunset.Equal(want) {
		t.Errorf("sunset = %v, want %v", st.Sunset, want)
	}
	if got := testutil.ToFloat64(m.SunriseFallbacks); got != 1 {
		t.Errorf("fallback counter = %v, want 1", got)
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected a WARN line, got %q", buf.String())
	}

	// Downstream partitions still work on the approximated day.
	d := e.Day(date, geo.Location{Lat: 78.2, Lon: 15.6})
	if d.RahuKalam.Duration() != 90*time.Minute {
		t.Errorf("Rahu Kalam on fallback day lasts %v", d.RahuKalam.Duration())
	}
}

func TestUjjainSolstice(t *testing.T) {
	e := NewEngine(ephem.NewMeeusProvider(ephem.DefaultConfig()), logging.Discard(), nil)
	date := time.Date(2024, 6, 21, 0, 0, 0, 0, ist)

	d := e.Day(date, ujjain)
	if d.Sun.Approximated {
		t.Fatal("unexpected fallback")
	}

	tests := []struct {
		name string
		got  time.Time
		want time.Time
	}{
		{"sunrise", d.Sun.Sunrise, time.Date(2024, 6, 21, 5, 42, 0, 0, ist)},
		{"sunset", d.Sun.Sunset, time.Date(2024, 6, 21, 19, 16, 0, 0, ist)},
	}
	for _, tt := range tests {
		if diff := tt.got.Sub(tt.want); diff > 8*time.Minute || diff < -8*time.Minute {
			t.Errorf("%s = %v, want ~%v", tt.name, tt.got.Format(ClockLayout), tt.want.Format(ClockLayout))
		}
	}

	if d.Weekday != Friday {
		t.Errorf("weekday = %v, want Friday", d.Weekday)
	}
	if !d.NextSunrise.After(d.Sun.Sunset) {
		t.Errorf("next sunrise %v not after sunset %v", d.NextSunrise, d.Sun.Sunset)
	}
	checkTiling(t, "day", d.DaySegs, d.Sun.Sunrise, d.Sun.Sunset)
	checkTiling(t, "night", d.NightSegs, d.Sun.Sunset, d.NextSunrise)
}
