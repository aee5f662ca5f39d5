package astro

import (
	"math"
	"time"

	"github.com/carlosjhr64/jd"
)

// JD is a Julian Day in Universal Time: fractional days since
// -4712-01-01 12:00 UT.
type JD float64

// J2000 is the Julian Day of 2000-01-01 12:00 UT.
const J2000 JD = 2451545.0

// J1900 is the Julian Day of 1900-01-00 12:00 UT (the 1900 epoch).
const J1900 JD = 2415020.0

const secondsPerDay = 86400.0

// JulianDay converts t to a Julian Day. The integer day number comes from the
// USNO formula; the time of day is added as a fraction.
func JulianDay(t time.Time) JD {
	u := t.UTC()
	// YMD2J returns the day number that starts at noon.
	n := jd.YMD2J(u.Year(), int(u.Month()), u.Day())
	sinceMidnight := float64(u.Hour()*3600+u.Minute()*60+u.Second()) + float64(u.Nanosecond())/1e9
	return JD(float64(n) - 0.5 + sinceMidnight/secondsPerDay)
}

// Time converts the Julian Day back to a UTC time, rounded to the
// nearest millisecond.
func (j JD) Time() time.Time {
	shifted := float64(j) + 0.5
	day := math.Floor(shifted)
	frac := shifted - day

	y, m, d := jd.J2YMD(int(day))
	ms := math.Round(frac * secondsPerDay * 1000)
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC).
		Add(time.Duration(ms) * time.Millisecond)
}

// Add returns j shifted by days.
func (j JD) Add(days float64) JD {
	return j + JD(days)
}

// Centuries returns Julian centuries elapsed since epoch.
func (j JD) Centuries(epoch JD) float64 {
	return float64(j-epoch) / 36525.0
}

// DayNumber returns the Julian Day Number of the civil date of t in its own
// location. Two instants on the same local date share a day number.
func DayNumber(t time.Time) int {
	return jd.YMD2J(t.Year(), int(t.Month()), t.Day())
}

// DateOfDayNumber returns midnight of the civil date with day number n in loc.
func DateOfDayNumber(n int, loc *time.Location) time.Time {
	y, m, d := jd.J2YMD(n)
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
}
