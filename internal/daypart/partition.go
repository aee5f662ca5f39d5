package daypart

import (
	"fmt"
	"time"
)

// Window is a half-open interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End - Start.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether t falls in [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Format renders the window as "06:12 AM - 07:42 AM" in loc.
func (w Window) Format(loc *time.Location) string {
	return fmt.Sprintf("%s - %s", w.Start.In(loc).Format(ClockLayout), w.End.In(loc).Format(ClockLayout))
}

// ClockLayout is the civil clock format used in reports.
const ClockLayout = "03:04 PM"

// Segment is one choghadiya.
type Segment struct {
	Window
	Quality Quality `json:"name"`
}

// split returns the n+1 boundaries of [start, end) divided into n equal
// parts. The last boundary is end itself, so the parts tile exactly.
func split(start, end time.Time, n int) []time.Time {
	total := end.Sub(start)
	b := make([]time.Time, n+1)
	for i := 0; i < n; i++ {
		b[i] = start.Add(time.Duration(int64(total) * int64(i) / int64(n)))
	}
	b[n] = end
	return b
}

func segments(start, end time.Time, order [8]Quality) [8]Segment {
	var out [8]Segment
	b := split(start, end, 8)
	for i := range out {
		out[i] = Segment{Window: Window{Start: b[i], End: b[i+1]}, Quality: order[i]}
	}
	return out
}

// Choghadiya divides [sunrise, sunset) and [sunset, nextSunrise) into eight
// equal segments each, named by the weekday's day and night orders.
func Choghadiya(sunrise, sunset, nextSunrise time.Time, weekday Weekday) (day, night [8]Segment) {
	w := ((int(weekday) % 7) + 7) % 7
	return segments(sunrise, sunset, dayOrder[w]), segments(sunset, nextSunrise, nightOrder[w])
}

// RahuKalam returns the eighth of daylight assigned to Rahu on weekday.
func RahuKalam(weekday Weekday, sunrise, sunset time.Time) Window {
	w := ((int(weekday) % 7) + 7) % 7
	b := split(sunrise, sunset, 8)
	i := rahuEighth[w]
	return Window{Start: b[i], End: b[i+1]}
}

// AbhijitMuhurat returns the eighth of fifteen equal divisions of daylight,
// the muhurta spanning local solar noon.
func AbhijitMuhurat(sunrise, sunset time.Time) Window {
	b := split(sunrise, sunset, 15)
	return Window{Start: b[7], End: b[8]}
}

// Current returns the segment containing t, if any.
func Current(segs []Segment, t time.Time) (Segment, bool) {
	for _, s := range segs {
		if s.Contains(t) {
			return s, true
		}
	}
	return Segment{}, false
}
