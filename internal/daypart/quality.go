// Package daypart computes sunrise and sunset and divides the day into
// choghadiya segments, Rahu Kalam and Abhijit Muhurat.
package daypart

import "time"

// Label is the coarse auspiciousness of a quality.
type Label int

const (
	Good Label = iota
	Neutral
	Bad
)

// String returns the label name.
func (l Label) String() string {
	switch l {
	case Good:
		return "good"
	case Neutral:
		return "neutral"
	case Bad:
		return "bad"
	default:
		return "?"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Quality is one of the seven choghadiya names.
type Quality int

const (
	Udvega Quality = iota
	Amrita
	Labha
	Chara
	Roga
	Kaal
	Shubha
)

var qualityNames = [7]string{"Udvega", "Amrita", "Labha", "Chara", "Roga", "Kaal", "Shubha"}

var qualityDescriptions = [7]string{"Bad", "Best", "Gain", "Neutral", "Evil", "Loss", "Good"}

var qualityLabels = [7]Label{Bad, Good, Good, Neutral, Bad, Bad, Good}

// String returns the choghadiya name.
func (q Quality) String() string {
	if q < 0 || int(q) >= len(qualityNames) {
		return "?"
	}
	return qualityNames[q]
}

// Description returns the traditional one-word reading: Best, Good, Gain,
// Neutral, Bad, Evil or Loss.
func (q Quality) Description() string {
	if q < 0 || int(q) >= len(qualityDescriptions) {
		return "?"
	}
	return qualityDescriptions[q]
}

// Label returns the good/neutral/bad class.
func (q Quality) Label() Label {
	if q < 0 || int(q) >= len(qualityLabels) {
		return Neutral
	}
	return qualityLabels[q]
}

// MarshalText implements encoding.TextMarshaler.
func (q Quality) MarshalText() ([]byte, error) { return []byte(q.String()), nil }

// Weekday counts from Monday = 0 to Sunday = 6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// VedicWeekday converts a time.Weekday (Sunday = 0) to Weekday.
func VedicWeekday(d time.Weekday) Weekday {
	return Weekday((int(d) + 6) % 7)
}

// WeekdayOf returns the Weekday of t's civil date.
func WeekdayOf(t time.Time) Weekday {
	return VedicWeekday(t.Weekday())
}

// String returns the English day name.
func (w Weekday) String() string {
	return time.Weekday((int(w) + 1) % 7).String()
}

// MarshalText implements encoding.TextMarshaler.
func (w Weekday) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// Slot orders of the seven qualities; the eighth slot repeats the first.
var dayOrder = [7][8]Quality{
	{1, 5, 6, 4, 0, 3, 2, 1},
	{4, 0, 3, 2, 1, 5, 6, 4},
	{2, 1, 5, 6, 4, 0, 3, 2},
	{6, 4, 0, 3, 2, 1, 5, 6},
	{3, 2, 1, 5, 6, 4, 0, 3},
	{5, 6, 4, 0, 3, 2, 1, 5},
	{0, 3, 2, 1, 5, 6, 4, 0},
}

var nightOrder = [7][8]Quality{
	{3, 4, 5, 2, 0, 6, 1, 3},
	{5, 2, 0, 6, 1, 3, 4, 5},
	{0, 6, 1, 3, 4, 5, 2, 0},
	{1, 3, 4, 5, 2, 0, 6, 1},
	{4, 5, 2, 0, 6, 1, 3, 4},
	{2, 0, 6, 1, 3, 4, 5, 2},
	{6, 1, 3, 4, 5, 2, 0, 6},
}

// rahuEighth is the zero-based eighth of daylight ruled by Rahu.
var rahuEighth = [7]int{1, 6, 4, 5, 3, 2, 7}
