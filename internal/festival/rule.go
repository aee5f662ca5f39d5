// Package festival matches daily calendar states against a table of
// festival rules.
package festival

import (
	"fmt"
	"strings"
	"time"

	"github.com/litescript/ls-panchang/internal/calendar"
)

// Kind distinguishes the three rule variants.
type Kind int

const (
	KindFixed Kind = iota // Gregorian month and day
	KindSolar             // Sun's ingress into a sign
	KindLunar             // lunar month, paksha, tithi and nakshatra
)

// String returns the TOML type name.
func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindSolar:
		return "solar"
	case KindLunar:
		return "lunar"
	default:
		return "unknown"
	}
}

// Rule is one of *FixedRule, *SolarTransitRule or *LunarRule.
type Rule interface {
	RuleName() string
	Kind() Kind
}

// FixedRule fires on a Gregorian month and day.
type FixedRule struct {
	Name  string
	Month time.Month
	Day   int
}

// RuleName implements Rule.
func (r *FixedRule) RuleName() string { return r.Name }

// Kind implements Rule.
func (r *FixedRule) Kind() Kind { return KindFixed }

// SolarTransitRule fires on the day whose sunrise precedes the Sun's
// ingress into Sign: the sign differs at today's sunrise and equals Sign at
// tomorrow's.
type SolarTransitRule struct {
	Name string
	Sign calendar.Sign
}

// RuleName implements Rule.
func (r *SolarTransitRule) RuleName() string { return r.Name }

// Kind implements Rule.
func (r *SolarTransitRule) Kind() Kind { return KindSolar }

// LunarRule fires when every present predicate matches. Nil pointers and
// empty names are absent predicates.
type LunarRule struct {
	Name      string
	Month     *calendar.LunarMonth
	Paksha    *calendar.Paksha
	Tithi     string
	Nakshatra string
	Timing    Timing
	// Type is the match type shown to users, already title-cased.
	Type string
}

// RuleName implements Rule.
func (r *LunarRule) RuleName() string { return r.Name }

// Kind implements Rule.
func (r *LunarRule) Kind() Kind { return KindLunar }

// Describe renders the predicates, e.g. "Shravana Krishna Ashtami @ midnight".
func (r *LunarRule) Describe() string {
	var parts []string
	if r.Month != nil {
		parts = append(parts, r.Month.String())
	}
	if r.Paksha != nil {
		parts = append(parts, r.Paksha.String())
	}
	if r.Tithi != "" {
		parts = append(parts, r.Tithi)
	}
	if r.Nakshatra != "" {
		parts = append(parts, "in "+r.Nakshatra)
	}
	s := strings.Join(parts, " ")
	if r.Timing != TimingSunrise {
		s += " @ " + r.Timing.String()
	}
	return s
}

// Timing selects the local clock instant at which a lunar rule's tithi,
// paksha and nakshatra are evaluated.
type Timing int

const (
	TimingSunrise Timing = iota
	TimingNoon
	TimingAfternoon
	TimingEvening
	TimingMidnight
)

var timingNames = [...]string{"sunrise", "noon", "afternoon", "evening", "midnight"}

// Local clock offsets from civil midnight. Midnight is the end of the day.
var timingOffsets = [...]time.Duration{
	0,
	12 * time.Hour,
	14*time.Hour + 30*time.Minute,
	18*time.Hour + 30*time.Minute,
	24 * time.Hour,
}

// String returns the timing name.
func (t Timing) String() string {
	if t < 0 || int(t) >= len(timingNames) {
		return fmt.Sprintf("Timing(%d)", int(t))
	}
	return timingNames[t]
}

// ParseTiming parses a timing name; the empty string means sunrise.
func ParseTiming(s string) (Timing, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TimingSunrise, nil
	}
	for i, n := range timingNames {
		if n == s {
			return Timing(i), nil
		}
	}
	return TimingSunrise, fmt.Errorf("unknown timing %q", s)
}

// Instant returns the timing's clock instant on the civil date of date in
// date's location. Midnight resolves to 00:00 of the following day.
func (t Timing) Instant(date time.Time) time.Time {
	d := timingOffsets[t]
	h, m := int(d/time.Hour), int(d%time.Hour/time.Minute)
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location())
}
