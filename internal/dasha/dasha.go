// Package dasha generates Vimshottari Mahadasha and Antardasha timelines
// from the Moon's sidereal longitude at birth.
package dasha

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/litescript/ls-panchang/internal/astro"
	"github.com/litescript/ls-panchang/internal/calendar"
)

// DaysPerYear is the length of a dasha year.
const DaysPerYear = 360

var (
	// ErrInvalidDegree is returned for longitudes outside [0, 360) or
	// in-sign degrees outside [0, 30).
	ErrInvalidDegree = errors.New("degree out of range")
	// ErrInvalidSpan is returned when a period ends before it starts.
	ErrInvalidSpan = errors.New("period ends before it starts")
)

var (
	three     = decimal.NewFromInt(3)
	forty     = decimal.NewFromInt(40)
	thirty    = decimal.NewFromInt(30)
	full      = decimal.NewFromInt(360)
	cycle     = decimal.NewFromInt(calendar.CycleYears)
	dashaYear = decimal.NewFromInt(DaysPerYear)
)

// Period is one Mahadasha or Antardasha.
type Period struct {
	Lord  calendar.Planet `json:"lord"`
	Start time.Time       `json:"start"`
	End   time.Time       `json:"end"`
	Days  int             `json:"days"`
	// Years is the fractional length in dasha years before day rounding.
	Years decimal.Decimal `json:"years"`
	Sub   []Period        `json:"antardasha,omitempty"`
}

// Contains reports whether t falls in [Start, End).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

func checkDegree(deg decimal.Decimal) error {
	if deg.IsNegative() || deg.GreaterThanOrEqual(full) {
		return fmt.Errorf("%w: %s", ErrInvalidDegree, deg)
	}
	return nil
}

// ElapsedFraction returns the part of the Moon's nakshatra already
// traversed, ((3·deg) mod 40) / 40. The span of 40/3 degrees is kept exact
// by scaling the longitude by three.
func ElapsedFraction(deg decimal.Decimal) decimal.Decimal {
	return deg.Mul(three).Mod(forty).Div(forty)
}

// LordForDegree returns the nakshatra of an absolute sidereal longitude.
func LordForDegree(deg decimal.Decimal) (calendar.Nakshatra, error) {
	if err := checkDegree(deg); err != nil {
		return calendar.Nakshatra{}, err
	}
	i := int(deg.Mul(three).Div(forty).Floor().IntPart())
	return calendar.NakshatraByOrdinal(i), nil
}

// AbsoluteDegree converts a sign and a degree within it to a longitude.
func AbsoluteDegree(sign calendar.Sign, degInSign decimal.Decimal) (decimal.Decimal, error) {
	if sign < 0 || sign > 11 {
		return decimal.Zero, fmt.Errorf("%w: sign index %d", ErrInvalidDegree, int(sign))
	}
	if degInSign.IsNegative() || degInSign.GreaterThanOrEqual(thirty) {
		return decimal.Zero, fmt.Errorf("%w: %s within %v", ErrInvalidDegree, degInSign, sign)
	}
	return decimal.NewFromInt(int64(sign)).Mul(thirty).Add(degInSign), nil
}

// DaysFromYears converts dasha years to whole days, rounding half up.
func DaysFromYears(years decimal.Decimal) int {
	return int(years.Mul(dashaYear).Round(0).IntPart())
}

func cycleFrom(lord calendar.Planet) [9]calendar.Planet {
	var out [9]calendar.Planet
	for i := range out {
		out[i] = calendar.Planets[(int(lord)+i)%9]
	}
	return out
}

func validPlanet(p calendar.Planet) error {
	if p < calendar.Ketu || p > calendar.Mercury {
		return &calendar.UnknownPlanetError{Name: p.String()}
	}
	return nil
}

// Generate returns the nine Mahadashas from birth, starting with lord. The
// first lasts the unelapsed part of lord's years; the rest run in full.
// Periods are contiguous and the cycle does not wrap.
func Generate(moonDeg decimal.Decimal, lord calendar.Planet, birth time.Time) ([]Period, error) {
	if err := checkDegree(moonDeg); err != nil {
		return nil, err
	}
	if err := validPlanet(lord); err != nil {
		return nil, err
	}

	remaining := decimal.NewFromInt(1).Sub(ElapsedFraction(moonDeg))
	periods := make([]Period, 0, 9)
	start := birth

	for i, p := range cycleFrom(lord) {
		years := decimal.NewFromInt(int64(p.Years()))
		if i == 0 {
			years = years.Mul(remaining)
		}
		days := DaysFromYears(years)
		end := start.AddDate(0, 0, days)
		periods = append(periods, Period{Lord: p, Start: start, End: end, Days: days, Years: years})
		start = end
	}

	return periods, nil
}

// Antardasha divides [start, end) into nine sub-periods beginning with lord.
// Each boundary is the parent's calendar-day span times the cumulative share
// of the cycle so far, rounded half up. Boundaries never decrease and the
// last one is end, so no part is negative and the parts sum to the whole.
func Antardasha(lord calendar.Planet, start, end time.Time) ([]Period, error) {
	if err := validPlanet(lord); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidSpan, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	total := astro.DayNumber(end) - astro.DayNumber(start)
	totalDec := decimal.NewFromInt(int64(total))

	subs := make([]Period, 0, 9)
	cursor := start
	used := 0
	cumYears := decimal.Zero

	for i, p := range cycleFrom(lord) {
		pYears := decimal.NewFromInt(int64(p.Years()))
		years := decimal.NewFromInt(int64(lord.Years())).Mul(pYears).Div(cycle)
		cumYears = cumYears.Add(pYears)

		boundary := total
		subEnd := end
		if i < 8 {
			boundary = int(totalDec.Mul(cumYears).Div(cycle).Round(0).IntPart())
			subEnd = start.AddDate(0, 0, boundary)
		}
		days := boundary - used

		subs = append(subs, Period{Lord: p, Start: cursor, End: subEnd, Days: days, Years: years})
		used = boundary
		cursor = subEnd
	}

	return subs, nil
}
