package dasha

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/litescript/ls-panchang/internal/calendar"
	"github.com/litescript/ls-panchang/internal/logging"
)

var dmsReplacer = strings.NewReplacer("°", " ", "′", " ", "″", " ", "'", " ", "\"", " ", ":", " ", "d", " ", "m", " ", "s", " ")

var (
	sixty     = decimal.NewFromInt(60)
	thirtySix = decimal.NewFromInt(3600)
)

// ParseDMS parses degrees written as `20°50'53"`, `20 50 53`, `20:50:53`
// or a plain decimal such as `20.848`.
func ParseDMS(s string) (decimal.Decimal, error) {
	fields := strings.Fields(dmsReplacer.Replace(strings.ToLower(s)))
	if len(fields) == 0 || len(fields) > 3 {
		return decimal.Zero, fmt.Errorf("invalid degree %q", s)
	}

	divisors := []decimal.Decimal{decimal.NewFromInt(1), sixty, thirtySix}
	deg := decimal.Zero
	for i, f := range fields {
		v, err := decimal.NewFromString(f)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid degree %q: %w", s, err)
		}
		if v.IsNegative() || (i > 0 && v.GreaterThanOrEqual(sixty)) {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidDegree, s)
		}
		deg = deg.Add(v.Div(divisors[i]))
	}
	return deg, nil
}

// FormatDMS renders a degree as `20°50'53"`, rounding to the second.
func FormatDMS(deg decimal.Decimal) string {
	secs := deg.Mul(thirtySix).Round(0).IntPart()
	sign := ""
	if secs < 0 {
		sign, secs = "-", -secs
	}
	return fmt.Sprintf("%s%d°%02d'%02d\"", sign, secs/3600, secs/60%60, secs%60)
}

// Timeline is a birth's full Vimshottari sequence.
type Timeline struct {
	Birth      time.Time          `json:"birth"`
	MoonDegree decimal.Decimal    `json:"moon_degree"`
	Nakshatra  calendar.Nakshatra `json:"nakshatra"`
	Lord       calendar.Planet    `json:"lord"`
	// Balance is the unelapsed fraction of the first Mahadasha.
	Balance decimal.Decimal `json:"balance"`
	Periods []Period        `json:"periods"`
}

// NewTimeline generates the Mahadashas for a Moon longitude and its lord.
// A lord that disagrees with the longitude's nakshatra is kept and logged.
func NewTimeline(moonDeg decimal.Decimal, lord calendar.Planet, birth time.Time, log *logging.Logger) (*Timeline, error) {
	nak, err := LordForDegree(moonDeg)
	if err != nil {
		return nil, err
	}
	if nak.Lord != lord && log != nil {
		log.Warn("lord %v for moon at %s (%s) does not match derived lord %v; using %v",
			lord, FormatDMS(moonDeg), nak.Name, nak.Lord, lord)
	}

	periods, err := Generate(moonDeg, lord, birth)
	if err != nil {
		return nil, err
	}

	return &Timeline{
		Birth:      birth,
		MoonDegree: moonDeg,
		Nakshatra:  nak,
		Lord:       lord,
		Balance:    decimal.NewFromInt(1).Sub(ElapsedFraction(moonDeg)),
		Periods:    periods,
	}, nil
}

// WithAntardashas fills every period's sub-periods and returns t.
func (t *Timeline) WithAntardashas() (*Timeline, error) {
	for i := range t.Periods {
		p := &t.Periods[i]
		subs, err := Antardasha(p.Lord, p.Start, p.End)
		if err != nil {
			return nil, fmt.Errorf("antardasha of %v: %w", p.Lord, err)
		}
		p.Sub = subs
	}
	return t, nil
}

// End returns the end of the last Mahadasha.
func (t *Timeline) End() time.Time {
	if len(t.Periods) == 0 {
		return t.Birth
	}
	return t.Periods[len(t.Periods)-1].End
}

// TotalDays sums the Mahadasha day counts.
func (t *Timeline) TotalDays() int {
	n := 0
	for _, p := range t.Periods {
		n += p.Days
	}
	return n
}

// At returns the Mahadasha in force at instant and, when sub-periods have
// been generated, the Antardasha within it.
func (t *Timeline) At(instant time.Time) (maha, antar *Period) {
	for i := range t.Periods {
		p := &t.Periods[i]
		if !p.Contains(instant) {
			continue
		}
		for j := range p.Sub {
			if p.Sub[j].Contains(instant) {
				return p, &p.Sub[j]
			}
		}
		return p, nil
	}
	return nil, nil
}
