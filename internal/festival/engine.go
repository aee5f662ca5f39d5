package festival

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/litescript/ls-panchang/internal/astro"
	"github.com/litescript/ls-panchang/internal/calendar"
	"github.com/litescript/ls-panchang/internal/daypart"
	"github.com/litescript/ls-panchang/internal/geo"
	"github.com/litescript/ls-panchang/internal/logging"
	"github.com/litescript/ls-panchang/internal/metrics"
)

// Match is one rule firing on one date.
type Match struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Date       string `json:"date"` // YYYY-MM-DD
	Details    string `json:"details,omitempty"`
	Tithi      string `json:"tithi,omitempty"`
	Paksha     string `json:"paksha,omitempty"`
	LunarMonth string `json:"lunar_month,omitempty"`
	Nakshatra  string `json:"nakshatra,omitempty"`
	// SunriseApproximated is set when a sunrise the rule was judged at
	// came from the fixed fallback clock instead of the provider.
	SunriseApproximated bool `json:"sunrise_approximated,omitempty"`
	Kind                Kind `json:"-"`
}

// Options configures an Engine.
type Options struct {
	Location geo.Location
	// Zone is the civil zone for ScanYear's dates. Evaluate uses the zone of
	// the date it is given.
	Zone *time.Location
	// Workers shards ScanYear across goroutines; values below 1 mean 1.
	Workers int
}

// Engine evaluates the active rule table against daily calendar states.
type Engine struct {
	cls     *calendar.Classifier
	days    *daypart.Engine
	opts    Options
	table   atomic.Pointer[Table]
	log     *logging.Logger
	metrics *metrics.Metrics
}

// NewEngine creates an engine over table. m may be nil.
func NewEngine(cls *calendar.Classifier, days *daypart.Engine, table *Table, opts Options, log *logging.Logger, m *metrics.Metrics) *Engine {
	if opts.Zone == nil {
		opts.Zone = time.UTC
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if log == nil {
		log = logging.Discard()
	}
	e := &Engine{cls: cls, days: days, opts: opts, log: log, metrics: m}
	e.table.Store(table)
	return e
}

// Table returns the active rule table.
func (e *Engine) Table() *Table {
	return e.table.Load()
}

// SetTable swaps the active rule table. Evaluations in flight keep the
// table they started with.
func (e *Engine) SetTable(t *Table) {
	e.table.Store(t)
}

// day lazily computes the calendar state of one civil date.
type day struct {
	e    *Engine
	date time.Time

	sunrise time.Time
	approx  bool
	snap    calendar.Snapshot

	month    calendar.LunarMonth
	hasMonth bool

	nextSign    calendar.Sign
	hasNextSign bool

	timed map[Timing]calendar.Snapshot
}

func (e *Engine) newDay(date time.Time) (*day, error) {
	d := &day{e: e, date: date, timed: make(map[Timing]calendar.Snapshot)}
	d.sunrise, d.approx = e.days.Sunrise(date, e.opts.Location)
	snap, err := e.cls.Snapshot(d.sunrise)
	if err != nil {
		return nil, fmt.Errorf("state at sunrise %s: %w", date.Format(geo.DateLayout), err)
	}
	d.snap = snap
	return d, nil
}

func (d *day) lunarMonth() (calendar.LunarMonth, error) {
	if !d.hasMonth {
		m, err := d.e.cls.LunarMonthAt(d.sunrise)
		if err != nil {
			return 0, fmt.Errorf("lunar month on %s: %w", d.date.Format(geo.DateLayout), err)
		}
		d.month, d.hasMonth = m, true
	}
	return d.month, nil
}

func (d *day) tomorrowSign() (calendar.Sign, error) {
	if !d.hasNextSign {
		rise, approx := d.e.days.Sunrise(d.date.AddDate(0, 0, 1), d.e.opts.Location)
		d.approx = d.approx || approx
		s, err := d.e.cls.SunSignAt(rise)
		if err != nil {
			return 0, fmt.Errorf("sun sign on %s: %w", d.date.AddDate(0, 0, 1).Format(geo.DateLayout), err)
		}
		d.nextSign, d.hasNextSign = s, true
	}
	return d.nextSign, nil
}

func (d *day) at(t Timing) (calendar.Snapshot, error) {
	if t == TimingSunrise {
		return d.snap, nil
	}
	if s, ok := d.timed[t]; ok {
		return s, nil
	}
	s, err := d.e.cls.Snapshot(t.Instant(d.date))
	if err != nil {
		return calendar.Snapshot{}, fmt.Errorf("state at %v on %s: %w", t, d.date.Format(geo.DateLayout), err)
	}
	d.timed[t] = s
	return s, nil
}

// Evaluate returns the rules matching the civil date of date, in table
// order. date's location is the civil zone.
func (e *Engine) Evaluate(ctx context.Context, date time.Time) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table := e.table.Load()
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	d, err := e.newDay(date)
	if err != nil {
		return nil, err
	}

	var out []Match
	for _, r := range table.Rules {
		m, ok, err := e.match(d, r)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.RuleName(), err)
		}
		if !ok {
			continue
		}
		if d.approx && m.Kind != KindFixed {
			m.SunriseApproximated = true
			e.log.Warn("festival %q on %s judged at an approximated sunrise", m.Name, m.Date)
		}
		out = append(out, m)
		if e.metrics != nil {
			e.metrics.FestivalMatches.WithLabelValues(r.Kind().String()).Inc()
		}
	}
	return out, nil
}

func (e *Engine) match(d *day, r Rule) (Match, bool, error) {
	iso := d.date.Format(geo.DateLayout)

	switch r := r.(type) {
	case *FixedRule:
		if d.date.Month() != r.Month || d.date.Day() != r.Day {
			return Match{}, false, nil
		}
		return Match{Name: r.Name, Type: TypeFixed, Date: iso, Kind: KindFixed}, true, nil

	case *SolarTransitRule:
		// Only the day before full occupancy fires; the day the Sun is first
		// in the sign at sunrise does not.
		if d.snap.SunSign == r.Sign {
			return Match{}, false, nil
		}
		next, err := d.tomorrowSign()
		if err != nil {
			return Match{}, false, err
		}
		if next != r.Sign {
			return Match{}, false, nil
		}
		return Match{
			Name:    r.Name,
			Type:    TypeSolar,
			Date:    iso,
			Details: "Sun enters " + r.Sign.String(),
			Kind:    KindSolar,
		}, true, nil

	case *LunarRule:
		return e.matchLunar(d, r, iso)

	default:
		return Match{}, false, fmt.Errorf("unsupported rule type %T", r)
	}
}

func (e *Engine) matchLunar(d *day, r *LunarRule, iso string) (Match, bool, error) {
	snap, err := d.at(r.Timing)
	if err != nil {
		return Match{}, false, err
	}
	if r.Paksha != nil && *r.Paksha != snap.Tithi.Paksha {
		return Match{}, false, nil
	}
	if r.Tithi != "" && r.Tithi != snap.Tithi.Name {
		return Match{}, false, nil
	}
	if r.Nakshatra != "" && r.Nakshatra != snap.Nakshatra.Name {
		return Match{}, false, nil
	}

	// The month stays sunrise-based whatever the timing.
	month, err := d.lunarMonth()
	if err != nil {
		return Match{}, false, err
	}
	if r.Month != nil && *r.Month != month {
		return Match{}, false, nil
	}

	return Match{
		Name:       r.Name,
		Type:       r.Type,
		Date:       iso,
		Tithi:      snap.Tithi.Name,
		Paksha:     snap.Tithi.Paksha.String(),
		LunarMonth: month.String(),
		Nakshatra:  snap.Nakshatra.Name,
		Kind:       KindLunar,
	}, true, nil
}

// ScanYear evaluates every civil date of year in Options.Zone and returns
// the matches ordered by date, then table order. Days are sharded across
// Options.Workers goroutines; the first error or a cancelled ctx stops the
// scan.
func (e *Engine) ScanYear(ctx context.Context, year int) ([]Match, error) {
	start := time.Now()
	zone := e.opts.Zone
	first := astro.DayNumber(time.Date(year, time.January, 1, 0, 0, 0, 0, zone))
	last := astro.DayNumber(time.Date(year, time.December, 31, 0, 0, 0, 0, zone))
	n := last - first + 1

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	perDay := make([][]Match, n)
	jobs := make(chan int)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	workers := min(e.opts.Workers, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				date := astro.DateOfDayNumber(first+i, zone)
				m, err := e.Evaluate(ctx, date)
				if err != nil {
					fail(err)
					return
				}
				perDay[i] = m
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("scanning %d: %w", year, firstErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scanning %d: %w", year, err)
	}

	var out []Match
	for _, m := range perDay {
		out = append(out, m...)
	}

	elapsed := time.Since(start)
	if e.metrics != nil {
		e.metrics.ScanDuration.Observe(elapsed.Seconds())
	}
	e.log.Info("scanned %d with %d workers: %d matches in %v", year, workers, len(out), elapsed.Round(time.Millisecond))
	return out, nil
}
