// Package panchang is the query facade over the resolver, classifier,
// day-partition, dasha and festival engines.
package panchang

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/litescript/ls-panchang/internal/calendar"
	"github.com/litescript/ls-panchang/internal/dasha"
	"github.com/litescript/ls-panchang/internal/daypart"
	"github.com/litescript/ls-panchang/internal/ephem"
	"github.com/litescript/ls-panchang/internal/festival"
	"github.com/litescript/ls-panchang/internal/geo"
	"github.com/litescript/ls-panchang/internal/logging"
	"github.com/litescript/ls-panchang/internal/metrics"
)

// Options wires a Service.
type Options struct {
	Provider ephem.Provider
	Calendar calendar.Config
	Rules    *festival.Table // nil selects festival.Default()
	Lookup   geo.TimezoneLookup

	// Location and Timezone answer queries that carry no coordinates, and
	// fix the civil zone of festival scans. An empty Timezone is looked up.
	Location geo.Location
	Timezone string
	Workers  int

	Log     *logging.Logger
	Metrics *metrics.Metrics
}

// Service answers panchang, dasha and festival queries.
type Service struct {
	resolver  *geo.Resolver
	cls       *calendar.Classifier
	days      *daypart.Engine
	festivals *festival.Engine

	loc      geo.Location
	zone     *time.Location
	zoneName string

	log     *logging.Logger
	metrics *metrics.Metrics
}

// New builds a service. The default location must resolve to a zone.
func New(opts Options) (*Service, error) {
	if opts.Provider == nil {
		return nil, errors.New("panchang: no ephemeris provider")
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	if opts.Lookup == nil {
		opts.Lookup = geo.DefaultLookup()
	}
	if opts.Rules == nil {
		opts.Rules = festival.Default()
	}

	resolver := geo.NewResolver(opts.Lookup)
	zone, name, err := resolver.Zone(opts.Location, opts.Timezone)
	if err != nil {
		return nil, fmt.Errorf("default location: %w", err)
	}

	cls := calendar.New(opts.Provider, opts.Calendar)
	days := daypart.NewEngine(opts.Provider, opts.Log, opts.Metrics)
	fest := festival.NewEngine(cls, days, opts.Rules, festival.Options{
		Location: opts.Location,
		Zone:     zone,
		Workers:  opts.Workers,
	}, opts.Log, opts.Metrics)

	return &Service{
		resolver:  resolver,
		cls:       cls,
		days:      days,
		festivals: fest,
		loc:       opts.Location,
		zone:      zone,
		zoneName:  name,
		log:       opts.Log,
		metrics:   opts.Metrics,
	}, nil
}

// Location returns the default location and its zone.
func (s *Service) Location() (geo.Location, *time.Location) {
	return s.loc, s.zone
}

// Festivals returns the festival engine, for swapping rule tables.
func (s *Service) Festivals() *festival.Engine {
	return s.festivals
}

// Classifier returns the calendar classifier.
func (s *Service) Classifier() *calendar.Classifier {
	return s.cls
}

// traced returns a logger tagged with a fresh trace id.
func (s *Service) traced(op string) (*logging.Logger, string) {
	id := uuid.NewString()
	return s.log.With("trace", id).With("op", op), id
}

// place returns the location and timezone a query runs at. Queries without
// coordinates use the default location and zone.
func (s *Service) place(loc *geo.Location, tz string) (geo.Location, string) {
	if loc == nil {
		if strings.TrimSpace(tz) == "" {
			tz = s.zoneName
		}
		return s.loc, tz
	}
	return *loc, tz
}

// PanchangQuery asks for the panchang of one civil date.
type PanchangQuery struct {
	Date     string // 2006-01-02
	Time     string // optional; defaults to local noon
	Location *geo.Location
	Timezone string
}

// GetPanchang computes the calendar elements at the query instant and the
// day partitions of its civil date.
func (s *Service) GetPanchang(ctx context.Context, q PanchangQuery) (*Report, error) {
	start := time.Now()
	defer s.metrics.ObserveQuery("panchang", start)
	log, trace := s.traced("panchang")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loc, tz := s.place(q.Location, q.Timezone)
	res, err := s.resolver.Resolve(geo.Query{
		Date:     q.Date,
		Time:     q.Time,
		Timezone: tz,
		Location: loc,
		Default:  geo.DefaultNoon,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("resolved %s %s at %s (%s)", q.Date, q.Time, loc, res.ZoneName)

	snap, err := s.cls.Snapshot(res.Local)
	if err != nil {
		return nil, fmt.Errorf("classifying %s: %w", res.Local.Format(time.RFC3339), err)
	}
	month, err := s.cls.LunarMonthAt(res.Local)
	if err != nil {
		return nil, fmt.Errorf("lunar month at %s: %w", res.Local.Format(time.RFC3339), err)
	}

	tithiEnd, err := s.boundary(s.cls.TithiEnd, res.Local)
	if err != nil {
		return nil, fmt.Errorf("end of %s: %w", snap.Tithi.Name, err)
	}
	nakEnd, err := s.boundary(s.cls.NakshatraEnd, res.Local)
	if err != nil {
		return nil, fmt.Errorf("end of %s: %w", snap.Nakshatra.Name, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	day := s.days.Day(res.Midnight(), loc)
	if day.Sun.Approximated {
		log.Warn("sun events approximated for %s", q.Date)
	}

	r := newReport(res, snap, month, day, tithiEnd, nakEnd)
	r.TraceID = trace
	log.Info("%s: %s %s, %s, %s", r.Date, r.Paksha, r.Tithi, r.Nakshatra, r.LunarMonth)
	return r, nil
}

func (s *Service) boundary(find func(time.Time) (time.Time, error), t time.Time) (time.Time, error) {
	end, err := find(t)
	if s.metrics != nil {
		switch {
		case err == nil:
			s.metrics.BoundarySearches.WithLabelValues("found").Inc()
		case errors.Is(err, calendar.ErrBoundaryNotFound):
			s.metrics.BoundarySearches.WithLabelValues("not_found").Inc()
		}
	}
	return end, err
}

// DashaQuery describes a birth for a Vimshottari timeline.
type DashaQuery struct {
	BirthDate string // 2006-01-02
	BirthTime string // optional; defaults to local midnight
	Location  *geo.Location
	Timezone  string

	MoonSign   string // e.g. "Taurus"
	MoonDegree string // within the sign: 20°50'53", 20 50 53 or 20.848
	// Lord is the ruler of the birth nakshatra. Empty derives it from the
	// Moon's longitude.
	Lord       string
	Antardasha bool
}

// GetDashaTimeline generates the nine Mahadashas from birth, optionally
// expanded into Antardashas.
func (s *Service) GetDashaTimeline(ctx context.Context, q DashaQuery) (*DashaReport, error) {
	start := time.Now()
	defer s.metrics.ObserveQuery("dasha", start)
	log, trace := s.traced("dasha")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loc, tz := s.place(q.Location, q.Timezone)
	res, err := s.resolver.Resolve(geo.Query{
		Date:     q.BirthDate,
		Time:     q.BirthTime,
		Timezone: tz,
		Location: loc,
		Default:  geo.DefaultMidnight,
	})
	if err != nil {
		return nil, err
	}

	sign, err := calendar.ParseSign(q.MoonSign)
	if err != nil {
		return nil, err
	}
	inSign, err := dasha.ParseDMS(q.MoonDegree)
	if err != nil {
		return nil, err
	}
	abs, err := dasha.AbsoluteDegree(sign, inSign)
	if err != nil {
		return nil, err
	}

	var lord calendar.Planet
	if strings.TrimSpace(q.Lord) == "" {
		nak, err := dasha.LordForDegree(abs)
		if err != nil {
			return nil, err
		}
		lord = nak.Lord
		log.Debug("derived lord %v from %s", lord, nak.Name)
	} else if lord, err = calendar.ParsePlanet(q.Lord); err != nil {
		return nil, err
	}

	tl, err := dasha.NewTimeline(abs, lord, res.Local, log)
	if err != nil {
		return nil, err
	}
	if q.Antardasha {
		if _, err := tl.WithAntardashas(); err != nil {
			return nil, err
		}
	}

	log.Info("dasha from %s: %v first, %d days", res.Local.Format(time.RFC3339), lord, tl.TotalDays())
	return &DashaReport{
		TraceID:  trace,
		Timezone: res.ZoneName,
		MoonSign: sign.String(),
		InSign:   dasha.FormatDMS(inSign),
		Absolute: dasha.FormatDMS(abs),
		Timeline: tl,
	}, nil
}

// DetectFestivals returns the rules firing on date (2006-01-02) at the
// default location.
func (s *Service) DetectFestivals(ctx context.Context, date string) ([]festival.Match, error) {
	start := time.Now()
	defer s.metrics.ObserveQuery("festivals", start)
	log, _ := s.traced("festivals")

	y, m, d, err := geo.ParseDate(date)
	if err != nil {
		return nil, err
	}
	matches, err := s.festivals.Evaluate(ctx, time.Date(y, m, d, 0, 0, 0, 0, s.zone))
	if err != nil {
		return nil, err
	}
	log.Debug("%s: %d festivals", date, len(matches))
	return matches, nil
}

// GetYearlyFestivals scans every day of year at the default location.
func (s *Service) GetYearlyFestivals(ctx context.Context, year int) ([]festival.Match, error) {
	start := time.Now()
	defer s.metrics.ObserveQuery("year_scan", start)
	log, _ := s.traced("year_scan")

	if year < 1 || year > 9999 {
		return nil, &geo.InvalidDateFormatError{Value: fmt.Sprint(year), Layout: "2006"}
	}
	matches, err := s.festivals.ScanYear(ctx, year)
	if err != nil {
		log.Error("scan %d failed: %v", year, err)
		return nil, err
	}
	return matches, nil
}
