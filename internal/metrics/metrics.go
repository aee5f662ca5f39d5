// Package metrics holds the Prometheus instrumentation for panchang queries.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/litescript/ls-panchang/internal/logging"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	EphemerisCalls    *prometheus.CounterVec // labels: provider, op, body
	EphemerisFailures *prometheus.CounterVec // labels: provider, op
	SunriseFallbacks  prometheus.Counter
	BoundarySearches  *prometheus.CounterVec // labels: outcome=found|not_found
	FestivalMatches   *prometheus.CounterVec // labels: kind
	ScanDuration      prometheus.Histogram
	QueryDuration     *prometheus.HistogramVec // labels: op
	RuleReloads       *prometheus.CounterVec   // labels: outcome=ok|error
}

// New creates the collectors and registers them on reg. A nil reg leaves
// them unregistered, which tests use to avoid global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EphemerisCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "panchang_ephemeris_calls_total",
			Help: "Ephemeris adapter calls",
		}, []string{"provider", "op", "body"}),
		EphemerisFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "panchang_ephemeris_failures_total",
			Help: "Ephemeris adapter calls that returned an error",
		}, []string{"provider", "op"}),
		SunriseFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "panchang_sunrise_fallbacks_total",
			Help: "Days where 06:00/18:00 was substituted for an unsolved sun event",
		}),
		BoundarySearches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "panchang_boundary_searches_total",
			Help: "Category boundary searches by outcome",
		}, []string{"outcome"}),
		FestivalMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "panchang_festival_matches_total",
			Help: "Festival rule matches by rule kind",
		}, []string{"kind"}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "panchang_year_scan_duration_seconds",
			Help:    "Wall time of a full-year festival scan",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "panchang_query_duration_seconds",
			Help:    "Service query latency by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		RuleReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "panchang_rule_reloads_total",
			Help: "Festival rule table reloads by outcome",
		}, []string{"outcome"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.EphemerisCalls,
			m.EphemerisFailures,
			m.SunriseFallbacks,
			m.BoundarySearches,
			m.FestivalMatches,
			m.ScanDuration,
			m.QueryDuration,
			m.RuleReloads,
		)
	}

	return m
}

// ObserveQuery records the elapsed time of op since start.
func (m *Metrics) ObserveQuery(op string, start time.Time) {
	if m == nil {
		return
	}
	m.QueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Server exposes /metrics over HTTP.
type Server struct {
	addr string
	srv  *http.Server
	log  *logging.Logger
}

// NewServer creates a metrics server for the collectors gathered by g.
func NewServer(addr string, g prometheus.Gatherer, log *logging.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	return &Server{
		addr: addr,
		log:  log,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		s.log.Info("metrics server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("metrics server: %v", err)
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
