package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/litescript/ls-panchang/internal/config"
	"github.com/litescript/ls-panchang/internal/ephem"
	"github.com/litescript/ls-panchang/internal/festival"
	"github.com/litescript/ls-panchang/internal/logging"
	"github.com/litescript/ls-panchang/internal/metrics"
	"github.com/litescript/ls-panchang/internal/panchang"
)

// app is the wired service for one command invocation.
type app struct {
	cfg     config.Config
	log     *logging.Logger
	metrics *metrics.Metrics
	rules   *festival.Table
	svc     *panchang.Service
	server  *metrics.Server
}

// newApp loads configuration and builds the service. Close must be called
// to stop the metrics server.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logging.New(logging.ParseLevel(cfg.LogLevel))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	rules, err := festival.Load(cfg.Festivals.RulesPath)
	if err != nil {
		return nil, err
	}

	provider := ephem.Instrument(ephem.New(cfg.EphemerisConfig()), m)
	log.Debug("ephemeris provider %s", provider.Name())

	svc, err := panchang.New(panchang.Options{
		Provider: provider,
		Calendar: cfg.CalendarConfig(),
		Rules:    rules,
		Location: cfg.Geo(),
		Timezone: cfg.Location.Timezone,
		Workers:  cfg.Festivals.Workers,
		Log:      log,
		Metrics:  m,
	})
	if err != nil {
		return nil, fmt.Errorf("building service: %w", err)
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		metrics: m,
		rules:   rules,
		svc:     svc,
	}
	if cfg.MetricsAddr != "" {
		a.server = metrics.NewServer(cfg.MetricsAddr, reg, log)
		a.server.Start()
	}
	return a, nil
}

// Close shuts down the metrics server, if any.
func (a *app) Close() {
	if a.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Stop(ctx); err != nil {
		a.log.Warn("stopping metrics server: %v", err)
	}
}

// today is the current civil date in the default location's zone.
func (a *app) today() time.Time {
	_, zone := a.svc.Location()
	return time.Now().In(zone)
}
