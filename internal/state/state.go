// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-panchang/internal/festival"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventRulesLoaded   EventType = "RULES_LOADED"
	EventRulesReloaded EventType = "RULES_RELOADED"
	EventReloadFailed  EventType = "RELOAD_FAILED"
	EventScanCompleted EventType = "SCAN_COMPLETED"
	EventScanFailed    EventType = "SCAN_FAILED"
)

// Event represents a change to the rule table or the scan cache.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source,omitempty"`
	Rules     int       `json:"rules,omitempty"`
	Year      int       `json:"year,omitempty"`
	Matches   int       `json:"matches,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Scan is a cached year of festival matches.
type Scan struct {
	Year     int
	Matches  []festival.Match
	Duration time.Duration
	At       time.Time
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Active rule table
	table      *festival.Table
	tableSince time.Time
	lastError  error

	// Year scans for the active table, oldest first
	scans    map[int]Scan
	order    []int
	maxScans int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// Config holds configuration for the state manager.
type Config struct {
	MaxScans  int
	MaxEvents int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxScans:  5,  // current year and its neighbours
		MaxEvents: 50, // Last 50 events
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxScans := cfg.MaxScans
	if maxScans <= 0 {
		maxScans = 5
	}
	return &Manager{
		maxScans:  maxScans,
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		scans:     make(map[int]Scan),
	}
}

// SetTable installs a rule table. Cached scans were computed from the
// previous table and are dropped.
func (m *Manager) SetTable(t *festival.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()

	typ := EventRulesReloaded
	if m.table == nil {
		typ = EventRulesLoaded
	}

	m.table = t
	m.tableSince = time.Now()
	m.lastError = nil
	m.scans = make(map[int]Scan)
	m.order = nil

	m.addEvent(Event{
		Type:      typ,
		Timestamp: m.tableSince,
		Source:    t.Source,
		Rules:     t.Len(),
	})
}

// ReloadFailed records a rejected rule file. The active table is kept.
func (m *Manager) ReloadFailed(source string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastError = err
	m.addEvent(Event{
		Type:      EventReloadFailed,
		Timestamp: time.Now(),
		Source:    source,
		Error:     err.Error(),
	})
}

// ApplyUpdate records a rule watcher update.
func (m *Manager) ApplyUpdate(u festival.Update) {
	if u.Err != nil {
		m.ReloadFailed(u.Path, u.Err)
		return
	}
	m.SetTable(u.Table)
}

// RecordScan caches a completed year scan, evicting the oldest when full.
func (m *Manager) RecordScan(year int, matches []festival.Match, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if _, ok := m.scans[year]; !ok {
		m.order = append(m.order, year)
		if len(m.order) > m.maxScans {
			delete(m.scans, m.order[0])
			m.order = m.order[1:]
		}
	}
	m.scans[year] = Scan{Year: year, Matches: matches, Duration: d, At: now}

	m.addEvent(Event{
		Type:      EventScanCompleted,
		Timestamp: now,
		Year:      year,
		Matches:   len(matches),
	})
}

// ScanFailed records a year scan that returned an error.
func (m *Manager) ScanFailed(year int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastError = err
	m.addEvent(Event{
		Type:      EventScanFailed,
		Timestamp: time.Now(),
		Year:      year,
		Error:     err.Error(),
	})
}

// Scan returns the cached matches for year.
func (m *Manager) Scan(year int) (Scan, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.scans[year]
	if !ok {
		return Scan{}, false
	}
	s.Matches = append([]festival.Match(nil), s.Matches...)
	return s, true
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Table      *festival.Table
	TableSince time.Time
	LastError  error
	ScanYears  []int
	Events     []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	years := make([]int, len(m.order))
	copy(years, m.order)

	return Snapshot{
		Table:      m.table,
		TableSince: m.tableSince,
		LastError:  m.lastError,
		ScanYears:  years,
		Events:     m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// Table returns the active rule table, or nil before the first SetTable.
func (m *Manager) Table() *festival.Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.table
}

// HasTable returns true once a rule table has been installed.
func (m *Manager) HasTable() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.table != nil
}
