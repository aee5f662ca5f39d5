package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/litescript/ls-panchang/internal/festival"
)

func testTable(t *testing.T) *festival.Table {
	t.Helper()
	tbl, err := festival.Parse([]byte(`
[[festival]]
name = "Republic Day"
type = "fixed"
month = 1
day = 26
`), "test.toml")
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestNewManager(t *testing.T) {
	m := NewManager(DefaultConfig())

	if m == nil {
		t.Fatal("NewManager returned nil")
	}
	if m.HasTable() {
		t.Error("HasTable should be false initially")
	}
	if m.Table() != nil {
		t.Error("Table should be nil initially")
	}
}

func TestManager_SetTable(t *testing.T) {
	m := NewManager(DefaultConfig())
	tbl := testTable(t)

	m.SetTable(tbl)
	m.SetTable(tbl)

	if !m.HasTable() || m.Table() != tbl {
		t.Fatal("table not installed")
	}

	events := m.RecentEvents(10)
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Type != EventRulesLoaded || events[1].Type != EventRulesReloaded {
		t.Errorf("event types = %s, %s", events[0].Type, events[1].Type)
	}
	if events[0].Source != "test.toml" || events[0].Rules != 1 {
		t.Errorf("event = %+v", events[0])
	}
}

func TestManager_ReloadFailedKeepsTable(t *testing.T) {
	m := NewManager(DefaultConfig())
	tbl := testTable(t)
	m.SetTable(tbl)

	testErr := errors.New("bad tithi")
	m.ApplyUpdate(festival.Update{Path: "/rules.toml", Err: testErr})

	snap := m.Snapshot()
	if snap.Table != tbl {
		t.Error("failed reload replaced the table")
	}
	if snap.LastError != testErr {
		t.Errorf("LastError = %v, want %v", snap.LastError, testErr)
	}
	last := snap.Events[len(snap.Events)-1]
	if last.Type != EventReloadFailed || last.Source != "/rules.toml" || last.Error != "bad tithi" {
		t.Errorf("last event = %+v", last)
	}

	m.ApplyUpdate(festival.Update{Table: tbl})
	if m.Snapshot().LastError != nil {
		t.Error("successful reload should clear LastError")
	}
}

func TestManager_ScanCache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxScans = 2
	m := NewManager(cfg)
	m.SetTable(testTable(t))

	matches := []festival.Match{{Name: "Republic Day", Date: "2024-01-26"}}
	m.RecordScan(2023, nil, time.Second)
	m.RecordScan(2024, matches, time.Second)
	m.RecordScan(2025, nil, time.Second)

	if _, ok := m.Scan(2023); ok {
		t.Error("oldest scan should have been evicted")
	}
	s, ok := m.Scan(2024)
	if !ok || len(s.Matches) != 1 || s.Year != 2024 {
		t.Fatalf("Scan(2024) = %+v, %v", s, ok)
	}

	// Returned matches are a copy.
	s.Matches[0].Name = "changed"
	again, _ := m.Scan(2024)
	if again.Matches[0].Name != "Republic Day" {
		t.Error("Scan returned the cached slice")
	}

	if got := m.Snapshot().ScanYears; len(got) != 2 || got[0] != 2024 || got[1] != 2025 {
		t.Errorf("ScanYears = %v, want [2024 2025]", got)
	}

	// A new table invalidates cached scans.
	m.SetTable(testTable(t))
	if _, ok := m.Scan(2024); ok {
		t.Error("scan survived a table change")
	}
}

func TestManager_ScanFailed(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.ScanFailed(2024, errors.New("context canceled"))

	events := m.RecentEvents(1)
	if len(events) != 1 || events[0].Type != EventScanFailed || events[0].Year != 2024 {
		t.Errorf("events = %+v", events)
	}
	if m.Snapshot().LastError == nil {
		t.Error("LastError not recorded")
	}
}

func TestManager_EventRingBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEvents = 3
	m := NewManager(cfg)

	for year := 2020; year < 2025; year++ {
		m.RecordScan(year, nil, 0)
	}

	events := m.Snapshot().Events
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	for i, want := range []int{2022, 2023, 2024} {
		if events[i].Year != want {
			t.Errorf("events[%d].Year = %d, want %d", i, events[i].Year, want)
		}
	}

	recent := m.RecentEvents(2)
	if len(recent) != 2 || recent[1].Year != 2024 {
		t.Errorf("RecentEvents(2) = %+v", recent)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())
	tbl := testTable(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			m.SetTable(tbl)
			m.RecordScan(2000+i, nil, 0)
		}(i)
		go func() {
			defer wg.Done()
			_ = m.Snapshot()
			_, _ = m.Scan(2005)
			_ = m.RecentEvents(5)
		}()
	}
	wg.Wait()

	if !m.HasTable() {
		t.Error("table missing after concurrent updates")
	}
}
