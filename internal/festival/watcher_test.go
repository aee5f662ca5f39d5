package festival

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/litescript/ls-panchang/internal/logging"
	"github.com/litescript/ls-panchang/internal/metrics"
)

func waitUpdate(t *testing.T, w *Watcher) Update {
	t.Helper()
	select {
	case u := <-w.Updates:
		return u
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a rule update")
		return Update{}
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.toml")
	if err := os.WriteFile(path, []byte("[[festival]]\nname = \"A\"\ntithi = \"Navami\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := metrics.New(nil)
	w, err := NewWatcher(path, logging.Discard(), m)
	if err != nil {
		t.Fatal(err)
	}
	w.Debounce = 20 * time.Millisecond
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	two := "[[festival]]\nname = \"A\"\ntithi = \"Navami\"\n\n[[festival]]\nname = \"B\"\ntype = \"fixed\"\nmonth = 1\nday = 1\n"
	if err := os.WriteFile(path, []byte(two), 0o644); err != nil {
		t.Fatal(err)
	}
	u := waitUpdate(t, w)
	if u.Err != nil || u.Table.Len() != 2 {
		t.Fatalf("update = %+v", u)
	}

	if err := os.WriteFile(path, []byte("[[festival]]\nname = \"C\"\ntithi = \"Tuesday\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	u = waitUpdate(t, w)
	var re *RuleError
	if !errors.As(u.Err, &re) || u.Table != nil {
		t.Fatalf("expected a rule error, got %+v", u)
	}

	if got := testutil.ToFloat64(m.RuleReloads.WithLabelValues("error")); got < 1 {
		t.Errorf("error reloads = %v", got)
	}
}

func TestWatcherApplyKeepsTableOnError(t *testing.T) {
	e := newTestEngine(t, janmashtamiProvider(), timedRules, nil)
	before := e.Table()

	dir := t.TempDir()
	w, err := NewWatcher(filepath.Join(dir, "rules.toml"), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.watcher.Close()

	// Drive Apply directly through the internal channel.
	var seen []Update
	done := make(chan struct{})
	go func() {
		w.Apply(e, func(u Update) {
			if u.Err != nil && e.Table() != before {
				t.Error("table replaced by a rejected update")
			}
			seen = append(seen, u)
		})
		close(done)
	}()

	w.updates <- Update{Err: errors.New("bad edit")}
	w.updates <- Update{Table: Default()}
	close(w.updates)
	<-done

	if len(seen) != 2 {
		t.Fatalf("notified %d times, want 2", len(seen))
	}
	if e.Table() == before || e.Table().Source != "embedded" {
		t.Errorf("valid update not applied")
	}
}
