package festival

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/litescript/ls-panchang/internal/logging"
	"github.com/litescript/ls-panchang/internal/metrics"
)

// DefaultDebounce is the quiet period after the last write before a reload.
const DefaultDebounce = 100 * time.Millisecond

// Update is the outcome of one reload: a fresh table or the reason the
// edited file was rejected.
type Update struct {
	Path  string
	Table *Table
	Err   error
}

// Watcher reloads a rule file when it changes on disk.
type Watcher struct {
	Path     string
	Updates  <-chan Update // read-only external channel
	Debounce time.Duration

	updates chan Update
	done    chan struct{}
	watcher *fsnotify.Watcher
	log     *logging.Logger
	metrics *metrics.Metrics
}

// NewWatcher creates a watcher for the rule file at path. m may be nil.
func NewWatcher(path string, log *logging.Logger, m *metrics.Metrics) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}

	ch := make(chan Update, 4)
	return &Watcher{
		Path:     abs,
		Updates:  ch,
		Debounce: DefaultDebounce,
		updates:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
		log:      log,
		metrics:  m,
	}, nil
}

// Start begins watching. The directory is watched rather than the file so
// that editors which replace the file by rename are seen.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Updates channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.updates)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(w.Debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= w.Debounce {
				pending = time.Time{}
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("rule watcher: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	t, err := LoadFile(w.Path)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		w.log.Warn("rules in %s rejected, keeping previous table: %v", w.Path, err)
	} else {
		w.log.Info("reloaded %d rules from %s", t.Len(), w.Path)
	}
	if w.metrics != nil {
		w.metrics.RuleReloads.WithLabelValues(outcome).Inc()
	}

	select {
	case w.updates <- Update{Path: w.Path, Table: t, Err: err}:
	default:
		w.log.Warn("rule update dropped: consumer not keeping up")
	}
}

// Apply installs every valid update on e and passes all updates to notify,
// which may be nil. It returns when the watcher stops.
func (w *Watcher) Apply(e *Engine, notify func(Update)) {
	for u := range w.Updates {
		if u.Err == nil {
			e.SetTable(u.Table)
		}
		if notify != nil {
			notify(u)
		}
	}
}
