// Package watcher provides filesystem change notification for stylesheet
// live-reload.
package watcher

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/oklog/ulid/v2"
)

// Monitor multiplexes per-file change callbacks over a single fsnotify
// watcher. Directories are watched rather than files, which survives the
// rename-over-replace pattern editors use when saving.
type Monitor struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu        sync.Mutex
	listeners map[string]*listener // id -> listener
	dirRefs   map[string]int       // watched directory -> listener count

	done    chan struct{}
	running bool
}

type listener struct {
	path string // absolute file path
	fn   func()
}

// NewMonitor creates a file monitor. Call Start before adding listeners is
// not required; listeners added early fire once the loop runs.
func NewMonitor(logger *slog.Logger) (*Monitor, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		watcher:   w,
		logger:    logger,
		listeners: make(map[string]*listener),
		dirRefs:   make(map[string]int),
		done:      make(chan struct{}),
	}, nil
}

// Start begins dispatching filesystem events to listeners.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()

	go m.loop()
}

// AddListener registers a callback for changes to the given file and
// returns an id for later removal. Callbacks run on the watcher goroutine.
func (m *Monitor) AddListener(path string, fn func()) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(abs)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dirRefs[dir] == 0 {
		if err := m.watcher.Add(dir); err != nil {
			return "", fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	m.dirRefs[dir]++

	id := ulid.Make().String()
	m.listeners[id] = &listener{path: abs, fn: fn}
	m.logger.Debug("listener added", "id", id, "path", abs)
	return id, nil
}

// RemoveListener detaches a callback. Unknown ids are ignored. The watched
// directory is released once its last listener is removed.
func (m *Monitor) RemoveListener(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.listeners[id]
	if !ok {
		return
	}
	delete(m.listeners, id)

	dir := filepath.Dir(l.path)
	m.dirRefs[dir]--
	if m.dirRefs[dir] <= 0 {
		delete(m.dirRefs, dir)
		if err := m.watcher.Remove(dir); err != nil {
			m.logger.Debug("failed to unwatch directory", "dir", dir, "error", err)
		}
	}
	m.logger.Debug("listener removed", "id", id, "path", l.path)
}

// Close stops the monitor and releases the underlying watcher.
func (m *Monitor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return m.watcher.Close()
	}
	m.running = false
	close(m.done)
	return m.watcher.Close()
}

func (m *Monitor) loop() {
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			m.dispatch(event.Name)

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.logger.Warn("file watcher error", "error", err)

		case <-m.done:
			return
		}
	}
}

func (m *Monitor) dispatch(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		abs = name
	}

	m.mu.Lock()
	var fns []func()
	for _, l := range m.listeners {
		if l.path == abs {
			fns = append(fns, l.fn)
		}
	}
	m.mu.Unlock()

	if len(fns) > 0 {
		m.logger.Debug("file changed", "path", abs, "listeners", len(fns))
	}
	for _, fn := range fns {
		fn()
	}
}
