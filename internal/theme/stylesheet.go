package theme

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// maxInMemoryCSS is the largest stylesheet rendered as a data: URL for web
// surfaces. Larger sheets fall back to their file location so that a huge
// custom stylesheet cannot pin megabytes of encoded CSS in memory.
const maxInMemoryCSS = 48 * 1024

// StyleSheet wraps a single CSS resource. A stylesheet is either
// filesystem-backed (watchable, reloadable) or embedded in the binary
// (neither). It caches a scene-usable location string and a web-usable
// string form.
type StyleSheet struct {
	mu sync.RWMutex

	name     string
	path     string // absolute filesystem path; empty for embedded sheets
	embedded string // embedded file name; empty for filesystem sheets

	css     string
	loaded  bool
	modTime time.Time
}

// NewEmbeddedStyleSheet creates a stylesheet backed by a bundled resource.
func NewEmbeddedStyleSheet(name string) (*StyleSheet, error) {
	css, ok := BundledCSS(name)
	if !ok {
		return nil, fmt.Errorf("no embedded stylesheet %q", name)
	}
	return &StyleSheet{
		name:     strings.TrimSuffix(name, ".css"),
		embedded: name,
		css:      css,
		loaded:   true,
	}, nil
}

// NewFileStyleSheet creates a stylesheet backed by a CSS file on disk.
// A missing or unreadable file is tolerated: the sheet stays unrenderable
// until a later Reload succeeds.
func NewFileStyleSheet(path string) *StyleSheet {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	s := &StyleSheet{
		name: strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs)),
		path: abs,
	}
	_ = s.load()
	return s
}

// NewBaseStyleSheet returns the base stylesheet. When devDir contains a
// Base.css the sheet is filesystem-backed and therefore watchable; this is
// the development setup. Packaged builds use the embedded copy, which has
// no watch path.
func NewBaseStyleSheet(devDir string) *StyleSheet {
	if devDir != "" {
		path := filepath.Join(devDir, BaseStyleSheetName)
		if _, err := os.Stat(path); err == nil {
			return NewFileStyleSheet(path)
		}
	}
	s, err := NewEmbeddedStyleSheet(BaseStyleSheetName)
	if err != nil {
		// The base CSS is compiled into the binary; this cannot happen
		// outside a broken build.
		panic(err)
	}
	return s
}

func (s *StyleSheet) load() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	s.css = string(data)
	s.loaded = true
	s.modTime = info.ModTime()
	return nil
}

// Name returns the stylesheet name without the .css extension.
func (s *StyleSheet) Name() string {
	return s.name
}

// WatchPath returns the filesystem path to watch for live updates, or an
// empty string when the sheet is embedded and cannot change at runtime.
func (s *StyleSheet) WatchPath() string {
	return s.path
}

// CSS returns the current stylesheet content.
func (s *StyleSheet) CSS() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.css
}

// Location returns the scene-usable location string, or an empty string
// when the sheet has no renderable content.
func (s *StyleSheet) Location() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.embedded != "" {
		return "embedded:" + s.embedded
	}
	if !s.loaded {
		return ""
	}
	return "file://" + s.path
}

// WebLocation returns the string form used by embedded web surfaces: a
// data: URL for content up to maxInMemoryCSS, the file location above the
// cap, and an empty string when nothing is renderable.
func (s *StyleSheet) WebLocation() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return ""
	}
	if s.embedded == "" && len(s.css) > maxInMemoryCSS {
		return "file://" + s.path
	}
	return "data:text/css;charset=utf-8;base64," +
		base64.StdEncoding.EncodeToString([]byte(s.css))
}

// Reload re-reads a filesystem-backed stylesheet from disk. It returns
// whether the content changed. On error the last-good content is kept.
// Embedded sheets never change; reloading them is a no-op.
func (s *StyleSheet) Reload() (bool, error) {
	if s.path == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if err != nil {
		return false, err
	}
	if s.loaded && !info.ModTime().After(s.modTime) {
		return false, nil
	}

	old := s.css
	wasLoaded := s.loaded
	if err := s.load(); err != nil {
		return false, err
	}
	return !wasLoaded || old != s.css, nil
}
