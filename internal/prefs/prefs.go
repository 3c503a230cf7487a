// Package prefs provides the observable preference store backing theme
// selection and font settings.
package prefs

import (
	"log/slog"
	"sync"

	"github.com/refstudio/reftheme/internal/config"
)

// Store holds the current preferences and notifies subscribers when the
// theme or font group changes. Setters persist to the config file before
// notifying, so a crash never loses a selection the UI already shows.
type Store struct {
	mu         sync.RWMutex
	logger     *slog.Logger
	cfg        *config.Config
	configPath string

	themeFns []func()
	fontFns  []func()
}

// NewStore creates a store around a loaded configuration. configPath may be
// empty to use the default location.
func NewStore(cfg *config.Config, configPath string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger:     logger,
		cfg:        cfg,
		configPath: configPath,
	}
}

// SelectedTheme returns the persisted theme name.
func (s *Store) SelectedTheme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Theme.Name
}

// ThemeSyncOS reports whether the theme follows the OS color scheme.
func (s *Store) ThemeSyncOS() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Theme.SyncOS
}

// ShouldOverrideFontSize reports whether a custom font size is applied.
func (s *Store) ShouldOverrideFontSize() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Font.Override
}

// MainFontSize returns the configured font size in points.
func (s *Store) MainFontSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Font.Size
}

// DevCSSDir returns the directory holding a live-editable base stylesheet,
// or an empty string for packaged builds.
func (s *Store) DevCSSDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Theme.DevCSSDir
}

// Config returns a snapshot of the current configuration.
func (s *Store) Config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.cfg
}

// OnThemeChanged registers a callback for theme selection or sync changes.
func (s *Store) OnThemeChanged(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themeFns = append(s.themeFns, fn)
}

// OnFontChanged registers a callback for font setting changes.
func (s *Store) OnFontChanged(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fontFns = append(s.fontFns, fn)
}

// SetTheme updates the selected theme, persists it, and notifies theme
// subscribers.
func (s *Store) SetTheme(name string) error {
	s.mu.Lock()
	if s.cfg.Theme.Name == name {
		s.mu.Unlock()
		return nil
	}
	s.cfg.Theme.Name = name
	if err := s.saveLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	fns := append([]func(){}, s.themeFns...)
	s.mu.Unlock()

	s.notify(fns)
	return nil
}

// SetSyncOS updates OS color scheme synchronization, persists it, and
// notifies theme subscribers.
func (s *Store) SetSyncOS(sync bool) error {
	s.mu.Lock()
	if s.cfg.Theme.SyncOS == sync {
		s.mu.Unlock()
		return nil
	}
	s.cfg.Theme.SyncOS = sync
	if err := s.saveLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	fns := append([]func(){}, s.themeFns...)
	s.mu.Unlock()

	s.notify(fns)
	return nil
}

// SetFont updates the font override and size, persists them, and notifies
// font subscribers.
func (s *Store) SetFont(override bool, size int) error {
	s.mu.Lock()
	if s.cfg.Font.Override == override && s.cfg.Font.Size == size {
		s.mu.Unlock()
		return nil
	}
	s.cfg.Font.Override = override
	s.cfg.Font.Size = size
	if err := s.cfg.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.saveLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	fns := append([]func(){}, s.fontFns...)
	s.mu.Unlock()

	s.notify(fns)
	return nil
}

// Adopt replaces the configuration with an externally reloaded one and
// notifies the groups whose values actually changed. Used by the config
// file watcher.
func (s *Store) Adopt(cfg *config.Config) {
	s.mu.Lock()
	old := s.cfg
	s.cfg = cfg

	themeChanged := old.Theme != cfg.Theme
	fontChanged := old.Font != cfg.Font

	var fns []func()
	if themeChanged {
		fns = append(fns, s.themeFns...)
	}
	if fontChanged {
		fns = append(fns, s.fontFns...)
	}
	s.mu.Unlock()

	if themeChanged || fontChanged {
		s.logger.Debug("preferences reloaded", "theme_changed", themeChanged, "font_changed", fontChanged)
	}
	s.notify(fns)
}

func (s *Store) saveLocked() error {
	return s.cfg.Save(s.configPath)
}

func (s *Store) notify(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
