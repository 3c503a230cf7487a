package theme

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Manager keeps the installed scene, registered web surfaces and window
// chrome in sync with the selected theme. All style mutation happens on the
// UI thread via the injected dispatcher; watch and preference callbacks may
// arrive on any goroutine.
type Manager struct {
	logger  *slog.Logger
	prefs   Preferences
	files   FileMonitor
	runOnUI Dispatcher

	decorator WindowDecorator
	colors    ColorSchemeSource
	windows   WindowNotifier
	themesDir string

	mu        sync.RWMutex
	base      *StyleSheet
	theme     Theme
	dark      bool
	scene     Scene
	web       map[string]WebSurface
	addlWatch string // file monitor listener id for the active additional stylesheet
	onApplied func(Theme)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithDecoratorProbe supplies a platform window decorator. When probing
// fails the manager logs the reason and window frames keep their default
// decoration.
func WithDecoratorProbe(probe func() (WindowDecorator, error)) Option {
	return func(m *Manager) {
		d, err := probe()
		if err != nil {
			m.logger.Debug("window decorator unavailable", "error", err)
			return
		}
		m.decorator = d
	}
}

// WithColorScheme supplies the OS color scheme source used when theme
// synchronization is enabled.
func WithColorScheme(src ColorSchemeSource) Option {
	return func(m *Manager) { m.colors = src }
}

// WithWindowNotifier supplies the window tracker used for frame decoration.
func WithWindowNotifier(n WindowNotifier) Option {
	return func(m *Manager) { m.windows = n }
}

// WithThemesDir sets the directory searched for user theme stylesheets.
func WithThemesDir(dir string) Option {
	return func(m *Manager) { m.themesDir = dir }
}

// WithBaseStyleSheet overrides the base stylesheet. The default is the
// embedded base, or a file-backed copy when a dev CSS directory provides
// one.
func WithBaseStyleSheet(s *StyleSheet) Option {
	return func(m *Manager) { m.base = s }
}

// NewManager creates a manager, applies the currently selected theme, and
// subscribes to preference, OS color scheme and stylesheet file changes.
func NewManager(prefs Preferences, files FileMonitor, runOnUI Dispatcher, opts ...Option) *Manager {
	m := &Manager{
		logger:  slog.Default(),
		prefs:   prefs,
		files:   files,
		runOnUI: runOnUI,
		windows: NopWindowNotifier{},
		web:     make(map[string]WebSurface),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.decorator == nil {
		m.decorator = noopDecorator{}
	}
	if m.base == nil {
		m.base = NewBaseStyleSheet("")
	}

	m.windows.OnWindowShown(func(w Window) {
		m.runOnUI(func() {
			m.mu.RLock()
			dark := m.dark
			m.mu.RUnlock()
			m.applyDarkModeToWindow(w, dark)
		})
	})

	if path := m.base.WatchPath(); path != "" {
		if _, err := m.files.AddListener(path, m.baseCSSLiveUpdate); err != nil {
			m.logger.Warn("cannot watch base stylesheet", "path", path, "error", err)
		} else {
			m.logger.Info("watching base stylesheet for live updates", "path", path)
		}
	}

	m.prefs.OnThemeChanged(func() { m.runOnUI(m.updateThemeSettings) })
	m.prefs.OnFontChanged(func() { m.runOnUI(m.updateFontSettings) })
	if m.colors != nil {
		m.colors.OnChange(func(bool) { m.runOnUI(m.updateThemeSettings) })
	}

	m.runOnUI(m.updateThemeSettings)
	return m
}

// ActiveTheme returns the currently applied theme.
func (m *Manager) ActiveTheme() Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

// IsDark reports whether the effective appearance is dark, accounting for
// OS synchronization.
func (m *Manager) IsDark() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dark
}

// SetAppliedCallback registers a function invoked on the UI thread after
// each stylesheet propagation, for reload feedback.
func (m *Manager) SetAppliedCallback(fn func(Theme)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onApplied = fn
}

// InstallScene installs the main scene and brings its stylesheet list and
// root font style up to date.
func (m *Manager) InstallScene(scene Scene) {
	m.runOnUI(func() {
		m.mu.Lock()
		m.scene = scene
		m.updateSceneStylesheetsLocked()
		m.mu.Unlock()
		m.updateFontSettings()
	})
}

// RegisterWebSurface registers an embedded web view for styling and applies
// the current theme to it. The returned handle detaches the surface via
// UnregisterWebSurface. A surface already registered keeps its first
// handle.
func (m *Manager) RegisterWebSurface(surface WebSurface) string {
	id := ulid.Make().String()
	m.runOnUI(func() {
		m.mu.Lock()
		for existing, s := range m.web {
			if s == surface {
				m.logger.Debug("web surface already registered", "id", existing)
				m.mu.Unlock()
				return
			}
		}
		m.web[id] = surface
		theme := m.theme
		m.mu.Unlock()

		location := ""
		if addl, ok := theme.AdditionalStylesheet(); ok {
			location = addl.WebLocation()
		}
		surface.SetUserStyleSheetLocation(location)
	})
	return id
}

// UnregisterWebSurface detaches a previously registered web surface. Its
// current stylesheet is left in place.
func (m *Manager) UnregisterWebSurface(id string) {
	m.runOnUI(func() {
		m.mu.Lock()
		delete(m.web, id)
		m.mu.Unlock()
	})
}

// UpdateFontStyle applies the configured font size to a single scene,
// typically one not managed as the main scene, such as a dialog.
func (m *Manager) UpdateFontStyle(scene Scene) {
	if scene == nil {
		return
	}
	m.runOnUI(func() {
		scene.SetRootStyle(m.rootFontStyle())
	})
}

// updateThemeSettings resolves the selected theme against preferences and
// the OS color scheme and applies it. Runs on the UI thread.
func (m *Manager) updateThemeSettings() {
	newTheme := Resolve(m.prefs.SelectedTheme(), m.themesDir)
	if m.prefs.ThemeSyncOS() && m.colors != nil {
		if m.colors.Dark() {
			newTheme = Dark()
		} else {
			newTheme = Light()
		}
	}

	m.mu.Lock()
	if newTheme.Equal(m.theme) {
		m.mu.Unlock()
		m.logger.Info("theme unchanged, skipping update", "theme", newTheme.String())
		return
	}

	if m.addlWatch != "" {
		m.files.RemoveListener(m.addlWatch)
		m.addlWatch = ""
	}

	m.theme = newTheme
	wasDark := m.dark
	m.dark = newTheme.IsDark()
	darkChanged := wasDark != m.dark

	if addl, ok := newTheme.AdditionalStylesheet(); ok {
		if path := addl.WatchPath(); path != "" {
			id, err := m.files.AddListener(path, m.additionalCSSLiveUpdate)
			if err != nil {
				m.logger.Warn("cannot watch stylesheet", "path", path, "error", err)
			} else {
				m.addlWatch = id
				m.logger.Info("watching stylesheet for live updates", "path", path)
			}
		}
	}
	m.mu.Unlock()

	m.logger.Info("theme set", "theme", newTheme.String(), "dark", m.dark)

	if darkChanged {
		m.applyDarkModeToAllWindows(m.dark)
	}
	m.additionalCSSLiveUpdate()
	m.updateFontSettings()
}

// additionalCSSLiveUpdate reloads the active additional stylesheet and
// pushes it to the scene and all web surfaces. Safe to call from any
// goroutine; propagation is marshaled to the UI thread.
func (m *Manager) additionalCSSLiveUpdate() {
	m.mu.RLock()
	theme := m.theme
	m.mu.RUnlock()

	webLocation := ""
	if addl, ok := theme.AdditionalStylesheet(); ok {
		if _, err := addl.Reload(); err != nil {
			m.logger.Warn("cannot reload stylesheet", "path", addl.WatchPath(), "error", err)
		}
		webLocation = addl.WebLocation()
	}

	m.runOnUI(func() { m.pushAdditionalCSS(webLocation) })
}

// pushAdditionalCSS propagates the additional stylesheet to every style
// surface. Runs on the UI thread.
func (m *Manager) pushAdditionalCSS(webLocation string) {
	m.mu.Lock()
	m.logger.Debug("updating stylesheets", "theme", m.theme.String(), "surfaces", len(m.web))
	m.updateSceneStylesheetsLocked()
	for _, surface := range m.web {
		if surface.UserStyleSheetLocation() == webLocation {
			// Same location string but possibly new content behind it;
			// clearing first forces the surface to reload.
			surface.SetUserStyleSheetLocation("")
		}
		surface.SetUserStyleSheetLocation(webLocation)
	}
	theme := m.theme
	applied := m.onApplied
	m.mu.Unlock()

	if applied != nil {
		applied(theme)
	}
}

// updateSceneStylesheetsLocked rewrites the scene stylesheet list: base
// first, additional second when present. Caller holds m.mu.
func (m *Manager) updateSceneStylesheetsLocked() {
	if m.scene == nil {
		return
	}
	locations := []string{m.base.Location()}
	if addl, ok := m.theme.AdditionalStylesheet(); ok {
		if loc := addl.Location(); loc != "" {
			locations = append(locations, loc)
		}
	}
	m.scene.SetStylesheets(locations)
}

// baseCSSLiveUpdate reloads the base stylesheet from disk and replaces the
// first scene entry, keeping any additional stylesheet intact. Only invoked
// for file-backed base sheets.
func (m *Manager) baseCSSLiveUpdate() {
	if _, err := m.base.Reload(); err != nil {
		m.logger.Error("cannot reload base stylesheet", "path", m.base.WatchPath(), "error", err)
		return
	}
	location := m.base.Location()
	if location == "" {
		m.logger.Error("base stylesheet does not exist", "path", m.base.WatchPath())
		return
	}
	m.logger.Debug("updating base stylesheet", "location", location)

	m.runOnUI(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.scene == nil {
			return
		}
		current := m.scene.Stylesheets()
		updated := append([]string{location}, current[min(1, len(current)):]...)
		m.scene.SetStylesheets(updated)
	})
}

// updateFontSettings applies the configured font size to the main scene.
// Runs on the UI thread.
func (m *Manager) updateFontSettings() {
	m.mu.RLock()
	scene := m.scene
	m.mu.RUnlock()
	if scene == nil {
		return
	}
	scene.SetRootStyle(m.rootFontStyle())
}

func (m *Manager) rootFontStyle() string {
	size := DefaultFontSize
	if m.prefs.ShouldOverrideFontSize() {
		size = m.prefs.MainFontSize()
	}
	return fmt.Sprintf("font-size: %dpt;", size)
}

func (m *Manager) applyDarkModeToAllWindows(dark bool) {
	for _, w := range m.windows.VisibleWindows() {
		m.applyDarkModeToWindow(w, dark)
	}
}

func (m *Manager) applyDarkModeToWindow(w Window, dark bool) {
	if w == nil || !w.IsShowing() {
		return
	}
	if err := m.decorator.SetDarkModeForWindowFrame(w, dark); err != nil {
		m.logger.Debug("cannot set window frame decoration", "window", w.Title(), "error", err)
	}
}
