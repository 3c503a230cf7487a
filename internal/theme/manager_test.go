package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncDispatch runs UI-thread work inline, which serializes everything in
// tests.
func syncDispatch(fn func()) { fn() }

type fakePrefs struct {
	theme        string
	syncOS       bool
	overrideFont bool
	fontSize     int

	themeFns []func()
	fontFns  []func()
}

func (p *fakePrefs) SelectedTheme() string        { return p.theme }
func (p *fakePrefs) ThemeSyncOS() bool            { return p.syncOS }
func (p *fakePrefs) ShouldOverrideFontSize() bool { return p.overrideFont }
func (p *fakePrefs) MainFontSize() int            { return p.fontSize }
func (p *fakePrefs) OnThemeChanged(fn func())     { p.themeFns = append(p.themeFns, fn) }
func (p *fakePrefs) OnFontChanged(fn func())      { p.fontFns = append(p.fontFns, fn) }

func (p *fakePrefs) setTheme(name string) {
	p.theme = name
	for _, fn := range p.themeFns {
		fn()
	}
}

func (p *fakePrefs) setFont(override bool, size int) {
	p.overrideFont = override
	p.fontSize = size
	for _, fn := range p.fontFns {
		fn()
	}
}

type fakeMonitor struct {
	mu        sync.Mutex
	nextID    int
	listeners map[string]string // id -> path
	callbacks map[string]func()
	failPaths map[string]bool
}

func newFakeMonitor() *fakeMonitor {
	return &fakeMonitor{
		listeners: make(map[string]string),
		callbacks: make(map[string]func()),
		failPaths: make(map[string]bool),
	}
}

func (f *fakeMonitor) AddListener(path string, fn func()) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPaths[path] {
		return "", errors.New("watch refused")
	}
	f.nextID++
	id := fmt.Sprintf("listener-%d", f.nextID)
	f.listeners[id] = path
	f.callbacks[id] = fn
	return id, nil
}

func (f *fakeMonitor) RemoveListener(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.listeners, id)
	delete(f.callbacks, id)
}

func (f *fakeMonitor) watchedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	paths := make([]string, 0, len(f.listeners))
	for _, p := range f.listeners {
		paths = append(paths, p)
	}
	return paths
}

func (f *fakeMonitor) fire(path string) {
	f.mu.Lock()
	var fns []func()
	for id, p := range f.listeners {
		if p == path {
			fns = append(fns, f.callbacks[id])
		}
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type fakeScene struct {
	stylesheets []string
	rootStyle   string
	sets        int
}

func (s *fakeScene) Stylesheets() []string { return append([]string(nil), s.stylesheets...) }
func (s *fakeScene) SetStylesheets(locations []string) {
	s.stylesheets = append([]string(nil), locations...)
	s.sets++
}
func (s *fakeScene) SetRootStyle(style string) { s.rootStyle = style }

type fakeWeb struct {
	location string
	history  []string
}

func (w *fakeWeb) UserStyleSheetLocation() string { return w.location }
func (w *fakeWeb) SetUserStyleSheetLocation(location string) {
	w.location = location
	w.history = append(w.history, location)
}

type fakeWindow struct {
	title   string
	showing bool
}

func (w *fakeWindow) IsShowing() bool { return w.showing }
func (w *fakeWindow) Title() string   { return w.title }

type fakeNotifier struct {
	windows []Window
	shown   []func(Window)
}

func (n *fakeNotifier) VisibleWindows() []Window      { return n.windows }
func (n *fakeNotifier) OnWindowShown(fn func(Window)) { n.shown = append(n.shown, fn) }

func (n *fakeNotifier) show(w Window) {
	n.windows = append(n.windows, w)
	for _, fn := range n.shown {
		fn(w)
	}
}

type recordingDecorator struct {
	calls map[string]bool
	err   error
}

func (d *recordingDecorator) SetDarkModeForWindowFrame(w Window, dark bool) error {
	if d.err != nil {
		return d.err
	}
	if d.calls == nil {
		d.calls = make(map[string]bool)
	}
	d.calls[w.Title()] = dark
	return nil
}

type fakeColors struct {
	dark bool
	fns  []func(bool)
}

func (c *fakeColors) Dark() bool             { return c.dark }
func (c *fakeColors) OnChange(fn func(bool)) { c.fns = append(c.fns, fn) }

func (c *fakeColors) set(dark bool) {
	c.dark = dark
	for _, fn := range c.fns {
		fn(dark)
	}
}

func newTestManager(t *testing.T, prefs *fakePrefs, opts ...Option) (*Manager, *fakeMonitor) {
	t.Helper()
	monitor := newFakeMonitor()
	m := NewManager(prefs, monitor, syncDispatch, opts...)
	return m, monitor
}

func writeCSS(t *testing.T, dir, name, css string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(css), 0o644))
	return path
}

// bumpModTime pushes a file's modification time forward so reloads see the
// change even on filesystems with coarse timestamps.
func bumpModTime(t *testing.T, path string) {
	t.Helper()
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))
}

func TestSceneOrderingBaseFirst(t *testing.T) {
	prefs := &fakePrefs{theme: "dark"}
	m, _ := newTestManager(t, prefs)

	scene := &fakeScene{}
	m.InstallScene(scene)

	require.Len(t, scene.stylesheets, 2)
	assert.Equal(t, "embedded:Base.css", scene.stylesheets[0])
	assert.Equal(t, "embedded:Dark.css", scene.stylesheets[1])

	// Switching to light drops the additional entry but keeps base first.
	prefs.setTheme("light")
	require.Len(t, scene.stylesheets, 1)
	assert.Equal(t, "embedded:Base.css", scene.stylesheets[0])
}

func TestUnchangedThemeSkipsPropagation(t *testing.T) {
	dir := t.TempDir()
	path := writeCSS(t, dir, "quiet.css", "a {}")

	prefs := &fakePrefs{theme: path}
	m, monitor := newTestManager(t, prefs)

	scene := &fakeScene{}
	m.InstallScene(scene)
	setsBefore := scene.sets
	idsBefore := monitor.nextID

	web := &fakeWeb{}
	m.RegisterWebSurface(web)
	pushesBefore := len(web.history)

	// Re-selecting the active theme must not touch any surface and must
	// not churn the file watch.
	prefs.setTheme(path)

	assert.Equal(t, setsBefore, scene.sets)
	assert.Equal(t, pushesBefore, len(web.history))
	assert.Equal(t, idsBefore, monitor.nextID)
	assert.Equal(t, []string{path}, monitor.watchedPaths())
}

func TestWebSurfaceClearThenSetOnSameLocation(t *testing.T) {
	dir := t.TempDir()
	path := writeCSS(t, dir, "big.css", string(make([]byte, maxInMemoryCSS+1)))

	prefs := &fakePrefs{theme: path}
	m, monitor := newTestManager(t, prefs)

	first := &fakeWeb{}
	second := &fakeWeb{}
	m.RegisterWebSurface(first)
	m.RegisterWebSurface(second)
	require.Equal(t, "file://"+path, first.location)
	require.Equal(t, "file://"+path, second.location)

	// A reload of a large sheet yields the same file:// location; each
	// surface must be cleared first so it re-fetches the content.
	first.history = nil
	second.history = nil
	monitor.fire(path)

	require.Equal(t, []string{"", "file://" + path}, first.history)
	require.Equal(t, []string{"", "file://" + path}, second.history)
}

func TestWatchFollowsActiveTheme(t *testing.T) {
	dir := t.TempDir()
	first := writeCSS(t, dir, "first.css", "a {}")
	second := writeCSS(t, dir, "second.css", "b {}")

	prefs := &fakePrefs{theme: first}
	_, monitor := newTestManager(t, prefs)
	assert.Equal(t, []string{first}, monitor.watchedPaths())

	prefs.setTheme(second)
	assert.Equal(t, []string{second}, monitor.watchedPaths())

	// Built-in themes have nothing on disk to watch.
	prefs.setTheme("dark")
	assert.Empty(t, monitor.watchedPaths())
}

func TestLiveUpdatePropagatesNewCSS(t *testing.T) {
	dir := t.TempDir()
	path := writeCSS(t, dir, "live.css", "window { color: red; }")

	prefs := &fakePrefs{theme: path}
	m, monitor := newTestManager(t, prefs)

	var applied []Theme
	m.SetAppliedCallback(func(th Theme) { applied = append(applied, th) })

	web := &fakeWeb{}
	m.RegisterWebSurface(web)
	before := web.location

	writeCSS(t, dir, "live.css", "window { color: blue; }")
	bumpModTime(t, path)
	monitor.fire(path)

	assert.NotEqual(t, before, web.location)
	require.NotEmpty(t, applied)
	assert.Equal(t, KindCustom, applied[len(applied)-1].Kind())
}

func TestReloadFailureKeepsLastGoodCSS(t *testing.T) {
	dir := t.TempDir()
	path := writeCSS(t, dir, "fragile.css", "window { color: red; }")

	prefs := &fakePrefs{theme: path}
	m, monitor := newTestManager(t, prefs)

	web := &fakeWeb{}
	m.RegisterWebSurface(web)
	good := web.location
	require.NotEmpty(t, good)

	require.NoError(t, os.Remove(path))
	monitor.fire(path)

	assert.Equal(t, good, web.location)
}

func TestWatchErrorDoesNotBlockThemeSwitch(t *testing.T) {
	dir := t.TempDir()
	path := writeCSS(t, dir, "unwatchable.css", "a {}")

	prefs := &fakePrefs{theme: "light"}
	monitor := newFakeMonitor()
	monitor.failPaths[path] = true
	m := NewManager(prefs, monitor, syncDispatch)

	scene := &fakeScene{}
	m.InstallScene(scene)

	prefs.setTheme(path)

	assert.Equal(t, KindCustom, m.ActiveTheme().Kind())
	require.Len(t, scene.stylesheets, 2)
	assert.Equal(t, "file://"+path, scene.stylesheets[1])
	assert.Empty(t, monitor.watchedPaths())
}

func TestWindowDecoration(t *testing.T) {
	prefs := &fakePrefs{theme: "light"}
	notifier := &fakeNotifier{}
	dec := &recordingDecorator{}

	m, _ := newTestManager(t, prefs,
		WithWindowNotifier(notifier),
		WithDecoratorProbe(func() (WindowDecorator, error) { return dec, nil }),
	)

	main := &fakeWindow{title: "main", showing: true}
	hidden := &fakeWindow{title: "hidden"}
	notifier.show(main)
	notifier.windows = append(notifier.windows, hidden)

	prefs.setTheme("dark")
	assert.True(t, m.IsDark())
	assert.True(t, dec.calls["main"])
	_, touched := dec.calls["hidden"]
	assert.False(t, touched)

	// New windows pick up the current appearance when shown.
	late := &fakeWindow{title: "late", showing: true}
	notifier.show(late)
	assert.True(t, dec.calls["late"])

	prefs.setTheme("light")
	assert.False(t, dec.calls["main"])
}

func TestDecorationFailureIsTolerated(t *testing.T) {
	prefs := &fakePrefs{theme: "light"}
	notifier := &fakeNotifier{}
	dec := &recordingDecorator{err: errors.New("no compositor")}

	m, _ := newTestManager(t, prefs,
		WithWindowNotifier(notifier),
		WithDecoratorProbe(func() (WindowDecorator, error) { return dec, nil }),
	)

	notifier.show(&fakeWindow{title: "main", showing: true})
	prefs.setTheme("dark")

	// Styling still advances despite the decoration error.
	assert.Equal(t, KindDark, m.ActiveTheme().Kind())
}

func TestDecoratorProbeFailure(t *testing.T) {
	prefs := &fakePrefs{theme: "dark"}
	notifier := &fakeNotifier{}

	m, _ := newTestManager(t, prefs,
		WithWindowNotifier(notifier),
		WithDecoratorProbe(func() (WindowDecorator, error) { return nil, errors.New("unsupported platform") }),
	)

	notifier.show(&fakeWindow{title: "main", showing: true})
	assert.Equal(t, KindDark, m.ActiveTheme().Kind())
}

func TestOSColorSchemeSync(t *testing.T) {
	colors := &fakeColors{dark: true}
	prefs := &fakePrefs{theme: "light", syncOS: true}

	m, _ := newTestManager(t, prefs, WithColorScheme(colors))
	assert.Equal(t, KindDark, m.ActiveTheme().Kind())

	colors.set(false)
	assert.Equal(t, KindLight, m.ActiveTheme().Kind())

	// With sync off the stored selection wins again.
	prefs.syncOS = false
	prefs.setTheme("dark")
	colors.set(false)
	assert.Equal(t, KindDark, m.ActiveTheme().Kind())
}

func TestFontStyle(t *testing.T) {
	prefs := &fakePrefs{theme: "light"}
	m, _ := newTestManager(t, prefs)

	scene := &fakeScene{}
	m.InstallScene(scene)
	assert.Equal(t, "font-size: 10pt;", scene.rootStyle)

	prefs.setFont(true, 14)
	assert.Equal(t, "font-size: 14pt;", scene.rootStyle)

	dialog := &fakeScene{}
	m.UpdateFontStyle(dialog)
	assert.Equal(t, "font-size: 14pt;", dialog.rootStyle)

	prefs.setFont(false, 14)
	assert.Equal(t, "font-size: 10pt;", scene.rootStyle)
}

func TestBaseCSSLiveUpdate(t *testing.T) {
	dir := t.TempDir()
	basePath := writeCSS(t, dir, BaseStyleSheetName, "window { color: red; }")

	prefs := &fakePrefs{theme: "dark"}
	monitor := newFakeMonitor()
	m := NewManager(prefs, monitor, syncDispatch, WithBaseStyleSheet(NewBaseStyleSheet(dir)))

	scene := &fakeScene{}
	m.InstallScene(scene)
	require.Len(t, scene.stylesheets, 2)
	assert.Equal(t, "file://"+basePath, scene.stylesheets[0])

	writeCSS(t, dir, BaseStyleSheetName, "window { color: blue; }")
	bumpModTime(t, basePath)
	monitor.fire(basePath)

	// The base slot is replaced; the additional entry survives.
	require.Len(t, scene.stylesheets, 2)
	assert.Equal(t, "file://"+basePath, scene.stylesheets[0])
	assert.Equal(t, "embedded:Dark.css", scene.stylesheets[1])
	assert.Equal(t, "window { color: blue; }", m.base.CSS())
}

func TestWebSurfaceRegistration(t *testing.T) {
	prefs := &fakePrefs{theme: "dark"}
	m, _ := newTestManager(t, prefs)

	web := &fakeWeb{}
	id := m.RegisterWebSurface(web)
	require.NotEmpty(t, id)
	assert.NotEmpty(t, web.location)

	// Registering the same surface twice is a no-op.
	m.RegisterWebSurface(web)
	m.mu.RLock()
	count := len(m.web)
	m.mu.RUnlock()
	assert.Equal(t, 1, count)

	m.UnregisterWebSurface(id)
	prefs.setTheme("light")
	// Detached surfaces keep their last stylesheet.
	assert.NotEmpty(t, web.location)
}
