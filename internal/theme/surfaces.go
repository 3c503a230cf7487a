package theme

// DefaultFontSize is the UI font size in points used when no override is
// configured.
const DefaultFontSize = 10

// Dispatcher marshals a function onto the UI thread. Production code wires
// the toolkit's idle-add; tests run the function synchronously.
type Dispatcher func(fn func())

// Preferences exposes the persisted settings the manager reacts to, plus
// change notification for each group.
type Preferences interface {
	SelectedTheme() string
	ThemeSyncOS() bool
	ShouldOverrideFontSize() bool
	MainFontSize() int

	OnThemeChanged(fn func())
	OnFontChanged(fn func())
}

// FileMonitor watches individual files for modification. AddListener
// returns an opaque id used to detach the callback later.
type FileMonitor interface {
	AddListener(path string, fn func()) (string, error)
	RemoveListener(id string)
}

// Scene is the main style surface: an ordered stylesheet list where the
// base stylesheet occupies the first slot, plus an inline style applied to
// the root node for font sizing.
type Scene interface {
	Stylesheets() []string
	SetStylesheets(locations []string)
	SetRootStyle(style string)
}

// WebSurface is an embedded web view with a single user stylesheet
// location, styled independently of the scene.
type WebSurface interface {
	UserStyleSheetLocation() string
	SetUserStyleSheetLocation(location string)
}

// Window is a top-level window whose frame decoration can be switched
// between light and dark.
type Window interface {
	IsShowing() bool
	Title() string
}

// WindowDecorator applies dark or light decoration to a window frame.
// Implementations may fail on platforms without the capability.
type WindowDecorator interface {
	SetDarkModeForWindowFrame(w Window, dark bool) error
}

// WindowNotifier enumerates visible windows and reports new ones.
type WindowNotifier interface {
	VisibleWindows() []Window
	OnWindowShown(fn func(w Window))
}

// ColorSchemeSource reports the operating system color scheme.
type ColorSchemeSource interface {
	Dark() bool
	OnChange(fn func(dark bool))
}

// NopWindowNotifier is a WindowNotifier with no windows, for headless use.
type NopWindowNotifier struct{}

func (NopWindowNotifier) VisibleWindows() []Window   { return nil }
func (NopWindowNotifier) OnWindowShown(func(Window)) {}

// noopDecorator is installed when no platform decorator is available, so
// the manager never has to nil-check.
type noopDecorator struct{}

func (noopDecorator) SetDarkModeForWindowFrame(Window, bool) error { return nil }
