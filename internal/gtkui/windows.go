package gtkui

import (
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/refstudio/reftheme/internal/theme"
)

// Window adapts a gtk.Window to the manager's window interface.
type Window struct {
	win *gtk.Window
}

// WrapWindow wraps a GTK window.
func WrapWindow(win *gtk.Window) *Window {
	return &Window{win: win}
}

func (w *Window) IsShowing() bool {
	return w.win != nil && w.win.IsVisible()
}

func (w *Window) Title() string {
	if w.win == nil {
		return ""
	}
	return w.win.Title()
}

// Unwrap returns the underlying GTK window.
func (w *Window) Unwrap() *gtk.Window {
	return w.win
}

// Notifier tracks the application's windows and reports them as they become
// visible.
type Notifier struct {
	app *gtk.Application
	fns []func(theme.Window)
}

// NewNotifier creates a notifier for the given application. Must be called
// on the GTK main loop before windows are shown.
func NewNotifier(app *gtk.Application) *Notifier {
	n := &Notifier{app: app}
	app.ConnectWindowAdded(func(win *gtk.Window) {
		wrapped := WrapWindow(win)
		win.ConnectShow(func() {
			for _, fn := range n.fns {
				fn(wrapped)
			}
		})
	})
	return n
}

// VisibleWindows returns the application's currently visible windows.
func (n *Notifier) VisibleWindows() []theme.Window {
	var visible []theme.Window
	for _, win := range n.app.Windows() {
		w := WrapWindow(win)
		if w.IsShowing() {
			visible = append(visible, w)
		}
	}
	return visible
}

// OnWindowShown registers a callback invoked on the GTK main loop whenever
// a window becomes visible.
func (n *Notifier) OnWindowShown(fn func(theme.Window)) {
	n.fns = append(n.fns, fn)
}
