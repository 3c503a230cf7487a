package gtkui

import (
	"time"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// toastDuration is how long the reload toast stays on screen.
const toastDuration = 2 * time.Second

// Toast is a small layer-shell overlay announcing stylesheet reloads during
// live editing.
type Toast struct {
	app     *gtk.Application
	current *gtk.Window
}

// NewToast creates a toast bound to the application.
func NewToast(app *gtk.Application) *Toast {
	return &Toast{app: app}
}

// Show displays a toast with the given message, replacing any toast still
// on screen. Must be called on the GTK main loop.
func (t *Toast) Show(message string) {
	if !layershell.IsSupported() {
		return
	}
	if t.current != nil {
		t.current.Close()
		t.current = nil
	}

	window := gtk.NewWindow()
	window.SetApplication(t.app)
	window.SetDecorated(false)
	window.SetResizable(false)

	label := gtk.NewLabel(message)
	label.SetMarginTop(8)
	label.SetMarginBottom(8)
	label.SetMarginStart(16)
	label.SetMarginEnd(16)
	window.SetChild(label)

	layershell.InitForWindow(window)
	layershell.SetLayer(window, layershell.LayerShellLayerOverlay)
	layershell.SetNamespace(window, "reftheme-toast")
	layershell.SetAnchor(window, layershell.LayerShellEdgeTop, true)
	layershell.SetMargin(window, layershell.LayerShellEdgeTop, 24)
	layershell.SetKeyboardMode(window, layershell.LayerShellKeyboardModeNone)
	layershell.SetExclusiveZone(window, 0)

	window.SetVisible(true)
	t.current = window

	time.AfterFunc(toastDuration, func() {
		glib.IdleAdd(func() {
			if t.current == window {
				t.current = nil
			}
			window.Close()
		})
	})
}
