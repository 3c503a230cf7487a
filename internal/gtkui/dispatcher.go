package gtkui

import (
	"github.com/diamondburned/gotk4/pkg/glib/v2"
)

// Dispatch schedules fn on the GTK main loop. Safe to call from any
// goroutine.
func Dispatch(fn func()) {
	glib.IdleAdd(fn)
}
