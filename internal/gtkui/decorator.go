package gtkui

import (
	"errors"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"

	"github.com/refstudio/reftheme/internal/theme"
)

// Decorator switches window frame decoration between light and dark through
// the libadwaita style manager. Decoration is display-global on GTK; the
// per-window argument exists for platforms with per-frame control.
type Decorator struct {
	manager *adw.StyleManager
}

// NewDecorator probes for the libadwaita style manager. It fails when no
// display is available, for example in a headless session.
func NewDecorator() (theme.WindowDecorator, error) {
	manager := adw.StyleManagerGetDefault()
	if manager == nil {
		return nil, errors.New("libadwaita style manager unavailable")
	}
	return &Decorator{manager: manager}, nil
}

func (d *Decorator) SetDarkModeForWindowFrame(_ theme.Window, dark bool) error {
	if dark {
		d.manager.SetColorScheme(adw.ColorSchemeForceDark)
	} else {
		d.manager.SetColorScheme(adw.ColorSchemeForceLight)
	}
	return nil
}
