package gtkui

import (
	"log/slog"
	"os"
	"strings"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/refstudio/reftheme/internal/theme"
)

// Scene maps the manager's ordered stylesheet list onto a GDK display. Each
// list slot owns a CSS provider; slot order determines cascade order via
// ascending provider priority.
type Scene struct {
	display   *gdk.Display
	logger    *slog.Logger
	providers []*gtk.CSSProvider
	locations []string
	root      *gtk.CSSProvider
}

// NewScene creates a scene bound to the given display, or the default
// display when nil. Must be called on the GTK main loop.
func NewScene(display *gdk.Display, logger *slog.Logger) *Scene {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if logger == nil {
		logger = slog.Default()
	}

	root := gtk.NewCSSProvider()
	gtk.StyleContextAddProviderForDisplay(display, root, gtk.STYLE_PROVIDER_PRIORITY_USER)

	return &Scene{
		display: display,
		logger:  logger,
		root:    root,
	}
}

// Stylesheets returns the current stylesheet location list.
func (s *Scene) Stylesheets() []string {
	return append([]string(nil), s.locations...)
}

// SetStylesheets replaces the stylesheet cascade with the given locations.
// Empty locations produce an empty slot, keeping positions stable.
func (s *Scene) SetStylesheets(locations []string) {
	for _, p := range s.providers {
		gtk.StyleContextRemoveProviderForDisplay(s.display, p)
	}
	s.providers = s.providers[:0]
	s.locations = append([]string(nil), locations...)

	for i, location := range locations {
		provider := gtk.NewCSSProvider()
		css, err := resolveLocation(location)
		if err != nil {
			s.logger.Warn("cannot load stylesheet", "location", location, "error", err)
		} else if css != "" {
			provider.LoadFromString(css)
		}
		gtk.StyleContextAddProviderForDisplay(
			s.display,
			provider,
			uint(gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)+uint(i),
		)
		s.providers = append(s.providers, provider)
	}
}

// SetRootStyle applies inline-style declarations to all windows, used for
// font sizing.
func (s *Scene) SetRootStyle(style string) {
	if style == "" {
		s.root.LoadFromString("")
		return
	}
	s.root.LoadFromString("window { " + style + " }")
}

// resolveLocation loads CSS content for a stylesheet location string.
func resolveLocation(location string) (string, error) {
	switch {
	case location == "":
		return "", nil
	case strings.HasPrefix(location, "embedded:"):
		name := strings.TrimPrefix(location, "embedded:")
		css, ok := theme.BundledCSS(name)
		if !ok {
			return "", os.ErrNotExist
		}
		return css, nil
	case strings.HasPrefix(location, "file://"):
		data, err := os.ReadFile(strings.TrimPrefix(location, "file://"))
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(location)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
