package theme

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Kind identifies a theme variant.
type Kind int

// Theme variants. Light is the base stylesheet alone; Dark and Custom are
// loaded as an addition on top of it.
const (
	KindLight Kind = iota + 1
	KindDark
	KindCustom
)

// Theme identifies a named variant: built-in light, built-in dark, or a
// user-supplied custom stylesheet. Themes are immutable values; the active
// theme is replaced, never mutated, when the selection changes.
type Theme struct {
	kind       Kind
	name       string
	path       string // custom stylesheet path; empty for built-ins
	dark       bool
	additional *StyleSheet
}

// Light returns the built-in light theme. It has no additional stylesheet.
func Light() Theme {
	return Theme{kind: KindLight, name: "Light"}
}

// Dark returns the built-in dark theme.
func Dark() Theme {
	ss, err := NewEmbeddedStyleSheet(DarkStyleSheetName)
	if err != nil {
		panic(err)
	}
	return Theme{kind: KindDark, name: "Dark", dark: true, additional: ss}
}

// Custom returns a theme backed by a user-supplied CSS file. An optional
// YAML manifest next to the file supplies a display name and the darkness
// flag; without one the theme is treated as light.
func Custom(path string) Theme {
	ss := NewFileStyleSheet(path)
	t := Theme{
		kind:       KindCustom,
		name:       ss.Name(),
		path:       ss.WatchPath(),
		additional: ss,
	}
	if m, ok := LoadManifest(ss.WatchPath()); ok {
		t.dark = m.Dark
		if m.DisplayName != "" {
			t.name = m.DisplayName
		}
	}
	return t
}

// Resolve maps a persisted theme name to a Theme. "light" and "dark"
// (case-insensitive, empty defaults to light) select the built-ins; a path
// or .css file name selects a custom stylesheet; anything else is looked up
// in the user themes directory.
func Resolve(name, themesDir string) Theme {
	switch strings.ToLower(name) {
	case "", "light":
		return Light()
	case "dark":
		return Dark()
	}
	if strings.ContainsRune(name, os.PathSeparator) || strings.HasSuffix(name, ".css") {
		return Custom(name)
	}
	return Custom(filepath.Join(themesDir, name+".css"))
}

// Kind returns the theme variant.
func (t Theme) Kind() Kind {
	return t.kind
}

// Name returns the theme's display name.
func (t Theme) Name() string {
	return t.name
}

// IsDark reports whether window chrome should use dark decoration for this
// theme.
func (t Theme) IsDark() bool {
	return t.dark
}

// AdditionalStylesheet returns the theme-specific stylesheet layered on top
// of the base, if the theme has one.
func (t Theme) AdditionalStylesheet() (*StyleSheet, bool) {
	return t.additional, t.additional != nil
}

// Equal reports value equality: two themes with the same identifying data
// are interchangeable.
func (t Theme) Equal(other Theme) bool {
	return t.kind == other.kind && t.path == other.path
}

func (t Theme) String() string {
	if t.kind == KindCustom {
		return "Custom(" + t.path + ")"
	}
	return t.name
}

// Info describes an installed theme for listing.
type Info struct {
	Name    string
	Path    string // empty for built-ins
	Dark    bool
	Builtin bool
}

// ListAvailable lists the built-in themes followed by the user themes found
// in themesDir, sorted by name. A missing themes directory is not an error.
func ListAvailable(themesDir string) ([]Info, error) {
	infos := []Info{
		{Name: "light", Builtin: true},
		{Name: "dark", Dark: true, Builtin: true},
	}

	if themesDir == "" {
		return infos, nil
	}
	entries, err := os.ReadDir(themesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return infos, nil
		}
		return infos, err
	}

	var user []Info
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".css" {
			continue
		}
		path := filepath.Join(themesDir, entry.Name())
		info := Info{
			Name: strings.TrimSuffix(entry.Name(), ".css"),
			Path: path,
		}
		if m, ok := LoadManifest(path); ok {
			info.Dark = m.Dark
			if m.DisplayName != "" {
				info.Name = m.DisplayName
			}
		}
		user = append(user, info)
	}
	sort.Slice(user, func(i, j int) bool { return user[i].Name < user[j].Name })

	return append(infos, user...), nil
}
