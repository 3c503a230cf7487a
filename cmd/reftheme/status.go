package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/refstudio/reftheme/internal/config"
	"github.com/refstudio/reftheme/internal/theme"
)

var statusOpts struct {
	jsonOut bool
}

// themeStatus is the JSON output shape for status.
type themeStatus struct {
	Theme        string `json:"theme"`
	Dark         bool   `json:"dark"`
	SyncOS       bool   `json:"sync_os"`
	FontOverride bool   `json:"font_override"`
	FontSize     int    `json:"font_size"`
	Stylesheet   string `json:"stylesheet,omitempty"`
	Modified     string `json:"modified,omitempty"`
	DevCSSDir    string `json:"dev_css_dir,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active theme and related settings",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusOpts.jsonOut, "json", false,
		"Output as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	active := theme.Resolve(store.SelectedTheme(), config.ThemesDir())

	status := themeStatus{
		Theme:        active.Name(),
		Dark:         active.IsDark(),
		SyncOS:       store.ThemeSyncOS(),
		FontOverride: store.ShouldOverrideFontSize(),
		FontSize:     store.MainFontSize(),
		DevCSSDir:    store.DevCSSDir(),
	}

	var modified time.Time
	if addl, ok := active.AdditionalStylesheet(); ok {
		status.Stylesheet = addl.Location()
		if path := addl.WatchPath(); path != "" {
			if info, err := os.Stat(path); err == nil {
				modified = info.ModTime()
				status.Modified = modified.Format(time.RFC3339)
			}
		}
	}

	if statusOpts.jsonOut {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(status)
	}

	fmt.Printf("theme:         %s\n", status.Theme)
	fmt.Printf("appearance:    %s\n", lightOrDark(status.Dark))
	fmt.Printf("os sync:       %v\n", status.SyncOS)
	if status.FontOverride {
		fmt.Printf("font:          %dpt (override)\n", status.FontSize)
	} else {
		fmt.Printf("font:          default\n")
	}
	if status.Stylesheet != "" {
		fmt.Printf("stylesheet:    %s\n", status.Stylesheet)
	}
	if !modified.IsZero() {
		fmt.Printf("last modified: %s\n", humanize.Time(modified))
	}
	if status.DevCSSDir != "" {
		fmt.Printf("dev css dir:   %s\n", status.DevCSSDir)
	}
	return nil
}

func lightOrDark(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
