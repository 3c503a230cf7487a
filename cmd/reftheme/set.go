package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refstudio/reftheme/internal/config"
	"github.com/refstudio/reftheme/internal/theme"
)

var setOpts struct {
	syncOS       string
	fontOverride string
	fontSize     int
}

var setCmd = &cobra.Command{
	Use:   "set [theme]",
	Short: "Change the active theme or related settings",
	Long: `Change the active theme, OS color scheme synchronization, or font
settings. The theme argument is "light", "dark", an installed theme name,
or a path to a CSS file.

A running preview daemon picks the change up on its next config poll.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)

	setCmd.Flags().StringVar(&setOpts.syncOS, "sync-os", "",
		"Follow the OS color scheme: on or off")
	setCmd.Flags().StringVar(&setOpts.fontOverride, "font-override", "",
		"Override the default font size: on or off")
	setCmd.Flags().IntVar(&setOpts.fontSize, "font-size", 0,
		"Font size in points (implies --font-override on)")
}

func runSet(cmd *cobra.Command, args []string) error {
	changed := false

	if len(args) == 1 {
		name := args[0]
		resolved := theme.Resolve(name, config.ThemesDir())
		if resolved.Kind() == theme.KindCustom {
			addl, _ := resolved.AdditionalStylesheet()
			if addl.Location() == "" {
				return fmt.Errorf("theme %q has no readable stylesheet", name)
			}
		}
		if err := store.SetTheme(name); err != nil {
			return fmt.Errorf("failed to set theme: %w", err)
		}
		fmt.Printf("theme set to %s\n", resolved.Name())
		changed = true
	}

	if setOpts.syncOS != "" {
		on, err := parseOnOff(setOpts.syncOS)
		if err != nil {
			return fmt.Errorf("--sync-os: %w", err)
		}
		if err := store.SetSyncOS(on); err != nil {
			return fmt.Errorf("failed to set OS sync: %w", err)
		}
		fmt.Printf("OS color scheme sync %s\n", setOpts.syncOS)
		changed = true
	}

	if setOpts.fontSize != 0 || setOpts.fontOverride != "" {
		override := true
		if setOpts.fontOverride != "" {
			var err error
			override, err = parseOnOff(setOpts.fontOverride)
			if err != nil {
				return fmt.Errorf("--font-override: %w", err)
			}
		}
		size := setOpts.fontSize
		if size == 0 {
			size = store.MainFontSize()
		}
		if err := store.SetFont(override, size); err != nil {
			return fmt.Errorf("failed to set font: %w", err)
		}
		fmt.Printf("font override %v, size %dpt\n", override, size)
		changed = true
	}

	if !changed {
		return fmt.Errorf("nothing to change; pass a theme name or a flag")
	}
	return nil
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("want on or off, got %q", s)
	}
}
