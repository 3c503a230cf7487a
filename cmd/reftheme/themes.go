package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/refstudio/reftheme/internal/config"
	"github.com/refstudio/reftheme/internal/theme"
)

var themesOpts struct {
	jsonOut bool
}

var (
	themeNameStyle = lipgloss.NewStyle().Bold(true)
	activeMark     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("●")
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// themeListing is the JSON output shape for one theme.
type themeListing struct {
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"`
	Dark    bool   `json:"dark"`
	Builtin bool   `json:"builtin"`
	Active  bool   `json:"active"`
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List installed themes",
	Long: `List the built-in themes and the custom stylesheets installed in
~/.config/reftheme/themes/. The active theme is marked.`,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)

	themesCmd.Flags().BoolVar(&themesOpts.jsonOut, "json", false,
		"Output as JSON")
}

func runThemes(cmd *cobra.Command, args []string) error {
	infos, err := theme.ListAvailable(config.ThemesDir())
	if err != nil {
		return fmt.Errorf("failed to list themes: %w", err)
	}

	active := store.SelectedTheme()
	if active == "" {
		active = config.DefaultTheme
	}

	if themesOpts.jsonOut {
		listings := make([]themeListing, 0, len(infos))
		for _, info := range infos {
			listings = append(listings, themeListing{
				Name:    info.Name,
				Path:    info.Path,
				Dark:    info.Dark,
				Builtin: info.Builtin,
				Active:  info.Name == active,
			})
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(listings)
	}

	for _, info := range infos {
		mark := " "
		if info.Name == active {
			mark = activeMark
		}
		detail := "built-in"
		if !info.Builtin {
			detail = info.Path
		}
		variant := "light"
		if info.Dark {
			variant = "dark"
		}
		fmt.Printf("%s %s %s\n", mark, themeNameStyle.Render(info.Name),
			mutedStyle.Render(fmt.Sprintf("(%s, %s)", detail, variant)))
	}
	return nil
}
