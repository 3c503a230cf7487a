package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/refstudio/reftheme/internal/config"
	"github.com/refstudio/reftheme/internal/theme"
	"github.com/refstudio/reftheme/internal/tui"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick a theme interactively",
	RunE:  runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	infos, err := theme.ListAvailable(config.ThemesDir())
	if err != nil {
		return fmt.Errorf("failed to list themes: %w", err)
	}

	model := tui.NewModel(store, infos)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("picker failed: %w", err)
	}
	return nil
}
