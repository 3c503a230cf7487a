// Package main provides the CLI entrypoint for reftheme.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/refstudio/reftheme/internal/config"
	"github.com/refstudio/reftheme/internal/prefs"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	store      *prefs.Store
	logger     *slog.Logger
	globalOpts struct {
		verbose    bool
		configPath string
	}
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "reftheme",
	Short: "Theme management for the reference manager shell",
	Long: `reftheme manages the visual theme of the reference manager shell:
the built-in light and dark themes, user-supplied custom stylesheets, and
synchronization with the OS color scheme.

Running reftheme without a subcommand launches the interactive theme picker.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup logging
		setupLogger()

		// Load configuration
		var err error
		cfg, err = config.Load(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		store = prefs.NewStore(cfg, globalOpts.configPath, logger)
		return nil
	},
	// Default to the picker when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPick(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/reftheme/config.toml)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func main() {
	Execute()
}
