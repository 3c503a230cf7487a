// Package main is the entry point for refthemed, the theme preview daemon.
//
// refthemed opens a preview window styled by the active theme and keeps it
// current: stylesheet edits, config changes, and OS color scheme flips are
// applied live, with an optional toast and chime on each reload.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/refstudio/reftheme/internal/config"
	"github.com/refstudio/reftheme/internal/feedback"
	"github.com/refstudio/reftheme/internal/gtkui"
	"github.com/refstudio/reftheme/internal/platform"
	"github.com/refstudio/reftheme/internal/prefs"
	"github.com/refstudio/reftheme/internal/theme"
	"github.com/refstudio/reftheme/internal/watcher"
)

const appID = "io.github.refstudio.refthemed"

var (
	// Build-time variables
	version = "dev"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/reftheme/config.toml)")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("refthemed version", version)
		os.Exit(0)
	}

	// Set up structured logging
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting refthemed", "version", version)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	store := prefs.NewStore(cfg, *configPath, logger)

	// Create the libadwaita application
	app := adw.NewApplication(appID, 0)

	// Shared state between GTK main loop and signal handlers
	var (
		monitor       *watcher.Monitor
		colors        *platform.ColorSchemeMonitor
		configWatcher *prefs.ConfigWatcher
		chime         *feedback.Chime
		running       atomic.Bool
	)

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()

		glib.IdleAdd(func() {
			if running.Load() {
				app.Quit()
			}
		})
	}()

	// Handle application activation
	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		// Stylesheet file monitor
		monitor, err = watcher.NewMonitor(logger)
		if err != nil {
			logger.Error("failed to create file monitor", "error", err)
			app.Quit()
			return
		}
		monitor.Start()

		// OS color scheme monitor; theme sync degrades gracefully without it
		colors = platform.NewColorSchemeMonitor(logger)
		if err := colors.Start(); err != nil {
			logger.Warn("color scheme monitor unavailable", "error", err)
			colors = nil
		}

		notifier := gtkui.NewNotifier(&app.Application)

		opts := []theme.Option{
			theme.WithLogger(logger),
			theme.WithThemesDir(config.ThemesDir()),
			theme.WithDecoratorProbe(func() (theme.WindowDecorator, error) {
				return gtkui.NewDecorator()
			}),
			theme.WithWindowNotifier(notifier),
			theme.WithBaseStyleSheet(theme.NewBaseStyleSheet(store.DevCSSDir())),
		}
		if colors != nil {
			opts = append(opts, theme.WithColorScheme(colors))
		}

		manager := theme.NewManager(store, monitor, gtkui.Dispatch, opts...)

		// Reload feedback
		toast := gtkui.NewToast(&app.Application)
		chime = feedback.NewChime(logger)
		manager.SetAppliedCallback(func(t theme.Theme) {
			snapshot := store.Config()
			if snapshot.Preview.Toast {
				toast.Show(fmt.Sprintf("theme: %s", t.Name()))
			}
			if snapshot.Preview.Chime {
				go chime.Success()
			}
		})

		// Config hot-reload (reftheme set, manual edits)
		configWatcher = prefs.NewConfigWatcher(store, *configPath, logger)
		configWatcher.SetErrorCallback(func(err error) {
			logger.Warn("config edit rejected", "error", err)
			snapshot := store.Config()
			if snapshot.Preview.Chime && chime != nil {
				go chime.Failure()
			}
		})
		if err := configWatcher.Start(ctx); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		}

		// Preview window
		window := gtk.NewApplicationWindow(&app.Application)
		window.SetTitle("reftheme preview")
		window.SetDefaultSize(640, 420)
		window.SetChild(buildPreviewContent())

		scene := gtkui.NewScene(nil, logger)
		manager.InstallScene(scene)

		window.SetVisible(true)
		logger.Info("refthemed ready", "theme", manager.ActiveTheme().String())
	})

	// Handle shutdown
	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		if configWatcher != nil {
			configWatcher.Stop()
		}
		if colors != nil {
			_ = colors.Stop()
		}
		if monitor != nil {
			_ = monitor.Close()
		}
		if chime != nil {
			chime.Close()
		}
		running.Store(false)
	})

	// Run the application
	status := app.Run(os.Args[:1])
	cancel()

	if status != 0 {
		logger.Error("application exited with error", "status", status)
		os.Exit(status)
	}
	logger.Info("refthemed stopped")
}

// buildPreviewContent assembles widgets exercising the selectors the
// bundled stylesheets target.
func buildPreviewContent() *gtk.Widget {
	grid := gtk.NewBox(gtk.OrientationHorizontal, 0)

	sidebar := gtk.NewListBox()
	sidebar.AddCSSClass("sidebar")
	for _, label := range []string{"All Entries", "Recently Added", "Groups"} {
		row := gtk.NewListBoxRow()
		row.SetChild(gtk.NewLabel(label))
		sidebar.Append(row)
	}

	entries := gtk.NewListBox()
	entries.AddCSSClass("entry-list")
	for _, label := range []string{
		"Knuth, The Art of Computer Programming",
		"Lamport, Time, Clocks, and the Ordering of Events",
		"Ritchie and Thompson, The UNIX Time-Sharing System",
	} {
		row := gtk.NewListBoxRow()
		row.SetChild(gtk.NewLabel(label))
		entries.Append(row)
	}

	preview := gtk.NewLabel("Select an entry to preview it here.")
	preview.AddCSSClass("preview-pane")
	preview.SetHExpand(true)
	preview.SetVExpand(true)

	grid.Append(sidebar)
	grid.Append(entries)
	grid.Append(preview)
	return &grid.Widget
}
