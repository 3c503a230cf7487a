// Package config handles configuration file loading and parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultTheme    = "light"
	DefaultFontSize = 10
	MinFontSize     = 6
	MaxFontSize     = 72
)

// Config represents the reftheme configuration.
// Loaded from ~/.config/reftheme/config.toml
type Config struct {
	Theme   ThemeConfig   `toml:"theme"`
	Font    FontConfig    `toml:"font"`
	Preview PreviewConfig `toml:"preview"`
}

// ThemeConfig contains theme selection settings.
type ThemeConfig struct {
	Name      string `toml:"name"`        // "light", "dark", a theme name, or a CSS path
	SyncOS    bool   `toml:"sync_os"`     // Follow the OS color scheme
	DevCSSDir string `toml:"dev_css_dir"` // Directory with a live-editable Base.css
}

// FontConfig contains font settings.
type FontConfig struct {
	Override bool `toml:"override"` // Apply a custom size instead of the toolkit default
	Size     int  `toml:"size"`     // Font size in points
}

// PreviewConfig contains settings for the preview daemon.
type PreviewConfig struct {
	Chime bool `toml:"chime"` // Play a sound on stylesheet reload
	Toast bool `toml:"toast"` // Show an overlay toast on stylesheet reload
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			Name:   DefaultTheme,
			SyncOS: false,
		},
		Font: FontConfig{
			Override: false,
			Size:     DefaultFontSize,
		},
		Preview: PreviewConfig{
			Chime: true,
			Toast: true,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "reftheme", "config.toml")
}

// ThemesDir returns the directory where user theme stylesheets live.
func ThemesDir() string {
	return filepath.Join(filepath.Dir(ConfigPath()), "themes")
}

// Load loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults, then overlay with file contents
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// If path is empty, uses the default config path.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Font.Size < MinFontSize || c.Font.Size > MaxFontSize {
		return fmt.Errorf("font size must be between %d and %d, got %d", MinFontSize, MaxFontSize, c.Font.Size)
	}
	if c.Theme.DevCSSDir != "" {
		if info, err := os.Stat(c.Theme.DevCSSDir); err == nil && !info.IsDir() {
			return fmt.Errorf("dev_css_dir %q is not a directory", c.Theme.DevCSSDir)
		}
	}
	return nil
}
