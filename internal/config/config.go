// Package config loads and persists the dashboard configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration
type Config struct {
	Theme       string `toml:"theme"`        // glamour style for the help overlay
	Remote      string `toml:"remote"`       // ssh target for a remote backend, "" for local
	VerdiBinary string `toml:"verdi_binary"` // backend CLI name or path

	Refresh RefreshConfig `toml:"refresh"`
	Layout  LayoutConfig  `toml:"layout"`
	Startup StartupConfig `toml:"startup"`
}

// RefreshConfig holds auto-refresh settings
type RefreshConfig struct {
	IntervalSeconds float64 `toml:"interval_seconds"` // 0 or negative disables
	OnStartup       bool    `toml:"on_startup"`       // start the loop with the app
}

// LayoutConfig holds panel layout settings
type LayoutConfig struct {
	LeftPanelWidthPercent     int  `toml:"left_panel_width_percent"`     // 1-99
	ResultsPanelHeightPercent int  `toml:"results_panel_height_percent"` // 1-99
	FocusedPanelHeightPercent int  `toml:"focused_panel_height_percent"` // 1-99
	ShowLineNumbers           bool `toml:"show_line_numbers"`
	SoftWrap                  bool `toml:"soft_wrap"`
}

// StartupConfig holds startup behavior settings
type StartupConfig struct {
	ShowWelcomeMessage bool `toml:"show_welcome_message"`
	InitialFocusPanel  int  `toml:"initial_focus_panel"` // 0 = results feed, 1-5 = panels
}

// Interval returns the auto-refresh interval as a duration. Non-positive
// means disabled.
func (c *Config) Interval() time.Duration {
	if c.Refresh.IntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Refresh.IntervalSeconds * float64(time.Second))
}

// DefaultPath returns the default config file path
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lazyverdi", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "lazyverdi", "config.toml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Theme:       "monokai",
		Remote:      "",
		VerdiBinary: "verdi",
		Refresh: RefreshConfig{
			IntervalSeconds: 10,
			OnStartup:       true,
		},
		Layout: LayoutConfig{
			LeftPanelWidthPercent:     40,
			ResultsPanelHeightPercent: 80,
			FocusedPanelHeightPercent: 50,
			ShowLineNumbers:           false,
			SoftWrap:                  true,
		},
		Startup: StartupConfig{
			ShowWelcomeMessage: true,
			InitialFocusPanel:  0,
		},
	}
}

// Load reads config from path (DefaultPath if empty), fills in defaults
// for missing values, applies environment overrides, and clamps ranges.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyEnv(cfg)
	clamp(cfg)
	return cfg, nil
}

// LoadOrDefault is Load with a fallback: a missing or unreadable file
// yields the defaults instead of an error, so first runs just work.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		cfg = Default()
		applyEnv(cfg)
		clamp(cfg)
	}
	return cfg
}

func applyEnv(cfg *Config) {
	if remote := os.Getenv("LAZYVERDI_REMOTE"); remote != "" {
		cfg.Remote = remote
	}
	if bin := os.Getenv("LAZYVERDI_BINARY"); bin != "" {
		cfg.VerdiBinary = bin
	}
	if secs := os.Getenv("LAZYVERDI_REFRESH_SECONDS"); secs != "" {
		if v, err := strconv.ParseFloat(secs, 64); err == nil {
			cfg.Refresh.IntervalSeconds = v
		}
	}
}

func clamp(cfg *Config) {
	cfg.Layout.LeftPanelWidthPercent = clampPercent(cfg.Layout.LeftPanelWidthPercent, 40)
	cfg.Layout.ResultsPanelHeightPercent = clampPercent(cfg.Layout.ResultsPanelHeightPercent, 80)
	cfg.Layout.FocusedPanelHeightPercent = clampPercent(cfg.Layout.FocusedPanelHeightPercent, 50)
	if cfg.Startup.InitialFocusPanel < 0 || cfg.Startup.InitialFocusPanel > 5 {
		cfg.Startup.InitialFocusPanel = 0
	}
	if cfg.VerdiBinary == "" {
		cfg.VerdiBinary = "verdi"
	}
}

func clampPercent(v, fallback int) int {
	if v < 1 || v > 99 {
		return fallback
	}
	return v
}

// CreateDefault creates a default config file
func CreateDefault() (string, error) {
	path := DefaultPath()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := Print(Default(), f); err != nil {
		return "", err
	}

	return path, nil
}

// Save writes cfg to path (DefaultPath if empty), creating the directory
// as needed.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Print(cfg, f)
}

// Print writes config to a writer in TOML format
func Print(cfg *Config, w io.Writer) error {
	fmt.Fprintln(w, "# LazyVerdi Configuration")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "# Help overlay style (any glamour style name)")
	fmt.Fprintf(w, "theme = %q\n", cfg.Theme)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "# SSH target for a remote backend (user@host), empty for local")
	fmt.Fprintf(w, "remote = %q\n", cfg.Remote)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "# Backend CLI executable name or path")
	fmt.Fprintf(w, "verdi_binary = %q\n", cfg.VerdiBinary)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[refresh]")
	fmt.Fprintf(w, "interval_seconds = %g  # 0 or negative disables auto-refresh\n", cfg.Refresh.IntervalSeconds)
	fmt.Fprintf(w, "on_startup = %t\n", cfg.Refresh.OnStartup)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[layout]")
	fmt.Fprintf(w, "left_panel_width_percent = %d\n", cfg.Layout.LeftPanelWidthPercent)
	fmt.Fprintf(w, "results_panel_height_percent = %d\n", cfg.Layout.ResultsPanelHeightPercent)
	fmt.Fprintf(w, "focused_panel_height_percent = %d\n", cfg.Layout.FocusedPanelHeightPercent)
	fmt.Fprintf(w, "show_line_numbers = %t\n", cfg.Layout.ShowLineNumbers)
	fmt.Fprintf(w, "soft_wrap = %t\n", cfg.Layout.SoftWrap)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[startup]")
	fmt.Fprintf(w, "show_welcome_message = %t\n", cfg.Startup.ShowWelcomeMessage)
	fmt.Fprintf(w, "initial_focus_panel = %d  # 0 = results feed, 1-5 = panels\n", cfg.Startup.InitialFocusPanel)

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return nil
}
