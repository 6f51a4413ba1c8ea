package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMergesWithDefaults(t *testing.T) {
	path := writeConfig(t, `
theme = "dracula"

[refresh]
interval_seconds = 2.5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "dracula" {
		t.Errorf("Theme = %q", cfg.Theme)
	}
	if cfg.Refresh.IntervalSeconds != 2.5 {
		t.Errorf("IntervalSeconds = %v", cfg.Refresh.IntervalSeconds)
	}
	// Untouched keys keep their defaults.
	if cfg.Layout.LeftPanelWidthPercent != 40 {
		t.Errorf("LeftPanelWidthPercent = %d, want default 40", cfg.Layout.LeftPanelWidthPercent)
	}
	if cfg.VerdiBinary != "verdi" {
		t.Errorf("VerdiBinary = %q, want default", cfg.VerdiBinary)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load = nil error for missing file")
	}
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	if cfg.Refresh.IntervalSeconds != 10 {
		t.Errorf("IntervalSeconds = %v, want default 10", cfg.Refresh.IntervalSeconds)
	}
}

func TestInterval(t *testing.T) {
	cfg := Default()
	if got := cfg.Interval(); got != 10*time.Second {
		t.Errorf("Interval = %v", got)
	}

	cfg.Refresh.IntervalSeconds = 0.5
	if got := cfg.Interval(); got != 500*time.Millisecond {
		t.Errorf("Interval = %v, want 500ms", got)
	}

	for _, v := range []float64{0, -3} {
		cfg.Refresh.IntervalSeconds = v
		if got := cfg.Interval(); got != 0 {
			t.Errorf("Interval(%v) = %v, want 0 (disabled)", v, got)
		}
	}
}

func TestClampRanges(t *testing.T) {
	path := writeConfig(t, `
[layout]
left_panel_width_percent = 150
results_panel_height_percent = 0

[startup]
initial_focus_panel = 9
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.LeftPanelWidthPercent != 40 {
		t.Errorf("LeftPanelWidthPercent = %d, want clamped to 40", cfg.Layout.LeftPanelWidthPercent)
	}
	if cfg.Layout.ResultsPanelHeightPercent != 80 {
		t.Errorf("ResultsPanelHeightPercent = %d, want clamped to 80", cfg.Layout.ResultsPanelHeightPercent)
	}
	if cfg.Startup.InitialFocusPanel != 0 {
		t.Errorf("InitialFocusPanel = %d, want clamped to 0", cfg.Startup.InitialFocusPanel)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LAZYVERDI_REMOTE", "aiida@cluster")
	t.Setenv("LAZYVERDI_REFRESH_SECONDS", "0")

	path := writeConfig(t, `remote = "other@host"`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Remote != "aiida@cluster" {
		t.Errorf("Remote = %q, env should win", cfg.Remote)
	}
	if cfg.Interval() != 0 {
		t.Errorf("Interval = %v, want disabled via env", cfg.Interval())
	}
}

func TestPrintRoundTrip(t *testing.T) {
	want := Default()
	want.Theme = "notty"
	want.Remote = "user@host"
	want.Refresh.IntervalSeconds = 7

	var buf bytes.Buffer
	if err := Print(want, &buf); err != nil {
		t.Fatal(err)
	}

	path := writeConfig(t, buf.String())
	got, err := Load(path)
	if err != nil {
		t.Fatalf("reloading printed config: %v", err)
	}
	if got.Theme != want.Theme || got.Remote != want.Remote {
		t.Errorf("round trip lost values: %+v", got)
	}
	if got.Refresh.IntervalSeconds != 7 {
		t.Errorf("IntervalSeconds = %v", got.Refresh.IntervalSeconds)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := Default()
	cfg.Refresh.OnStartup = false

	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Refresh.OnStartup {
		t.Error("OnStartup = true after save/reload of false")
	}
}

func TestDefaultPathUsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got := DefaultPath()
	if !strings.HasPrefix(got, "/tmp/xdg") || !strings.Contains(got, "lazyverdi") {
		t.Errorf("DefaultPath = %q", got)
	}
}
