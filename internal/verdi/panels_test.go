package verdi

import (
	"context"
	"strings"
	"testing"
)

func TestRegistryShape(t *testing.T) {
	panels := Registry(NewClient(""))
	if len(panels) != 5 {
		t.Fatalf("len(panels) = %d, want 5", len(panels))
	}

	want := map[string][]string{
		"panel-1": {"computer", "code", "plugin"},
		"panel-2": {"process", "calcjob"},
		"panel-3": {"group", "node"},
		"panel-4": {"config", "profile"},
		"panel-5": {"status", "daemon", "storage"},
	}
	for _, p := range panels {
		names, ok := want[p.ID]
		if !ok {
			t.Errorf("unexpected panel id %q", p.ID)
			continue
		}
		if len(p.Tabs) != len(names) {
			t.Errorf("%s: %d tabs, want %d", p.ID, len(p.Tabs), len(names))
			continue
		}
		for i, tab := range p.Tabs {
			if tab.Name != names[i] {
				t.Errorf("%s tab %d = %q, want %q", p.ID, i, tab.Name, names[i])
			}
			if tab.Spec == nil {
				t.Errorf("%s tab %q has no command", p.ID, tab.Name)
			}
		}
	}
}

func TestRegistryTabularPanelsHaveParsers(t *testing.T) {
	tabular := map[string]bool{"panel-1": true, "panel-2": true, "panel-3": true}
	for _, p := range Registry(NewClient("")) {
		for _, tab := range p.Tabs {
			if tabular[p.ID] && tab.Parse == nil {
				t.Errorf("%s tab %q missing parser", p.ID, tab.Name)
			}
			if !tabular[p.ID] && tab.Parse != nil {
				t.Errorf("%s tab %q has parser but panel is text", p.ID, tab.Name)
			}
		}
	}
}

func TestPanelTitle(t *testing.T) {
	p := Registry(NewClient(""))[0]
	got := p.Title(1)
	want := "[1] computer | *code | plugin"
	if got != want {
		t.Errorf("Title = %q, want %q", got, want)
	}
}

func TestStatusSummaryKeepsReportOnNonZeroExit(t *testing.T) {
	c := fakeBinary(t, `echo "✔ version:     v2.6"; echo "✘ daemon:      Not running"; exit 4`)

	out, err := StatusSummary(c).Invoke(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.Stdout, "daemon") {
		t.Errorf("report dropped: %q", out.Stdout)
	}
}

func TestStatusSummaryNoProfileGuidance(t *testing.T) {
	c := fakeBinary(t, `echo "critical: no default profile in configuration" >&2; exit 1`)

	out, err := StatusSummary(c).Invoke(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.Stdout, "verdi quicksetup") {
		t.Errorf("no setup guidance in %q", out.Stdout)
	}
}

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		name, cmd, stderr, want string
	}{
		{"profile in command", "profile list", "boom", "verdi quicksetup"},
		{"profile in stderr", "status", "no default profile", "verdi quicksetup"},
		{"no computers", "computer list", "No computers found", "verdi computer setup"},
		{"no processes", "process list", "No processes", "Submit calculations"},
		{"passthrough", "node list", "database gone", "database gone"},
		{"empty", "node list", "", "Command failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FriendlyError(tt.cmd, tt.stderr)
			if !strings.Contains(got, tt.want) {
				t.Errorf("FriendlyError(%q, %q) = %q, want substring %q", tt.cmd, tt.stderr, got, tt.want)
			}
		})
	}
}

func TestIsBenignStderr(t *testing.T) {
	benign := "Warning: configuration file /home/u/.aiida/config.json does not exist"
	if !IsBenignStderr(benign) {
		t.Errorf("IsBenignStderr(%q) = false", benign)
	}
	for _, s := range []string{"", "real failure", "configuration file corrupted"} {
		if IsBenignStderr(s) {
			t.Errorf("IsBenignStderr(%q) = true", s)
		}
	}
}
