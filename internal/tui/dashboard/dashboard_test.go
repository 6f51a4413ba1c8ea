package dashboard

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lazyverdi/lazyverdi/internal/config"
	"github.com/lazyverdi/lazyverdi/internal/panel"
	"github.com/lazyverdi/lazyverdi/internal/runner"
	"github.com/lazyverdi/lazyverdi/internal/verdi"
)

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	cfg.Theme = "plain"
	cfg.Startup.ShowWelcomeMessage = false

	client := verdi.NewClient("")
	run := runner.New(runner.WithScope(client))
	t.Cleanup(func() { run.Close() })

	return NewModel(cfg, client, run, verdi.Registry(client))
}

func loadedMsg(panelIdx int, stdout string) PanelLoadedMsg {
	return PanelLoadedMsg{
		Panel:   panelIdx,
		TabIdx:  0,
		TabName: "computer",
		CmdName: "computer list",
		Result: &runner.Result{
			Command: "computer list",
			Stdout:  stdout,
			Status:  runner.StatusDone,
			Start:   time.Now(),
			End:     time.Now(),
		},
	}
}

func TestNewModelBuildsFivePanels(t *testing.T) {
	m := testModel(t)
	for i, pv := range m.panels {
		if pv == nil {
			t.Fatalf("panel %d is nil", i+1)
		}
	}
	if m.focus != 0 {
		t.Errorf("initial focus = %d, want 0 (results)", m.focus)
	}
}

func TestApplyLoadStoresContent(t *testing.T) {
	m := testModel(t)
	m.applyLoad(loadedMsg(1, "Info: list of computers\n* localhost\n"))

	pv := m.panels[0]
	if !pv.state.IsLoaded(0) {
		t.Fatal("tab not marked loaded")
	}
	c, _ := pv.state.Cached(0)
	if !c.IsTable() {
		t.Fatalf("content = %+v, want table", c)
	}
	if len(c.Table.Rows) != 1 || c.Table.Rows[0][0] != "localhost" {
		t.Errorf("rows = %v", c.Table.Rows)
	}
	if len(m.results.entries) != 1 {
		t.Errorf("results entries = %d, want 1", len(m.results.entries))
	}
}

func TestApplyLoadFailureKeepsCache(t *testing.T) {
	m := testModel(t)
	m.applyLoad(loadedMsg(1, "* localhost\n"))

	fail := loadedMsg(1, "")
	fail.Result.Status = runner.StatusFailed
	fail.Result.ExitCode = 1
	fail.Result.Stderr = "database gone"
	m.applyLoad(fail)

	c, ok := m.panels[0].state.Cached(0)
	if !ok || !c.IsTable() || len(c.Table.Rows) != 1 {
		t.Errorf("stale cache lost after failed refresh: %+v, %v", c, ok)
	}
}

func TestBenignWarningSuppressedAfterFirstTime(t *testing.T) {
	m := testModel(t)

	fail := loadedMsg(1, "")
	fail.Result.Status = runner.StatusFailed
	fail.Result.ExitCode = 1
	fail.Result.Stderr = "Warning: configuration file /home/u/.aiida/config.json does not exist"

	m.applyLoad(fail)
	if len(m.results.entries) != 1 {
		t.Fatalf("first benign warning entries = %d, want 1", len(m.results.entries))
	}
	m.applyLoad(fail)
	if len(m.results.entries) != 1 {
		t.Errorf("repeated benign warning added entry: %d", len(m.results.entries))
	}
}

func TestFirstLoadFailureReplacesPlaceholder(t *testing.T) {
	m := testModel(t)

	fail := loadedMsg(1, "")
	fail.Result.Status = runner.StatusFailed
	fail.Result.ExitCode = 1
	fail.Result.Stderr = "Critical: no profile configured"
	m.applyLoad(fail)

	pv := m.panels[0]
	c, ok := pv.state.Cached(0)
	if !ok || c.IsTable() {
		t.Fatalf("panel content = %+v, %v; want error text", c, ok)
	}
	if !strings.Contains(c.Text, "quicksetup") {
		t.Errorf("panel text = %q, want the profile guidance", c.Text)
	}
	if strings.Contains(pv.renderContent(), "Loading") {
		t.Error("panel still shows the loading placeholder after a failed load")
	}
	if pv.state.IsLoaded(0) {
		t.Error("failed first load marked the tab loaded")
	}
	if len(m.results.entries) != 1 {
		t.Errorf("results entries = %d, want 1", len(m.results.entries))
	}
}

func TestAutoRefreshToggleKey(t *testing.T) {
	m := testModel(t)
	if !m.autoOn {
		t.Fatal("auto-refresh not enabled by the default config")
	}

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = updated.(Model)
	if m.autoOn {
		t.Error("toggle did not pause auto-refresh")
	}
	if last := m.results.entries[len(m.results.entries)-1]; !strings.Contains(last.body, "paused") {
		t.Errorf("feed note = %q, want a pause notice", last.body)
	}

	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = updated.(Model)
	t.Cleanup(m.refresher.Stop)
	if !m.autoOn {
		t.Error("toggle did not resume auto-refresh")
	}
	if !m.refresher.Running() {
		t.Error("refresher loop not running after resume")
	}
}

func TestRenderHintsLineNumbers(t *testing.T) {
	m := testModel(t)
	pv := m.panels[3] // text tabs
	pv.SetSize(40, 10)
	pv.SetRenderHints(true, true)
	pv.Store(0, panel.Content{Text: "first\nsecond"})

	got := pv.renderContent()
	if !strings.Contains(got, "  1 first") || !strings.Contains(got, "  2 second") {
		t.Errorf("renderContent = %q, want numbered lines", got)
	}
}

func TestRenderHintsNoWrapTruncates(t *testing.T) {
	m := testModel(t)
	pv := m.panels[3]
	pv.SetSize(24, 10)
	pv.SetRenderHints(false, false)
	long := strings.Repeat("x", 60)
	pv.Store(0, panel.Content{Text: long})

	got := pv.renderContent()
	if strings.Contains(got, long) {
		t.Error("long line not clipped with soft wrap off")
	}
	if !strings.Contains(got, "…") {
		t.Errorf("renderContent = %q, want a truncation marker", got)
	}
}

func TestAutoRefreshSuccessWithoutChangeStaysQuiet(t *testing.T) {
	m := testModel(t)
	first := loadedMsg(1, "* localhost\n")
	m.applyLoad(first)
	before := len(m.results.entries)

	second := loadedMsg(1, "* localhost\n")
	second.Auto = true
	m.applyLoad(second)
	if got := len(m.results.entries); got != before {
		t.Errorf("unchanged auto refresh added entries: %d -> %d", before, got)
	}
}

func TestAutoRefreshChangeIsAnnotated(t *testing.T) {
	m := testModel(t)
	m.applyLoad(loadedMsg(1, "* localhost\n"))

	changed := loadedMsg(1, "* localhost\n* cluster\n")
	changed.Auto = true
	m.applyLoad(changed)

	last := m.results.entries[len(m.results.entries)-1]
	if !strings.Contains(last.body, "content changed") {
		t.Errorf("change note missing: %q", last.body)
	}
}

func TestFocusSwitchUpdatesSource(t *testing.T) {
	m := testModel(t)
	m.setFocus(2)
	if got := m.src.Focused(); got != "panel-2" {
		t.Errorf("Focused() = %q, want panel-2", got)
	}
	m.setFocus(0)
	if got := m.src.Focused(); got != "" {
		t.Errorf("Focused() = %q, want empty for results", got)
	}
}

func TestTabSwitchIssuesLazyLoad(t *testing.T) {
	m := testModel(t)
	m.setFocus(1)

	updated, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	m = updated.(Model)
	if m.panels[0].state.Active() != 1 {
		t.Fatalf("active tab = %d, want 1", m.panels[0].state.Active())
	}
	if cmd == nil {
		t.Error("no load command for an unloaded tab")
	}

	// Switching back to an already-visited tab must not reload.
	m.panels[0].Store(0, m.panels[0].def.Tabs[0].Process("* localhost\n"))
	updated, cmd = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}})
	m = updated.(Model)
	if cmd != nil {
		t.Error("loaded tab triggered another load")
	}
}

func TestViewRendersGrid(t *testing.T) {
	m := testModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)

	view := m.View()
	if view == "" {
		t.Fatal("empty view")
	}
	if !strings.Contains(view, "[0] results") {
		t.Error("results panel title missing")
	}
	if !strings.Contains(view, "computer") {
		t.Error("panel-1 tabs missing")
	}
}

func TestViewTooSmall(t *testing.T) {
	m := testModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	m = updated.(Model)

	if !strings.Contains(m.View(), "Terminal too small") {
		t.Error("no resize hint on tiny terminal")
	}
}

func TestHelpOverlayToggles(t *testing.T) {
	m := testModel(t)
	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = updated.(Model)
	if !m.showHelp {
		t.Fatal("help not shown after ?")
	}
	if m.View() == "" {
		t.Error("help view empty")
	}
	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = updated.(Model)
	if m.showHelp {
		t.Error("help still shown after key press")
	}
}

func TestRefreshSourcePanelOrder(t *testing.T) {
	m := testModel(t)
	ids := m.src.Panels()
	want := []string{"panel-1", "panel-2", "panel-3", "panel-4", "panel-5"}
	if len(ids) != len(want) {
		t.Fatalf("Panels() = %v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Panels()[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}
