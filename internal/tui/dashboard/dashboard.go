// Package dashboard is the interactive five-panel view over the verdi CLI.
package dashboard

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazyverdi/lazyverdi/internal/config"
	"github.com/lazyverdi/lazyverdi/internal/output"
	"github.com/lazyverdi/lazyverdi/internal/panel"
	"github.com/lazyverdi/lazyverdi/internal/runner"
	"github.com/lazyverdi/lazyverdi/internal/tui/layout"
	"github.com/lazyverdi/lazyverdi/internal/tui/styles"
	"github.com/lazyverdi/lazyverdi/internal/tui/theme"
	"github.com/lazyverdi/lazyverdi/internal/verdi"
)

const welcomeText = "Welcome to lazyverdi. Press ? for help, q to quit."

// Model is the dashboard model
type Model struct {
	cfg    *config.Config
	styles styles.Styles

	client    *verdi.Client
	run       *runner.Runner
	refresher *runner.AutoRefresh
	src       *refreshSource

	panels  [5]*panelView
	results *resultsFeed

	focus    int // 0 = results feed, 1-5 = panels
	width    int
	height   int
	showHelp bool
	autoOn   bool
	quitting bool
}

// NewModel builds the dashboard over an execution engine and registry.
func NewModel(cfg *config.Config, client *verdi.Client, run *runner.Runner, registry []verdi.Panel) Model {
	s := styles.New(theme.FromName(cfg.Theme))

	m := Model{
		cfg:     cfg,
		styles:  s,
		client:  client,
		run:     run,
		results: newResultsFeed(s),
		focus:   cfg.Startup.InitialFocusPanel,
		width:   80,
		height:  24,
	}
	for i, def := range registry {
		if i >= len(m.panels) {
			break
		}
		m.panels[i] = newPanelView(def, s)
		m.panels[i].SetRenderHints(cfg.Layout.ShowLineNumbers, cfg.Layout.SoftWrap)
	}

	m.src = newRefreshSource(run, m.panels)
	m.src.setFocused(m.focus)
	m.refresher = runner.NewAutoRefresh(m.src, cfg.Interval())
	m.autoOn = cfg.Refresh.OnStartup && cfg.Interval() > 0
	return m
}

// Init implements tea.Model: load every panel's first tab so the screen
// fills without waiting for user input.
func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.panels))
	if m.cfg.Startup.ShowWelcomeMessage {
		m.results.AddInfo(welcomeText)
	}
	for i := range m.panels {
		cmds = append(cmds, m.loadTab(i, m.panels[i].state.Active(), false))
	}
	return tea.Batch(cmds...)
}

// loadTab executes one tab's command through the engine and reports back.
// User-initiated loads take the priority queue.
func (m Model) loadTab(panelIdx, tabIdx int, priority bool) tea.Cmd {
	pv := m.panels[panelIdx]
	tabs := pv.state.Tabs()
	if tabIdx < 0 || tabIdx >= len(tabs) {
		return nil
	}
	tab := tabs[tabIdx]

	return func() tea.Msg {
		var (
			res *runner.Result
			err error
		)
		if priority {
			res, err = m.run.ExecutePriority(context.Background(), tab.Spec)
		} else {
			res, err = m.run.Execute(context.Background(), tab.Spec)
		}
		return PanelLoadedMsg{
			Panel:   panelIdx + 1,
			TabIdx:  tabIdx,
			TabName: tab.Name,
			CmdName: tab.Spec.Name(),
			Result:  res,
			Err:     err,
		}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case PanelLoadedMsg:
		m.applyLoad(msg)
		return m, nil

	case ConfigReloadedMsg:
		if msg.Config != nil {
			m.cfg = msg.Config
			m.refresher.SetInterval(m.cfg.Interval())
			if m.cfg.Interval() <= 0 {
				m.refresher.Stop()
				m.autoOn = false
			}
			for _, pv := range m.panels {
				if pv != nil {
					pv.SetRenderHints(m.cfg.Layout.ShowLineNumbers, m.cfg.Layout.SoftWrap)
				}
			}
			m.resize()
			m.results.AddInfo("configuration reloaded")
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, dashKeys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, dashKeys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, dashKeys.Up):
		if m.focus == 0 {
			m.results.ScrollUp()
		} else {
			m.panels[m.focus-1].CursorUp()
		}

	case key.Matches(msg, dashKeys.Down):
		if m.focus == 0 {
			m.results.ScrollDown()
		} else {
			m.panels[m.focus-1].CursorDown()
		}

	case key.Matches(msg, dashKeys.NextTab):
		if m.focus > 0 {
			pv := m.panels[m.focus-1]
			if needsLoad, changed := pv.NextTab(); changed {
				m.src.setActiveTab(m.focus-1, pv.state.Active())
				if needsLoad {
					return m, m.loadTab(m.focus-1, pv.state.Active(), true)
				}
			}
		}

	case key.Matches(msg, dashKeys.PrevTab):
		if m.focus > 0 {
			pv := m.panels[m.focus-1]
			if needsLoad, changed := pv.PrevTab(); changed {
				m.src.setActiveTab(m.focus-1, pv.state.Active())
				if needsLoad {
					return m, m.loadTab(m.focus-1, pv.state.Active(), true)
				}
			}
		}

	case key.Matches(msg, dashKeys.Refresh):
		if m.focus > 0 {
			pv := m.panels[m.focus-1]
			return m, m.loadTab(m.focus-1, pv.state.Active(), true)
		}

	case key.Matches(msg, dashKeys.Auto):
		if m.autoOn {
			m.refresher.Stop()
			m.autoOn = false
			m.results.AddInfo("auto-refresh paused")
		} else if m.cfg.Interval() > 0 {
			m.refresher.Start()
			m.autoOn = true
			m.results.AddInfo(fmt.Sprintf("auto-refresh every %s", m.cfg.Interval()))
		} else {
			m.results.AddInfo("auto-refresh disabled in configuration")
		}

	case key.Matches(msg, dashKeys.Num0):
		m.setFocus(0)
	case key.Matches(msg, dashKeys.Num1):
		m.setFocus(1)
	case key.Matches(msg, dashKeys.Num2):
		m.setFocus(2)
	case key.Matches(msg, dashKeys.Num3):
		m.setFocus(3)
	case key.Matches(msg, dashKeys.Num4):
		m.setFocus(4)
	case key.Matches(msg, dashKeys.Num5):
		m.setFocus(5)
	}
	return m, nil
}

func (m *Model) setFocus(focus int) {
	if focus < 0 || focus > 5 {
		return
	}
	m.focus = focus
	m.src.setFocused(focus)
	m.resize()
}

// applyLoad folds a finished command into panel state and the feed.
func (m *Model) applyLoad(msg PanelLoadedMsg) {
	if msg.Err != nil || msg.Result == nil {
		// Cancellation or engine shutdown, nothing to record.
		return
	}
	pv := m.panels[msg.Panel-1]
	tabs := pv.state.Tabs()
	if msg.TabIdx < 0 || msg.TabIdx >= len(tabs) {
		return
	}

	if !msg.Result.Success() {
		// Stale-but-valid cached content stays in place; a tab that never
		// loaded shows the error instead of its placeholder.
		if !pv.state.IsLoaded(msg.TabIdx) {
			pv.StoreError(msg.TabIdx, verdi.FriendlyError(msg.CmdName, strings.TrimSpace(msg.Result.Stderr)))
		}
		m.results.AddResult(msg.Result, msg.Auto, "")
		return
	}

	tab := tabs[msg.TabIdx]
	content := tab.Process(msg.Result.Stdout)

	note := ""
	if pv.state.IsLoaded(msg.TabIdx) && msg.TabIdx == pv.state.Active() {
		prev := pv.CachedText()
		curr := contentText(content)
		if change := output.CompareRefresh(prev, curr); change.Changed {
			note = fmt.Sprintf("%s: content changed (+%d/-%d)", msg.TabName, change.Inserted, change.Deleted)
		}
	}

	pv.Store(msg.TabIdx, content)
	m.results.AddResult(msg.Result, msg.Auto, note)
}

func contentText(c panel.Content) string {
	if c.IsTable() {
		var b strings.Builder
		output.RenderTable(&b, *c.Table, 0)
		return b.String()
	}
	return c.Text
}

func (m *Model) resize() {
	grid := layout.Compute(layout.Spec{
		Width:                m.width,
		Height:               m.height - 1, // status bar
		LeftWidthPercent:     m.cfg.Layout.LeftPanelWidthPercent,
		ResultsHeightPercent: m.cfg.Layout.ResultsPanelHeightPercent,
		FocusedHeightPercent: m.cfg.Layout.FocusedPanelHeightPercent,
		Focused:              m.focus,
	})
	for i, pv := range m.panels {
		if pv != nil {
			pv.SetSize(grid.Panels[i].W, grid.Panels[i].H)
		}
	}
	m.results.SetSize(grid.Results.W-2, grid.Results.H-2)
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return renderHelp(m.cfg.Theme, m.width)
	}

	spec := layout.Spec{Width: m.width, Height: m.height - 1}
	if !spec.Usable() {
		return m.styles.Dim.Render(
			fmt.Sprintf("Terminal too small (%dx%d). Resize to at least %dx%d.",
				m.width, m.height, layout.MinWidth, layout.MinHeight))
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.panels[0].View(m.focus == 1),
		m.panels[1].View(m.focus == 2),
		m.panels[2].View(m.focus == 3),
	)

	resultsFrame := m.styles.Panel
	if m.focus == 0 {
		resultsFrame = m.styles.PanelFocused
	}
	resultsTitle := m.styles.PanelTitle.Render("[0] results")
	resultsBox := resultsFrame.Render(lipgloss.JoinVertical(lipgloss.Left, resultsTitle, m.results.View()))

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.panels[3].View(m.focus == 4),
		resultsBox,
		m.panels[4].View(m.focus == 5),
	)

	grid := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, grid, m.statusBar())
}

func (m Model) statusBar() string {
	auto := "auto-refresh off"
	if m.autoOn {
		auto = "auto-refresh " + m.cfg.Interval().String()
	}
	target := "results"
	if m.focus > 0 {
		target = m.panels[m.focus-1].def.ID
	}
	parts := []string{
		auto,
		"focus: " + target,
		"? help",
	}
	return m.styles.StatusBar.Width(max(m.width, 0)).Render(strings.Join(parts, "  •  "))
}

// refreshSource feeds the auto-refresh loop. It keeps its own snapshot
// of focus and active tabs because the loop runs off the UI goroutine.
type refreshSource struct {
	run    *runner.Runner
	panels [5]*panelView

	mu      sync.Mutex
	focused int
	active  [5]int
	send    func(tea.Msg)
}

func newRefreshSource(run *runner.Runner, panels [5]*panelView) *refreshSource {
	return &refreshSource{run: run, panels: panels}
}

func (s *refreshSource) attach(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
}

func (s *refreshSource) setFocused(focus int) {
	s.mu.Lock()
	s.focused = focus
	s.mu.Unlock()
}

func (s *refreshSource) setActiveTab(panelIdx, tabIdx int) {
	s.mu.Lock()
	if panelIdx >= 0 && panelIdx < len(s.active) {
		s.active[panelIdx] = tabIdx
	}
	s.mu.Unlock()
}

// Panels lists the refreshable panel ids.
func (s *refreshSource) Panels() []string {
	ids := make([]string, 0, len(s.panels))
	for _, pv := range s.panels {
		if pv != nil {
			ids = append(ids, pv.def.ID)
		}
	}
	return ids
}

// Focused returns the focused panel id, or "" when the results feed has
// focus.
func (s *refreshSource) Focused() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.focused < 1 || s.focused > len(s.panels) {
		return ""
	}
	return s.panels[s.focused-1].def.ID
}

// RefreshPanel re-runs the panel's active tab through the normal queue
// and reports the outcome to the UI.
func (s *refreshSource) RefreshPanel(ctx context.Context, id string) error {
	idx := -1
	for i, pv := range s.panels {
		if pv != nil && pv.def.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("unknown panel %s", id)
	}

	s.mu.Lock()
	tabIdx := s.active[idx]
	send := s.send
	s.mu.Unlock()

	tabs := s.panels[idx].def.Tabs
	if tabIdx < 0 || tabIdx >= len(tabs) {
		tabIdx = 0
	}
	tab := tabs[tabIdx]

	res, err := s.run.Execute(ctx, tab.Spec)
	if err != nil {
		return err
	}
	if send != nil {
		send(PanelLoadedMsg{
			Panel:   idx + 1,
			TabIdx:  tabIdx,
			TabName: tab.Name,
			CmdName: tab.Spec.Name(),
			Auto:    true,
			Result:  res,
		})
	}
	return nil
}

// Run starts the dashboard
func Run(cfg *config.Config) error {
	if debugPath := os.Getenv("LAZYVERDI_DEBUG"); debugPath != "" {
		f, err := tea.LogToFile(debugPath, "lazyverdi")
		if err == nil {
			defer f.Close()
		}
	}

	client := verdi.NewClient(cfg.Remote)
	if cfg.VerdiBinary != "" {
		client.Binary = cfg.VerdiBinary
	}
	if !client.IsInstalled() {
		return fmt.Errorf("%s not found; is the backend installed?", client.Binary)
	}

	run := runner.New(runner.WithScope(client))
	defer run.Close()

	m := NewModel(cfg, client, run, verdi.Registry(client))
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.src.attach(p.Send)

	stopWatch, err := config.Watch(func(c *config.Config) {
		p.Send(ConfigReloadedMsg{Config: c})
	})
	if err != nil {
		log.Printf("config watch unavailable: %v", err)
	} else {
		defer stopWatch()
	}

	if m.autoOn {
		m.refresher.Start()
	}
	defer m.refresher.Stop()

	_, err = p.Run()
	return err
}
