package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/lazyverdi/lazyverdi/internal/output"
	"github.com/lazyverdi/lazyverdi/internal/panel"
	"github.com/lazyverdi/lazyverdi/internal/tui/styles"
	"github.com/lazyverdi/lazyverdi/internal/verdi"
)

// panelView renders one command panel: its tab bar and the active tab's
// cached content, tabular or free text.
type panelView struct {
	def    verdi.Panel
	state  *panel.TabState
	cursor int // selected table row
	vp     viewport.Model
	styles styles.Styles

	width  int
	height int

	lineNumbers bool // prefix text lines with their number
	softWrap    bool // wrap long text lines instead of clipping
}

func newPanelView(def verdi.Panel, s styles.Styles) *panelView {
	return &panelView{
		def:    def,
		state:  panel.NewTabState(def.Tabs),
		vp:     viewport.New(0, 0),
		styles: s,
	}
}

// SetRenderHints applies the layout rendering hints from the config.
func (p *panelView) SetRenderHints(lineNumbers, softWrap bool) {
	p.lineNumbers = lineNumbers
	p.softWrap = softWrap
	p.syncContent()
}

func (p *panelView) SetSize(width, height int) {
	p.width = width
	p.height = height
	// Interior minus border and title line.
	p.vp.Width = max(width-2, 0)
	p.vp.Height = max(height-3, 0)
	p.syncContent()
}

// NextTab and PrevTab switch tabs and report whether the new tab still
// needs its first load.
func (p *panelView) NextTab() (needsLoad bool, changed bool) {
	if !p.state.Next() {
		return false, false
	}
	p.cursor = 0
	p.syncContent()
	return !p.state.IsLoaded(p.state.Active()), true
}

func (p *panelView) PrevTab() (needsLoad bool, changed bool) {
	if !p.state.Prev() {
		return false, false
	}
	p.cursor = 0
	p.syncContent()
	return !p.state.IsLoaded(p.state.Active()), true
}

// Store caches content for a tab after a successful load.
func (p *panelView) Store(tabIdx int, c panel.Content) {
	p.state.MarkLoaded(tabIdx, c)
	if tabIdx == p.state.Active() {
		p.clampCursor()
		p.syncContent()
	}
}

// StoreError puts error text in a tab that has never loaded, replacing the
// placeholder. The tab stays unloaded so the next visit retries.
func (p *panelView) StoreError(tabIdx int, text string) {
	p.state.Cache(tabIdx, panel.Content{Text: text})
	if tabIdx == p.state.Active() {
		p.cursor = 0
		p.syncContent()
	}
}

// CachedText returns the active tab's previous content as text, for
// refresh change detection.
func (p *panelView) CachedText() string {
	c, ok := p.state.ActiveContent()
	if !ok {
		return ""
	}
	if c.IsTable() {
		var b strings.Builder
		output.RenderTable(&b, *c.Table, 0)
		return b.String()
	}
	return c.Text
}

func (p *panelView) CursorUp() {
	if p.isTable() {
		if p.cursor > 0 {
			p.cursor--
			p.syncContent()
		}
		return
	}
	p.vp.LineUp(1)
}

func (p *panelView) CursorDown() {
	if p.isTable() {
		c, _ := p.state.ActiveContent()
		if c.Table != nil && p.cursor < len(c.Table.Rows)-1 {
			p.cursor++
			p.syncContent()
		}
		return
	}
	p.vp.LineDown(1)
}

func (p *panelView) isTable() bool {
	c, ok := p.state.ActiveContent()
	return ok && c.IsTable()
}

func (p *panelView) clampCursor() {
	c, ok := p.state.ActiveContent()
	if !ok || !c.IsTable() {
		p.cursor = 0
		return
	}
	if p.cursor >= len(c.Table.Rows) {
		p.cursor = max(len(c.Table.Rows)-1, 0)
	}
}

func (p *panelView) syncContent() {
	p.vp.SetContent(p.renderContent())
}

// View draws the bordered panel at its current size.
func (p *panelView) View(focused bool) string {
	if p.width < 4 || p.height < 3 {
		return ""
	}

	frame := p.styles.Panel
	if focused {
		frame = p.styles.PanelFocused
	}

	title := p.renderTitle()
	body := lipgloss.JoinVertical(lipgloss.Left, title, p.vp.View())
	return frame.Width(p.width - 2).Height(p.height - 2).Render(body)
}

func (p *panelView) renderTitle() string {
	names := p.state.Names()
	parts := make([]string, len(names))
	for i, name := range names {
		if i == p.state.Active() {
			parts[i] = p.styles.ActiveTab.Render("*" + name)
		} else {
			parts[i] = p.styles.InactiveTab.Render(name)
		}
	}
	n := strings.TrimPrefix(p.def.ID, "panel-")
	title := p.styles.PanelTitle.Render("["+n+"] ") + strings.Join(parts, p.styles.InactiveTab.Render(" | "))
	return output.Truncate(title, max(p.width-2, 0))
}

func (p *panelView) renderContent() string {
	c, ok := p.state.ActiveContent()
	if !ok {
		return p.styles.Dim.Render("Loading…")
	}

	wrap := max(p.vp.Width, 20)
	if !c.IsTable() {
		return p.styles.Normal.Render(p.renderText(c.Text, wrap))
	}

	t := c.Table
	if len(t.Headers) == 0 {
		if t.Footer != "" {
			return p.styles.Footer.Render(wordwrap.String(t.Footer, wrap))
		}
		return p.styles.Dim.Render("No entries")
	}

	// Render aligned columns, then style line by line: header, separator,
	// rows (cursor highlighted), optional footer after a blank line.
	var raw strings.Builder
	output.RenderTable(&raw, *t, wrap)
	lines := strings.Split(strings.TrimRight(raw.String(), "\n"), "\n")

	var b strings.Builder
	for i, line := range lines {
		switch {
		case i == 0:
			b.WriteString(p.styles.TableHead.Render(line))
		case i == 1:
			b.WriteString(p.styles.Dim.Render(line))
		case i == 2+p.cursor && i < 2+len(t.Rows):
			b.WriteString(p.styles.RowCursor.Render(line))
		case i >= 2+len(t.Rows):
			b.WriteString(p.styles.Footer.Render(line))
		default:
			b.WriteString(p.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderText applies the soft-wrap and line-number hints to free-form tab
// content.
func (p *panelView) renderText(text string, width int) string {
	gutter := 0
	if p.lineNumbers {
		gutter = 4
	}
	if p.softWrap {
		text = wordwrap.String(text, max(width-gutter, 20))
	}
	lines := strings.Split(text, "\n")

	var b strings.Builder
	for i, line := range lines {
		if !p.softWrap {
			line = output.Truncate(line, max(width-gutter, 20))
		}
		if p.lineNumbers {
			fmt.Fprintf(&b, "%3d ", i+1)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
