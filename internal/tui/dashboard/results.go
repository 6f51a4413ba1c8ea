package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/muesli/reflow/wordwrap"

	"github.com/lazyverdi/lazyverdi/internal/runner"
	"github.com/lazyverdi/lazyverdi/internal/tui/styles"
	"github.com/lazyverdi/lazyverdi/internal/util"
	"github.com/lazyverdi/lazyverdi/internal/verdi"
)

const maxResultEntries = 200

// resultEntry is one line-item in the results feed.
type resultEntry struct {
	when     time.Time
	command  string
	status   runner.Status
	duration time.Duration
	body     string // friendly error, change note, or informational text
	info     bool   // informational entry with no backing command
}

// resultsFeed collects command outcomes for panel-0. Benign first-run
// warnings are suppressed after being shown once per session.
type resultsFeed struct {
	entries    []resultEntry
	suppressed map[string]bool // benign warnings already shown once
	vp         viewport.Model
	styles     styles.Styles
	width      int
}

func newResultsFeed(s styles.Styles) *resultsFeed {
	return &resultsFeed{
		suppressed: make(map[string]bool),
		vp:         viewport.New(0, 0),
		styles:     s,
	}
}

// SetSize resizes the feed's viewport to the panel interior.
func (f *resultsFeed) SetSize(width, height int) {
	f.width = width
	f.vp.Width = width
	f.vp.Height = height
	f.vp.SetContent(f.render())
}

// AddInfo appends an informational entry (welcome text, state changes).
func (f *resultsFeed) AddInfo(text string) {
	f.push(resultEntry{when: time.Now(), body: text, info: true})
}

// AddResult appends a completed command. Auto-refresh successes that
// changed nothing stay out of the feed to keep it readable.
func (f *resultsFeed) AddResult(res *runner.Result, auto bool, note string) {
	if res == nil {
		return
	}

	body := note
	if !res.Success() && res.Status != runner.StatusCancelled {
		stderr := strings.TrimSpace(res.Stderr)
		if verdi.IsBenignStderr(stderr) {
			if f.suppressed[res.Command] {
				return
			}
			f.suppressed[res.Command] = true
			body = "first run: " + stderr
		} else {
			body = verdi.FriendlyError(res.Command, stderr)
		}
	} else if auto && note == "" {
		return
	}

	f.push(resultEntry{
		when:     time.Now(),
		command:  res.Command,
		status:   res.Status,
		duration: res.Duration(),
		body:     body,
	})
}

func (f *resultsFeed) push(e resultEntry) {
	f.entries = append(f.entries, e)
	if len(f.entries) > maxResultEntries {
		f.entries = f.entries[len(f.entries)-maxResultEntries:]
	}
	f.vp.SetContent(f.render())
	f.vp.GotoBottom()
}

// View renders the feed viewport.
func (f *resultsFeed) View() string {
	return f.vp.View()
}

// ScrollUp and ScrollDown move the feed viewport.
func (f *resultsFeed) ScrollUp()   { f.vp.LineUp(1) }
func (f *resultsFeed) ScrollDown() { f.vp.LineDown(1) }

func (f *resultsFeed) render() string {
	if len(f.entries) == 0 {
		return f.styles.Dim.Render("No commands executed yet")
	}

	wrap := f.width
	if wrap < 20 {
		wrap = 20
	}

	var b strings.Builder
	for i, e := range f.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		ts := f.styles.ResultMeta.Render(e.when.Format("15:04:05"))
		if e.info {
			b.WriteString(ts + " " + f.styles.Info.Render(wordwrap.String(e.body, wrap)))
			b.WriteString("\n")
			continue
		}

		head := fmt.Sprintf("%s %s %s %s",
			ts,
			f.statusBadge(e.status),
			f.styles.ResultCommand.Render(e.command),
			f.styles.ResultMeta.Render(util.FormatDuration(e.duration)),
		)
		b.WriteString(head)
		b.WriteString("\n")
		if e.body != "" {
			b.WriteString(wordwrap.String(e.body, wrap))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (f *resultsFeed) statusBadge(s runner.Status) string {
	switch s {
	case runner.StatusDone:
		return f.styles.Success.Render("✔")
	case runner.StatusCancelled:
		return f.styles.Warning.Render("⊘")
	case runner.StatusFailed:
		return f.styles.Error.Render("✘")
	default:
		return f.styles.Dim.Render("…")
	}
}
