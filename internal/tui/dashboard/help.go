package dashboard

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# lazyverdi

Read-only dashboard over the verdi CLI.

## Panels

| Key | Panel |
|-----|-------|
| 0   | results feed |
| 1   | computer / code / plugin |
| 2   | process / calcjob |
| 3   | group / node |
| 4   | config / profile |
| 5   | status / daemon / storage |

## Keys

| Key   | Action |
|-------|--------|
| [ / ] | previous / next tab |
| j / k | move selection or scroll |
| r     | refresh focused panel |
| a     | toggle auto-refresh |
| ?     | toggle this help |
| q     | quit |

Tabs load on first visit and keep their contents cached; a failed
refresh keeps the previous data. Commands run one at a time, with
user-initiated ones served ahead of the auto-refresh queue.
`

// renderHelp renders the help overlay with the configured glamour style.
// Falls back to the raw markdown if the style cannot be built.
func renderHelp(style string, width int) string {
	if width < 20 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r, err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return helpMarkdown
		}
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
