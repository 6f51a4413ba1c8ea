// Package styles holds pre-built lipgloss styles for the dashboard.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lazyverdi/lazyverdi/internal/tui/theme"
)

// Styles contains the dashboard's lipgloss styles.
type Styles struct {
	// Panel chrome
	Panel        lipgloss.Style // unfocused panel frame
	PanelFocused lipgloss.Style // focused panel frame
	PanelTitle   lipgloss.Style
	ActiveTab    lipgloss.Style
	InactiveTab  lipgloss.Style

	// Content
	Normal    lipgloss.Style
	Dim       lipgloss.Style
	TableHead lipgloss.Style
	RowCursor lipgloss.Style
	Footer    lipgloss.Style

	// Results feed
	ResultCommand lipgloss.Style
	ResultMeta    lipgloss.Style
	Success       lipgloss.Style
	Warning       lipgloss.Style
	Error         lipgloss.Style
	Info          lipgloss.Style

	// Status bar
	StatusBar lipgloss.Style
	Help      lipgloss.Style
}

// New creates a Styles instance from a theme
func New(t theme.Theme) Styles {
	s := Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Surface2),

		PanelFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Focus),

		PanelTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),

		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Focus),

		InactiveTab: lipgloss.NewStyle().
			Foreground(t.Overlay),

		Normal: lipgloss.NewStyle().
			Foreground(t.Text),

		Dim: lipgloss.NewStyle().
			Foreground(t.Overlay),

		TableHead: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Subtext),

		RowCursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Base).
			Background(t.Primary),

		Footer: lipgloss.NewStyle().
			Foreground(t.Subtext),

		ResultCommand: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Results),

		ResultMeta: lipgloss.NewStyle().
			Foreground(t.Overlay),

		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Success),

		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Warning),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Error),

		Info: lipgloss.NewStyle().
			Foreground(t.Info),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.Subtext).
			Background(t.Surface0).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.Overlay),
	}

	// In no-color environments selection must not rely on background shades.
	if t == theme.Plain {
		s.RowCursor = lipgloss.NewStyle().Bold(true).Reverse(true)
		s.Warning = s.Warning.Copy().Underline(true)
		s.Error = s.Error.Copy().Underline(true)
	}

	return s
}

// Default returns styles for the current theme
func Default() Styles {
	return New(theme.Current())
}
