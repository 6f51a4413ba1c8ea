package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lazyverdi/lazyverdi/internal/parse"
)

// RenderTable writes a parsed table as aligned columns. Column widths are
// display widths, so wide runes in code labels or node names line up, and
// rows are cut to maxWidth (0 = no limit).
func RenderTable(w io.Writer, t parse.Table, maxWidth int) {
	if len(t.Headers) == 0 {
		if t.Footer != "" {
			fmt.Fprintln(w, t.Footer)
		}
		return
	}

	rows := t.NormalizedRows()
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	writeRow := func(cells []string) {
		var b strings.Builder
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		line := strings.TrimRight(b.String(), " ")
		if maxWidth > 0 {
			line = Truncate(line, maxWidth)
		}
		fmt.Fprintln(w, line)
	}

	writeRow(t.Headers)
	seps := make([]string, len(widths))
	for i, width := range widths {
		seps[i] = strings.Repeat("-", width)
	}
	writeRow(seps)
	for _, row := range rows {
		writeRow(row)
	}

	if t.Footer != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, t.Footer)
	}
}

// Truncate cuts s to a display width, appending an ellipsis when trimmed.
func Truncate(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// TableDoc is the serializable form of a parsed table for JSON and YAML
// output.
type TableDoc struct {
	Headers []string            `json:"headers" yaml:"headers"`
	Rows    []map[string]string `json:"rows" yaml:"rows"`
	Footer  string              `json:"footer,omitempty" yaml:"footer,omitempty"`
}

// NewTableDoc converts a parsed table into key-value rows keyed by header.
func NewTableDoc(t parse.Table) TableDoc {
	doc := TableDoc{Headers: t.Headers, Footer: t.Footer}
	for _, row := range t.NormalizedRows() {
		m := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			m[h] = row[i]
		}
		doc.Rows = append(doc.Rows, m)
	}
	return doc
}
