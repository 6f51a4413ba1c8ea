// Package parse converts semi-structured verdi text output into tables.
package parse

import (
	"regexp"
	"strings"
)

// Table is the structured form of a command's tabular output.
type Table struct {
	Headers []string
	Rows    [][]string
	Footer  string
}

// Func converts raw command output into a Table.
type Func func(string) Table

// columnSplit matches runs of two or more whitespace characters, the column
// boundary convention used by verdi's tabulate output.
var columnSplit = regexp.MustCompile(`\s{2,}`)

// footerPrefixes mark the start of the footer section after the data rows.
// Once one of these (or a blank line) is seen, no later line is treated as
// a data row again.
var footerPrefixes = []string{
	"Total", "Report:", "Info:", "Warning:", "Error:", "Success:", "Critical:", "Debug:",
}

// reportPrefixes are operational noise that is dropped from footer output.
var reportPrefixes = []string{
	"Report:", "Info:", "Warning:", "Error:", "Debug:", "Critical:",
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// isSeparator reports whether a line is a header/body separator: only
// whitespace and dashes, with at least one dash.
func isSeparator(line string) bool {
	sawDash := false
	for _, r := range line {
		switch {
		case r == '-':
			sawDash = true
		case r == ' ' || r == '\t':
		default:
			return false
		}
	}
	return sawDash
}

// splitColumns splits a line into trimmed cells on runs of >=2 whitespace,
// dropping empty cells.
func splitColumns(line string) []string {
	var cells []string
	for _, c := range columnSplit.Split(line, -1) {
		c = strings.TrimSpace(c)
		if c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}

// Output parses text table output of the form
//
//	Column1  Column2  Column3
//	-------  -------  -------
//	value1   value2   value3
//
// into headers, rows and a footer (trailing report text such as
// "Total results: 3"). It is total: input without a separator line comes
// back untouched in Footer, so free-form output degrades to plain text.
func Output(text string) Table {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Table{Footer: ""}
	}
	lines := strings.Split(trimmed, "\n")

	sepIdx := -1
	for i, line := range lines {
		if isSeparator(line) {
			sepIdx = i
			break
		}
	}
	if sepIdx == -1 {
		return Table{Footer: trimmed}
	}

	var headers []string
	if sepIdx > 0 {
		headers = splitColumns(lines[sepIdx-1])
	}

	var rows [][]string
	var footerLines []string
	inFooter := false
	for _, line := range lines[sepIdx+1:] {
		stripped := strings.TrimSpace(line)
		if stripped == "" || hasAnyPrefix(stripped, footerPrefixes) {
			inFooter = true
		}
		if inFooter {
			if stripped != "" && !hasAnyPrefix(stripped, reportPrefixes) {
				footerLines = append(footerLines, stripped)
			}
			continue
		}
		if cells := splitColumns(line); len(cells) > 0 {
			rows = append(rows, cells)
		}
	}

	return Table{
		Headers: headers,
		Rows:    rows,
		Footer:  strings.Join(footerLines, "\n"),
	}
}

// bulletList parses "* item" line output into a single-column table.
// Lines matching any skip prefix are dropped entirely.
func bulletList(text, header string, skip []string) Table {
	var rows [][]string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" || hasAnyPrefix(stripped, skip) {
			continue
		}
		if rest, ok := strings.CutPrefix(stripped, "* "); ok {
			stripped = strings.TrimSpace(rest)
			if stripped == "" {
				continue
			}
		}
		rows = append(rows, []string{stripped})
	}
	return Table{Headers: []string{header}, Rows: rows}
}

// LabelList parses "verdi computer list" style output ("* label" lines)
// into a single "label" column.
func LabelList(text string) Table {
	skip := []string{"Report:", "Info:", "Warning:", "Error:", "Success:", "Critical:", "Debug:"}
	return bulletList(text, "label", skip)
}

// EntryPointList parses "verdi plugin list" style output into a single
// "entry point" column, skipping section headers.
func EntryPointList(text string) Table {
	skip := []string{
		"Registered entry points",
		"Report:", "Info:", "Warning:", "Error:", "Success:", "Critical:", "Debug:",
	}
	return bulletList(text, "entry point", skip)
}

// CommandHelp extracts the subcommand table from a click-style --help text.
// It collects indented lines after a "Commands:" header until the first
// non-indented line or option flag, splitting each into name and description.
func CommandHelp(text string) Table {
	var rows [][]string
	inCommands := false
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "Commands:") {
			inCommands = true
			continue
		}
		if !inCommands {
			continue
		}
		if !strings.HasPrefix(line, "  ") || strings.HasPrefix(stripped, "-") {
			break
		}
		parts := splitColumns(stripped)
		switch {
		case len(parts) >= 2:
			rows = append(rows, []string{parts[0], parts[1]})
		case len(parts) == 1:
			rows = append(rows, []string{parts[0], ""})
		}
	}
	return Table{Headers: []string{"command", "description"}, Rows: rows}
}

// NormalizedRows returns the rows padded or truncated to exactly match the
// header count, so every rendered row has the same number of cells.
func (t Table) NormalizedRows() [][]string {
	if len(t.Headers) == 0 {
		return t.Rows
	}
	n := len(t.Headers)
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]string, n)
		copy(r, row)
		out[i] = r
	}
	return out
}

// IsText reports whether the parse degraded to plain text (no table found).
func (t Table) IsText() bool {
	return len(t.Headers) == 0 && len(t.Rows) == 0
}
