// Package format cleans up raw verdi output before parsing or display.
package format

import "strings"

// Func rewrites command output before it reaches a parser. Formatters must
// be pure: same input, same output, no side effects.
type Func func(string) string

// StripCommandEcho removes a trailing command echo line ("$ verdi ...")
// that some invocation paths append to captured output.
func StripCommandEcho(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "$ verdi") {
		return strings.Join(lines[:len(lines)-1], "\n")
	}
	return text
}

// TableOutput prepares generic table output (computer, code, group, node
// lists): drops the command echo and trailing blank lines, keeps the table
// and report lines intact.
func TableOutput(text string) string {
	lines := strings.Split(StripCommandEcho(text), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// StatusText prepares free-form status output (daemon status, storage info,
// config list): drops the command echo and surrounding whitespace.
func StatusText(text string) string {
	return strings.TrimSpace(StripCommandEcho(text))
}

// None returns the text unchanged.
func None(text string) string { return text }
