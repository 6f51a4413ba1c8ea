// Package panel holds the per-panel tab state machine: which tab is active,
// what has been loaded, and the cached content for each tab. A TabState is
// owned by exactly one panel and must only be touched from that panel's
// event loop; the execution engine never writes to it directly.
package panel

import (
	"strings"

	"github.com/lazyverdi/lazyverdi/internal/parse"
	"github.com/lazyverdi/lazyverdi/internal/runner"
)

// Content is what a completed load stores for a tab: a parsed table for
// tabular tabs, or plain text for free-form tabs.
type Content struct {
	Table *parse.Table
	Text  string
}

// IsTable reports whether the content carries tabular data.
func (c Content) IsTable() bool { return c.Table != nil }

// Tab is one selectable view within a panel: a command plus optional
// formatter and parser. Tabs are static, defined once at registration.
type Tab struct {
	Name   string
	Spec   runner.Invoker
	Format func(string) string
	Parse  parse.Func
}

// Process turns captured stdout into this tab's content: the formatter
// runs first, then the parser if the tab is tabular.
func (t Tab) Process(stdout string) Content {
	out := strings.TrimSpace(stdout)
	if out == "" {
		out = "No output"
	}
	if t.Format != nil {
		out = t.Format(out)
	}
	if t.Parse == nil {
		return Content{Text: out}
	}
	table := t.Parse(out)
	return Content{Table: &table}
}

// TabState tracks the active tab and per-tab cache for one panel.
type TabState struct {
	tabs   []Tab
	active int
	cache  map[int]Content
	loaded map[int]struct{}
}

// NewTabState creates a state machine over the given tabs with the first
// tab active and nothing loaded.
func NewTabState(tabs []Tab) *TabState {
	return &TabState{
		tabs:   tabs,
		cache:  make(map[int]Content),
		loaded: make(map[int]struct{}),
	}
}

// Tabs returns the tab definitions.
func (s *TabState) Tabs() []Tab { return s.tabs }

// Names returns the tab names in order.
func (s *TabState) Names() []string {
	names := make([]string, len(s.tabs))
	for i, t := range s.tabs {
		names[i] = t.Name
	}
	return names
}

// Active returns the index of the active tab.
func (s *TabState) Active() int { return s.active }

// ActiveTab returns the active tab definition.
func (s *TabState) ActiveTab() (Tab, bool) {
	if len(s.tabs) == 0 {
		return Tab{}, false
	}
	return s.tabs[s.active], true
}

// Next advances to the following tab. It is a no-op at the last tab and
// reports whether the active tab changed. Switching never triggers a load
// by itself; the caller checks IsLoaded and decides.
func (s *TabState) Next() bool {
	if s.active >= len(s.tabs)-1 {
		return false
	}
	s.active++
	return true
}

// Prev moves to the preceding tab, a no-op at the first tab.
func (s *TabState) Prev() bool {
	if s.active <= 0 {
		return false
	}
	s.active--
	return true
}

// IsLoaded reports whether the tab at index has been loaded at least once.
func (s *TabState) IsLoaded(index int) bool {
	_, ok := s.loaded[index]
	return ok
}

// MarkLoaded stores content for the tab at index and records it as loaded.
// Only a completed load for that index may call this.
func (s *TabState) MarkLoaded(index int, c Content) {
	if index < 0 || index >= len(s.tabs) {
		return
	}
	s.cache[index] = c
	s.loaded[index] = struct{}{}
}

// Cache stores content for the tab at index without marking it loaded.
// A failed first load uses this to show its error in the panel while the
// next visit still triggers a real load.
func (s *TabState) Cache(index int, c Content) {
	if index < 0 || index >= len(s.tabs) {
		return
	}
	s.cache[index] = c
}

// Cached returns the cached content for the tab at index, if any. A failed
// refresh leaves the previous entry in place, so stale-but-valid data is
// still served here.
func (s *TabState) Cached(index int) (Content, bool) {
	c, ok := s.cache[index]
	return c, ok
}

// ActiveContent returns the cached content of the active tab.
func (s *TabState) ActiveContent() (Content, bool) {
	return s.Cached(s.active)
}

// Invalidate drops the cache and loaded mark for the tab at index, forcing
// the next visit to load it again.
func (s *TabState) Invalidate(index int) {
	delete(s.cache, index)
	delete(s.loaded, index)
}
