// Package layout computes the dashboard's panel geometry.
//
// The screen splits into two columns. The left column stacks the three
// table panels (computer/code/plugin, process/calcjob, group/node); the
// right column holds the config panel, the results feed, and the status
// panel. Percentages come from the user's layout configuration, and the
// focused panel takes extra height from its column siblings.
package layout

// Rect is a panel's placement in cells.
type Rect struct {
	X, Y, W, H int
}

// Spec carries the tunable layout inputs.
type Spec struct {
	Width  int
	Height int

	LeftWidthPercent     int // width share of the left column (1-99)
	ResultsHeightPercent int // results share of the right column (1-99)
	FocusedHeightPercent int // focused panel share of its column (1-99)

	// Focused is the focused panel: 0 for the results feed, 1-5 for the
	// command panels. Values outside that range mean nothing is focused.
	Focused int
}

// Grid is the computed placement of all six panels.
type Grid struct {
	Panels  [5]Rect // panel-1 through panel-5
	Results Rect    // panel-0
}

// MinWidth and MinHeight are the smallest usable terminal size; below
// this the dashboard shows a resize hint instead of panels.
const (
	MinWidth  = 60
	MinHeight = 16
)

// Usable reports whether the terminal is big enough for the grid.
func (s Spec) Usable() bool {
	return s.Width >= MinWidth && s.Height >= MinHeight
}

// Compute splits the screen into the panel grid.
func Compute(s Spec) Grid {
	var g Grid

	leftW := s.Width * clampPct(s.LeftWidthPercent, 40) / 100
	if leftW < 20 {
		leftW = 20
	}
	rightW := s.Width - leftW

	// Left column: panels 1-3 stacked.
	leftHeights := columnHeights(s.Height, 3, focusedInColumn(s.Focused, 1, 3), clampPct(s.FocusedHeightPercent, 50))
	y := 0
	for i := 0; i < 3; i++ {
		g.Panels[i] = Rect{X: 0, Y: y, W: leftW, H: leftHeights[i]}
		y += leftHeights[i]
	}

	// Right column: panel-4, results, panel-5. The results share applies
	// first; the two text panels split the rest.
	resultsH := s.Height * clampPct(s.ResultsHeightPercent, 80) / 100
	rest := s.Height - resultsH
	topH := rest / 2
	bottomH := rest - topH

	// Focus redistributes within the right column as well.
	switch s.Focused {
	case 4:
		topH = rest * clampPct(s.FocusedHeightPercent, 50) / 100
		if topH < 3 {
			topH = 3
		}
		bottomH = rest - topH
	case 5:
		bottomH = rest * clampPct(s.FocusedHeightPercent, 50) / 100
		if bottomH < 3 {
			bottomH = 3
		}
		topH = rest - bottomH
	}

	g.Panels[3] = Rect{X: leftW, Y: 0, W: rightW, H: topH}
	g.Results = Rect{X: leftW, Y: topH, W: rightW, H: resultsH}
	g.Panels[4] = Rect{X: leftW, Y: topH + resultsH, W: rightW, H: bottomH}
	return g
}

// columnHeights splits total height across n stacked panels, giving the
// focused one (1-based index in the column, 0 = none) the focused share.
func columnHeights(total, n, focused, focusedPct int) []int {
	heights := make([]int, n)
	if n == 0 {
		return heights
	}
	if focused == 0 {
		even := total / n
		for i := range heights {
			heights[i] = even
		}
		heights[n-1] += total - even*n
		return heights
	}

	focusedH := total * focusedPct / 100
	if focusedH < 3 {
		focusedH = 3
	}
	restEach := (total - focusedH) / (n - 1)
	used := 0
	for i := range heights {
		if i == focused-1 {
			heights[i] = focusedH
		} else {
			heights[i] = restEach
		}
		used += heights[i]
	}
	heights[n-1] += total - used
	return heights
}

// focusedInColumn maps a global panel number to a 1-based column slot,
// or 0 when the focus lies outside the column.
func focusedInColumn(focused, first, last int) int {
	if focused < first || focused > last {
		return 0
	}
	return focused - first + 1
}

func clampPct(v, fallback int) int {
	if v < 1 || v > 99 {
		return fallback
	}
	return v
}
