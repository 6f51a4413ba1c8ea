package output

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeSummary describes how a panel's content moved between two
// refreshes.
type ChangeSummary struct {
	Changed    bool    `json:"changed"`
	Similarity float64 `json:"similarity"`
	Inserted   int     `json:"inserted"`
	Deleted    int     `json:"deleted"`
}

// CompareRefresh compares the previous and current text of a tab so a
// refresh can report "content changed" instead of silently repainting.
func CompareRefresh(prev, curr string) ChangeSummary {
	if prev == curr {
		return ChangeSummary{Changed: false, Similarity: 1.0}
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(prev, curr, true)

	var inserted, deleted int
	for _, d := range diffs {
		lines := strings.Count(d.Text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += lines + 1
		case diffmatchpatch.DiffDelete:
			deleted += lines + 1
		}
	}

	dist := dmp.DiffLevenshtein(diffs)
	maxLen := len(prev)
	if len(curr) > maxLen {
		maxLen = len(curr)
	}
	similarity := 0.0
	if maxLen > 0 {
		similarity = 1.0 - (float64(dist) / float64(maxLen))
	}

	return ChangeSummary{
		Changed:    true,
		Similarity: similarity,
		Inserted:   inserted,
		Deleted:    deleted,
	}
}
