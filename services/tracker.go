package services

import (
	"sort"
	"strings"
)

// DistinctValueTracker accumulates per-column distinct value sets across a
// run. Purely diagnostic; nothing in the pipeline branches on it.
type DistinctValueTracker struct {
	distinct map[string]map[string]struct{}
}

// ColumnCount is one (column, distinct count) pair of the end-of-run report.
type ColumnCount struct {
	Column string
	Count  int
}

// NewDistinctValueTracker creates a tracker for the given CSV header.
func NewDistinctValueTracker(header []string) *DistinctValueTracker {
	distinct := make(map[string]map[string]struct{}, len(header))
	for _, col := range header {
		distinct[col] = make(map[string]struct{})
	}
	return &DistinctValueTracker{distinct: distinct}
}

// TrackRow records the non-blank values of one cleaned row.
func (t *DistinctValueTracker) TrackRow(record map[string]string) {
	for col, val := range record {
		if strings.TrimSpace(val) == "" {
			continue
		}
		if set, ok := t.distinct[col]; ok {
			set[val] = struct{}{}
		}
	}
}

// CountsByColumn returns distinct counts ordered by column name.
func (t *DistinctValueTracker) CountsByColumn() []ColumnCount {
	counts := make([]ColumnCount, 0, len(t.distinct))
	for col, set := range t.distinct {
		counts = append(counts, ColumnCount{Column: col, Count: len(set)})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Column < counts[j].Column })
	return counts
}
