package services

import "testing"

func TestDistinctValueTracker(t *testing.T) {
	tracker := NewDistinctValueTracker([]string{"model", "fuel"})

	tracker.TrackRow(map[string]string{"model": "civic", "fuel": "gas"})
	tracker.TrackRow(map[string]string{"model": "civic", "fuel": "diesel"})
	tracker.TrackRow(map[string]string{"model": "accord", "fuel": "  "})
	tracker.TrackRow(map[string]string{"model": "", "fuel": "gas", "unknown": "x"})

	counts := tracker.CountsByColumn()
	if len(counts) != 2 {
		t.Fatalf("got %d columns, want 2", len(counts))
	}

	// Ordered by column name.
	if counts[0].Column != "fuel" || counts[1].Column != "model" {
		t.Fatalf("unexpected order: %v", counts)
	}
	if counts[0].Count != 2 {
		t.Errorf("fuel distinct = %d; want 2", counts[0].Count)
	}
	if counts[1].Count != 2 {
		t.Errorf("model distinct = %d; want 2 (blanks ignored)", counts[1].Count)
	}
}
