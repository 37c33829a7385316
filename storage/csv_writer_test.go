package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestTrainingCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "training.csv")
	header := []string{"condition", "model", "price"}

	w, err := NewTrainingCSVWriter(path, header)
	if err != nil {
		t.Fatalf("NewTrainingCSVWriter: %v", err)
	}

	rows := []map[string]string{
		{"condition": "good", "model": "civic", "price": "9000"},
		{"model": "m3", "price": "25000"}, // condition missing
	}
	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			t.Fatalf("WriteRow: %v", err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// The handle is released; the file must be readable now.
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows; want header + 2", len(records))
	}
	if records[0][0] != "condition" || records[0][2] != "price" {
		t.Errorf("header row = %v", records[0])
	}
	if records[1][1] != "civic" {
		t.Errorf("row 1 = %v", records[1])
	}
	if records[2][0] != "" || records[2][1] != "m3" {
		t.Errorf("missing column should be an empty cell, row 2 = %v", records[2])
	}
}
