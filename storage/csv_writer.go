package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// TrainingCSVWriter streams accepted records into the flat training file.
// It is scoped to one run: header once, then rows, then Close. Close must
// release the file handle before the orchestrator reads the file back for
// upload — some environments deny a read open while a writer handle is held.
type TrainingCSVWriter struct {
	path   string
	header []string
	file   *os.File
	writer *csv.Writer
}

// NewTrainingCSVWriter creates (or truncates) the CSV file at the given path
// and writes the header row. Intermediate directories are created
// automatically.
func NewTrainingCSVWriter(path string, header []string) (*TrainingCSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &TrainingCSVWriter{path: path, header: header, file: f, writer: w}, nil
}

// Path returns the location of the file being written.
func (w *TrainingCSVWriter) Path() string { return w.path }

// WriteRow writes one cleaned record using the fixed column order. Missing
// columns come out as empty cells.
func (w *TrainingCSVWriter) WriteRow(record map[string]string) error {
	row := make([]string, len(w.header))
	for i, col := range w.header {
		row[i] = record[col]
	}
	if err := w.writer.Write(row); err != nil {
		return fmt.Errorf("csv: write row: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file, releasing the handle.
func (w *TrainingCSVWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("csv: flush: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("csv: close: %w", err)
	}
	return nil
}
