package utils

import (
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// GenerationRecord is one row of the per-generation stats CSV
type GenerationRecord struct {
	Generation int     `csv:"generation"`
	Living     int     `csv:"living"`
	Density    float64 `csv:"density"`
	DurationUS int64   `csv:"duration_us"`
	Stagnant   bool    `csv:"stagnant"`
}

// StatsWriter appends GenerationRecords to a CSV file. A nil *StatsWriter discards
// everything, so callers need not check whether output is enabled.
type StatsWriter struct {
	file          *os.File
	headerWritten bool
}

// NewStatsWriter creates path (and its directory). Returns nil if path is empty.
func NewStatsWriter(path string) (*StatsWriter, error) {
	if path == "" {
		return nil, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "[NewStatsWriter] failed to create directory: %+v", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[NewStatsWriter] failed to create file: %+v", path)
	}
	return &StatsWriter{file: f}, nil
}

// Write appends rec, emitting the header before the first row
func (w *StatsWriter) Write(rec GenerationRecord) error {
	if w == nil {
		return nil
	}

	records := []GenerationRecord{rec}

	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.file); err != nil {
			return errors.Wrap(err, "[StatsWriter.Write] failed to write record")
		}
		w.headerWritten = true
		return nil
	}

	if err := gocsv.MarshalWithoutHeaders(records, w.file); err != nil {
		return errors.Wrap(err, "[StatsWriter.Write] failed to write record")
	}
	return nil
}

// Close closes the underlying file
func (w *StatsWriter) Close() error {
	if w == nil {
		return nil
	}
	return w.file.Close()
}
