// Package journal keeps the small append-only files that sit beside the
// record database: error reports, favorites and usage statistics.
package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Report is one "this entry is wrong" mark left during review.
type Report struct {
	EntryID    string
	ReportedAt time.Time
}

// ErrorLog appends reported entry ids to a CSV file.
type ErrorLog struct {
	path string
	now  func() time.Time
}

// NewErrorLog returns an error log stored at path.
func NewErrorLog(path string) *ErrorLog {
	return &ErrorLog{path: path, now: time.Now}
}

// Report appends id with the current time.
func (l *ErrorLog) Report(id string) error {
	if id == "" {
		return errors.New("report: empty entry id")
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("report: open %s: %w", l.path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{id, l.now().UTC().Format(time.RFC3339)}); err != nil {
		f.Close()
		return fmt.Errorf("report: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("report: %w", err)
	}
	return f.Close()
}

// List returns every report in file order. Rows without a parseable time
// keep a zero ReportedAt.
func (l *ErrorLog) List() ([]Report, error) {
	rows, err := readCSV(l.path)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	out := make([]Report, 0, len(rows))
	for _, row := range rows {
		r := Report{EntryID: row[0]}
		if len(row) > 1 {
			r.ReportedAt, _ = time.Parse(time.RFC3339, row[1])
		}
		out = append(out, r)
	}
	return out, nil
}

// Clear truncates the log.
func (l *ErrorLog) Clear() error {
	if err := os.Truncate(l.path, 0); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear reports: %w", err)
	}
	return nil
}

// readCSV returns the non-empty rows of path. A missing file has no rows.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	rows := all[:0]
	for _, row := range all {
		if len(row) > 0 && row[0] != "" {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
