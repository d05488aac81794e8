// Package checkpoint persists in-progress work queues so an interrupted
// session can be resumed.
package checkpoint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Snapshot is the on-disk shape of a checkpoint.
type Snapshot[T any] struct {
	Entries      []T `json:"entries"`
	CurrentIndex int `json:"current_index"`
}

// CorruptError indicates a checkpoint file exists but cannot be trusted.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt checkpoint %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Store reads and writes one checkpoint file.
type Store[T any] struct {
	path   string
	schema *Schema
}

// New returns a store for path. A nil schema skips validation on load.
func New[T any](path string, schema *Schema) *Store[T] {
	return &Store[T]{path: path, schema: schema}
}

// Path returns the checkpoint file location.
func (s *Store[T]) Path() string { return s.path }

// Exists reports whether a checkpoint file is present.
func (s *Store[T]) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save atomically replaces the checkpoint with items and cursor.
func (s *Store[T]) Save(items []T, cursor int) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(Snapshot[T]{Entries: items, CurrentIndex: cursor}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp checkpoint: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close checkpoint: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace checkpoint: %w", err)
	}
	return nil
}

// Load reads the checkpoint. ok is false when no checkpoint exists.
func (s *Store[T]) Load() (snap Snapshot[T], ok bool, err error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return snap, false, nil
	}
	if err != nil {
		return snap, false, fmt.Errorf("read checkpoint: %w", err)
	}

	if s.schema != nil {
		if err := s.schema.validate(data); err != nil {
			return snap, false, &CorruptError{Path: s.path, Err: err}
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&snap); err != nil {
		return snap, false, &CorruptError{Path: s.path, Err: err}
	}
	if snap.CurrentIndex < 0 || snap.CurrentIndex >= max(len(snap.Entries), 1) {
		snap.CurrentIndex = 0
	}
	return snap, true, nil
}

// Clear removes the checkpoint. A missing file is not an error.
func (s *Store[T]) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove checkpoint: %w", err)
	}
	return nil
}
