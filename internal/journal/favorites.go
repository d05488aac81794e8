package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrAlreadyFavorite is returned by Add for an id already in the list.
var ErrAlreadyFavorite = errors.New("entry is already a favorite")

// Favorites is a CSV list of entry ids, one per row.
type Favorites struct {
	path string
}

// NewFavorites returns the favorites list stored at path.
func NewFavorites(path string) *Favorites {
	return &Favorites{path: path}
}

// FavoritesFileName derives the favorites file name from the database
// path, so each database keeps its own list.
func FavoritesFileName(dbPath string) string {
	base := filepath.Base(dbPath)
	return "favourites-" + strings.TrimSuffix(base, filepath.Ext(base)) + ".csv"
}

// List returns the favorite ids in insertion order.
func (f *Favorites) List() ([]string, error) {
	rows, err := readCSV(f.path)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row[0])
	}
	return ids, nil
}

// Add appends id to the list.
func (f *Favorites) Add(id string) error {
	ids, err := f.List()
	if err != nil {
		return err
	}
	if slices.Contains(ids, id) {
		return ErrAlreadyFavorite
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	w := csv.NewWriter(file)
	if err := w.Write([]string{id}); err != nil {
		file.Close()
		return fmt.Errorf("add favorite: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return fmt.Errorf("add favorite: %w", err)
	}
	return file.Close()
}

// Remove deletes id from the list. Removing an absent id is a no-op.
func (f *Favorites) Remove(id string) error {
	ids, err := f.List()
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(ids, func(s string) bool { return s == id })

	var b strings.Builder
	w := csv.NewWriter(&b)
	for _, k := range kept {
		if err := w.Write([]string{k}); err != nil {
			return fmt.Errorf("remove favorite: %w", err)
		}
	}
	w.Flush()
	if err := os.WriteFile(f.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}
