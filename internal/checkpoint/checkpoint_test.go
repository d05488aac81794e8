package checkpoint

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/rappel/internal/deck"
)

func sampleEntries() []deck.Entry {
	return []deck.Entry{
		{ID: "1", Question: "Paris est la capitale de (?)", Answers: []string{"la France"}, MediaPath: "a.mp3", CreatedAt: "2024-01-02"},
		{ID: "2", Question: "2+2=(?)", Answers: []string{"4"}, CreatedAt: "2024-01-03"},
		{ID: "3", Question: "(?) et (?)", Answers: []string{"toi", "moi"}},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved_records.json")
	s := New[deck.Entry](path, ReviewSchema)

	items := sampleEntries()
	require.NoError(t, s.Save(items, 2))
	assert.True(t, s.Exists())

	snap, ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, snap.CurrentIndex)
	if !reflect.DeepEqual(snap.Entries, items) {
		t.Errorf("entries = %+v, want %+v", snap.Entries, items)
	}
}

func TestLoadMissing(t *testing.T) {
	s := New[deck.Entry](filepath.Join(t.TempDir(), "none.json"), ReviewSchema)
	_, ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.Exists())
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp.json")
	s := New[deck.Entry](path, ReviewSchema)
	require.NoError(t, s.Save(sampleEntries(), 0))
	require.NoError(t, s.Clear())
	assert.False(t, s.Exists())
	require.NoError(t, s.Clear(), "clearing twice")
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"not json":         "{",
		"missing entries":  `{"current_index": 0}`,
		"negative cursor":  `{"entries": [], "current_index": -1}`,
		"entry without id": `{"entries": [{"question": "q", "response": "r"}], "current_index": 0}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cp.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			_, ok, err := New[deck.Entry](path, ReviewSchema).Load()
			assert.False(t, ok)
			var corrupt *CorruptError
			if !errors.As(err, &corrupt) {
				t.Fatalf("err = %v, want *CorruptError", err)
			}
			assert.Equal(t, path, corrupt.Path)
		})
	}
}

func TestLoadClampsCursor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp.json")
	body := `{"entries": [{"UUID": "1", "question": "q", "response": "r"}], "current_index": 5}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	snap, ok, err := New[deck.Entry](path, ReviewSchema).Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, snap.CurrentIndex)
}

func TestSaveEmptyWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp.json")
	s := New[deck.Entry](path, ReviewSchema)
	require.NoError(t, s.Save(nil, 0))

	snap, ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, snap.Entries)
}
