package journal

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestErrorLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entry_error.csv")
	l := NewErrorLog(path)
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	if err := l.Report("abc"); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if err := l.Report("def"); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if err := l.Report(""); err == nil {
		t.Error("Report(\"\") = nil, want error")
	}

	got, err := l.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].EntryID != "abc" || got[1].EntryID != "def" {
		t.Fatalf("List = %+v", got)
	}
	if !got[0].ReportedAt.Equal(fixed) {
		t.Errorf("ReportedAt = %v, want %v", got[0].ReportedAt, fixed)
	}

	if err := l.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, _ = l.List()
	if len(got) != 0 {
		t.Errorf("after Clear List = %+v, want empty", got)
	}
}

func TestErrorLogClearMissing(t *testing.T) {
	l := NewErrorLog(filepath.Join(t.TempDir(), "none.csv"))
	if err := l.Clear(); err != nil {
		t.Errorf("Clear on missing file = %v", err)
	}
}

func TestFavorites(t *testing.T) {
	f := NewFavorites(filepath.Join(t.TempDir(), "favourites-rappel.csv"))

	if err := f.Add("a"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := f.Add("b"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := f.Add("a"); !errors.Is(err, ErrAlreadyFavorite) {
		t.Errorf("Add duplicate = %v, want ErrAlreadyFavorite", err)
	}

	ids, err := f.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("List = %v, want [a b]", ids)
	}

	if err := f.Remove("a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	ids, _ = f.List()
	if len(ids) != 1 || ids[0] != "b" {
		t.Errorf("after Remove = %v, want [b]", ids)
	}
}

func TestFavoritesFileName(t *testing.T) {
	tests := map[string]string{
		"/data/rappel.db":      "favourites-rappel.csv",
		"english.sqlite":       "favourites-english.csv",
		"/x/y/no_extension_db": "favourites-no_extension_db.csv",
	}
	for in, want := range tests {
		if got := FavoritesFileName(in); got != want {
			t.Errorf("FavoritesFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUsageStats(t *testing.T) {
	u := NewUsageStats(filepath.Join(t.TempDir(), "usage_stats.json"))
	day := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	u.now = func() time.Time { return day }

	if err := u.RecordGraded(1, 2); err != nil {
		t.Fatalf("RecordGraded: %v", err)
	}
	if err := u.RecordGraded(2, 2); err != nil {
		t.Fatalf("RecordGraded: %v", err)
	}
	if err := u.RecordReviewed(); err != nil {
		t.Fatalf("RecordReviewed: %v", err)
	}

	day = day.AddDate(0, 0, 1)
	if err := u.RecordSessionEnd(ModeQuiz); err != nil {
		t.Fatalf("RecordSessionEnd: %v", err)
	}
	if err := u.RecordSessionEnd(ModeRevise); err != nil {
		t.Fatalf("RecordSessionEnd: %v", err)
	}

	s, err := u.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.RetrievalCount != 3 {
		t.Errorf("RetrievalCount = %d, want 3", s.RetrievalCount)
	}
	if s.ReviewCount != 2 {
		t.Errorf("ReviewCount = %d, want 2", s.ReviewCount)
	}
	if s.CorrectCount != 3 || s.AnsweredCount != 4 {
		t.Errorf("correct/answered = %d/%d, want 3/4", s.CorrectCount, s.AnsweredCount)
	}
	if len(s.Dates) != 2 || s.Dates[0] != "2024-05-01" || s.Dates[1] != "2024-05-02" {
		t.Errorf("Dates = %v", s.Dates)
	}
	if got := s.Accuracy(); got != 0.75 {
		t.Errorf("Accuracy = %v, want 0.75", got)
	}
}
