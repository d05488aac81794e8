package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Mode distinguishes graded review from display-only revision.
type Mode int

const (
	ModeQuiz Mode = iota
	ModeRevise
)

func (m Mode) String() string {
	if m == ModeRevise {
		return "revise"
	}
	return "quiz"
}

// Stats is the usage statistics file content.
type Stats struct {
	RetrievalCount int      `json:"retrieval_count"`
	ReviewCount    int      `json:"review_count"`
	CorrectCount   int      `json:"correct_count"`
	AnsweredCount  int      `json:"answered_count"`
	Dates          []string `json:"dates"`
}

// Accuracy returns the share of answers that were correct, in [0, 1].
func (s Stats) Accuracy() float64 {
	if s.AnsweredCount == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(s.AnsweredCount)
}

// UsageStats accumulates Stats in a JSON file. Every update rewrites the
// whole file.
type UsageStats struct {
	path string
	now  func() time.Time
}

// NewUsageStats returns usage statistics stored at path.
func NewUsageStats(path string) *UsageStats {
	return &UsageStats{path: path, now: time.Now}
}

// Load returns the current statistics. A missing file yields zero Stats.
func (u *UsageStats) Load() (Stats, error) {
	var s Stats
	data, err := os.ReadFile(u.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read stats: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode stats %s: %w", u.path, err)
	}
	return s, nil
}

// RecordGraded adds one graded submission.
func (u *UsageStats) RecordGraded(correct, total int) error {
	return u.update(func(s *Stats) {
		s.RetrievalCount++
		s.CorrectCount += correct
		s.AnsweredCount += total
	})
}

// RecordReviewed adds one entry handled in revise mode.
func (u *UsageStats) RecordReviewed() error {
	return u.update(func(s *Stats) { s.ReviewCount++ })
}

// RecordSessionEnd adds one completed session.
func (u *UsageStats) RecordSessionEnd(mode Mode) error {
	return u.update(func(s *Stats) {
		if mode == ModeRevise {
			s.ReviewCount++
		} else {
			s.RetrievalCount++
		}
	})
}

func (u *UsageStats) update(fn func(*Stats)) error {
	s, err := u.Load()
	if err != nil {
		return err
	}
	fn(&s)
	today := u.now().Format(time.DateOnly)
	if n := len(s.Dates); n == 0 || s.Dates[n-1] != today {
		s.Dates = append(s.Dates, today)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(u.path), 0o755); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	if err := os.WriteFile(u.path, data, 0o644); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	return nil
}
