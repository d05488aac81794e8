package summary

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/rappel/internal/journal"
	"github.com/abhisek/rappel/internal/session"
)

func testSummary() session.Summary {
	return session.Summary{
		Initial:        10,
		Solved:         10,
		Attempts:       14,
		Skips:          2,
		CorrectAnswers: 11,
		TotalAnswers:   14,
		Complete:       true,
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary(), journal.ModeQuiz)
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	view := New(testSummary(), journal.ModeQuiz).View(80, 24)
	for _, want := range []string{"Session complete!", "10 of 10", "11/14", "79%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSummaryScreen_ReviseMode(t *testing.T) {
	sum := session.Summary{Initial: 5, Solved: 3, Remaining: 2}
	view := New(sum, journal.ModeRevise).View(80, 24)
	if !strings.Contains(view, "Entries reviewed: 3 of 5") {
		t.Errorf("view missing revise totals:\n%s", view)
	}
	if !strings.Contains(view, "Remaining: 2") {
		t.Errorf("view missing remaining count:\n%s", view)
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	s := New(testSummary(), journal.ModeQuiz)
	for _, code := range []rune{tea.KeyEnter, tea.KeyEscape} {
		_, cmd := s.Update(tea.KeyPressMsg{Code: code})
		if cmd == nil {
			t.Errorf("expected a quit command for key %v", code)
		}
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testSummary(), journal.ModeQuiz)
	if len(s.KeyHints()) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(s.KeyHints()))
	}
}
