package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/rappel/internal/journal"
	"github.com/abhisek/rappel/internal/screen"
	"github.com/abhisek/rappel/internal/session"
	"github.com/abhisek/rappel/internal/ui/layout"
	"github.com/abhisek/rappel/internal/ui/theme"
)

// SummaryScreen displays the totals of a finished session.
type SummaryScreen struct {
	summary session.Summary
	mode    journal.Mode
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary session.Summary, mode journal.Mode) *SummaryScreen {
	return &SummaryScreen{summary: summary, mode: mode}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Exit"},
		{Key: "Esc", Description: "Exit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	title := "Session complete!"
	if !sum.Complete {
		title = "Session paused"
	}
	b.WriteString(layout.Centered(width, theme.Title, title))
	b.WriteString("\n\n")

	var lines []string
	if s.mode == journal.ModeRevise {
		lines = append(lines, fmt.Sprintf("Entries reviewed: %d of %d", sum.Solved, sum.Initial))
	} else {
		lines = append(lines,
			fmt.Sprintf("Entries solved: %d of %d", sum.Solved, sum.Initial),
			fmt.Sprintf("Attempts: %d        Skips: %d", sum.Attempts, sum.Skips),
			fmt.Sprintf("Answers: %d/%d correct        Accuracy: %.0f%%",
				sum.CorrectAnswers, sum.TotalAnswers, sum.Accuracy()),
		)
	}
	if sum.Remaining > 0 {
		lines = append(lines, fmt.Sprintf("Remaining: %d (saved for next time)", sum.Remaining))
	}

	for _, l := range lines {
		b.WriteString(layout.Centered(width, theme.Body, l))
		b.WriteString("\n")
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	return b.String()
}
