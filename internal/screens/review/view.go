package review

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/rappel/internal/deck"
	"github.com/abhisek/rappel/internal/diff"
	"github.com/abhisek/rappel/internal/journal"
	"github.com/abhisek/rappel/internal/ui/components"
	"github.com/abhisek/rappel/internal/ui/layout"
	"github.com/abhisek/rappel/internal/ui/theme"
)

func (s *ReviewScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width, height)
	}
	if s.blocking != "" {
		card := theme.NoticeCard.Width(min(width-8, 70)).Render(s.blocking)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
	}

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.NewProgressBar("Progress", s.sess.Progress(), true, min(width-8, 60)).View()))
	b.WriteString("\n\n")

	switch {
	case s.revealing != nil:
		b.WriteString(layout.Centered(width, theme.Hint, "Skipped. The answers were:"))
		b.WriteString("\n\n")
		b.WriteString(renderRevealed(*s.revealing, width))
	case s.feedback != nil:
		b.WriteString(s.renderFeedback(width))
	case s.sess.Mode() == journal.ModeRevise:
		b.WriteString(renderRevealed(s.entry, width))
	default:
		b.WriteString(s.renderQuestion(width))
	}

	b.WriteString("\n")
	if s.entry.MediaPath != "" && s.revealing == nil {
		b.WriteString(layout.Centered(width, theme.Hint, "♪ "+s.entry.MediaPath))
		b.WriteString("\n")
	}
	if s.warning != "" {
		b.WriteString(layout.Centered(width, theme.Warning, s.warning))
		b.WriteString("\n")
	}
	if s.validation != "" {
		b.WriteString(layout.Centered(width, theme.Incorrect, s.validation))
		b.WriteString("\n")
	}
	if s.notice != "" {
		b.WriteString(layout.Centered(width, theme.Correct, s.notice))
		b.WriteString("\n")
	}
	return b.String()
}

// renderQuestion renders the prompts with placeholders and the answer
// inputs below them.
func (s *ReviewScreen) renderQuestion(width int) string {
	var b strings.Builder
	for _, p := range s.entry.Prompts() {
		b.WriteString(layout.Centered(width, theme.Question, renderSegments(p, p.Segments(nil))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	inputs := make([]string, len(s.inputs))
	for i, in := range s.inputs {
		inputs[i] = in.View()
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(inputs, "\n")))
	b.WriteString("\n")
	return b.String()
}

func (s *ReviewScreen) renderFeedback(width int) string {
	out := s.feedback
	var b strings.Builder

	b.WriteString(layout.Centered(width, theme.Incorrect, fmt.Sprintf(
		"Not quite: %d of %d correct", out.Result.CorrectCount, out.Result.Total)))
	b.WriteString("\n\n")
	b.WriteString(renderRevealed(out.Entry, width))
	b.WriteString("\n")

	lines := make([]string, 0, len(out.Diffs))
	for _, d := range out.Diffs {
		lines = append(lines, fmt.Sprintf("%d. %s  →  %s",
			d.Index+1, renderDiff(d.Diff.A, theme.Removed), renderDiff(d.Diff.B, theme.Added)))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Card.Render(strings.Join(lines, "\n"))))
	b.WriteString("\n")

	if s.reported {
		b.WriteString(layout.Centered(width, theme.Hint, "Reported as wrong"))
	} else {
		b.WriteString(layout.Centered(width, theme.Hint, "Press R if the stored answer is wrong"))
	}
	b.WriteString("\n")
	return b.String()
}

func renderRevealed(e deck.Entry, width int) string {
	var b strings.Builder
	for _, p := range e.Prompts() {
		b.WriteString(layout.Centered(width, theme.Question, renderSegments(p, p.Revealed())))
		b.WriteString("\n")
	}
	return b.String()
}

func renderSegments(p deck.Prompt, segs []deck.Segment) string {
	parts := make([]string, 0, len(segs))
	for _, seg := range segs {
		if seg.Blank {
			parts = append(parts, theme.Blank.Render(seg.Text))
		} else {
			parts = append(parts, seg.Text)
		}
	}
	sep := ""
	if !p.Inline {
		sep = "  "
	}
	return strings.Join(parts, sep)
}

func renderDiff(spans []diff.Span, style lipgloss.Style) string {
	if len(spans) == 0 {
		return theme.Hint.Render("(empty)")
	}
	return diff.Render(spans, func(t string) string { return style.Render(t) })
}

func renderQuitConfirm(width, height int) string {
	text := lipgloss.JoinVertical(lipgloss.Center,
		theme.Question.Render("Quit this session?"),
		"",
		theme.Hint.Render("Your progress is saved and can be resumed."),
		"",
		theme.Body.Render("Y to quit, N to keep going"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Card.Render(text))
}
