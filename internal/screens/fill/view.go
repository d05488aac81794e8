package fill

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/rappel/internal/media"
	"github.com/abhisek/rappel/internal/ui/layout"
	"github.com/abhisek/rappel/internal/ui/theme"
)

func (s *FillScreen) View(width, height int) string {
	if s.mode == modeDone {
		card := theme.Card.Render(lipgloss.JoinVertical(lipgloss.Center,
			theme.Correct.Render(s.message),
			"",
			theme.Hint.Render("press any key to exit"),
		))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
	}

	var b strings.Builder
	b.WriteString(s.renderDraft(width))
	b.WriteString("\n")

	switch s.mode {
	case modeConfirmDelete:
		b.WriteString(layout.Centered(width, theme.Warning, "Delete this draft? (y/n)"))
		b.WriteString("\n")
	case modeEdit, modeSelect, modeGoto, modeDiscard:
		lines := make([]string, len(s.fields))
		for i, f := range s.fields {
			lines[i] = f.View()
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Card.Render(strings.Join(lines, "\n"))))
		b.WriteString("\n")
	}

	if s.message != "" {
		b.WriteString(layout.Centered(width, theme.Correct, s.message))
		b.WriteString("\n")
	}
	if s.errMsg != "" {
		b.WriteString(layout.Centered(width, theme.Incorrect, s.errMsg))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *FillScreen) renderDraft(width int) string {
	d := s.batch.Current()

	label := func(k string) string { return theme.Hint.Render(fmt.Sprintf("%-10s", k)) }
	answer := d.Response
	if d.Missing() {
		answer = theme.Incorrect.Render("(missing)")
	}
	offsets := "-"
	if d.StartMs != nil || d.EndMs != nil {
		offsets = fmt.Sprintf("%s → %s", orDash(media.FormatOptional(d.StartMs)), orDash(media.FormatOptional(d.EndMs)))
	}

	rows := []string{
		label("Question") + theme.Question.Render(d.Question),
		label("Answer") + answer,
		label("Media") + orDash(d.AudioPath),
		label("Clip") + offsets,
	}
	if d.OriginalQuestion != d.Question {
		rows = append(rows, label("Original")+theme.Hint.Render(d.OriginalQuestion))
	}

	card := theme.Card.Width(min(width-8, 90)).Render(strings.Join(rows, "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
