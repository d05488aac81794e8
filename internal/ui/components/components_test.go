package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestMenuSkipsDisabled(t *testing.T) {
	var picked string
	m := NewMenu([]MenuItem{
		{Label: "Resume", Disabled: true},
		{Label: "Start fresh", Action: func() tea.Cmd { picked = "fresh"; return nil }},
		{Label: "Quit", Action: func() tea.Cmd { picked = "quit"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("Selected after up = %d, want 1", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if picked != "quit" {
		t.Errorf("picked = %q, want %q", picked, "quit")
	}
	if !strings.Contains(m.View(), "▸ Quit") {
		t.Errorf("View() missing selection marker:\n%s", m.View())
	}
}

func TestProgressBarClamps(t *testing.T) {
	for _, pct := range []int{-10, 0, 50, 100, 150} {
		view := NewProgressBar("", pct, true, 40).View()
		if view == "" {
			t.Errorf("View() for %d%% is empty", pct)
		}
	}
}

func TestTextInputMarks(t *testing.T) {
	ti := NewTextInput("1.", "answer", 20)
	ti.SetValue("chat")
	if ti.Value() != "chat" {
		t.Errorf("Value() = %q, want %q", ti.Value(), "chat")
	}
	ti.Submit(false)
	if !strings.Contains(ti.View(), "✗") {
		t.Errorf("View() missing wrong mark: %q", ti.View())
	}
}
