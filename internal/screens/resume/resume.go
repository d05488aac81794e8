// Package resume asks whether to continue from a saved checkpoint.
package resume

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/rappel/internal/router"
	"github.com/abhisek/rappel/internal/screen"
	"github.com/abhisek/rappel/internal/ui/components"
	"github.com/abhisek/rappel/internal/ui/layout"
	"github.com/abhisek/rappel/internal/ui/theme"
)

// Loader builds the next screen. resume is true when the learner chose to
// continue from the checkpoint.
type Loader func(resume bool) (screen.Screen, error)

type loadedMsg struct {
	screen screen.Screen
	err    error
}

// ResumeScreen offers to resume a saved checkpoint or start fresh.
type ResumeScreen struct {
	title   string
	detail  string
	load    Loader
	menu    components.Menu
	loading bool
	errMsg  string
}

var _ screen.Screen = (*ResumeScreen)(nil)
var _ screen.KeyHintProvider = (*ResumeScreen)(nil)

// New creates a ResumeScreen. detail describes the saved checkpoint.
func New(title, detail string, load Loader) *ResumeScreen {
	s := &ResumeScreen{title: title, detail: detail, load: load}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Resume previous session", Action: func() tea.Cmd { return s.choose(true) }},
		{Label: "Start fresh", Action: func() tea.Cmd { return s.choose(false) }},
	})
	return s
}

func (s *ResumeScreen) Init() tea.Cmd { return nil }

func (s *ResumeScreen) Title() string { return s.title }

func (s *ResumeScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Y/N", Description: "Resume / Fresh"},
	}
}

func (s *ResumeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		next := msg.screen
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyPressMsg:
		if s.errMsg != "" {
			return s, tea.Quit
		}
		if s.loading {
			return s, nil
		}
		switch msg.String() {
		case "y", "Y":
			return s, s.choose(true)
		case "n", "N":
			return s, s.choose(false)
		case "esc", "q":
			return s, tea.Quit
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ResumeScreen) choose(resume bool) tea.Cmd {
	s.loading = true
	load := s.load
	return func() tea.Msg {
		scr, err := load(resume)
		return loadedMsg{screen: scr, err: err}
	}
}

func (s *ResumeScreen) View(width, height int) string {
	var parts []string
	switch {
	case s.errMsg != "":
		parts = append(parts, theme.Incorrect.Render("Could not start the session"), "", theme.Body.Render(s.errMsg))
	case s.loading:
		parts = append(parts, theme.Hint.Render("Loading..."))
	default:
		parts = append(parts, theme.Question.Render("Resume previous session?"))
		if s.detail != "" {
			parts = append(parts, theme.Hint.Render(s.detail))
		}
		parts = append(parts, "", strings.TrimRight(s.menu.View(), "\n"))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Card.Render(content))
}
