package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/rappel/internal/screen"
)

type initMsg struct{ title string }

// stageScreen records what it receives and counts key presses.
type stageScreen struct {
	title   string
	initRan bool
	keys    int
	next    screen.Screen
}

func (s *stageScreen) Init() tea.Cmd {
	s.initRan = true
	title := s.title
	return func() tea.Msg { return initMsg{title} }
}

func (s *stageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyPressMsg); ok {
		s.keys++
		if s.next != nil {
			next := s.next
			return s, func() tea.Msg { return ReplaceScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

func (s *stageScreen) View(w, h int) string { return s.title }
func (s *stageScreen) Title() string        { return s.title }

func TestReplaceRunsInit(t *testing.T) {
	prompt := &stageScreen{title: "resume"}
	r := New(prompt)

	review := &stageScreen{title: "review"}
	cmd := r.Replace(review)

	require.NotNil(t, cmd)
	assert.Equal(t, initMsg{"review"}, cmd())
	assert.True(t, review.initRan)
	assert.False(t, prompt.initRan, "New does not init the first screen")
	assert.Same(t, review, r.Active())
}

func TestReplaceNilKeepsActive(t *testing.T) {
	first := &stageScreen{title: "review"}
	r := New(first)

	assert.Nil(t, r.Replace(nil))
	assert.Same(t, first, r.Active())
}

func TestUpdateHandsOverBetweenStages(t *testing.T) {
	summary := &stageScreen{title: "summary"}
	review := &stageScreen{title: "review", next: summary}
	r := New(review)

	cmd := r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, 1, review.keys)

	r.Update(cmd())
	assert.Same(t, summary, r.Active())
	assert.True(t, summary.initRan)

	r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, 1, summary.keys)
	assert.Equal(t, 1, review.keys, "replaced screen no longer receives input")
}

func TestViewRendersActive(t *testing.T) {
	r := New(&stageScreen{title: "fill"})
	assert.Equal(t, "fill", r.View(80, 24))

	assert.Empty(t, New(nil).View(80, 24))
	assert.Nil(t, New(nil).Update(tea.KeyPressMsg{Code: tea.KeyEnter}))
}
