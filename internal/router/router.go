// Package router owns the active screen. A run moves through a fixed
// sequence of stages (resume prompt, review or fill, summary), each stage
// handing over to the next with a ReplaceScreenMsg.
package router

import (
	"github.com/abhisek/rappel/internal/screen"

	tea "charm.land/bubbletea/v2"
)

// ReplaceScreenMsg requests the router to swap the active screen.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router holds the active screen.
type Router struct {
	active screen.Screen
}

// New creates a Router showing initial.
func New(initial screen.Screen) *Router {
	return &Router{active: initial}
}

// Replace makes s the active screen and calls its Init(). A nil s is
// ignored.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if s == nil {
		return nil
	}
	r.active = s
	return s.Init()
}

// Active returns the active screen, or nil.
func (r *Router) Active() screen.Screen {
	return r.active
}

// Update forwards a message to the active screen and handles navigation messages.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(ReplaceScreenMsg); ok {
		return r.Replace(msg.Screen)
	}
	if r.active == nil {
		return nil
	}
	updated, cmd := r.active.Update(msg)
	r.active = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	if r.active == nil {
		return ""
	}
	return r.active.View(width, height)
}
