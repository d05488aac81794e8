// Package fill implements the screen for filling in missing answers.
package fill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/rappel/internal/authoring"
	"github.com/abhisek/rappel/internal/media"
	"github.com/abhisek/rappel/internal/screen"
	"github.com/abhisek/rappel/internal/ui/components"
	"github.com/abhisek/rappel/internal/ui/layout"
)

type mode int

const (
	modeBrowse mode = iota
	modeEdit
	modeSelect
	modeGoto
	modeDiscard
	modeConfirmDelete
	modeCommitting
	modeDone
)

// Player previews draft media.
type Player interface {
	Play(ctx context.Context, path string) error
	Stop()
}

// Options configures a FillScreen.
type Options struct {
	Batch    *authoring.Batch
	Inserter authoring.Inserter
	Preparer authoring.Preparer
	Player   Player
	Logger   *slog.Logger
}

// FillScreen walks through a batch of drafts.
type FillScreen struct {
	opts   Options
	batch  *authoring.Batch
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mode   mode
	fields []components.TextInput
	focus  int

	message string
	errMsg  string
}

var _ screen.Screen = (*FillScreen)(nil)
var _ screen.KeyHintProvider = (*FillScreen)(nil)
var _ screen.StatusProvider = (*FillScreen)(nil)
var _ screen.Closer = (*FillScreen)(nil)

// New creates a FillScreen over opts.Batch.
func New(opts Options) *FillScreen {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &FillScreen{
		opts:   opts,
		batch:  opts.Batch,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *FillScreen) Init() tea.Cmd {
	s.save()
	return nil
}

func (s *FillScreen) Title() string { return "Fill Missing Answers" }

func (s *FillScreen) Status() string {
	return fmt.Sprintf("%d/%d  %d missing", s.batch.Index()+1, s.batch.Len(), s.batch.MissingCount())
}

func (s *FillScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeEdit:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeSelect, modeGoto, modeDiscard:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Confirm"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeConfirmDelete:
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Keep"},
		}
	case modeCommitting:
		return nil
	case modeDone:
		return []layout.KeyHint{{Key: "any key", Description: "Exit"}}
	}
	return []layout.KeyHint{
		{Key: "←→", Description: "Prev/Next"},
		{Key: "E", Description: "Edit"},
		{Key: "S", Description: "Select answer"},
		{Key: "G", Description: "Go to"},
		{Key: "X", Description: "Reset"},
		{Key: "D", Description: "Delete"},
		{Key: "M", Description: "Drop media"},
		{Key: "C", Description: "Commit"},
		{Key: "Esc", Description: "Save & quit"},
	}
}

// Close checkpoints the batch unless it was committed or discarded. A
// commit in flight owns the checkpoint; every earlier change is already
// saved.
func (s *FillScreen) Close() error {
	if s.opts.Player != nil {
		s.opts.Player.Stop()
	}
	s.cancel()
	if s.mode == modeDone || s.mode == modeCommitting {
		return nil
	}
	return s.batch.Save()
}

func (s *FillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case commitDoneMsg:
		return s.handleCommitDone(msg)

	case playbackEndedMsg:
		if msg.err != nil && !errors.Is(msg.err, media.ErrStopped) {
			s.errMsg = fmt.Sprintf("Playback failed: %v", msg.err)
		}
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	return s, s.updateFocused(msg)
}

func (s *FillScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch s.mode {
	case modeCommitting:
		return s, nil
	case modeDone:
		return s, tea.Quit
	case modeConfirmDelete:
		return s.handleConfirmDelete(msg)
	case modeEdit, modeSelect, modeGoto, modeDiscard:
		return s.handleForm(msg)
	}
	return s.handleBrowse(msg)
}

func (s *FillScreen) handleBrowse(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	s.message, s.errMsg = "", ""

	switch msg.String() {
	case "right", "l", "n":
		s.batch.Next()
		s.save()
	case "left", "h", "p":
		s.batch.Prev()
		s.save()
	case "e", "enter":
		return s, s.openEdit()
	case "s":
		return s, s.openForm(modeSelect, components.NewTextInput("Answer text:", "part of the question", 50))
	case "g":
		return s, s.openForm(modeGoto, components.NewTextInput("Draft number:", fmt.Sprintf("1-%d", s.batch.Len()), 10))
	case "D":
		return s, s.openForm(modeDiscard, components.NewTextInput("Type DELETE to discard:", "", 20))
	case "x":
		s.batch.Reset()
		s.message = "Draft reset"
		s.save()
	case "d":
		s.mode = modeConfirmDelete
	case "m":
		s.batch.RemoveMedia()
		s.message = "Media removed"
		s.save()
	case "ctrl+p":
		return s, s.play()
	case "c":
		return s, s.commit()
	case "esc", "q":
		if err := s.Close(); err != nil {
			s.logger.Error("save drafts on quit", "err", err)
		}
		return s, tea.Quit
	}
	return s, nil
}

func (s *FillScreen) handleConfirmDelete(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		s.mode = modeBrowse
		if err := s.batch.Delete(); err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		s.message = "Draft deleted"
		s.save()
	case "n", "N", "esc":
		s.mode = modeBrowse
	}
	return s, nil
}

func (s *FillScreen) handleForm(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.closeForm()
		return s, nil
	case "tab", "down":
		return s, s.setFocus(s.focus + 1)
	case "shift+tab", "up":
		return s, s.setFocus(s.focus - 1)
	case "enter":
		return s.applyForm()
	}
	return s, s.updateFocused(msg)
}

func (s *FillScreen) applyForm() (screen.Screen, tea.Cmd) {
	var err error
	switch s.mode {
	case modeEdit:
		err = s.batch.Edit(s.fields[0].Value(), s.fields[1].Value(), s.fields[2].Value(), s.fields[3].Value())
		if err == nil {
			s.message = "Draft updated"
		}
	case modeSelect:
		err = s.batch.Select(s.fields[0].Value())
		if err == nil {
			s.message = "Answer selected"
		}
	case modeGoto:
		n, convErr := strconv.Atoi(s.fields[0].Value())
		if convErr != nil {
			err = fmt.Errorf("%q is not a number", s.fields[0].Value())
		} else {
			err = s.batch.Goto(n)
		}
	case modeDiscard:
		err = s.batch.Discard(s.fields[0].Value())
		if err == nil {
			s.closeForm()
			s.mode = modeDone
			s.message = "Batch discarded"
			return s, nil
		}
	}
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.closeForm()
	s.save()
	return s, nil
}

func (s *FillScreen) openEdit() tea.Cmd {
	d := s.batch.Current()
	fields := []components.TextInput{
		components.NewTextInput("Question:", "use (?) for blanks", 60),
		components.NewTextInput("Answer:  ", "answers separated by ;", 60),
		components.NewTextInput("Start:   ", "hh:mm:ss", 12),
		components.NewTextInput("End:     ", "hh:mm:ss", 12),
	}
	fields[0].SetValue(d.Question)
	fields[1].SetValue(d.Response)
	fields[2].SetValue(media.FormatOptional(d.StartMs))
	fields[3].SetValue(media.FormatOptional(d.EndMs))
	return s.openForm(modeEdit, fields...)
}

func (s *FillScreen) openForm(m mode, fields ...components.TextInput) tea.Cmd {
	s.mode = m
	s.fields = fields
	s.errMsg = ""
	return s.setFocus(0)
}

func (s *FillScreen) closeForm() {
	s.mode = modeBrowse
	s.fields = nil
	s.focus = 0
}

func (s *FillScreen) setFocus(i int) tea.Cmd {
	if len(s.fields) == 0 {
		return nil
	}
	i = (i + len(s.fields)) % len(s.fields)
	for k := range s.fields {
		s.fields[k].Blur()
	}
	s.focus = i
	return s.fields[i].Focus()
}

func (s *FillScreen) updateFocused(msg tea.Msg) tea.Cmd {
	if s.focus < 0 || s.focus >= len(s.fields) {
		return nil
	}
	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return cmd
}

func (s *FillScreen) commit() tea.Cmd {
	if i, ok := s.batch.FirstMissing(); ok {
		_ = s.batch.Goto(i + 1)
		s.errMsg = (&authoring.MissingAnswerError{Index: i}).Error()
		return nil
	}
	s.mode = modeCommitting
	s.message = "Saving entries..."
	run, ctx := s.batch.Committer(s.opts.Inserter, s.opts.Preparer), s.ctx
	return func() tea.Msg {
		res, err := run(ctx)
		return commitDoneMsg{result: res, err: err}
	}
}

func (s *FillScreen) handleCommitDone(msg commitDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.err != nil {
		s.mode = modeBrowse
		s.message = ""
		s.errMsg = msg.err.Error()
		if i, ok := authoring.FailedIndex(msg.err); ok {
			_ = s.batch.Goto(i + 1)
		}
		s.logger.Error("commit drafts", "err", msg.err)
		s.save()
		return s, nil
	}
	s.mode = modeDone
	s.message = fmt.Sprintf("Saved %d entries", msg.result.Inserted)
	if msg.result.Duplicates > 0 {
		s.message += fmt.Sprintf(", %d already stored", msg.result.Duplicates)
	}
	return s, nil
}

func (s *FillScreen) play() tea.Cmd {
	path := s.batch.Current().AudioPath
	if path == "" || s.opts.Player == nil {
		return nil
	}
	if err := media.Check(path); err != nil {
		s.errMsg = fmt.Sprintf("Media unavailable: %s", path)
		return nil
	}
	ctx, player := s.ctx, s.opts.Player
	return func() tea.Msg {
		return playbackEndedMsg{err: player.Play(ctx, path)}
	}
}

func (s *FillScreen) save() {
	if err := s.batch.Save(); err != nil {
		s.errMsg = fmt.Sprintf("Progress could not be saved: %v", err)
		s.logger.Error("save drafts", "err", err)
	}
}
