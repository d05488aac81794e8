// Package review implements the quiz and revise screens.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/rappel/internal/deck"
	"github.com/abhisek/rappel/internal/journal"
	"github.com/abhisek/rappel/internal/media"
	"github.com/abhisek/rappel/internal/router"
	"github.com/abhisek/rappel/internal/screen"
	"github.com/abhisek/rappel/internal/screens/summary"
	"github.com/abhisek/rappel/internal/session"
	"github.com/abhisek/rappel/internal/ui/components"
	"github.com/abhisek/rappel/internal/ui/layout"
)

// Player plays media files. Play blocks until playback ends.
type Player interface {
	Play(ctx context.Context, path string) error
	Stop()
}

// Options configures a ReviewScreen.
type Options struct {
	Session *session.Session
	// Fetcher backs the refresh action. Nil disables it.
	Fetcher session.Fetcher
	// Player plays entry media and cues. Nil disables audio.
	Player Player
	// SuccessCue and FailureCue are played after grading when present.
	SuccessCue string
	FailureCue string
	// CompleteCue is played when the queue empties.
	CompleteCue string
	// Autoplay advances revise mode when the entry media finishes.
	Autoplay bool
	Logger   *slog.Logger
}

// ReviewScreen presents the session's entries one at a time.
type ReviewScreen struct {
	opts   Options
	sess   *session.Session
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	entry  deck.Entry
	inputs []components.TextInput
	focus  int

	feedback  *session.Outcome
	reported  bool
	revealing *deck.Entry

	notice     string
	noticeID   int
	blocking   string
	warning    string
	validation string

	confirmQuit   bool
	pendingFinish bool
	playGen       int
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)
var _ screen.StatusProvider = (*ReviewScreen)(nil)
var _ screen.Closer = (*ReviewScreen)(nil)

// New creates a ReviewScreen over opts.Session.
func New(opts Options) *ReviewScreen {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ReviewScreen{
		opts:   opts,
		sess:   opts.Session,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *ReviewScreen) Init() tea.Cmd {
	if err := s.sess.Start(); err != nil {
		s.blocking = saveErrorText(err)
	}
	return s.present()
}

func (s *ReviewScreen) Title() string {
	if s.sess.Mode() == journal.ModeRevise {
		return "Revise"
	}
	return "Review"
}

func (s *ReviewScreen) Status() string {
	return fmt.Sprintf("%d%%  %d left", s.sess.Progress(), s.sess.Remaining())
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Save and quit"},
			{Key: "N", Description: "Keep going"},
		}
	case s.blocking != "":
		return []layout.KeyHint{{Key: "any key", Description: "Dismiss"}}
	case s.feedback != nil:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "R", Description: "Report error"},
			{Key: "Ctrl+P", Description: "Replay"},
		}
	case s.revealing != nil:
		return nil
	}
	hints := []layout.KeyHint{{Key: "Enter", Description: "Submit"}}
	if s.sess.Mode() == journal.ModeRevise {
		hints[0].Description = "Next"
	} else {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Next blank"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+S", Description: "Skip"},
		layout.KeyHint{Key: "Ctrl+P", Description: "Replay"},
		layout.KeyHint{Key: "Ctrl+F", Description: "Favorite"},
		layout.KeyHint{Key: "Ctrl+E", Description: "Report"},
		layout.KeyHint{Key: "Ctrl+R", Description: "Refresh"},
		layout.KeyHint{Key: "Esc", Description: "Quit"},
	)
}

// Close stops playback and checkpoints an unfinished session.
func (s *ReviewScreen) Close() error {
	s.stopPlayback()
	return s.sess.Close()
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case playbackEndedMsg:
		return s.handlePlaybackEnded(msg)

	case replayMsg:
		if msg.gen != s.playGen || s.feedback == nil {
			return s, nil
		}
		return s, s.play(msg.path, false)

	case revealDoneMsg:
		s.revealing = nil
		return s, s.next()

	case noticeDoneMsg:
		if msg.id == s.noticeID {
			s.notice = ""
		}
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	return s, s.updateFocused(msg)
}

func (s *ReviewScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.blocking != "" {
		s.blocking = ""
		if s.pendingFinish {
			return s, s.finish()
		}
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			return s, s.quit()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if s.revealing != nil {
		return s, nil
	}

	if s.feedback != nil {
		switch key {
		case "enter", "space":
			s.feedback = nil
			return s, s.next()
		case "r", "R":
			s.report(s.feedback.Entry.ID)
			return s, s.noticeTimeout()
		case "ctrl+p":
			return s, s.play(s.feedback.Entry.MediaPath, false)
		case "esc":
			s.confirmQuit = true
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "ctrl+s":
		return s.skip()
	case "ctrl+p":
		return s, s.play(s.entry.MediaPath, true)
	case "ctrl+f":
		return s.favorite()
	case "ctrl+e":
		s.report(s.entry.ID)
		return s, s.noticeTimeout()
	case "ctrl+r":
		return s.refresh()
	case "enter":
		if s.sess.Mode() == journal.ModeRevise {
			return s.handled()
		}
		if s.focus < len(s.inputs)-1 {
			return s, s.setFocus(s.focus + 1)
		}
		return s.submit()
	case "tab", "down":
		return s, s.setFocus(s.focus + 1)
	case "shift+tab", "up":
		return s, s.setFocus(s.focus - 1)
	}

	return s, s.updateFocused(msg)
}

func (s *ReviewScreen) updateFocused(msg tea.Msg) tea.Cmd {
	if s.focus < 0 || s.focus >= len(s.inputs) {
		return nil
	}
	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return cmd
}

func (s *ReviewScreen) setFocus(i int) tea.Cmd {
	if len(s.inputs) == 0 {
		return nil
	}
	i = (i + len(s.inputs)) % len(s.inputs)
	for k := range s.inputs {
		s.inputs[k].Blur()
	}
	s.focus = i
	return s.inputs[i].Focus()
}

// present shows the session's current entry.
func (s *ReviewScreen) present() tea.Cmd {
	e, ok := s.sess.Current()
	if !ok {
		if s.blocking != "" {
			s.pendingFinish = true
			return nil
		}
		return s.finish()
	}

	s.entry = e
	s.warning = ""
	s.validation = ""
	s.reported = false
	s.inputs = nil
	s.focus = 0
	s.stopPlayback()

	var focusCmd tea.Cmd
	if s.sess.Mode() == journal.ModeQuiz {
		n := e.BlankCount()
		s.inputs = make([]components.TextInput, n)
		for i := range s.inputs {
			s.inputs[i] = components.NewTextInput(fmt.Sprintf("%d.", i+1), "answer", 40)
		}
		focusCmd = s.setFocus(0)
	}

	return tea.Batch(focusCmd, s.playEntry())
}

// next presents the next entry once any blocking notice is gone.
func (s *ReviewScreen) next() tea.Cmd {
	if s.sess.Phase() == session.PhaseComplete {
		if s.blocking != "" {
			s.pendingFinish = true
			return nil
		}
		return s.finish()
	}
	return s.present()
}

func (s *ReviewScreen) finish() tea.Cmd {
	s.stopPlayback()
	sum := summary.New(s.sess.Summary(), s.sess.Mode())
	replace := func() tea.Msg { return router.ReplaceScreenMsg{Screen: sum} }
	if cue := s.cue(s.opts.CompleteCue); cue != nil {
		return tea.Batch(cue, replace)
	}
	return replace
}

func (s *ReviewScreen) quit() tea.Cmd {
	if err := s.Close(); err != nil {
		s.logger.Error("save on quit", "err", err)
	}
	s.cancel()
	return tea.Quit
}

func (s *ReviewScreen) submit() (screen.Screen, tea.Cmd) {
	values := make([]string, len(s.inputs))
	for i, in := range s.inputs {
		values[i] = in.Value()
	}

	out, err := s.sess.Submit(values)
	if err != nil {
		var vErr *session.ValidationError
		if errors.As(err, &vErr) {
			s.validation = vErr.Reason
		}
		return s, nil
	}
	s.validation = ""
	s.absorb(out)

	for i, ok := range out.Result.Correct {
		if i < len(s.inputs) {
			s.inputs[i].Submit(ok)
		}
	}

	if out.Result.AllCorrect() {
		next := s.next()
		return s, tea.Batch(s.showNotice("Correct!"), tea.Sequence(s.cue(s.opts.SuccessCue), next))
	}

	s.feedback = &out
	cmds := []tea.Cmd{s.cue(s.opts.FailureCue)}
	if out.ReplayMedia != "" && s.opts.Player != nil {
		gen, path := s.playGen, out.ReplayMedia
		cmds = append(cmds, tea.Tick(replayDelay, func(time.Time) tea.Msg {
			return replayMsg{gen: gen, path: path}
		}))
	}
	return s, tea.Batch(cmds...)
}

func (s *ReviewScreen) skip() (screen.Screen, tea.Cmd) {
	out, err := s.sess.Skip()
	if err != nil {
		return s, nil
	}
	s.absorb(out)
	e := out.Entry
	s.revealing = &e
	s.stopPlayback()
	return s, tea.Tick(revealDuration, func(time.Time) tea.Msg { return revealDoneMsg{} })
}

func (s *ReviewScreen) handled() (screen.Screen, tea.Cmd) {
	out, err := s.sess.Handled()
	if err != nil {
		return s, nil
	}
	s.absorb(out)
	return s, s.next()
}

func (s *ReviewScreen) favorite() (screen.Screen, tea.Cmd) {
	err := s.sess.Favorite()
	switch {
	case errors.Is(err, journal.ErrAlreadyFavorite):
		return s, s.showNotice("Already a favorite")
	case err != nil:
		s.blocking = fmt.Sprintf("Could not add to favorites: %v", err)
		return s, nil
	}
	return s, s.showNotice("Added to favorites")
}

func (s *ReviewScreen) report(id string) {
	if s.reported {
		return
	}
	if err := s.sess.Report(id); err != nil {
		s.blocking = fmt.Sprintf("Could not report the entry: %v", err)
		return
	}
	s.reported = true
	s.noticeID++
	s.notice = "Reported as wrong"
}

func (s *ReviewScreen) refresh() (screen.Screen, tea.Cmd) {
	if s.opts.Fetcher == nil {
		return s, nil
	}
	dropped, out, err := s.sess.Refresh(s.ctx, s.opts.Fetcher)
	if err != nil {
		s.blocking = fmt.Sprintf("Could not refresh: %v", err)
		return s, nil
	}
	s.absorb(out)
	msg := "Entries refreshed"
	if dropped > 0 {
		msg = fmt.Sprintf("Entries refreshed, %d removed", dropped)
	}
	return s, tea.Batch(s.showNotice(msg), s.next())
}

// absorb surfaces the side effects of an outcome.
func (s *ReviewScreen) absorb(out session.Outcome) {
	if out.SaveErr != nil {
		s.blocking = saveErrorText(out.SaveErr)
	}
	for _, w := range out.Warnings {
		s.logger.Warn("session warning", "err", w)
	}
}

func (s *ReviewScreen) showNotice(text string) tea.Cmd {
	s.noticeID++
	s.notice = text
	return s.noticeTimeout()
}

func (s *ReviewScreen) noticeTimeout() tea.Cmd {
	id := s.noticeID
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg { return noticeDoneMsg{id: id} })
}

func (s *ReviewScreen) playEntry() tea.Cmd {
	if s.entry.MediaPath == "" || s.opts.Player == nil {
		return nil
	}
	if err := media.Check(s.entry.MediaPath); err != nil {
		s.warning = fmt.Sprintf("Media unavailable: %s", s.entry.MediaPath)
		s.logger.Warn("media unavailable", "entry", s.entry.ID, "err", err)
		return nil
	}
	return s.play(s.entry.MediaPath, true)
}

func (s *ReviewScreen) cue(path string) tea.Cmd {
	if path == "" || s.opts.Player == nil {
		return nil
	}
	if err := media.Check(path); err != nil {
		s.logger.Debug("cue unavailable", "path", path)
		return nil
	}
	return s.play(path, false)
}

// play starts playback in the background. The player stops whatever was
// playing. Entry playback starts a new generation so completions of
// superseded entries are ignored.
func (s *ReviewScreen) play(path string, entry bool) tea.Cmd {
	if path == "" || s.opts.Player == nil {
		return nil
	}
	if entry {
		s.playGen++
	}
	gen, ctx, player := s.playGen, s.ctx, s.opts.Player
	return func() tea.Msg {
		return playbackEndedMsg{gen: gen, entry: entry, err: player.Play(ctx, path)}
	}
}

func (s *ReviewScreen) stopPlayback() {
	s.playGen++
	if s.opts.Player != nil {
		s.opts.Player.Stop()
	}
}

func (s *ReviewScreen) handlePlaybackEnded(msg playbackEndedMsg) (screen.Screen, tea.Cmd) {
	if msg.err != nil && !errors.Is(msg.err, media.ErrStopped) {
		s.logger.Warn("playback failed", "err", msg.err)
		if msg.gen == s.playGen {
			s.warning = fmt.Sprintf("Playback failed: %v", msg.err)
		}
		return s, nil
	}
	if msg.gen != s.playGen || !msg.entry || msg.err != nil {
		return s, nil
	}
	if s.opts.Autoplay && s.sess.Mode() == journal.ModeRevise &&
		s.blocking == "" && !s.confirmQuit && s.revealing == nil {
		return s.handled()
	}
	return s, nil
}

func saveErrorText(err error) string {
	return fmt.Sprintf("Progress could not be saved: %v\n\nYour answers are kept in memory; the session continues.", err)
}
