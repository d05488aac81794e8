package review

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/rappel/internal/deck"
	"github.com/abhisek/rappel/internal/journal"
	"github.com/abhisek/rappel/internal/router"
	"github.com/abhisek/rappel/internal/screen"
	"github.com/abhisek/rappel/internal/session"
)

type fakePlayer struct {
	mu    sync.Mutex
	paths []string
	stops int
}

func (p *fakePlayer) Play(_ context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, path)
	return nil
}

func (p *fakePlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
}

type fakeCheckpoint struct {
	saves   int
	clears  int
	saveErr error
}

func (f *fakeCheckpoint) Save([]deck.Entry, int) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	return nil
}

func (f *fakeCheckpoint) Clear() error { f.clears++; return nil }

type fakeReporter struct{ ids []string }

func (f *fakeReporter) Report(id string) error { f.ids = append(f.ids, id); return nil }

type fakeFavorites struct{ ids map[string]bool }

func (f *fakeFavorites) Add(id string) error {
	if f.ids[id] {
		return journal.ErrAlreadyFavorite
	}
	f.ids[id] = true
	return nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func sampleEntries() []deck.Entry {
	return []deck.Entry{
		{ID: "1", Question: "Paris est la capitale de la (?)", Answers: []string{"France"}},
		{ID: "2", Question: "2+2=(?)", Answers: []string{"4"}},
	}
}

type fixture struct {
	screen     *ReviewScreen
	checkpoint *fakeCheckpoint
	reporter   *fakeReporter
	favorites  *fakeFavorites
}

func newFixture(t *testing.T, mode journal.Mode, items []deck.Entry) *fixture {
	t.Helper()
	f := &fixture{
		checkpoint: &fakeCheckpoint{},
		reporter:   &fakeReporter{},
		favorites:  &fakeFavorites{ids: map[string]bool{}},
	}
	sess := session.New(items, session.Config{
		Mode:       mode,
		Checkpoint: f.checkpoint,
		Reports:    f.reporter,
		Favorites:  f.favorites,
	})
	f.screen = New(Options{Session: sess})
	f.screen.Init()
	return f
}

func update(t *testing.T, s *ReviewScreen, msg tea.Msg) tea.Cmd {
	t.Helper()
	scr, cmd := s.Update(msg)
	if scr != screen.Screen(s) {
		t.Fatalf("Update returned a different screen %T", scr)
	}
	return cmd
}

func TestReviewScreen_Title(t *testing.T) {
	f := newFixture(t, journal.ModeQuiz, sampleEntries())
	if f.screen.Title() != "Review" {
		t.Errorf("Title = %q, want %q", f.screen.Title(), "Review")
	}
	r := newFixture(t, journal.ModeRevise, sampleEntries())
	if r.screen.Title() != "Revise" {
		t.Errorf("Title = %q, want %q", r.screen.Title(), "Revise")
	}
}

func TestReviewScreen_InitSavesCheckpoint(t *testing.T) {
	f := newFixture(t, journal.ModeQuiz, sampleEntries())
	if f.checkpoint.saves != 1 {
		t.Errorf("saves = %d, want 1", f.checkpoint.saves)
	}
	if len(f.screen.inputs) != 1 {
		t.Errorf("inputs = %d, want 1", len(f.screen.inputs))
	}
	if got := f.screen.Status(); got != "0%  2 left" {
		t.Errorf("Status = %q, want %q", got, "0%  2 left")
	}
}

func TestReviewScreen_CorrectAnswer(t *testing.T) {
	f := newFixture(t, journal.ModeQuiz, sampleEntries())
	s := f.screen

	s.inputs[0].SetValue("  france ")
	update(t, s, specialKey(tea.KeyEnter))

	if s.notice != "Correct!" {
		t.Errorf("notice = %q, want %q", s.notice, "Correct!")
	}
	if s.entry.ID != "2" {
		t.Errorf("entry = %q, want %q", s.entry.ID, "2")
	}
	if s.sess.Remaining() != 1 {
		t.Errorf("remaining = %d, want 1", s.sess.Remaining())
	}

	update(t, s, noticeDoneMsg{id: s.noticeID})
	if s.notice != "" {
		t.Errorf("notice not dismissed: %q", s.notice)
	}
}

func TestReviewScreen_WrongAnswerFeedback(t *testing.T) {
	f := newFixture(t, journal.ModeQuiz, sampleEntries())
	s := f.screen

	s.inputs[0].SetValue("Allemagne")
	update(t, s, specialKey(tea.KeyEnter))

	if s.feedback == nil {
		t.Fatal("expected feedback after a wrong answer")
	}
	if len(s.feedback.Diffs) != 1 {
		t.Fatalf("diffs = %d, want 1", len(s.feedback.Diffs))
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "Not quite") {
		t.Errorf("view missing feedback:\n%s", view)
	}

	update(t, s, keyPress('r'))
	update(t, s, keyPress('r'))
	if len(f.reporter.ids) != 1 || f.reporter.ids[0] != "1" {
		t.Errorf("reports = %v, want [1]", f.reporter.ids)
	}

	update(t, s, specialKey(tea.KeyEnter))
	if s.feedback != nil {
		t.Error("expected feedback to be dismissed")
	}
	if s.entry.ID != "2" {
		t.Errorf("entry = %q, want the next entry", s.entry.ID)
	}
	if s.sess.Remaining() != 2 {
		t.Errorf("remaining = %d, want 2 (requeued)", s.sess.Remaining())
	}
}

func TestReviewScreen_BlankAnswerRejected(t *testing.T) {
	f := newFixture(t, journal.ModeQuiz, sampleEntries())
	s := f.screen

	update(t, s, specialKey(tea.KeyEnter))
	if s.validation == "" {
		t.Error("expected a validation message")
	}
	if s.entry.ID != "1" || s.sess.Remaining() != 2 {
		t.Error("blank submission must not change the session")
	}
}

func TestReviewScreen_MultipleBlanksTabAndSubmit(t *testing.T) {
	items := []deck.Entry{{ID: "1", Question: "(?) et (?)", Answers: []string{"toi", "moi"}}}
	f := newFixture(t, journal.ModeQuiz, items)
	s := f.screen

	if len(s.inputs) != 2 {
		t.Fatalf("inputs = %d, want 2", len(s.inputs))
	}
	s.inputs[0].SetValue("toi")
	update(t, s, specialKey(tea.KeyEnter))
	if s.focus != 1 {
		t.Fatalf("focus = %d, want 1 after enter on first blank", s.focus)
	}
	s.inputs[1].SetValue("moi")
	update(t, s, specialKey(tea.KeyEnter))

	if s.sess.Phase() != session.PhaseComplete {
		t.Errorf("phase = %v, want complete", s.sess.Phase())
	}
	if f.checkpoint.clears != 1 {
		t.Errorf("clears = %d, want 1", f.checkpoint.clears)
	}
}

func TestReviewScreen_SkipReveals(t *testing.T) {
	f := newFixture(t, journal.ModeQuiz, sampleEntries())
	s := f.screen

	cmd := update(t, s, ctrlKey('s'))
	if cmd == nil || s.revealing == nil {
		t.Fatal("expected a reveal after skip")
	}
	if !strings.Contains(s.View(100, 30), "France") {
		t.Error("revealed view should show the answer")
	}

	update(t, s, keyPress('x'))
	if s.revealing == nil {
		t.Error("keys are ignored during the reveal")
	}

	update(t, s, revealDoneMsg{})
	if s.revealing != nil {
		t.Error("expected reveal to end")
	}
	if s.entry.ID != "2" {
		t.Errorf("entry = %q, want %q", s.entry.ID, "2")
	}
	if s.sess.Remaining() != 2 {
		t.Errorf("remaining = %d, want 2", s.sess.Remaining())
	}
}

func TestReviewScreen_Favorite(t *testing.T) {
	f := newFixture(t, journal.ModeQuiz, sampleEntries())
	s := f.screen

	update(t, s, ctrlKey('f'))
	if s.notice != "Added to favorites" {
		t.Errorf("notice = %q", s.notice)
	}
	update(t, s, ctrlKey('f'))
	if s.notice != "Already a favorite" {
		t.Errorf("notice = %q", s.notice)
	}
}

func TestReviewScreen_ReviseCompletes(t *testing.T) {
	f := newFixture(t, journal.ModeRevise, sampleEntries()[:1])
	s := f.screen

	if len(s.inputs) != 0 {
		t.Errorf("revise mode has no inputs, got %d", len(s.inputs))
	}
	cmd := update(t, s, specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command on completion")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Session Summary" {
		t.Errorf("replaced with %q", msg.Screen.Title())
	}
}

// drain runs cmd and any batched commands, returning the messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestReviewScreen_CompletionCue(t *testing.T) {
	done := filepath.Join(t.TempDir(), "complete.mp3")
	if err := os.WriteFile(done, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	player := &fakePlayer{}
	sess := session.New(sampleEntries()[:1], session.Config{Mode: journal.ModeRevise})
	s := New(Options{Session: sess, Player: player, CompleteCue: done})
	s.Init()

	var replaced bool
	for _, msg := range drain(update(t, s, specialKey(tea.KeyEnter))) {
		if _, ok := msg.(router.ReplaceScreenMsg); ok {
			replaced = true
		}
	}
	if !replaced {
		t.Error("expected the summary screen")
	}
	player.mu.Lock()
	defer player.mu.Unlock()
	if len(player.paths) == 0 || player.paths[len(player.paths)-1] != done {
		t.Errorf("played %v, want the completion cue last", player.paths)
	}
}

func TestReviewScreen_QuitSaves(t *testing.T) {
	f := newFixture(t, journal.ModeQuiz, sampleEntries())
	s := f.screen

	update(t, s, specialKey(tea.KeyEscape))
	if !s.confirmQuit {
		t.Fatal("expected quit confirmation")
	}
	update(t, s, keyPress('n'))
	if s.confirmQuit {
		t.Fatal("expected confirmation to be dismissed")
	}

	update(t, s, specialKey(tea.KeyEscape))
	cmd := update(t, s, keyPress('y'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if f.checkpoint.saves != 2 {
		t.Errorf("saves = %d, want 2", f.checkpoint.saves)
	}
}

func TestReviewScreen_SaveFailureBlocks(t *testing.T) {
	cp := &fakeCheckpoint{saveErr: errors.New("disk full")}
	sess := session.New(sampleEntries(), session.Config{Mode: journal.ModeQuiz, Checkpoint: cp})
	s := New(Options{Session: sess})
	s.Init()

	if !strings.Contains(s.blocking, "disk full") {
		t.Fatalf("blocking = %q", s.blocking)
	}
	if !strings.Contains(s.View(100, 30), "disk full") {
		t.Error("view should show the blocking notice")
	}

	update(t, s, keyPress('x'))
	if s.blocking != "" {
		t.Error("any key dismisses the notice")
	}
	if s.entry.ID != "1" {
		t.Error("session continues after a failed save")
	}
}

func TestReviewScreen_AutoplayAdvancesRevise(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "clip.mp3")
	if err := os.WriteFile(clip, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	items := []deck.Entry{
		{ID: "1", Question: "un", Answers: []string{"one"}, MediaPath: clip},
		{ID: "2", Question: "deux", Answers: []string{"two"}, MediaPath: clip},
	}
	player := &fakePlayer{}
	sess := session.New(items, session.Config{Mode: journal.ModeRevise})
	s := New(Options{Session: sess, Player: player, Autoplay: true})

	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected playback to start")
	}

	stale := s.playGen - 1
	update(t, s, playbackEndedMsg{gen: stale, entry: true})
	if s.entry.ID != "1" {
		t.Fatal("stale playback must not advance")
	}

	update(t, s, playbackEndedMsg{gen: s.playGen, entry: true})
	if s.entry.ID != "2" {
		t.Errorf("entry = %q, want autoplay to advance", s.entry.ID)
	}
}

func TestReviewScreen_MissingMediaWarns(t *testing.T) {
	items := []deck.Entry{{ID: "1", Question: "q", Answers: []string{"a"}, MediaPath: "/nope/gone.mp3"}}
	sess := session.New(items, session.Config{Mode: journal.ModeQuiz})
	s := New(Options{Session: sess, Player: &fakePlayer{}})
	s.Init()

	if !strings.Contains(s.warning, "Media unavailable") {
		t.Errorf("warning = %q", s.warning)
	}
}

func TestReviewScreen_KeyHints(t *testing.T) {
	f := newFixture(t, journal.ModeQuiz, sampleEntries())
	if len(f.screen.KeyHints()) == 0 {
		t.Error("expected non-empty key hints")
	}
	f.screen.confirmQuit = true
	if got := f.screen.KeyHints(); len(got) != 2 {
		t.Errorf("quit hints = %d, want 2", len(got))
	}
}
