// Package session drives one review pass over a queue of entries: grading
// submissions, requeueing misses and checkpointing progress.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/rappel/internal/answer"
	"github.com/abhisek/rappel/internal/deck"
	"github.com/abhisek/rappel/internal/diff"
	"github.com/abhisek/rappel/internal/journal"
	"github.com/abhisek/rappel/internal/queue"
)

// Checkpointer persists the queue between entries.
type Checkpointer interface {
	Save(items []deck.Entry, cursor int) error
	Clear() error
}

// Reporter records an entry flagged as wrong by the learner.
type Reporter interface {
	Report(id string) error
}

// Favoriter marks an entry as a favorite.
type Favoriter interface {
	Add(id string) error
}

// StatsRecorder accumulates usage statistics.
type StatsRecorder interface {
	RecordGraded(correct, total int) error
	RecordReviewed() error
	RecordSessionEnd(mode journal.Mode) error
}

// Fetcher re-reads entries from the record store.
type Fetcher interface {
	FetchByUUIDs(ctx context.Context, ids []string) ([]deck.Entry, error)
}

// Config wires a session to its collaborators. Nil collaborators are
// skipped.
type Config struct {
	Mode       journal.Mode
	Checkpoint Checkpointer
	Reports    Reporter
	Favorites  Favoriter
	Stats      StatsRecorder
	Logger     *slog.Logger
}

// Session is the review state machine. It is not safe for concurrent use;
// callers apply actions from a single goroutine.
type Session struct {
	cfg    Config
	logger *slog.Logger
	queue  *queue.Queue
	phase  Phase

	solved   int
	attempts int
	skips    int
	correct  int
	answered int
}

// New starts a session over items.
func New(items []deck.Entry, cfg Config) *Session {
	return newSession(queue.New(items), cfg)
}

// Resume starts a session from a checkpoint.
func Resume(items []deck.Entry, cursor int, cfg Config) *Session {
	return newSession(queue.Restore(items, cursor), cfg)
}

func newSession(q *queue.Queue, cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Session{cfg: cfg, logger: logger, queue: q}
	if q.IsEmpty() {
		s.phase = PhaseComplete
	}
	return s
}

// Start checkpoints the first entry. It returns a *PersistenceError when
// the save fails.
func (s *Session) Start() error {
	if s.phase == PhaseComplete {
		return nil
	}
	s.logger.Info("session started", "mode", s.cfg.Mode, "entries", s.queue.Len())
	return s.save()
}

// Mode returns the session mode.
func (s *Session) Mode() journal.Mode { return s.cfg.Mode }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Current returns the entry on display. ok is false once complete.
func (s *Session) Current() (deck.Entry, bool) {
	e, err := s.queue.Current()
	return e, err == nil
}

// Progress returns the solved share of the initial queue, 0 to 100.
func (s *Session) Progress() int { return s.queue.ProgressPercent() }

// Remaining returns the number of entries left.
func (s *Session) Remaining() int { return s.queue.Len() }

// Submit grades answers against the current entry. A *ValidationError
// leaves the session untouched. On success the entry is removed; on any
// wrong answer it moves to the back of the queue.
func (s *Session) Submit(answers []string) (Outcome, error) {
	if s.cfg.Mode != journal.ModeQuiz {
		return Outcome{}, ErrWrongMode
	}
	e, err := s.awaiting()
	if err != nil {
		return Outcome{}, err
	}
	if err := validate(e, answers); err != nil {
		return Outcome{}, err
	}

	s.phase = PhaseEvaluating
	submitted := make([]string, len(answers))
	for i, a := range answers {
		submitted[i] = strings.TrimSpace(a)
	}

	res := answer.Check(submitted, e.Answers)
	out := Outcome{Entry: e, Result: res}
	s.attempts++
	s.correct += res.CorrectCount
	s.answered += res.Total

	if s.cfg.Stats != nil {
		if err := s.cfg.Stats.RecordGraded(res.CorrectCount, res.Total); err != nil {
			out.Warnings = append(out.Warnings, err)
		}
	}

	if res.AllCorrect() {
		out.Cue = CueSuccess
		s.solved++
		s.queue.RecordOutcome(true)
	} else {
		out.Cue = CueFailure
		out.ReplayMedia = e.MediaPath
		for _, i := range res.Incorrect() {
			out.Diffs = append(out.Diffs, AnswerDiff{
				Index:     i,
				Submitted: submitted[i],
				Expected:  e.Answers[i],
				Diff:      diff.Compute(submitted[i], e.Answers[i]),
			})
		}
		s.queue.RecordOutcome(false)
	}
	s.logger.Debug("submission graded", "entry", e.ID, "correct", res.CorrectCount, "total", res.Total)

	s.advance(&out)
	return out, nil
}

// Skip requeues the current entry without grading. The caller reveals
// Outcome.Entry's answers before showing the next entry.
func (s *Session) Skip() (Outcome, error) {
	e, err := s.awaiting()
	if err != nil {
		return Outcome{}, err
	}
	s.phase = PhaseEvaluating
	s.skips++
	s.queue.RecordOutcome(false)
	s.logger.Debug("entry skipped", "entry", e.ID)

	out := Outcome{Entry: e, Skipped: true}
	s.advance(&out)
	return out, nil
}

// Handled removes the current entry in revise mode.
func (s *Session) Handled() (Outcome, error) {
	if s.cfg.Mode != journal.ModeRevise {
		return Outcome{}, ErrWrongMode
	}
	e, err := s.awaiting()
	if err != nil {
		return Outcome{}, err
	}
	s.phase = PhaseEvaluating
	s.solved++
	s.queue.RecordOutcome(true)

	out := Outcome{Entry: e}
	if s.cfg.Stats != nil {
		if err := s.cfg.Stats.RecordReviewed(); err != nil {
			out.Warnings = append(out.Warnings, err)
		}
	}
	s.advance(&out)
	return out, nil
}

// Report flags entry id as wrong. It does not change the queue.
func (s *Session) Report(id string) error {
	if s.cfg.Reports == nil {
		return nil
	}
	if err := s.cfg.Reports.Report(id); err != nil {
		return &PersistenceError{Op: "report entry", Err: err}
	}
	s.logger.Info("entry reported", "entry", id)
	return nil
}

// Favorite marks the current entry as a favorite.
func (s *Session) Favorite() error {
	e, ok := s.Current()
	if !ok || s.cfg.Favorites == nil {
		return nil
	}
	return s.cfg.Favorites.Add(e.ID)
}

// Refresh re-reads every queued entry from the store, dropping entries that
// no longer exist. It returns the number dropped.
func (s *Session) Refresh(ctx context.Context, f Fetcher) (int, Outcome, error) {
	if s.phase == PhaseComplete {
		return 0, Outcome{}, ErrNotAwaitingInput
	}
	items := s.queue.Items()
	ids := make([]string, len(items))
	for i, e := range items {
		ids[i] = e.ID
	}
	fresh, err := f.FetchByUUIDs(ctx, ids)
	if err != nil {
		return 0, Outcome{}, &PersistenceError{Op: "refresh entries", Err: err}
	}
	s.queue.Replace(fresh)
	dropped := len(items) - len(fresh)
	s.logger.Info("entries refreshed", "kept", len(fresh), "dropped", dropped)

	var out Outcome
	s.advance(&out)
	return dropped, out, nil
}

// Close checkpoints an unfinished session.
func (s *Session) Close() error {
	if s.phase == PhaseComplete {
		return nil
	}
	return s.save()
}

// Summary returns the session totals so far.
func (s *Session) Summary() Summary {
	return Summary{
		Initial:        s.queue.Initial(),
		Remaining:      s.queue.Len(),
		Solved:         s.solved,
		Attempts:       s.attempts,
		Skips:          s.skips,
		CorrectAnswers: s.correct,
		TotalAnswers:   s.answered,
		Complete:       s.phase == PhaseComplete,
	}
}

func (s *Session) awaiting() (deck.Entry, error) {
	if s.phase != PhaseAwaitingInput {
		return deck.Entry{}, ErrNotAwaitingInput
	}
	e, err := s.queue.Current()
	if err != nil {
		return deck.Entry{}, ErrNotAwaitingInput
	}
	return e, nil
}

// advance checkpoints the next entry or completes the session.
func (s *Session) advance(out *Outcome) {
	if !s.queue.IsEmpty() {
		s.phase = PhaseAwaitingInput
		out.SaveErr = s.save()
		return
	}

	s.phase = PhaseComplete
	out.Complete = true
	if s.cfg.Checkpoint != nil {
		if err := s.cfg.Checkpoint.Clear(); err != nil {
			out.SaveErr = &PersistenceError{Op: "clear checkpoint", Err: err}
		}
	}
	if s.cfg.Stats != nil {
		if err := s.cfg.Stats.RecordSessionEnd(s.cfg.Mode); err != nil {
			out.Warnings = append(out.Warnings, err)
		}
	}
	s.logger.Info("session complete", "solved", s.solved, "attempts", s.attempts)
}

func (s *Session) save() error {
	if s.cfg.Checkpoint == nil {
		return nil
	}
	if err := s.cfg.Checkpoint.Save(s.queue.Items(), s.queue.Cursor()); err != nil {
		s.logger.Error("checkpoint save failed", "err", err)
		return &PersistenceError{Op: "save checkpoint", Err: err}
	}
	return nil
}

func validate(e deck.Entry, answers []string) error {
	if len(e.Answers) == 0 {
		return &ValidationError{Reason: "this entry has no stored answer"}
	}
	if len(answers) != len(e.Answers) {
		return &ValidationError{Reason: fmt.Sprintf("expected %d answers, got %d", len(e.Answers), len(answers))}
	}
	for i, a := range answers {
		if strings.TrimSpace(a) == "" {
			return &ValidationError{Reason: fmt.Sprintf("answer %d is empty", i+1)}
		}
	}
	return nil
}
