package session

import (
	"fmt"

	"github.com/abhisek/rappel/internal/answer"
	"github.com/abhisek/rappel/internal/deck"
	"github.com/abhisek/rappel/internal/diff"
)

// Phase represents the current phase of the session.
type Phase int

const (
	PhaseAwaitingInput Phase = iota // Entry displayed, waiting for submission
	PhaseEvaluating                 // Grading a submission
	PhaseComplete                   // Queue exhausted
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingInput:
		return "awaiting-input"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseComplete:
		return "complete"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Cue is the audio cue the presentation layer plays after an action.
type Cue int

const (
	CueNone Cue = iota
	CueSuccess
	CueFailure
)

// AnswerDiff explains one wrong answer.
type AnswerDiff struct {
	// Index is the 0-based position of the blank.
	Index     int
	Submitted string
	Expected  string
	Diff      diff.Diff
}

// Outcome describes the effect of one action on the session.
type Outcome struct {
	// Entry is the entry the action applied to.
	Entry deck.Entry

	// Result is the grading result. Empty for skip and revise actions.
	Result answer.Result

	// Diffs holds an explanation for every wrong answer, in blank order.
	Diffs []AnswerDiff

	Cue Cue

	// ReplayMedia is the media to replay after a failure cue.
	ReplayMedia string

	// Skipped is true when the entry was requeued without grading.
	Skipped bool

	// Complete is true when this action emptied the queue.
	Complete bool

	// SaveErr is a *PersistenceError when the checkpoint could not be
	// written or cleared. The in-memory session is unaffected.
	SaveErr error

	// Warnings collects non-blocking failures such as a stats write.
	Warnings []error
}

// Summary aggregates a session for the completion screen.
type Summary struct {
	Initial   int
	Remaining int
	// Solved counts entries removed from the queue.
	Solved int
	// Attempts counts graded submissions.
	Attempts int
	Skips    int
	// CorrectAnswers and TotalAnswers count individual blanks.
	CorrectAnswers int
	TotalAnswers   int
	Complete       bool
}

// Accuracy returns the share of correct blanks as a percentage.
func (s Summary) Accuracy() float64 {
	if s.TotalAnswers == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.TotalAnswers) * 100
}
