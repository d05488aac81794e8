package authoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/abhisek/rappel/internal/deck"
	"github.com/abhisek/rappel/internal/media"
	"github.com/abhisek/rappel/internal/store"
)

var (
	// ErrEmptyBatch is returned by New for a batch with no drafts.
	ErrEmptyBatch = errors.New("no drafts to fill")
	// ErrLastDraft is returned by Delete when one draft remains.
	ErrLastDraft = errors.New("cannot delete the last draft")
	// ErrNotInQuestion is returned by Select for a fragment absent from
	// the question.
	ErrNotInQuestion = errors.New("selection is not part of the question")
	// ErrNotConfirmed is returned by Discard without the confirmation word.
	ErrNotConfirmed = errors.New(`type DELETE to discard the batch`)
)

// DiscardConfirmation must be passed to Discard.
const DiscardConfirmation = "DELETE"

// MissingAnswerError reports the first draft without an answer.
type MissingAnswerError struct {
	Index int
}

func (e *MissingAnswerError) Error() string {
	return fmt.Sprintf("draft %d has no answer", e.Index+1)
}

// CommitError reports the draft a commit stopped at.
type CommitError struct {
	Index int
	Err   error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("draft %d: %v", e.Index+1, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// TimecodeError reports an offset that could not be parsed.
type TimecodeError struct {
	Field string
	Value string
}

func (e *TimecodeError) Error() string {
	return fmt.Sprintf("invalid %s time %q (use hh:mm:ss, mm:ss or ss)", e.Field, e.Value)
}

// Checkpointer persists the batch.
type Checkpointer interface {
	Save(items []Draft, cursor int) error
	Clear() error
}

// Inserter writes records to the store.
type Inserter interface {
	Insert(ctx context.Context, rec store.NewRecord) (store.InsertResult, error)
}

// Preparer copies or trims media into the library.
type Preparer interface {
	Prepare(ctx context.Context, src string, startMs, endMs *int64) (string, error)
}

// CommitResult counts what Commit wrote.
type CommitResult struct {
	Inserted   int
	Duplicates int
}

// Config wires a batch to its collaborators.
type Config struct {
	Checkpoint Checkpointer
	Logger     *slog.Logger
}

// Batch is an ordered list of drafts with a cursor. It is not safe for
// concurrent use.
type Batch struct {
	drafts []Draft
	cursor int
	cfg    Config
	logger *slog.Logger
}

// New returns a batch positioned on the first draft missing an answer.
func New(drafts []Draft, cfg Config) (*Batch, error) {
	b, err := newBatch(drafts, cfg)
	if err != nil {
		return nil, err
	}
	if i, ok := b.FirstMissing(); ok {
		b.cursor = i
	}
	return b, nil
}

// Resume returns a batch restored from a checkpoint.
func Resume(drafts []Draft, cursor int, cfg Config) (*Batch, error) {
	b, err := newBatch(drafts, cfg)
	if err != nil {
		return nil, err
	}
	if cursor >= 0 && cursor < len(b.drafts) {
		b.cursor = cursor
	}
	return b, nil
}

func newBatch(drafts []Draft, cfg Config) (*Batch, error) {
	if len(drafts) == 0 {
		return nil, ErrEmptyBatch
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b := &Batch{drafts: slices.Clone(drafts), cfg: cfg, logger: logger}
	for i := range b.drafts {
		if b.drafts[i].OriginalQuestion == "" {
			b.drafts[i].OriginalQuestion = b.drafts[i].Question
		}
	}
	return b, nil
}

// Current returns the draft under the cursor.
func (b *Batch) Current() Draft { return b.drafts[b.cursor] }

// Index returns the 0-based cursor.
func (b *Batch) Index() int { return b.cursor }

// Len returns the number of drafts.
func (b *Batch) Len() int { return len(b.drafts) }

// Drafts returns a copy of the drafts.
func (b *Batch) Drafts() []Draft { return slices.Clone(b.drafts) }

// MissingCount returns the number of drafts without an answer.
func (b *Batch) MissingCount() int {
	n := 0
	for _, d := range b.drafts {
		if d.Missing() {
			n++
		}
	}
	return n
}

// Next moves to the next draft, wrapping to the first after the last.
func (b *Batch) Next() {
	if b.cursor < len(b.drafts)-1 {
		b.cursor++
	} else {
		b.cursor = 0
	}
}

// Prev moves to the previous draft. It stays on the first.
func (b *Batch) Prev() {
	if b.cursor > 0 {
		b.cursor--
	}
}

// Goto moves to the 1-based draft n.
func (b *Batch) Goto(n int) error {
	if n < 1 || n > len(b.drafts) {
		return fmt.Errorf("draft number must be between 1 and %d", len(b.drafts))
	}
	b.cursor = n - 1
	return nil
}

// Edit replaces the current draft's question, answer and offsets. Offsets
// use timecode syntax; blank clears them. Nothing changes on error.
func (b *Batch) Edit(question, response, start, end string) error {
	startMs, err := parseOffset("start", start)
	if err != nil {
		return err
	}
	endMs, err := parseOffset("end", end)
	if err != nil {
		return err
	}
	d := &b.drafts[b.cursor]
	d.Question = strings.TrimSpace(question)
	d.Response = strings.TrimSpace(response)
	d.StartMs, d.EndMs = startMs, endMs
	return nil
}

func parseOffset(field, v string) (*int64, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	ms, ok := media.ParseTimecode(v)
	if !ok {
		return nil, &TimecodeError{Field: field, Value: v}
	}
	return &ms, nil
}

// Reset restores the current draft's original question and clears its
// answer and offsets.
func (b *Batch) Reset() {
	d := &b.drafts[b.cursor]
	d.Question = d.OriginalQuestion
	d.Response = ""
	d.StartMs, d.EndMs = nil, nil
}

// Delete removes the current draft.
func (b *Batch) Delete() error {
	if len(b.drafts) <= 1 {
		return ErrLastDraft
	}
	b.drafts = slices.Delete(b.drafts, b.cursor, b.cursor+1)
	if b.cursor >= len(b.drafts) {
		b.cursor = 0
	}
	return nil
}

// Select turns a fragment of the current question into its answer: the
// first occurrence becomes a blank marker. The cursor then advances.
func (b *Batch) Select(fragment string) error {
	fragment = strings.TrimSpace(fragment)
	d := &b.drafts[b.cursor]
	i := strings.Index(d.Question, fragment)
	if fragment == "" || i < 0 {
		return ErrNotInQuestion
	}
	d.Response = strings.ReplaceAll(fragment, "oe", "œ")
	d.Question = d.Question[:i] + deck.Marker + d.Question[i+len(fragment):]
	b.Next()
	return nil
}

// RemoveMedia detaches the media from the current draft.
func (b *Batch) RemoveMedia() {
	b.drafts[b.cursor].AudioPath = ""
}

// FirstMissing returns the index of the first draft without an answer.
func (b *Batch) FirstMissing() (int, bool) {
	for i, d := range b.drafts {
		if d.Missing() {
			return i, true
		}
	}
	return 0, false
}

// Save checkpoints the batch.
func (b *Batch) Save() error {
	if b.cfg.Checkpoint == nil {
		return nil
	}
	if err := b.cfg.Checkpoint.Save(b.drafts, b.cursor); err != nil {
		return fmt.Errorf("save drafts: %w", err)
	}
	return nil
}

// Discard drops the checkpoint. confirm must equal DiscardConfirmation.
func (b *Batch) Discard(confirm string) error {
	if strings.TrimSpace(confirm) != DiscardConfirmation {
		return ErrNotConfirmed
	}
	if b.cfg.Checkpoint == nil {
		return nil
	}
	return b.cfg.Checkpoint.Clear()
}

// Commit inserts every draft into the store. On failure the cursor moves
// to the draft it stopped at. The checkpoint is cleared only once every
// draft is stored.
func (b *Batch) Commit(ctx context.Context, ins Inserter, prep Preparer) (CommitResult, error) {
	res, err := b.Committer(ins, prep)(ctx)
	if i, ok := FailedIndex(err); ok {
		b.cursor = i
	}
	return res, err
}

// Committer returns a commit over a copy of the current drafts. The
// returned func never touches the batch, so it may run on another
// goroutine; the caller applies FailedIndex to the batch afterwards.
func (b *Batch) Committer(ins Inserter, prep Preparer) func(context.Context) (CommitResult, error) {
	drafts := slices.Clone(b.drafts)
	cp, logger := b.cfg.Checkpoint, b.logger
	return func(ctx context.Context) (CommitResult, error) {
		return commit(ctx, drafts, cp, logger, ins, prep)
	}
}

// FailedIndex returns the draft index a commit error refers to.
func FailedIndex(err error) (int, bool) {
	var missing *MissingAnswerError
	if errors.As(err, &missing) {
		return missing.Index, true
	}
	var ce *CommitError
	if errors.As(err, &ce) {
		return ce.Index, true
	}
	return 0, false
}

func commit(ctx context.Context, drafts []Draft, cp Checkpointer, logger *slog.Logger, ins Inserter, prep Preparer) (CommitResult, error) {
	var res CommitResult
	for i, d := range drafts {
		if d.Missing() {
			return res, &MissingAnswerError{Index: i}
		}
	}

	for i, d := range drafts {
		mediaPath := d.AudioPath
		if mediaPath != "" && prep != nil {
			p, err := prep.Prepare(ctx, d.AudioPath, d.StartMs, d.EndMs)
			if err != nil {
				return res, &CommitError{Index: i, Err: fmt.Errorf("prepare media: %w", err)}
			}
			mediaPath = p
		}
		r, err := ins.Insert(ctx, store.NewRecord{
			MediaPath:   mediaPath,
			Question:    d.Question,
			Response:    d.Response,
			StartMs:     d.StartMs,
			EndMs:       d.EndMs,
			ID:          d.UUID,
			CreatedAt:   d.CreationDate,
			Attribution: d.Attribution,
		})
		if err != nil {
			return res, &CommitError{Index: i, Err: err}
		}
		if r.Duplicate {
			res.Duplicates++
			logger.Info("draft already stored", "question", d.Question)
		} else {
			res.Inserted++
		}
	}

	if cp != nil {
		if err := cp.Clear(); err != nil {
			return res, fmt.Errorf("clear drafts checkpoint: %w", err)
		}
	}
	logger.Info("drafts committed", "inserted", res.Inserted, "duplicates", res.Duplicates)
	return res, nil
}
