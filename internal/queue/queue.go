// Package queue holds the entries still to be answered in a review session.
//
// A solved entry leaves the queue. A missed entry moves to the back so it
// comes round again later in the same session.
package queue

import (
	"errors"
	"math"
	"slices"

	"github.com/abhisek/rappel/internal/deck"
)

// ErrEmpty is returned by Current when no entries remain.
var ErrEmpty = errors.New("queue is empty")

// Queue is not safe for concurrent use.
type Queue struct {
	items   []deck.Entry
	cursor  int
	initial int
}

// New returns a queue over a copy of items.
func New(items []deck.Entry) *Queue {
	return &Queue{items: slices.Clone(items), initial: len(items)}
}

// Restore rebuilds a queue from a checkpoint. Out-of-range cursors are
// clamped to 0.
func Restore(items []deck.Entry, cursor int) *Queue {
	q := New(items)
	if cursor >= 0 && cursor < len(q.items) {
		q.cursor = cursor
	}
	return q
}

// Current returns the entry under the cursor.
func (q *Queue) Current() (deck.Entry, error) {
	if len(q.items) == 0 {
		return deck.Entry{}, ErrEmpty
	}
	return q.items[q.cursor], nil
}

// RecordOutcome removes the current entry when allCorrect, otherwise moves
// it to the back. The cursor stays on the slot, which now holds the next
// entry.
func (q *Queue) RecordOutcome(allCorrect bool) {
	if len(q.items) == 0 {
		return
	}
	e := q.items[q.cursor]
	q.items = slices.Delete(q.items, q.cursor, q.cursor+1)
	if !allCorrect {
		q.items = append(q.items, e)
	}
	if q.cursor >= len(q.items) {
		q.cursor = 0
	}
}

// ProgressPercent returns how much of the initial queue has been solved,
// rounded to a whole percentage.
func (q *Queue) ProgressPercent() int {
	if len(q.items) == 0 || q.initial == 0 {
		return 100
	}
	p := 100 * (1 - float64(len(q.items))/float64(q.initial))
	return int(math.Round(min(max(p, 0), 100)))
}

// IsEmpty reports whether every entry has been solved.
func (q *Queue) IsEmpty() bool { return len(q.items) == 0 }

// Len returns the number of entries left.
func (q *Queue) Len() int { return len(q.items) }

// Initial returns the size of the queue at construction.
func (q *Queue) Initial() int { return q.initial }

// Cursor returns the index of the current entry.
func (q *Queue) Cursor() int { return q.cursor }

// Items returns a copy of the remaining entries in queue order.
func (q *Queue) Items() []deck.Entry { return slices.Clone(q.items) }

// Replace swaps the remaining entries for items, keeping the initial
// count. items is the current list with some entries removed; the cursor
// stays on the same entry, or on the one after it when it was removed.
func (q *Queue) Replace(items []deck.Entry) {
	q.cursor = RemapCursor(q.items, items, q.cursor)
	q.items = slices.Clone(items)
}

// RemapCursor translates cursor over saved into a cursor over fresh, a
// subset of saved in the same order. It counts the survivors before the
// cursor, so a removed entry yields the one after it. Past the end it
// wraps to 0.
func RemapCursor(saved, fresh []deck.Entry, cursor int) int {
	alive := make(map[string]bool, len(fresh))
	for _, e := range fresh {
		alive[e.ID] = true
	}
	n := 0
	for i := 0; i < cursor && i < len(saved); i++ {
		if alive[saved[i].ID] {
			n++
		}
	}
	if n >= len(fresh) {
		return 0
	}
	return n
}
