package queue

import (
	"errors"
	"testing"

	"github.com/abhisek/rappel/internal/deck"
)

func entries(ids ...string) []deck.Entry {
	out := make([]deck.Entry, len(ids))
	for i, id := range ids {
		out[i] = deck.Entry{ID: id}
	}
	return out
}

func ids(q *Queue) []string {
	var out []string
	for _, e := range q.Items() {
		out = append(out, e.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRecordOutcomeCorrect(t *testing.T) {
	q := New(entries("a", "b", "c"))
	q.RecordOutcome(true)

	if q.Len() != 2 {
		t.Fatalf("Len = %d, want 2", q.Len())
	}
	if got := ids(q); !equal(got, []string{"b", "c"}) {
		t.Errorf("items = %v, want [b c]", got)
	}
	cur, err := q.Current()
	if err != nil || cur.ID != "b" {
		t.Errorf("Current = %v, %v; want b", cur.ID, err)
	}
}

func TestRecordOutcomeIncorrect(t *testing.T) {
	q := New(entries("a", "b", "c"))
	q.RecordOutcome(false)

	if got := ids(q); !equal(got, []string{"b", "c", "a"}) {
		t.Errorf("items = %v, want [b c a]", got)
	}
	if q.Cursor() != 0 {
		t.Errorf("Cursor = %d, want 0", q.Cursor())
	}
	if cur, _ := q.Current(); cur.ID != "b" {
		t.Errorf("Current = %s, want b", cur.ID)
	}
}

func TestCursorClampedAfterRemovingLast(t *testing.T) {
	q := Restore(entries("a", "b", "c"), 2)
	q.RecordOutcome(true)
	if q.Cursor() != 0 {
		t.Errorf("Cursor = %d, want 0", q.Cursor())
	}
	if cur, _ := q.Current(); cur.ID != "a" {
		t.Errorf("Current = %s, want a", cur.ID)
	}
}

func TestIncorrectAtLastSlotKeepsCursorValid(t *testing.T) {
	q := Restore(entries("a", "b"), 1)
	q.RecordOutcome(false)
	if q.Cursor() < 0 || q.Cursor() >= q.Len() {
		t.Fatalf("Cursor = %d out of range", q.Cursor())
	}
	if got := ids(q); !equal(got, []string{"a", "b"}) {
		t.Errorf("items = %v, want [a b]", got)
	}
}

func TestCurrentEmpty(t *testing.T) {
	q := New(nil)
	if _, err := q.Current(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Current err = %v, want ErrEmpty", err)
	}
	if !q.IsEmpty() {
		t.Error("IsEmpty = false")
	}
	q.RecordOutcome(true)
	if q.ProgressPercent() != 100 {
		t.Errorf("ProgressPercent = %d, want 100", q.ProgressPercent())
	}
}

func TestProgressPercent(t *testing.T) {
	q := New(entries("a", "b", "c"))
	if got := q.ProgressPercent(); got != 0 {
		t.Errorf("start = %d, want 0", got)
	}

	q.RecordOutcome(false)
	q.RecordOutcome(false)
	if got := q.ProgressPercent(); got != 0 {
		t.Errorf("after misses = %d, want 0", got)
	}

	want := []int{33, 67, 100}
	prev := q.ProgressPercent()
	for i, w := range want {
		q.RecordOutcome(true)
		got := q.ProgressPercent()
		if got != w {
			t.Errorf("step %d = %d, want %d", i, got, w)
		}
		if got <= prev {
			t.Errorf("step %d did not increase: %d -> %d", i, prev, got)
		}
		prev = got
	}
}

func TestProgressStrictlyIncreasesUpToHundred(t *testing.T) {
	items := make([]deck.Entry, 100)
	q := New(items)
	prev := q.ProgressPercent()
	for !q.IsEmpty() {
		q.RecordOutcome(true)
		got := q.ProgressPercent()
		if got <= prev {
			t.Fatalf("progress %d -> %d with %d left", prev, got, q.Len())
		}
		prev = got
	}
}

func TestNewCopiesItems(t *testing.T) {
	src := entries("a", "b")
	q := New(src)
	src[0].ID = "changed"
	if cur, _ := q.Current(); cur.ID != "a" {
		t.Errorf("Current = %s, want a", cur.ID)
	}
}

func TestReplaceKeepsInitial(t *testing.T) {
	q := New(entries("a", "b", "c", "d"))
	q.Replace(entries("b"))
	if q.Initial() != 4 {
		t.Errorf("Initial = %d, want 4", q.Initial())
	}
	if got := q.ProgressPercent(); got != 75 {
		t.Errorf("ProgressPercent = %d, want 75", got)
	}
}

func TestRemapCursor(t *testing.T) {
	saved := entries("a", "b", "c", "d")
	tests := []struct {
		name   string
		fresh  []deck.Entry
		cursor int
		want   int
	}{
		{"nothing dropped", entries("a", "b", "c", "d"), 2, 2},
		{"earlier entry dropped", entries("b", "c", "d"), 2, 1},
		{"current entry dropped", entries("a", "b", "d"), 2, 2},
		{"tail dropped", entries("a", "b"), 3, 0},
		{"cursor past end", entries("a", "b", "c", "d"), 9, 0},
		{"everything dropped", nil, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemapCursor(saved, tt.fresh, tt.cursor); got != tt.want {
				t.Errorf("RemapCursor = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReplaceKeepsCurrentEntry(t *testing.T) {
	q := Restore(entries("a", "b", "c"), 1)
	q.Replace(entries("b", "c"))

	cur, err := q.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur.ID != "b" {
		t.Errorf("current = %q, want %q", cur.ID, "b")
	}
	if q.Cursor() != 0 {
		t.Errorf("Cursor = %d, want 0", q.Cursor())
	}
}
