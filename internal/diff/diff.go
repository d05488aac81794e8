// Package diff explains a wrong answer by aligning it with the expected one.
//
// Alignment ignores punctuation, spacing and case, but the rendered spans
// keep the original text so the learner sees exactly what they typed.
package diff

import (
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/abhisek/rappel/internal/textnorm"
)

// Span is a run of original text on one side of a diff.
type Span struct {
	Text    string
	Changed bool
}

// Diff holds the aligned spans for both sides. A is the submitted answer and
// B the expected answer.
type Diff struct {
	A []Span
	B []Span
}

// Equal reports whether the sides aligned without any change.
func (d Diff) Equal() bool {
	for _, s := range d.A {
		if s.Changed {
			return false
		}
	}
	for _, s := range d.B {
		if s.Changed {
			return false
		}
	}
	return true
}

// side tracks one string while walking the opcodes.
type side struct {
	runes []rune
	idx   []int // original position of each non-punctuation rune
	last  int
	spans []Span
}

func newSide(s string) *side {
	sd := &side{runes: []rune(s)}
	for i, r := range sd.runes {
		if !textnorm.IsPunct(r) {
			sd.idx = append(sd.idx, i)
		}
	}
	return sd
}

// tokens returns the lowercased non-punctuation runes, one per element.
func (sd *side) tokens() []string {
	out := make([]string, len(sd.idx))
	for k, i := range sd.idx {
		out[k] = string(unicode.ToLower(sd.runes[i]))
	}
	return out
}

// bounds maps a stripped range [lo, hi) to original rune offsets.
func (sd *side) bounds(lo, hi int) (int, int) {
	start := len(sd.runes)
	if lo < len(sd.idx) {
		start = sd.idx[lo]
	}
	end := start
	if hi > lo && hi-1 < len(sd.idx) {
		end = sd.idx[hi-1] + 1
	}
	return start, end
}

func (sd *side) emit(start, end int, changed bool) {
	if start > sd.last {
		sd.add(string(sd.runes[sd.last:start]), false)
	}
	if end > start {
		sd.add(string(sd.runes[start:end]), changed)
	}
	if end > sd.last {
		sd.last = end
	} else if start > sd.last {
		sd.last = start
	}
}

func (sd *side) add(text string, changed bool) {
	if n := len(sd.spans); n > 0 && sd.spans[n-1].Changed == changed {
		sd.spans[n-1].Text += text
		return
	}
	sd.spans = append(sd.spans, Span{Text: text, Changed: changed})
}

func (sd *side) finish() []Span {
	if sd.last < len(sd.runes) {
		sd.add(string(sd.runes[sd.last:]), false)
	}
	return sd.spans
}

// Compute aligns a against b.
func Compute(a, b string) Diff {
	sa, sb := newSide(a), newSide(b)
	m := difflib.NewMatcher(sa.tokens(), sb.tokens())
	for _, op := range m.GetOpCodes() {
		aStart, aEnd := sa.bounds(op.I1, op.I2)
		bStart, bEnd := sb.bounds(op.J1, op.J2)
		switch op.Tag {
		case 'e':
			sa.emit(aStart, aEnd, false)
			sb.emit(bStart, bEnd, false)
		case 'r':
			sa.emit(aStart, aEnd, true)
			sb.emit(bStart, bEnd, true)
		case 'd':
			sa.emit(aStart, aEnd, true)
		case 'i':
			sb.emit(bStart, bEnd, true)
		}
	}
	return Diff{A: sa.finish(), B: sb.finish()}
}

// Render joins spans, passing changed runs through mark.
func Render(spans []Span, mark func(string) string) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Changed {
			b.WriteString(mark(s.Text))
		} else {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}
