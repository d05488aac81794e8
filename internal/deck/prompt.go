package deck

import "strings"

// Prompt is one sub-question of an entry.
//
// An inline prompt contains one or more markers and is answered in place.
// Any other prompt is answered by a single value shown after it.
type Prompt struct {
	// Number is the 1-based position among the entry's sub-questions.
	Number int
	Text   string
	Inline bool
	Blanks int
	// Offset is the index of this prompt's first blank across the entry.
	Offset int
	// Answers holds the expected values for this prompt's blanks. It is
	// shorter than Blanks when the entry has too few answers.
	Answers []string
}

// Segment is a piece of rendered prompt text.
type Segment struct {
	Text  string
	Blank bool
}

// Prompts splits the question template into sub-questions and assigns the
// expected answers to their blanks from left to right. Surplus answers are
// dropped.
func (e Entry) Prompts() []Prompt {
	var prompts []Prompt
	offset := 0
	for i, q := range splitNonEmpty(e.Question) {
		p := Prompt{Number: i + 1, Text: q, Offset: offset, Blanks: 1}
		if n := strings.Count(q, Marker); n > 0 {
			p.Inline = true
			p.Blanks = n
		}
		for k := offset; k < offset+p.Blanks && k < len(e.Answers); k++ {
			p.Answers = append(p.Answers, e.Answers[k])
		}
		offset += p.Blanks
		prompts = append(prompts, p)
	}
	return prompts
}

// BlankCount returns the number of values a learner is asked to type.
func (e Entry) BlankCount() int {
	n := 0
	for _, p := range e.Prompts() {
		n += p.Blanks
	}
	return n
}

// Segments interleaves the prompt text with values for its blanks. Missing
// or empty values render as Placeholder. Non-inline prompts yield their
// text followed by a single blank.
func (p Prompt) Segments(values []string) []Segment {
	value := func(i int) string {
		if i < len(values) && values[i] != "" {
			return values[i]
		}
		return Placeholder
	}
	if !p.Inline {
		return []Segment{{Text: p.Text}, {Text: value(0), Blank: true}}
	}
	parts := strings.Split(p.Text, Marker)
	segs := make([]Segment, 0, 2*len(parts))
	for i, part := range parts {
		if part != "" {
			segs = append(segs, Segment{Text: part})
		}
		if i < p.Blanks {
			segs = append(segs, Segment{Text: value(i), Blank: true})
		}
	}
	return segs
}

// Revealed renders the prompt with its expected answers filled in.
func (p Prompt) Revealed() []Segment {
	return p.Segments(p.Answers)
}
