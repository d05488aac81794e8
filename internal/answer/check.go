package answer

// Result is the outcome of grading one submission against an entry's
// expected answers.
type Result struct {
	// Correct holds the verdict for each answer pair, in order.
	Correct      []bool
	CorrectCount int
	Total        int
}

// AllCorrect reports whether every answer pair matched.
func (r Result) AllCorrect() bool {
	return r.Total > 0 && r.CorrectCount == r.Total
}

// Incorrect returns the indexes of the pairs that did not match.
func (r Result) Incorrect() []int {
	var idx []int
	for i, ok := range r.Correct {
		if !ok {
			idx = append(idx, i)
		}
	}
	return idx
}

// Check grades submitted[i] against expected[i]. Callers validate that both
// slices have the same length; extra elements on either side are ignored.
func Check(submitted, expected []string) Result {
	n := min(len(submitted), len(expected))
	res := Result{Correct: make([]bool, n), Total: n}
	for i := range n {
		if Matches(submitted[i], expected[i]) {
			res.Correct[i] = true
			res.CorrectCount++
		}
	}
	return res
}
