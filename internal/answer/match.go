// Package answer decides whether a learner's typed answer matches a stored
// answer.
package answer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/rappel/internal/textnorm"
)

// Tolerance is the absolute difference under which two numbers are equal.
const Tolerance = 0.01

// numericPattern accepts every component as optional, including the blank
// string. A blank correct answer therefore looks numeric, fails to parse and
// falls through to text comparison.
var numericPattern = regexp.MustCompile(`^\s*[+-]?\s*\d*(\.\d+)?\s*%?\s*$`)

// optionalGroup captures the text around the first parenthesized group.
var optionalGroup = regexp.MustCompile(`^(.*?)(\(.*?\))(.*?)$`)

// Matches reports whether user matches correct.
//
// Rules are tried in order:
//   - numeric: when correct looks like a number or percentage and both sides
//     parse, they match if they differ by less than Tolerance
//   - optional words: when correct has exactly one "(...)" group, each word
//     inside it may be present or absent
//   - text: the normalized forms are equal
func Matches(user, correct string) bool {
	if numericPattern.MatchString(correct) {
		c, okC := ParseNumber(correct)
		u, okU := ParseNumber(user)
		if okC && okU {
			return math.Abs(u-c) < Tolerance
		}
	}

	user = textnorm.Fold(strings.ToLower(user))
	correct = textnorm.Fold(strings.ToLower(correct))

	if strings.Count(correct, "(") == 1 && strings.Count(correct, ")") == 1 {
		if ok, applied := matchOptional(user, correct); applied {
			return ok
		}
	}

	return textnorm.Normalize(user) == textnorm.Normalize(correct)
}

// matchOptional applies the optional-word rule. applied is false when
// correct has no well-formed group, in which case the caller falls back to
// plain comparison.
func matchOptional(user, correct string) (ok, applied bool) {
	m := optionalGroup.FindStringSubmatch(correct)
	if m == nil {
		return false, false
	}
	base := m[1] + m[3]
	tokens := strings.Split(strings.Trim(m[2], "()"), " ")
	for _, tok := range tokens {
		u, b := user, base
		if tok != "" {
			u = strings.ReplaceAll(u, tok, "")
			b = strings.ReplaceAll(b, tok, "")
		}
		if textnorm.Normalize(u) == textnorm.Normalize(b) {
			return true, true
		}
	}
	return false, true
}

// ParseNumber parses s as a decimal number. A '%' anywhere in s divides the
// value by 100. Whitespace is ignored. ok is false for anything else,
// including hexadecimal notation.
func ParseNumber(s string) (float64, bool) {
	percent := strings.Contains(s, "%")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.Join(strings.Fields(s), "")
	if s == "" || isHex(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if percent {
		f /= 100
	}
	return f, true
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}
