// Package textnorm canonicalizes free-text answers so that two spellings a
// learner would consider the same compare equal.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// extraPunct lists glyphs stripped in addition to Unicode punctuation.
const extraPunct = "’'‘«»–"

// asciiPunct mirrors the ASCII punctuation set, which includes symbols such
// as '+' and '$' that Unicode classifies outside of punctuation.
const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")

// IsPunct reports whether r is ignored when comparing answers. Spaces count
// as punctuation: answers differing only in spacing are equal.
func IsPunct(r rune) bool {
	if r == ' ' || unicode.IsSpace(r) || unicode.IsPunct(r) {
		return true
	}
	return strings.ContainsRune(asciiPunct, r) || strings.ContainsRune(extraPunct, r)
}

// Fold applies the light folding used on raw input before any structural
// parsing: compatibility composition, the "oe" ligature and curly
// apostrophes. Case and punctuation are preserved.
func Fold(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, "oe", "œ")
	return apostrophes.Replace(s)
}

// Normalize returns the comparison key for s. It is idempotent.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Lower(language.Und).String(s)
	s = stripMarks(s)
	s = apostrophes.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if IsPunct(r) {
			continue
		}
		b.WriteRune(r)
	}
	// Ligature folding runs last so that removing spaces cannot create a
	// fresh "oe" pair on a second pass.
	return strings.ReplaceAll(b.String(), "oe", "œ")
}

// StripPunct removes every rune for which IsPunct is true.
func StripPunct(s string) string {
	return strings.Map(func(r rune) rune {
		if IsPunct(r) {
			return -1
		}
		return r
	}, s)
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
