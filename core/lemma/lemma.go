// Package lemma models tagged words and the comparison keys used to match
// vocabulary across verses.
//
// Tagged sources (OSHB-style OSIS) annotate each word with a lemma attribute
// such as "7462" or "b/7462", where the leading single-letter groups mark
// grammatical prefixes fused to the word. Comparison keys are formed by
// stripping those prefix groups so that "b/7462" and "7462" match.
package lemma

import (
	"strings"
	"unicode"
)

// Token is one word of a passage, carrying both its comparison key and its
// display form.
type Token struct {
	// Key is the comparison key used for cross-verse matching. For tagged
	// sources this is the normalized lemma (e.g., "H7462"); for untagged
	// text it equals Surface.
	Key string `json:"key"`

	// Surface is the word as it appears in the source text.
	Surface string `json:"surface"`

	// Gloss is a short translation gloss, when the source provides one.
	Gloss string `json:"gloss,omitempty"`

	// Morph is the morphology code, when the source provides one.
	Morph string `json:"morph,omitempty"`
}

// Surface builds a token for an untagged word. Key and Surface are the same
// string, so matching degrades to exact surface comparison.
func Surface(word string) Token {
	return Token{Key: word, Surface: word}
}

// SplitText tokenizes an untagged text blob on whitespace. Every field
// becomes a surface-only token.
func SplitText(text string) []Token {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	tokens := make([]Token, len(fields))
	for i, f := range fields {
		tokens[i] = Surface(f)
	}
	return tokens
}

// StripGrammaticalPrefix removes leading grammatical prefix groups from a
// lemma value. A prefix group is a single ASCII letter followed by a slash;
// groups repeat when several prefixes are fused ("c/l/5414" yields "5414").
// OSHB uses b (bet), c (conjunction), d (article), i (interrogative),
// k (kaf), l (lamed), m (min) and s (relative) as prefix codes.
func StripGrammaticalPrefix(raw string) string {
	for len(raw) >= 2 && raw[1] == '/' && isPrefixLetter(raw[0]) {
		raw = raw[2:]
	}
	return raw
}

func isPrefixLetter(c byte) bool {
	return c >= 'a' && c <= 'z'
}

// StrongsKey normalizes a tagged lemma value into a comparison key. Prefix
// groups are stripped, a trailing homonym marker ("7462 b") is dropped, and
// purely numeric values are rendered in Strong's form ("H7462"). Values that
// are not numeric after stripping are returned unchanged.
func StrongsKey(raw string) string {
	s := StripGrammaticalPrefix(strings.TrimSpace(raw))
	if i := strings.IndexByte(s, ' '); i >= 0 {
		rest := s[i+1:]
		if len(rest) == 1 && isPrefixLetter(rest[0]) {
			s = s[:i]
		}
	}
	if s != "" && isDigits(s) {
		return "H" + s
	}
	return s
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
