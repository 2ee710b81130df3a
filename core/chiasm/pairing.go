package chiasm

import (
	"github.com/FocuswithJustin/KeystoneBible/core/lemma"
)

// PassageVerse is one verse of a contiguous passage under pairing analysis.
type PassageVerse struct {
	// Number is the verse number within the passage (1-indexed).
	Number int `json:"number"`

	// Ref is the canonical reference, when known.
	Ref string `json:"ref,omitempty"`

	// Text is the source-script text of the verse.
	Text string `json:"text"`

	// Gloss is a translation of the verse, when available.
	Gloss string `json:"gloss,omitempty"`

	// Tokens are the verse's tagged words. Untagged verses carry
	// surface-only tokens.
	Tokens []lemma.Token `json:"tokens,omitempty"`
}

// PairKind classifies a mirrored verse pair by its distance from the edges.
type PairKind string

// Pair kinds. The outermost pair is the Outer Mirror; interior pairs are
// Quartile Echoes; an unpaired center verse of an odd-length passage is the
// Center Hinge.
const (
	OuterMirror  PairKind = "Outer Mirror"
	QuartileEcho PairKind = "Quartile Echo"
	CenterHinge  PairKind = "Center Hinge"
)

// Pair mirrors verse i with verse n-1-i and records the vocabulary the two
// verses share. A Center Hinge has no partner and no shared set.
type Pair struct {
	Kind   PairKind      `json:"kind"`
	A      PassageVerse  `json:"verse_a"`
	B      *PassageVerse `json:"verse_b,omitempty"`
	Shared []lemma.Token `json:"shared,omitempty"`
}

// ComputePairings mirrors a passage around its center. For i in [0, n/2)
// verse i pairs with verse n-1-i; the first pair is the Outer Mirror, the
// rest Quartile Echoes. An odd-length passage contributes its middle verse
// as a final Center Hinge. Empty input yields no pairs; a single verse
// yields only the hinge.
func ComputePairings(verses []PassageVerse) []Pair {
	n := len(verses)
	if n == 0 {
		return nil
	}

	pairs := make([]Pair, 0, n/2+n%2)
	for i := 0; i < n/2; i++ {
		kind := QuartileEcho
		if i == 0 {
			kind = OuterMirror
		}
		b := verses[n-1-i]
		pairs = append(pairs, Pair{
			Kind:   kind,
			A:      verses[i],
			B:      &b,
			Shared: SharedTokens(verses[i], b),
		})
	}

	if n%2 == 1 {
		pairs = append(pairs, Pair{
			Kind: CenterHinge,
			A:    verses[n/2],
		})
	}

	return pairs
}

// SharedTokens intersects the comparison keys of two verses. The result
// holds a's tokens in order, one per shared key (the first occurrence
// supplies the display form). Nil when nothing is shared.
func SharedTokens(a, b PassageVerse) []lemma.Token {
	if len(a.Tokens) == 0 || len(b.Tokens) == 0 {
		return nil
	}

	bKeys := make(map[string]bool, len(b.Tokens))
	for _, tok := range b.Tokens {
		bKeys[tok.Key] = true
	}

	var shared []lemma.Token
	seen := make(map[string]bool)
	for _, tok := range a.Tokens {
		if bKeys[tok.Key] && !seen[tok.Key] {
			shared = append(shared, tok)
			seen[tok.Key] = true
		}
	}
	return shared
}

// FilterPairs drops pairs sharing fewer than minShared tokens. The Center
// Hinge is structural and always survives filtering.
func FilterPairs(pairs []Pair, minShared int) []Pair {
	if minShared <= 0 {
		return pairs
	}

	kept := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if p.Kind != CenterHinge && len(p.Shared) < minShared {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
