// Package verseindex flattens a scope into a single ordered verse sequence
// and exposes the positional anchors used by chiastic analysis.
//
// Verses are indexed 0..N-1 in canonical order: books in scope order, each
// book chapter 1..n, each chapter verse 1..count. Index values are only
// meaningful against the catalog snapshot the sequence was built from; the
// fingerprint identifies that snapshot.
package verseindex

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/KeystoneBible/core/errors"
	"github.com/FocuswithJustin/KeystoneBible/core/ref"
	"github.com/FocuswithJustin/KeystoneBible/core/scopes"
)

// Catalog supplies scope definitions and book shapes.
type Catalog interface {
	Resolve(scopeID string) (scopes.Scope, error)
	Book(bookID string) (scopes.Book, bool)
}

// AnchorName names one of the five structural anchor positions.
type AnchorName string

// Anchor position names, in canonical order.
const (
	AnchorFirst  AnchorName = "first"
	AnchorQ1     AnchorName = "Q1"
	AnchorMiddle AnchorName = "Q2_middle"
	AnchorQ3     AnchorName = "Q3"
	AnchorLast   AnchorName = "last"
)

// Anchor is one structural anchor: a named position, its linear index and
// the verse at that index.
type Anchor struct {
	Name  AnchorName   `json:"name"`
	Index int          `json:"index"`
	Ref   ref.VerseRef `json:"ref"`
}

// Quartiles holds the three interior anchors. Q2 is the middle verse.
type Quartiles struct {
	Q1 Anchor `json:"q1"`
	Q2 Anchor `json:"q2"`
	Q3 Anchor `json:"q3"`
}

// Sequence is an immutable ordered flattening of one scope.
type Sequence struct {
	scope       scopes.Scope
	refs        []ref.VerseRef
	byRef       map[ref.VerseRef]int
	fingerprint string
}

// Build flattens the scope's books in catalog order and assigns linear
// indices. It fails with an unknown-scope error when the catalog cannot
// resolve the scope and an empty-scope error when the scope contains no
// verses.
func Build(catalog Catalog, scopeID string) (*Sequence, error) {
	scope, err := catalog.Resolve(scopeID)
	if err != nil {
		return nil, err
	}

	var refs []ref.VerseRef
	for _, bookID := range scope.Books {
		book, ok := catalog.Book(bookID)
		if !ok {
			return nil, errors.NewNotFound("book", bookID)
		}
		for ch := 1; ch <= book.Chapters; ch++ {
			count := book.Verses(ch)
			for v := 1; v <= count; v++ {
				refs = append(refs, ref.VerseRef{Book: book.ID, Chapter: ch, Verse: v})
			}
		}
	}

	if len(refs) == 0 {
		return nil, errors.NewEmptyScope(scopeID)
	}

	byRef := make(map[ref.VerseRef]int, len(refs))
	hasher := blake3.New()
	for i, r := range refs {
		byRef[r] = i
		hasher.Write([]byte(r.String()))
		hasher.Write([]byte{'\n'})
	}

	return &Sequence{
		scope:       scope,
		refs:        refs,
		byRef:       byRef,
		fingerprint: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// Scope returns the scope this sequence was built from.
func (s *Sequence) Scope() scopes.Scope {
	return s.scope
}

// Count returns the number of verses in the sequence.
func (s *Sequence) Count() int {
	return len(s.refs)
}

// At returns the verse at linear index i.
func (s *Sequence) At(i int) (ref.VerseRef, error) {
	if i < 0 || i >= len(s.refs) {
		return ref.VerseRef{}, errors.NewIndexOutOfRange(i, len(s.refs))
	}
	return s.refs[i], nil
}

// ByRef returns the linear index of a verse, or false when the verse is not
// part of the sequence.
func (s *Sequence) ByRef(r ref.VerseRef) (int, bool) {
	i, ok := s.byRef[r]
	return i, ok
}

// Fingerprint returns the BLAKE3 hex digest of the ordered canonical
// references. Two sequences with the same fingerprint index the same verses
// in the same order.
func (s *Sequence) Fingerprint() string {
	return s.fingerprint
}

// at is the unchecked accessor for indices the sequence computed itself.
func (s *Sequence) at(i int) ref.VerseRef {
	return s.refs[i]
}

func (s *Sequence) anchor(name AnchorName, index int) Anchor {
	return Anchor{Name: name, Index: index, Ref: s.at(index)}
}

// Middle returns the middle anchor, index N/2 by integer division. For even
// counts this is the first verse of the second half.
func (s *Sequence) Middle() Anchor {
	return s.anchor(AnchorMiddle, len(s.refs)/2)
}

// QuartileAnchors returns the three interior anchors Q1, Q2 and Q3 at
// indices N/4, N/2 and 3N/4.
func (s *Sequence) QuartileAnchors() Quartiles {
	n := len(s.refs)
	return Quartiles{
		Q1: s.anchor(AnchorQ1, n/4),
		Q2: s.anchor(AnchorMiddle, n/2),
		Q3: s.anchor(AnchorQ3, 3*n/4),
	}
}

// Anchors returns all five structural anchors in canonical order: first,
// Q1, Q2_middle, Q3, last. For small sequences anchors may share an index;
// each is still reported.
func (s *Sequence) Anchors() []Anchor {
	n := len(s.refs)
	return []Anchor{
		s.anchor(AnchorFirst, 0),
		s.anchor(AnchorQ1, n/4),
		s.anchor(AnchorMiddle, n/2),
		s.anchor(AnchorQ3, 3*n/4),
		s.anchor(AnchorLast, n-1),
	}
}
