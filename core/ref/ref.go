// Package ref provides the canonical verse reference model.
//
// A canonical reference names exactly one verse as BOOK.CC.VV: an upper-case
// Paratext-style book code, then the chapter and verse numbers zero-padded to
// two digits ("GEN.01.01", "PSA.23.06"). Numbers of three or more digits
// print at natural width ("PSA.119.176"). Parsing accepts unpadded and
// lower-case input.
package ref

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/KeystoneBible/core/errors"
)

// VerseRef identifies a single verse within a book.
type VerseRef struct {
	// Book is the upper-case book code (e.g., "GEN", "PSA").
	Book string `json:"book"`

	// Chapter is the chapter number (1-indexed).
	Chapter int `json:"chapter"`

	// Verse is the verse number within the chapter (1-indexed).
	Verse int `json:"verse"`
}

// refGrammar is the participle grammar for canonical references.
// Examples: "GEN.1.1", "GEN.01.01", "PSA.119.176", "1SA.3.4"
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	BookPrefix string       `parser:"@Int?"`
	BookName   string       `parser:"@Ident"`
	ChapterRef *chapterPart `parser:"( \".\" @@ )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type chapterPart struct {
	// Captured as strings: zero-padded numbers must parse as base 10.
	Chapter  string     `parser:"@Int"`
	VerseRef *versePart `parser:"( \".\" @@ )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type versePart struct {
	Verse string `parser:"@Int"`
}

// refLexer defines the lexer for canonical references.
var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Z][A-Z0-9]*`},
	{Name: "Punct", Pattern: `[.]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// refParser is the participle parser for canonical references.
var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a canonical verse reference. The book code is upper-cased, so
// "gen.1.1" and "GEN.01.01" both yield {GEN 1 1}. A reference must name a
// chapter and a verse.
func Parse(s string) (VerseRef, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return VerseRef{}, &errors.ParseError{Format: "reference", Message: "empty reference string"}
	}

	parsed, err := refParser.ParseString("", trimmed)
	if err != nil {
		return VerseRef{}, &errors.ParseError{
			Format:  "reference",
			Message: fmt.Sprintf("invalid reference %q", s),
			Err:     err,
		}
	}

	if parsed.ChapterRef == nil || parsed.ChapterRef.VerseRef == nil {
		return VerseRef{}, &errors.ParseError{
			Format:  "reference",
			Message: fmt.Sprintf("reference %q must name book, chapter and verse", s),
		}
	}

	chapter, err := strconv.Atoi(parsed.ChapterRef.Chapter)
	if err != nil {
		return VerseRef{}, &errors.ParseError{Format: "reference", Message: "invalid chapter number", Err: err}
	}
	verse, err := strconv.Atoi(parsed.ChapterRef.VerseRef.Verse)
	if err != nil {
		return VerseRef{}, &errors.ParseError{Format: "reference", Message: "invalid verse number", Err: err}
	}
	if chapter < 1 || verse < 1 {
		return VerseRef{}, &errors.ParseError{
			Format:  "reference",
			Message: fmt.Sprintf("chapter and verse must be positive in %q", s),
		}
	}

	return VerseRef{
		Book:    parsed.BookPrefix + parsed.BookName,
		Chapter: chapter,
		Verse:   verse,
	}, nil
}

// String returns the canonical form of the reference.
func (r VerseRef) String() string {
	return fmt.Sprintf("%s.%02d.%02d", r.Book, r.Chapter, r.Verse)
}

// IsZero reports whether the reference is the zero value.
func (r VerseRef) IsZero() bool {
	return r.Book == "" && r.Chapter == 0 && r.Verse == 0
}
