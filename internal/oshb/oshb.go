// Package oshb parses OSHB-style OSIS XML into passage verses for pairing
// analysis.
//
// The expected shape follows the Open Scriptures Hebrew Bible convention:
// verse elements carry an osisID ("Ps.23.1") and contain tagged word
// elements whose lemma attribute holds a Strong's number with optional
// grammatical prefixes and homonym markers ("b/7462 b"). A verse may also
// carry typed segments for its running text (seg type="x-text") and a
// translation (seg type="x-gloss"). Verses without word elements fall back
// to whitespace tokenization of their text, so plain OSIS translations
// parse too.
package oshb

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/KeystoneBible/core/chiasm"
	"github.com/FocuswithJustin/KeystoneBible/core/errors"
	"github.com/FocuswithJustin/KeystoneBible/core/lemma"
	"github.com/FocuswithJustin/KeystoneBible/core/ref"
)

// Compiled selectors for the OSIS shapes we read. Word and segment
// expressions are evaluated relative to a verse element.
var (
	verseExpr = xpath.MustCompile("//verse[@osisID]")
	wordExpr  = xpath.MustCompile("w")
	textExpr  = xpath.MustCompile("seg[@type='x-text']")
	glossExpr = xpath.MustCompile("seg[@type='x-gloss']")
)

// osisBooks maps OSIS book codes to canonical book IDs. Codes outside the
// map pass through upper-cased.
var osisBooks = map[string]string{
	"Gen":  "GEN",
	"Exod": "EXO",
	"Lev":  "LEV",
	"Num":  "NUM",
	"Deut": "DEU",
	"Ps":   "PSA",
}

// Parse reads OSIS XML and returns its verses in document order.
func Parse(r io.Reader) ([]chiasm.PassageVerse, error) {
	return parse(r, "")
}

// ParseFile parses the OSIS file at path.
func ParseFile(path string) ([]chiasm.PassageVerse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()
	return parse(f, path)
}

func parse(r io.Reader, path string) ([]chiasm.PassageVerse, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &errors.ParseError{Format: "OSIS", Path: path, Message: "malformed XML", Err: err}
	}

	nodes := xmlquery.QuerySelectorAll(doc, verseExpr)
	if len(nodes) == 0 {
		return nil, &errors.ParseError{Format: "OSIS", Path: path, Message: "no verse elements with an osisID"}
	}

	verses := make([]chiasm.PassageVerse, 0, len(nodes))
	for i, node := range nodes {
		verses = append(verses, parseVerse(node, i+1))
	}
	return verses, nil
}

// parseVerse converts one verse element. The ordinal is the verse's
// 1-indexed position in the parse, used when the osisID carries no usable
// verse number.
func parseVerse(node *xmlquery.Node, ordinal int) chiasm.PassageVerse {
	v := chiasm.PassageVerse{Number: ordinal}

	book, chapter, verse, ok := splitOsisID(node.SelectAttr("osisID"))
	if ok {
		v.Number = verse
		v.Ref = ref.VerseRef{Book: book, Chapter: chapter, Verse: verse}.String()
	}

	for _, w := range xmlquery.QuerySelectorAll(node, wordExpr) {
		v.Tokens = append(v.Tokens, parseWord(w))
	}

	v.Text = segText(node, textExpr)
	if v.Text == "" {
		if len(v.Tokens) > 0 {
			v.Text = joinSurfaces(v.Tokens)
		} else {
			v.Text = normalize(node.InnerText())
		}
	}
	v.Gloss = segText(node, glossExpr)

	// Untagged verses degrade to surface tokens so pairing still works.
	if len(v.Tokens) == 0 {
		v.Tokens = lemma.SplitText(v.Text)
	}
	return v
}

// parseWord converts one w element into a token. A word without a lemma
// attribute matches by surface form alone.
func parseWord(w *xmlquery.Node) lemma.Token {
	surface := strings.TrimSpace(w.InnerText())
	tok := lemma.Token{
		Key:     lemma.StrongsKey(w.SelectAttr("lemma")),
		Surface: surface,
		Gloss:   w.SelectAttr("gloss"),
		Morph:   w.SelectAttr("morph"),
	}
	if tok.Key == "" {
		tok.Key = surface
	}
	return tok
}

// segText returns the normalized text of the first matching child segment.
func segText(node *xmlquery.Node, expr *xpath.Expr) string {
	seg := xmlquery.QuerySelector(node, expr)
	if seg == nil {
		return ""
	}
	return normalize(seg.InnerText())
}

// joinSurfaces reconstructs a tagged verse's running text from its word
// surfaces.
func joinSurfaces(tokens []lemma.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		if tok.Surface == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Surface)
	}
	return b.String()
}

// normalize collapses runs of whitespace to single spaces.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// splitOsisID splits an OSIS identifier like "Ps.23.1" into a canonical
// book ID and numeric chapter and verse. Identifiers without all three
// parts, or with non-numeric numbers, report ok false.
func splitOsisID(osisID string) (book string, chapter, verse int, ok bool) {
	parts := strings.Split(osisID, ".")
	if len(parts) != 3 {
		return "", 0, 0, false
	}

	chapter, err := strconv.Atoi(parts[1])
	if err != nil || chapter < 1 {
		return "", 0, 0, false
	}
	verse, err = strconv.Atoi(parts[2])
	if err != nil || verse < 1 {
		return "", 0, 0, false
	}

	book = osisBooks[parts[0]]
	if book == "" {
		book = strings.ToUpper(parts[0])
	}
	return book, chapter, verse, true
}
