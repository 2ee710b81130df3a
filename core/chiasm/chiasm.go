// Package chiasm analyzes chiastic structure: the mirrored literary pattern
// (A B C B' A') whose meaning concentrates at the center.
//
// Two analysis styles are provided. Scope analysis walks a whole scope
// through its verse sequence and reports the structural anchors (middle,
// quartiles, the five-point frame) with full translation records. Passage
// analysis mirrors the verses of a single passage around its center and
// reports shared vocabulary per pair.
package chiasm

import (
	"context"

	"github.com/FocuswithJustin/KeystoneBible/core/ref"
	"github.com/FocuswithJustin/KeystoneBible/core/verseindex"
)

// VerseText is the complete translation record for one verse. Implementations
// of Lookup substitute placeholder strings for unavailable fields, so every
// field is always present.
type VerseText struct {
	Ref             string `json:"ref"`
	Hebrew          string `json:"hebrew"`
	Transliteration string `json:"transliteration"`
	JPS1917         string `json:"jps1917"`
	WEB             string `json:"web"`
}

// Lookup supplies translation records for verses. Fetch never fails: lookup
// problems degrade to placeholder text in the returned record.
type Lookup interface {
	Fetch(ctx context.Context, r ref.VerseRef) VerseText
}

// Fixed interpretive annotations attached to report rows.
const (
	middleNote = "This is the exact middle verse of the entire scope - often the theological hinge point in chiastic structures."

	themesNote = "Repeated Hebrew words across anchor points often indicate intentional chiastic connections."

	middlePosition = "Center (Q2)"
)

// quartileNotes annotates the three interior anchors.
var quartileNotes = map[string]string{
	"Q1": "First quartile - introduces themes that will be developed toward the center",
	"Q2": "MIDDLE/CENTER - the theological hinge and interpretive key",
	"Q3": "Third quartile - echoes and resolves themes from Q1, pointing back to center",
}

// anchorDisplay maps anchor keys to their display name and annotation.
var anchorDisplay = map[verseindex.AnchorName]struct {
	position string
	note     string
}{
	verseindex.AnchorFirst:  {"Opening", "The beginning - sets the stage for the chiastic structure"},
	verseindex.AnchorQ1:     {"First Quartile", "Introduces major themes pointing toward the center"},
	verseindex.AnchorMiddle: {"MIDDLE/CENTER", "The theological and structural hinge - the key to interpretation"},
	verseindex.AnchorQ3:     {"Third Quartile", "Mirrors Q1, resolving and echoing earlier themes"},
	verseindex.AnchorLast:   {"Closing", "Conclusion - completes the chiastic arc"},
}

// Analyzer runs chiastic reports over one scope's verse sequence.
type Analyzer struct {
	seq    *verseindex.Sequence
	lookup Lookup

	// OnProgress, when set, is invoked after each anchor lookup of a
	// multi-anchor report with the number completed and the total.
	OnProgress func(completed, total int)
}

// NewAnalyzer builds an analyzer over a sequence. The lookup supplies verse
// text; anchor positions come from the sequence alone.
func NewAnalyzer(seq *verseindex.Sequence, lookup Lookup) *Analyzer {
	return &Analyzer{seq: seq, lookup: lookup}
}

// ScopeSummary describes the scope under analysis.
type ScopeSummary struct {
	ScopeID     string   `json:"scope_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Books       []string `json:"books"`
	VerseCount  int      `json:"verse_count"`
	Fingerprint string   `json:"fingerprint"`
}

// ScopeSummary reports the scope's identity, book list, size and catalog
// fingerprint.
func (a *Analyzer) ScopeSummary() ScopeSummary {
	scope := a.seq.Scope()
	return ScopeSummary{
		ScopeID:     scope.ID,
		Name:        scope.Name,
		Description: scope.Description,
		Books:       scope.Books,
		VerseCount:  a.seq.Count(),
		Fingerprint: a.seq.Fingerprint(),
	}
}

// MiddleVerseReport is the middle-verse analysis: the verse at index N/2
// with its complete translation record.
type MiddleVerseReport struct {
	Position    string    `json:"position"`
	Index       int       `json:"index"`
	TotalVerses int       `json:"total_verses"`
	Verse       VerseText `json:"verse"`
	Note        string    `json:"interpretation_note"`
}

// MiddleVerse reports the exact middle verse of the scope.
func (a *Analyzer) MiddleVerse(ctx context.Context) MiddleVerseReport {
	mid := a.seq.Middle()
	return MiddleVerseReport{
		Position:    middlePosition,
		Index:       mid.Index,
		TotalVerses: a.seq.Count(),
		Verse:       a.lookup.Fetch(ctx, mid.Ref),
		Note:        middleNote,
	}
}

// AnchorRow is one verse of a quartile or full-anchor report.
type AnchorRow struct {
	// Position is the display name of the anchor ("Q1", "Opening", ...).
	Position string `json:"position"`

	// Key is the canonical anchor key ("first", "Q1", "Q2_middle", "Q3",
	// "last"); empty in quartile reports, which use Position directly.
	Key string `json:"key,omitempty"`

	// Index is the anchor's linear index in the sequence.
	Index int `json:"index"`

	// Verse is the complete translation record.
	Verse VerseText `json:"verse"`

	// Note is the fixed interpretive annotation for this position.
	Note string `json:"interpretation_note"`
}

// QuartileFrame reports the three interior anchors Q1, Q2 and Q3, in that
// order, each with its translation record. Lookups run sequentially in
// canonical order.
func (a *Analyzer) QuartileFrame(ctx context.Context) []AnchorRow {
	q := a.seq.QuartileAnchors()
	anchors := []struct {
		position string
		anchor   verseindex.Anchor
	}{
		{"Q1", q.Q1},
		{"Q2", q.Q2},
		{"Q3", q.Q3},
	}

	rows := make([]AnchorRow, 0, len(anchors))
	for i, entry := range anchors {
		rows = append(rows, AnchorRow{
			Position: entry.position,
			Index:    entry.anchor.Index,
			Verse:    a.lookup.Fetch(ctx, entry.anchor.Ref),
			Note:     quartileNotes[entry.position],
		})
		a.progress(i+1, len(anchors))
	}
	return rows
}

// FullAnchors reports all five structural anchors in canonical order:
// first, Q1, Q2_middle, Q3, last. Lookups run sequentially; a failed lookup
// degrades that row's record and never aborts the report.
func (a *Analyzer) FullAnchors(ctx context.Context) []AnchorRow {
	anchors := a.seq.Anchors()
	rows := make([]AnchorRow, 0, len(anchors))
	for i, anchor := range anchors {
		display := anchorDisplay[anchor.Name]
		rows = append(rows, AnchorRow{
			Position: display.position,
			Key:      string(anchor.Name),
			Index:    anchor.Index,
			Verse:    a.lookup.Fetch(ctx, anchor.Ref),
			Note:     display.note,
		})
		a.progress(i+1, len(anchors))
	}
	return rows
}

func (a *Analyzer) progress(completed, total int) {
	if a.OnProgress != nil {
		a.OnProgress(completed, total)
	}
}
