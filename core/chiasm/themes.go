package chiasm

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/FocuswithJustin/KeystoneBible/core/lemma"
)

// ThemeMode selects what theme comparison counts.
type ThemeMode string

// Theme modes. Surface counts source-script word forms; Lemma counts
// comparison keys of tagged tokens, falling back to surface words for
// verses without tokens.
const (
	ThemeSurface ThemeMode = "surface"
	ThemeLemma   ThemeMode = "lemma"
)

// ParseThemeMode validates a mode string, defaulting empty to surface.
func ParseThemeMode(s string) (ThemeMode, bool) {
	switch ThemeMode(s) {
	case "":
		return ThemeSurface, true
	case ThemeSurface, ThemeLemma:
		return ThemeMode(s), true
	}
	return "", false
}

// ThemeSource is one verse's contribution to theme comparison.
type ThemeSource struct {
	// Text is the source-script text, tokenized on whitespace in surface
	// mode.
	Text string

	// Tokens are the verse's tagged tokens, counted by key in lemma mode.
	Tokens []lemma.Token
}

// ThemeReport summarizes vocabulary repeated across the compared verses.
type ThemeReport struct {
	// Mode is the comparison mode that produced the report.
	Mode ThemeMode `json:"mode"`

	// TotalUniqueWords is the number of distinct words (or keys) seen.
	TotalUniqueWords int `json:"total_unique_words"`

	// RepeatedWords maps each word (or key) with two or more total
	// occurrences to its count.
	RepeatedWords map[string]int `json:"repeated_words"`

	// Note is the fixed interpretive annotation.
	Note string `json:"interpretation"`
}

// CompareThemes counts vocabulary across the sources and reports what
// repeats. Counting is by total occurrences: a word appearing twice in one
// verse repeats just as one appearing once in each of two verses. In
// surface mode, words of two runes or fewer are discarded before counting.
func CompareThemes(sources []ThemeSource, mode ThemeMode) ThemeReport {
	freq := make(map[string]int)

	for _, src := range sources {
		if mode == ThemeLemma && len(src.Tokens) > 0 {
			for _, tok := range src.Tokens {
				freq[tok.Key]++
			}
			continue
		}
		for _, word := range strings.Fields(src.Text) {
			if utf8.RuneCountInString(word) > 2 {
				freq[word]++
			}
		}
	}

	repeated := make(map[string]int)
	for word, count := range freq {
		if count >= 2 {
			repeated[word] = count
		}
	}

	return ThemeReport{
		Mode:             mode,
		TotalUniqueWords: len(freq),
		RepeatedWords:    repeated,
		Note:             themesNote,
	}
}

// AnchorThemes fetches the five anchor verses and compares their vocabulary.
// Anchor records carry no tagged tokens, so lemma mode degrades to surface
// comparison per verse; the mode is still recorded on the report.
func (a *Analyzer) AnchorThemes(ctx context.Context, mode ThemeMode) ThemeReport {
	rows := a.FullAnchors(ctx)
	sources := make([]ThemeSource, 0, len(rows))
	for _, row := range rows {
		sources = append(sources, ThemeSource{Text: row.Verse.Hebrew})
	}
	return CompareThemes(sources, mode)
}
