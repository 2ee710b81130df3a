package lemma

import (
	"reflect"
	"testing"
)

func TestStripGrammaticalPrefix(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "no prefix", raw: "7462", want: "7462"},
		{name: "single prefix", raw: "b/7462", want: "7462"},
		{name: "stacked prefixes", raw: "c/l/5414", want: "5414"},
		{name: "conjunction only", raw: "c/3808", want: "3808"},
		{name: "article", raw: "d/776", want: "776"},
		{name: "non-letter head untouched", raw: "7/462", want: "7/462"},
		{name: "uppercase not a prefix", raw: "B/7462", want: "B/7462"},
		{name: "bare slash untouched", raw: "/7462", want: "/7462"},
		{name: "empty", raw: "", want: ""},
		{name: "prefix without body", raw: "b/", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripGrammaticalPrefix(tt.raw); got != tt.want {
				t.Errorf("StripGrammaticalPrefix(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestStrongsKey(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain number", raw: "3068", want: "H3068"},
		{name: "prefixed number", raw: "b/7462", want: "H7462"},
		{name: "homonym marker dropped", raw: "7462 b", want: "H7462"},
		{name: "prefix and homonym", raw: "l/7725 a", want: "H7725"},
		{name: "surrounding space", raw: " 5315 ", want: "H5315"},
		{name: "non-numeric kept verbatim", raw: "של", want: "של"},
		{name: "mixed value kept verbatim", raw: "1254a", want: "1254a"},
		{name: "empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StrongsKey(tt.raw); got != tt.want {
				t.Errorf("StrongsKey(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSplitText(t *testing.T) {
	t.Run("surface tokens", func(t *testing.T) {
		got := SplitText("יהוה רעי לא אחסר")
		want := []Token{
			{Key: "יהוה", Surface: "יהוה"},
			{Key: "רעי", Surface: "רעי"},
			{Key: "לא", Surface: "לא"},
			{Key: "אחסר", Surface: "אחסר"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("SplitText() = %v, want %v", got, want)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		if got := SplitText("   "); got != nil {
			t.Errorf("SplitText(blank) = %v, want nil", got)
		}
	})
}

func TestSurface(t *testing.T) {
	tok := Surface("חסד")
	if tok.Key != "חסד" || tok.Surface != "חסד" {
		t.Errorf("Surface() = %+v, want Key and Surface both %q", tok, "חסד")
	}
	if tok.Gloss != "" || tok.Morph != "" {
		t.Errorf("Surface() filled optional fields: %+v", tok)
	}
}
