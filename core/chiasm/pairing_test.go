package chiasm

import (
	"testing"

	"github.com/FocuswithJustin/KeystoneBible/core/lemma"
)

func tok(key, surface, gloss string) lemma.Token {
	return lemma.Token{Key: key, Surface: surface, Gloss: gloss}
}

// psalm23 is the six-verse psalm with OSHB-derived lemma tagging.
func psalm23() []PassageVerse {
	return []PassageVerse{
		{
			Number: 1,
			Text:   "יְהוָה רֹעִי לֹא אֶחְסָר",
			Gloss:  "The LORD is my shepherd; I shall not want.",
			Tokens: []lemma.Token{
				tok("H3068", "יהוה", "YHWH"),
				tok("H7462", "רעה", "shepherd"),
				tok("H3808", "לא", "not"),
				tok("H2637", "חסר", "lack"),
			},
		},
		{
			Number: 2,
			Text:   "בִּנְאוֹת דֶּשֶׁא יַרְבִּיצֵנִי עַל־מֵי מְנֻחוֹת יְנַהֲלֵנִי",
			Gloss:  "He makes me lie down in green pastures; He leads me beside quiet waters.",
			Tokens: []lemma.Token{
				tok("H5116", "נוה", "pasture"),
				tok("H1877", "דשא", "grass"),
				tok("H7257", "רבץ", "lie down"),
				tok("H4325", "מים", "water"),
				tok("H4496", "מנוחה", "rest"),
				tok("H5095", "נהל", "lead"),
			},
		},
		{
			Number: 3,
			Text:   "נַפְשִׁי יְשׁוֹבֵב יַנְחֵנִי בְמַעְגְּלֵי־צֶדֶק לְמַעַן שְׁמוֹ",
			Gloss:  "He restores my soul; He guides me in paths of righteousness for His name's sake.",
			Tokens: []lemma.Token{
				tok("H5315", "נפש", "soul"),
				tok("H7725", "שוב", "restore"),
				tok("H5148", "נחה", "guide"),
				tok("H4570", "מעגל", "path"),
				tok("H6664", "צדק", "righteousness"),
				tok("H8034", "שם", "name"),
			},
		},
		{
			Number: 4,
			Text:   "גַּם כִּי־אֵלֵךְ בְּגֵיא צַלְמָוֶת לֹא־אִירָא רָע כִּי־אַתָּה עִמָּדִי שִׁבְטְךָ וּמִשְׁעַנְתֶּךָ הֵמָּה יְנַחֲמֻנִי",
			Gloss:  "Even though I walk through the valley of the shadow of death, I will fear no evil, for You are with me; Your rod and Your staff, they comfort me.",
			Tokens: []lemma.Token{
				tok("H1571", "גם", "even"),
				tok("H1980", "הלך", "walk"),
				tok("H1516", "גיא", "valley"),
				tok("H6757", "צלמות", "death-shadow"),
				tok("H3808", "לא", "not"),
				tok("H3372", "ירא", "fear"),
				tok("H7451", "רע", "evil"),
				tok("H5973", "עם", "with"),
				tok("H7626", "שבט", "rod"),
				tok("H4938", "משענת", "staff"),
				tok("H5162", "נחם", "comfort"),
			},
		},
		{
			Number: 5,
			Text:   "תַּעֲרֹךְ לְפָנַי שֻׁלְחָן נֶגֶד צֹרְרָי דִּשַּׁנְתָּ בַשֶּׁמֶן רֹאשִׁי כּוֹסִי רְוָיָה",
			Gloss:  "You prepare a table before me in the presence of my enemies; You anoint my head with oil; my cup overflows.",
			Tokens: []lemma.Token{
				tok("H6186", "ערך", "arrange"),
				tok("H6440", "פנים", "face"),
				tok("H7979", "שלחן", "table"),
				tok("H5048", "נגד", "before"),
				tok("H6887", "צרר", "enemy"),
				tok("H1878", "דשן", "anoint"),
				tok("H8081", "שמן", "oil"),
				tok("H7218", "ראש", "head"),
				tok("H3563", "כוס", "cup"),
				tok("H7310", "רויה", "overflow"),
			},
		},
		{
			Number: 6,
			Text:   "אַךְ טוֹב וָחֶסֶד יִרְדְּפוּנִי כָּל־יְמֵי חַיָּי וְשַׁבְתִּי בְּבֵית־יְהוָה לְאֹרֶךְ יָמִים",
			Gloss:  "Surely goodness and mercy shall follow me all the days of my life, and I shall dwell in the house of the LORD forever.",
			Tokens: []lemma.Token{
				tok("H389", "אך", "surely"),
				tok("H2896", "טוב", "good"),
				tok("H2617", "חסד", "mercy"),
				tok("H7291", "רדף", "follow"),
				tok("H3117", "יום", "day"),
				tok("H2416", "חיים", "life"),
				tok("H7725", "שוב", "return"),
				tok("H1004", "בית", "house"),
				tok("H3068", "יהוה", "YHWH"),
				tok("H753", "ארך", "length"),
			},
		},
	}
}

func TestComputePairingsPsalm23(t *testing.T) {
	pairs := ComputePairings(psalm23())

	// Six verses: three mirrored pairs, no hinge.
	if len(pairs) != 3 {
		t.Fatalf("ComputePairings() returned %d pairs, want 3", len(pairs))
	}

	outer := pairs[0]
	if outer.Kind != OuterMirror {
		t.Errorf("pairs[0].Kind = %q, want %q", outer.Kind, OuterMirror)
	}
	if outer.A.Number != 1 || outer.B == nil || outer.B.Number != 6 {
		t.Errorf("pairs[0] mirrors %d and %v, want 1 and 6", outer.A.Number, outer.B)
	}
	// Verses 1 and 6 share only the divine name.
	if len(outer.Shared) != 1 {
		t.Fatalf("pairs[0].Shared = %v, want one token", outer.Shared)
	}
	if got := outer.Shared[0]; got.Key != "H3068" || got.Surface != "יהוה" || got.Gloss != "YHWH" {
		t.Errorf("pairs[0].Shared[0] = %+v, want H3068 from verse 1", got)
	}

	for i, wantA, wantB := 1, 2, 5; i <= 2; i, wantA, wantB = i+1, wantA+1, wantB-1 {
		p := pairs[i]
		if p.Kind != QuartileEcho {
			t.Errorf("pairs[%d].Kind = %q, want %q", i, p.Kind, QuartileEcho)
		}
		if p.A.Number != wantA || p.B == nil || p.B.Number != wantB {
			t.Errorf("pairs[%d] mirrors %d and %v, want %d and %d", i, p.A.Number, p.B, wantA, wantB)
		}
		if len(p.Shared) != 0 {
			t.Errorf("pairs[%d].Shared = %v, want none", i, p.Shared)
		}
	}
}

func TestComputePairingsEdgeCases(t *testing.T) {
	t.Run("empty passage", func(t *testing.T) {
		if got := ComputePairings(nil); got != nil {
			t.Errorf("ComputePairings(nil) = %v, want nil", got)
		}
	})

	t.Run("single verse is only a hinge", func(t *testing.T) {
		pairs := ComputePairings([]PassageVerse{{Number: 1, Text: "only"}})
		if len(pairs) != 1 {
			t.Fatalf("got %d pairs, want 1", len(pairs))
		}
		hinge := pairs[0]
		if hinge.Kind != CenterHinge || hinge.B != nil || hinge.Shared != nil {
			t.Errorf("hinge = %+v, want partnerless center", hinge)
		}
	})

	t.Run("odd passage appends hinge last", func(t *testing.T) {
		verses := []PassageVerse{
			{Number: 1, Tokens: []lemma.Token{tok("H1", "א", "")}},
			{Number: 2},
			{Number: 3, Tokens: []lemma.Token{tok("H1", "ב", "")}},
		}
		pairs := ComputePairings(verses)
		if len(pairs) != 2 {
			t.Fatalf("got %d pairs, want 2", len(pairs))
		}
		if pairs[0].Kind != OuterMirror || len(pairs[0].Shared) != 1 {
			t.Errorf("pairs[0] = %+v, want outer mirror sharing H1", pairs[0])
		}
		if pairs[1].Kind != CenterHinge || pairs[1].A.Number != 2 {
			t.Errorf("pairs[1] = %+v, want hinge on verse 2", pairs[1])
		}
	})
}

func TestSharedTokens(t *testing.T) {
	t.Run("display form from first occurrence", func(t *testing.T) {
		a := PassageVerse{Tokens: []lemma.Token{
			tok("H7725", "וְשַׁבְתִּי", "return"),
			tok("H7725", "שׁוּב", "turn back"),
			tok("H1004", "בית", "house"),
		}}
		b := PassageVerse{Tokens: []lemma.Token{
			tok("H7725", "ישובב", "restore"),
		}}

		shared := SharedTokens(a, b)
		if len(shared) != 1 {
			t.Fatalf("SharedTokens() = %v, want one entry per key", shared)
		}
		if shared[0].Surface != "וְשַׁבְתִּי" {
			t.Errorf("Surface = %q, want first occurrence from verse a", shared[0].Surface)
		}
	})

	t.Run("empty token lists share nothing", func(t *testing.T) {
		a := PassageVerse{Tokens: []lemma.Token{tok("H1", "א", "")}}
		if got := SharedTokens(a, PassageVerse{}); got != nil {
			t.Errorf("SharedTokens(a, empty) = %v, want nil", got)
		}
	})

	t.Run("key set is commutative", func(t *testing.T) {
		a := PassageVerse{Tokens: []lemma.Token{
			tok("H3068", "יהוה", "YHWH"),
			tok("H7725", "שוב", "return"),
			tok("H1004", "בית", "house"),
			tok("H3117", "יום", "day"),
		}}
		b := PassageVerse{Tokens: []lemma.Token{
			tok("H3117", "ימים", "days"),
			tok("H1004", "ביתה", "to the house"),
			tok("H5315", "נפש", "soul"),
			tok("H3068", "ליהוה", "to YHWH"),
		}}

		keys := func(verse, other PassageVerse) map[string]bool {
			set := make(map[string]bool)
			for _, tok := range SharedTokens(verse, other) {
				set[tok.Key] = true
			}
			return set
		}

		ab := keys(a, b)
		ba := keys(b, a)
		if len(ab) != 3 || len(ba) != 3 {
			t.Fatalf("key sets = %v and %v, want 3 shared keys each way", ab, ba)
		}
		for key := range ab {
			if !ba[key] {
				t.Errorf("key %s shared a→b but not b→a", key)
			}
		}
	})
}

func TestFilterPairs(t *testing.T) {
	verses := []PassageVerse{
		{Number: 1, Tokens: []lemma.Token{tok("H1", "א", "")}},
		{Number: 2},
		{Number: 3},
		{Number: 4},
		{Number: 5, Tokens: []lemma.Token{tok("H1", "ב", "")}},
	}
	pairs := ComputePairings(verses)
	if len(pairs) != 3 {
		t.Fatalf("setup: got %d pairs, want 2 mirrors + hinge", len(pairs))
	}

	t.Run("zero threshold keeps everything", func(t *testing.T) {
		if got := FilterPairs(pairs, 0); len(got) != 3 {
			t.Errorf("FilterPairs(0) kept %d, want 3", len(got))
		}
	})

	t.Run("threshold drops sparse pairs but never the hinge", func(t *testing.T) {
		got := FilterPairs(pairs, 1)
		if len(got) != 2 {
			t.Fatalf("FilterPairs(1) kept %d, want 2", len(got))
		}
		if got[0].Kind != OuterMirror {
			t.Errorf("kept[0].Kind = %q, want outer mirror with shared token", got[0].Kind)
		}
		if got[1].Kind != CenterHinge {
			t.Errorf("kept[1].Kind = %q, want hinge despite empty shared set", got[1].Kind)
		}
	})
}
