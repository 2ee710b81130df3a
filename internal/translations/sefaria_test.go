package translations

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FocuswithJustin/KeystoneBible/core/errors"
	"github.com/FocuswithJustin/KeystoneBible/core/ref"
)

func TestSefariaFetchVerse(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantHebrew  string
		wantJPS1917 string
	}{
		{
			name:        "string fields",
			body:        `{"he": "בְּרֵאשִׁית בָּרָא אֱלֹהִים", "versions": [{"versionTitle": "Tanakh: The Holy Scriptures, published by JPS", "text": "In the beginning God created"}]}`,
			wantHebrew:  "בְּרֵאשִׁית בָּרָא אֱלֹהִים",
			wantJPS1917: "In the beginning God created",
		},
		{
			name:        "array fields use the first element",
			body:        `{"he": ["מִזְמוֹר לְדָוִד", "extra"], "versions": [{"versionTitle": "The Holy Scriptures (JPS 1917)", "text": ["A Psalm of David", "extra"]}]}`,
			wantHebrew:  "מִזְמוֹר לְדָוִד",
			wantJPS1917: "A Psalm of David",
		},
		{
			name:        "markup stripped",
			body:        `{"he": "<big>בְּ</big>רֵאשִׁית", "versions": [{"versionTitle": "JPS", "text": "In <i>the</i> beginning"}]}`,
			wantHebrew:  "בְּרֵאשִׁית",
			wantJPS1917: "In the beginning",
		},
		{
			name:        "no JPS version falls back to default text",
			body:        `{"he": "שְׁמַע", "text": "Hear, O Israel", "versions": [{"versionTitle": "The Koren Jerusalem Bible", "text": "Hear!"}]}`,
			wantHebrew:  "שְׁמַע",
			wantJPS1917: "Hear, O Israel",
		},
		{
			name:        "empty JPS version falls back to default text",
			body:        `{"he": "שְׁמַע", "text": ["Hear, O Israel"], "versions": [{"versionTitle": "JPS 1917", "text": ""}]}`,
			wantHebrew:  "שְׁמַע",
			wantJPS1917: "Hear, O Israel",
		},
		{
			name:        "missing fields yield empty strings",
			body:        `{}`,
			wantHebrew:  "",
			wantJPS1917: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/texts/Psalms.23.1" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			client := NewSefariaClient(WithSefariaBaseURL(srv.URL))
			got, err := client.FetchVerse(context.Background(), ref.VerseRef{Book: "PSA", Chapter: 23, Verse: 1})
			if err != nil {
				t.Fatalf("FetchVerse() error = %v", err)
			}
			if got.Hebrew != tt.wantHebrew {
				t.Errorf("Hebrew = %q, want %q", got.Hebrew, tt.wantHebrew)
			}
			if got.JPS1917 != tt.wantJPS1917 {
				t.Errorf("JPS1917 = %q, want %q", got.JPS1917, tt.wantJPS1917)
			}
		})
	}
}

func TestSefariaUnknownBookPassthrough(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	client := NewSefariaClient(WithSefariaBaseURL(srv.URL))
	if _, err := client.FetchVerse(context.Background(), ref.VerseRef{Book: "JOB", Chapter: 1, Verse: 1}); err != nil {
		t.Fatalf("FetchVerse() error = %v", err)
	}
	if gotPath != "/api/texts/JOB.1.1" {
		t.Errorf("path = %q, want %q", gotPath, "/api/texts/JOB.1.1")
	}
}

func TestSefariaFetchVerseErrors(t *testing.T) {
	t.Run("http status error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewSefariaClient(WithSefariaBaseURL(srv.URL))
		_, err := client.FetchVerse(context.Background(), ref.VerseRef{Book: "PSA", Chapter: 151, Verse: 1})
		if err == nil {
			t.Fatal("expected error for 404 response")
		}
		if !errors.Is(err, errors.ErrTranslationUnavailable) {
			t.Errorf("expected ErrTranslationUnavailable, got %v", err)
		}

		var lookupErr *errors.LookupError
		if !errors.As(err, &lookupErr) {
			t.Fatalf("expected LookupError, got %T", err)
		}
		if lookupErr.Source != "sefaria" {
			t.Errorf("Source = %q, want %q", lookupErr.Source, "sefaria")
		}
		if lookupErr.Ref != "PSA.151.01" {
			t.Errorf("Ref = %q, want %q", lookupErr.Ref, "PSA.151.01")
		}
	})

	t.Run("malformed response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "not json")
		}))
		defer srv.Close()

		client := NewSefariaClient(WithSefariaBaseURL(srv.URL))
		_, err := client.FetchVerse(context.Background(), ref.VerseRef{Book: "GEN", Chapter: 1, Verse: 1})
		if err == nil {
			t.Fatal("expected error for malformed response")
		}
	})

	t.Run("unreachable server", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		client := NewSefariaClient(WithSefariaBaseURL(srv.URL))
		_, err := client.FetchVerse(context.Background(), ref.VerseRef{Book: "GEN", Chapter: 1, Verse: 1})
		if err == nil {
			t.Fatal("expected error for unreachable server")
		}
		if !errors.Is(err, errors.ErrTranslationUnavailable) {
			t.Errorf("expected ErrTranslationUnavailable, got %v", err)
		}
	})
}
