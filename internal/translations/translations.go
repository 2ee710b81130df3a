// Package translations fetches verse text from remote Bible APIs and an
// optional local SQLite database, merging the sources into complete
// translation records.
//
// Two remote sources are supported: the Sefaria texts API (Hebrew and the
// JPS 1917 translation) and bible-api.com (World English Bible). Records are
// always complete: any field a source cannot supply is filled with a
// placeholder string, so callers never handle lookup errors.
package translations

import (
	"regexp"
	"time"
)

// Placeholder strings substituted when a source cannot supply a field.
const (
	PlaceholderHebrew  = "[Hebrew text unavailable]"
	PlaceholderJPS1917 = "[Translation unavailable]"
	PlaceholderWEB     = "[WEB translation unavailable]"
)

// DefaultTimeout is the default HTTP request timeout for both remote clients.
const DefaultTimeout = 10 * time.Second

// htmlTag matches markup embedded in API text fields, such as Sefaria's
// cantillation and footnote spans.
var htmlTag = regexp.MustCompile(`<[^>]+>`)

func stripTags(s string) string {
	return htmlTag.ReplaceAllString(s, "")
}

// bookNames maps catalog book IDs to the names both remote APIs use.
var bookNames = map[string]string{
	"GEN": "Genesis",
	"EXO": "Exodus",
	"LEV": "Leviticus",
	"NUM": "Numbers",
	"DEU": "Deuteronomy",
	"PSA": "Psalms",
}

// bookName returns the API name for a book ID, passing unknown IDs through
// unchanged.
func bookName(id string) string {
	if name, ok := bookNames[id]; ok {
		return name
	}
	return id
}
