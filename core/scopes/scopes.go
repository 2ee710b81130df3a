// Package scopes defines the scope catalog: the named book collections an
// analysis can run over.
//
// A scope is an ordered list of books; a book contributes its chapters in
// order, and each chapter a known number of verses. The built-in catalog
// covers the Pentateuch and the Psalter with KJV-style verse counts and is
// embedded in the binary. Additional scopes over the built-in books can be
// loaded from a YAML file.
package scopes

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/KeystoneBible/core/errors"
)

//go:embed data/catalog.json
var catalogJSON []byte

// Book describes one book's shape: how many chapters it has and how many
// verses each chapter contains.
type Book struct {
	// ID is the upper-case book code (e.g., "GEN").
	ID string `json:"id"`

	// Name is the human-readable book name (e.g., "Genesis").
	Name string `json:"name"`

	// Chapters is the number of chapters.
	Chapters int `json:"chapters"`

	// VersesPerChapter maps chapter number to verse count. A chapter absent
	// from the map contributes zero verses.
	VersesPerChapter map[int]int `json:"verses_per_chapter"`
}

// Verses returns the verse count of a chapter, or zero when the chapter is
// not recorded.
func (b Book) Verses(chapter int) int {
	return b.VersesPerChapter[chapter]
}

// VerseCount returns the total number of verses in the book.
func (b Book) VerseCount() int {
	total := 0
	for ch := 1; ch <= b.Chapters; ch++ {
		total += b.VersesPerChapter[ch]
	}
	return total
}

// Scope is a named, ordered collection of books.
type Scope struct {
	// ID is the scope identifier used on the command line and in the API.
	ID string `json:"id"`

	// Name is the human-readable scope name.
	Name string `json:"name"`

	// Description explains what the scope covers.
	Description string `json:"description,omitempty"`

	// Books lists the book codes in canonical order.
	Books []string `json:"books"`
}

// Catalog holds the known books and scopes. The zero value is unusable; use
// New to build the built-in catalog.
type Catalog struct {
	books    map[string]Book
	scopes   map[string]Scope
	scopeIDs []string // definition order: built-ins first, then custom
}

// catalogFile is the embedded JSON document shape.
type catalogFile struct {
	Books []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Verses []int  `json:"verses"`
	} `json:"books"`
	Scopes []Scope `json:"scopes"`
}

// New builds the built-in catalog from the embedded data.
func New() (*Catalog, error) {
	var file catalogFile
	if err := json.Unmarshal(catalogJSON, &file); err != nil {
		return nil, errors.NewParse("catalog JSON", "data/catalog.json", err.Error())
	}

	c := &Catalog{
		books:  make(map[string]Book, len(file.Books)),
		scopes: make(map[string]Scope, len(file.Scopes)),
	}

	for _, b := range file.Books {
		book := Book{
			ID:               b.ID,
			Name:             b.Name,
			Chapters:         len(b.Verses),
			VersesPerChapter: make(map[int]int, len(b.Verses)),
		}
		for i, count := range b.Verses {
			book.VersesPerChapter[i+1] = count
		}
		c.books[b.ID] = book
	}

	for _, s := range file.Scopes {
		for _, bookID := range s.Books {
			if _, ok := c.books[bookID]; !ok {
				return nil, errors.NewValidation("scopes", fmt.Sprintf("scope %q references unknown book %q", s.ID, bookID))
			}
		}
		c.scopes[s.ID] = s
		c.scopeIDs = append(c.scopeIDs, s.ID)
	}

	return c, nil
}

// Resolve returns the scope for the given identifier.
func (c *Catalog) Resolve(scopeID string) (Scope, error) {
	s, ok := c.scopes[scopeID]
	if !ok {
		return Scope{}, errors.NewUnknownScope(scopeID)
	}
	return s, nil
}

// Book returns the book for the given code.
func (c *Catalog) Book(bookID string) (Book, bool) {
	b, ok := c.books[bookID]
	return b, ok
}

// ScopeIDs returns all scope identifiers in definition order: built-ins
// first, then custom scopes in file order.
func (c *Catalog) ScopeIDs() []string {
	ids := make([]string, len(c.scopeIDs))
	copy(ids, c.scopeIDs)
	return ids
}

// scopesFile is the custom scope YAML document shape.
type scopesFile struct {
	Scopes []struct {
		ID          string   `yaml:"id"`
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Books       []string `yaml:"books"`
	} `yaml:"scopes"`
}

// LoadScopesFile merges custom scopes from a YAML file into the catalog.
// Custom scopes may only reference known books and may not redefine an
// existing scope ID.
func (c *Catalog) LoadScopesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewIO("read", path, err)
	}

	var file scopesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return errors.NewParse("scopes YAML", path, err.Error())
	}

	for i, entry := range file.Scopes {
		field := fmt.Sprintf("scopes[%d]", i)
		if entry.ID == "" {
			return errors.NewValidation(field+".id", "must not be empty")
		}
		if _, exists := c.scopes[entry.ID]; exists {
			return errors.NewValidation(field+".id", fmt.Sprintf("scope %q is already defined", entry.ID))
		}
		if len(entry.Books) == 0 {
			return errors.NewValidation(field+".books", "must list at least one book")
		}
		for _, bookID := range entry.Books {
			if _, ok := c.books[bookID]; !ok {
				return errors.NewValidation(field+".books", fmt.Sprintf("unknown book %q", bookID))
			}
		}

		scope := Scope{
			ID:          entry.ID,
			Name:        entry.Name,
			Description: entry.Description,
			Books:       entry.Books,
		}
		if scope.Name == "" {
			scope.Name = scope.ID
		}
		c.scopes[scope.ID] = scope
		c.scopeIDs = append(c.scopeIDs, scope.ID)
	}

	return nil
}
