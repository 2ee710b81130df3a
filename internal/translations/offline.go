package translations

import (
	"context"
	"database/sql"

	"github.com/FocuswithJustin/KeystoneBible/core/chiasm"
	"github.com/FocuswithJustin/KeystoneBible/core/errors"
	"github.com/FocuswithJustin/KeystoneBible/core/ref"
	"github.com/FocuswithJustin/KeystoneBible/core/sqlite"
)

// Schema creates the verses table read by Store. Provisioning tools and
// tests execute it against a writable database before handing the file to
// OpenStore.
const Schema = `CREATE TABLE IF NOT EXISTS verses (
	book_id TEXT    NOT NULL,
	chapter INTEGER NOT NULL,
	verse   INTEGER NOT NULL,
	hebrew  TEXT    NOT NULL DEFAULT '',
	jps1917 TEXT    NOT NULL DEFAULT '',
	web     TEXT    NOT NULL DEFAULT '',
	PRIMARY KEY (book_id, chapter, verse)
)`

// Store reads verse records from a local SQLite database, letting analysis
// run without network access.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens the verse database at path read-only.
func OpenStore(path string) (*Store, error) {
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// NewStore wraps an already-open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// FetchVerse reads one verse record. The transliteration field mirrors the
// stored Hebrew text. Verses absent from the database return ErrNotFound.
func (s *Store) FetchVerse(ctx context.Context, r ref.VerseRef) (chiasm.VerseText, error) {
	var hebrew, jps1917, web string
	err := s.db.QueryRowContext(ctx,
		`SELECT hebrew, jps1917, web FROM verses WHERE book_id = ? AND chapter = ? AND verse = ?`,
		r.Book, r.Chapter, r.Verse,
	).Scan(&hebrew, &jps1917, &web)
	if errors.Is(err, sql.ErrNoRows) {
		return chiasm.VerseText{}, errors.NewNotFound("verse", r.String())
	}
	if err != nil {
		return chiasm.VerseText{}, errors.NewLookup("offline", r.String(), err)
	}

	return chiasm.VerseText{
		Ref:             r.String(),
		Hebrew:          hebrew,
		Transliteration: hebrew,
		JPS1917:         jps1917,
		WEB:             web,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
