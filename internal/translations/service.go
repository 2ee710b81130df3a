package translations

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/KeystoneBible/core/cache"
	"github.com/FocuswithJustin/KeystoneBible/core/chiasm"
	"github.com/FocuswithJustin/KeystoneBible/core/errors"
	"github.com/FocuswithJustin/KeystoneBible/core/ref"
	"github.com/FocuswithJustin/KeystoneBible/internal/logging"
)

// DefaultCacheTTL is how long fetched verse records stay fresh.
const DefaultCacheTTL = time.Hour

// Service merges the configured sources into complete verse records. A
// local Store, when present, is consulted first; the remote clients cover
// whatever it cannot. Fields no source can supply carry placeholder text.
//
// Caching is optional and purely an optimization: a Service without a cache
// returns identical records, just slower.
type Service struct {
	sefaria  *SefariaClient
	bibleAPI *BibleAPIClient
	store    *Store
	cache    cache.Cache[string, chiasm.VerseText]
	keyspace string
	noRemote bool
}

var _ chiasm.Lookup = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithSefaria replaces the default Sefaria client.
func WithSefaria(c *SefariaClient) Option {
	return func(s *Service) {
		s.sefaria = c
	}
}

// WithBibleAPI replaces the default bible-api.com client.
func WithBibleAPI(c *BibleAPIClient) Option {
	return func(s *Service) {
		s.bibleAPI = c
	}
}

// WithStore adds a local verse database consulted before the remote APIs.
func WithStore(store *Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithCache memoizes fetched records. Keys are namespaced by the service's
// source fingerprint, so a shared cache can safely serve differently
// configured services.
func WithCache(c cache.Cache[string, chiasm.VerseText]) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithoutRemote disables both remote clients. Verses missing from the local
// store degrade straight to placeholder records.
func WithoutRemote() Option {
	return func(s *Service) {
		s.noRemote = true
	}
}

// NewService creates a verse lookup service. Without options it fetches from
// the public Sefaria and bible-api.com endpoints with no cache.
func NewService(opts ...Option) *Service {
	s := &Service{
		sefaria:  NewSefariaClient(),
		bibleAPI: NewBibleAPIClient(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.keyspace = s.fingerprint()
	return s
}

// NewVerseCache returns an LRU cache suitable for WithCache, sized for
// scope-scale verse sets. A non-positive ttl selects DefaultCacheTTL.
func NewVerseCache(ttl time.Duration) cache.Cache[string, chiasm.VerseText] {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return cache.NewLRUCache[string, chiasm.VerseText](cache.Config{
		MaxSize: 8192,
		TTL:     ttl,
	})
}

// Fingerprint identifies the service's source configuration. Cache keys are
// prefixed with it so records fetched under one configuration are never
// served under another.
func (s *Service) Fingerprint() string {
	return s.keyspace
}

func (s *Service) fingerprint() string {
	var b strings.Builder
	b.WriteString(s.sefaria.baseURL)
	b.WriteByte('\n')
	b.WriteString(s.bibleAPI.baseURL)
	b.WriteByte('\n')
	if s.store != nil {
		b.WriteString(s.store.path)
	}
	b.WriteByte('\n')
	if s.noRemote {
		b.WriteString("local-only")
	}

	sum := blake3.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}

// Fetch returns the complete translation record for one verse. Lookup
// failures are logged and degrade to placeholder text, never an error.
func (s *Service) Fetch(ctx context.Context, r ref.VerseRef) chiasm.VerseText {
	key := s.keyspace + "/" + r.String()
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v
		}
	}

	v := s.lookup(ctx, r)

	if s.cache != nil {
		s.cache.Put(key, v)
	}
	return v
}

func (s *Service) lookup(ctx context.Context, r ref.VerseRef) chiasm.VerseText {
	if s.store != nil {
		v, err := s.store.FetchVerse(ctx, r)
		if err == nil {
			return v
		}
		if !errors.Is(err, errors.ErrNotFound) {
			logging.LookupFailure("offline", r.String(), err)
		}
	}

	out := chiasm.VerseText{
		Ref:     r.String(),
		Hebrew:  PlaceholderHebrew,
		JPS1917: PlaceholderJPS1917,
		WEB:     PlaceholderWEB,
	}
	if s.noRemote {
		return out
	}

	if sv, err := s.sefaria.FetchVerse(ctx, r); err != nil {
		logging.LookupFailure("sefaria", r.String(), err)
	} else {
		out.Hebrew = sv.Hebrew
		out.Transliteration = sv.Hebrew
		out.JPS1917 = sv.JPS1917
	}

	if web, err := s.bibleAPI.FetchWEB(ctx, r); err != nil {
		logging.LookupFailure("bible-api", r.String(), err)
	} else {
		out.WEB = web
	}

	return out
}
