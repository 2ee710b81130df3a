package translations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/FocuswithJustin/KeystoneBible/core/errors"
	"github.com/FocuswithJustin/KeystoneBible/core/ref"
)

const (
	// BibleAPIBaseURL is the bible-api.com base URL.
	BibleAPIBaseURL = "https://bible-api.com"

	// BibleAPIRateLimit is the client-side request rate cap in requests
	// per second.
	BibleAPIRateLimit = 5.0
)

// BibleAPIClient is a rate-limited client for bible-api.com. It supplies the
// World English Bible translation.
type BibleAPIClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// BibleAPIOption configures a BibleAPIClient.
type BibleAPIOption func(*BibleAPIClient)

// WithBibleAPIHTTPClient sets a custom HTTP client.
func WithBibleAPIHTTPClient(hc *http.Client) BibleAPIOption {
	return func(c *BibleAPIClient) {
		c.httpClient = hc
	}
}

// WithBibleAPIBaseURL sets a custom base URL (for testing).
func WithBibleAPIBaseURL(url string) BibleAPIOption {
	return func(c *BibleAPIClient) {
		c.baseURL = url
	}
}

// NewBibleAPIClient creates a bible-api.com client.
func NewBibleAPIClient(opts ...BibleAPIOption) *BibleAPIClient {
	c := &BibleAPIClient{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(BibleAPIRateLimit), 1),
		baseURL:    BibleAPIBaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchWEB fetches one verse's World English Bible rendering. The returned
// text is whitespace-trimmed with markup stripped.
func (c *BibleAPIClient) FetchWEB(ctx context.Context, r ref.VerseRef) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", errors.NewLookup("bible-api", r.String(), err)
	}

	url := fmt.Sprintf("%s/%s+%d:%d?translation=web", c.baseURL, bookName(r.Book), r.Chapter, r.Verse)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.NewLookup("bible-api", r.String(), err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.NewLookup("bible-api", r.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewLookup("bible-api", r.String(), fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var decoded struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", errors.NewLookup("bible-api", r.String(), err)
	}

	return stripTags(strings.TrimSpace(decoded.Text)), nil
}
