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
	// SefariaBaseURL is the Sefaria API base URL.
	SefariaBaseURL = "https://www.sefaria.org"

	// SefariaRateLimit is the client-side request rate cap in requests
	// per second.
	SefariaRateLimit = 5.0
)

// SefariaClient is a rate-limited client for the Sefaria texts API. It
// supplies Hebrew source text and the JPS 1917 translation.
type SefariaClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// SefariaOption configures a SefariaClient.
type SefariaOption func(*SefariaClient)

// WithSefariaHTTPClient sets a custom HTTP client.
func WithSefariaHTTPClient(hc *http.Client) SefariaOption {
	return func(c *SefariaClient) {
		c.httpClient = hc
	}
}

// WithSefariaBaseURL sets a custom base URL (for testing).
func WithSefariaBaseURL(url string) SefariaOption {
	return func(c *SefariaClient) {
		c.baseURL = url
	}
}

// NewSefariaClient creates a Sefaria texts API client.
func NewSefariaClient(opts ...SefariaOption) *SefariaClient {
	c := &SefariaClient{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(SefariaRateLimit), 1),
		baseURL:    SefariaBaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SefariaVerse holds the text fields extracted from one texts response.
type SefariaVerse struct {
	Hebrew  string
	JPS1917 string
}

type sefariaResponse struct {
	He       json.RawMessage  `json:"he"`
	Text     json.RawMessage  `json:"text"`
	Versions []sefariaVersion `json:"versions"`
}

type sefariaVersion struct {
	VersionTitle string          `json:"versionTitle"`
	Text         json.RawMessage `json:"text"`
}

// textField decodes a Sefaria text value, which is a plain string for
// single-verse references and an array of strings for ranged ones.
func textField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}

// FetchVerse fetches one verse's Hebrew text and JPS 1917 translation. The
// JPS text is located by scanning the response's versions for a title
// containing "JPS"; when none is present the response's default English
// text is used instead. Markup is stripped from all fields.
func (c *SefariaClient) FetchVerse(ctx context.Context, r ref.VerseRef) (SefariaVerse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return SefariaVerse{}, errors.NewLookup("sefaria", r.String(), err)
	}

	url := fmt.Sprintf("%s/api/texts/%s.%d.%d", c.baseURL, bookName(r.Book), r.Chapter, r.Verse)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return SefariaVerse{}, errors.NewLookup("sefaria", r.String(), err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SefariaVerse{}, errors.NewLookup("sefaria", r.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SefariaVerse{}, errors.NewLookup("sefaria", r.String(), fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var decoded sefariaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return SefariaVerse{}, errors.NewLookup("sefaria", r.String(), err)
	}

	v := SefariaVerse{Hebrew: stripTags(textField(decoded.He))}

	for _, version := range decoded.Versions {
		if strings.Contains(version.VersionTitle, "JPS") {
			v.JPS1917 = stripTags(textField(version.Text))
			break
		}
	}
	if v.JPS1917 == "" {
		v.JPS1917 = stripTags(textField(decoded.Text))
	}

	return v, nil
}
