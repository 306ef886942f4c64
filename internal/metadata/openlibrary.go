// file: internal/metadata/openlibrary.go
// version: 1.4.0
// guid: 1a2b3c4d-5e6f-7a8b-9c0d-1e2f3a4b5c6d

package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jdfalk/ebook-library/internal/cache"
)

// lookupTimeout bounds a single Books API call so a slow upstream cannot
// stall an ingestion.
const lookupTimeout = 30 * time.Second

const lookupCacheTTL = 12 * time.Hour

// LookupError indicates the Open Library lookup failed (network error,
// non-2xx status, or malformed body). Callers absorb it; it never aborts
// an ingestion.
type LookupError struct {
	ISBN  string
	Cause error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("openlibrary lookup for ISBN %s failed: %v", e.ISBN, e.Cause)
}

func (e *LookupError) Unwrap() error { return e.Cause }

// OpenLibraryClient handles bibliographic lookups against the Open
// Library Books API. Responses are memoized in a TTL cache; errors are
// never cached.
type OpenLibraryClient struct {
	httpClient *http.Client
	baseURL    string
	cache      *cache.Cache[*BookData]
}

// NewOpenLibraryClient creates a client for the configured base URL,
// falling back to the public API.
func NewOpenLibraryClient() *OpenLibraryClient {
	baseURL := os.Getenv("OPENLIBRARY_BASE_URL")
	if baseURL == "" {
		baseURL = "https://openlibrary.org"
	}
	return NewOpenLibraryClientWithBaseURL(baseURL)
}

// NewOpenLibraryClientWithBaseURL creates a client with a custom base URL.
func NewOpenLibraryClientWithBaseURL(baseURL string) *OpenLibraryClient {
	return &OpenLibraryClient{
		httpClient: &http.Client{
			Timeout: lookupTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   cache.New[*BookData](lookupCacheTTL),
	}
}

// Name returns the display name for this metadata source.
func (c *OpenLibraryClient) Name() string {
	return "Open Library"
}

// LookupISBN fetches the work matching isbn. A nil result with nil error
// means no match exists, which is distinct from a lookup failure.
func (c *OpenLibraryClient) LookupISBN(ctx context.Context, isbn string) (*BookData, error) {
	if data, ok := c.cache.Get(isbn); ok {
		return data, nil
	}

	url := fmt.Sprintf("%s/api/books?bibkeys=ISBN:%s&format=json&jscmd=data", c.baseURL, isbn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &LookupError{ISBN: isbn, Cause: err}
	}
	req.Header.Set("User-Agent", "ebook-library/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &LookupError{ISBN: isbn, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LookupError{ISBN: isbn, Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LookupError{ISBN: isbn, Cause: err}
	}

	// The API answers {} when the bibkey has no match.
	var books map[string]BookData
	if err := json.Unmarshal(body, &books); err != nil {
		return nil, &LookupError{ISBN: isbn, Cause: fmt.Errorf("malformed response: %w", err)}
	}
	if len(books) == 0 {
		c.cache.Set(isbn, nil)
		return nil, nil
	}

	for _, data := range books {
		result := data
		c.cache.Set(isbn, &result)
		return &result, nil
	}
	return nil, nil
}
