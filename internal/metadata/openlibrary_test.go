// file: internal/metadata/openlibrary_test.go
// version: 1.0.0
// guid: 8f9a0b1c-2d3e-4f5a-6b7c-8d9e0f1a2b3c

package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const hobbitResponse = `{
  "ISBN:9780547928227": {
    "title": "The Hobbit",
    "subtitle": "or There and Back Again",
    "authors": [{"name": "J.R.R. Tolkien", "url": "https://openlibrary.org/authors/OL26320A"}],
    "publishers": [{"name": "Houghton Mifflin Harcourt"}],
    "publish_date": "2012",
    "number_of_pages": 300,
    "subjects": [{"name": "Fantasy fiction", "url": ""}],
    "key": "/books/OL25434166M",
    "url": "https://openlibrary.org/books/OL25434166M/The_Hobbit"
  }
}`

func TestLookupISBN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/books" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("bibkeys") != "ISBN:9780547928227" {
			t.Errorf("bibkeys = %q", q.Get("bibkeys"))
		}
		if q.Get("format") != "json" || q.Get("jscmd") != "data" {
			t.Errorf("query = %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(hobbitResponse))
	}))
	defer server.Close()

	client := NewOpenLibraryClientWithBaseURL(server.URL)
	data, err := client.LookupISBN(context.Background(), "9780547928227")
	if err != nil {
		t.Fatalf("LookupISBN failed: %v", err)
	}
	if data == nil {
		t.Fatal("expected a match")
	}
	if data.Title != "The Hobbit" || data.Subtitle != "or There and Back Again" {
		t.Errorf("title/subtitle = %q / %q", data.Title, data.Subtitle)
	}
	if len(data.Authors) != 1 || data.Authors[0].Name != "J.R.R. Tolkien" {
		t.Errorf("authors = %v", data.Authors)
	}
	if data.NumberOfPages == nil || *data.NumberOfPages != 300 {
		t.Errorf("number_of_pages = %v", data.NumberOfPages)
	}
	if data.Key != "/books/OL25434166M" {
		t.Errorf("key = %q", data.Key)
	}
}

func TestLookupISBNNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := NewOpenLibraryClientWithBaseURL(server.URL)
	data, err := client.LookupISBN(context.Background(), "9780000000000")
	if err != nil {
		t.Fatalf("no match must not be an error, got %v", err)
	}
	if data != nil {
		t.Errorf("expected nil result, got %+v", data)
	}
}

func TestLookupISBNServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewOpenLibraryClientWithBaseURL(server.URL)
	_, err := client.LookupISBN(context.Background(), "9780547928227")
	if err == nil {
		t.Fatal("expected an error")
	}
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected *LookupError, got %T", err)
	}
	if lookupErr.ISBN != "9780547928227" {
		t.Errorf("ISBN = %q", lookupErr.ISBN)
	}
}

func TestLookupISBNMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not json</html>"))
	}))
	defer server.Close()

	client := NewOpenLibraryClientWithBaseURL(server.URL)
	_, err := client.LookupISBN(context.Background(), "9780547928227")
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected *LookupError, got %T: %v", err, err)
	}
}

func TestLookupISBNCachesResults(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(hobbitResponse))
	}))
	defer server.Close()

	client := NewOpenLibraryClientWithBaseURL(server.URL)
	for i := 0; i < 3; i++ {
		if _, err := client.LookupISBN(context.Background(), "9780547928227"); err != nil {
			t.Fatalf("lookup %d failed: %v", i, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("upstream hit %d times, want 1", got)
	}
}

func TestLookupISBNCachesMisses(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := NewOpenLibraryClientWithBaseURL(server.URL)
	for i := 0; i < 2; i++ {
		data, err := client.LookupISBN(context.Background(), "9780000000000")
		if err != nil || data != nil {
			t.Fatalf("lookup %d = %v, %v", i, data, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("upstream hit %d times, want 1", got)
	}
}
