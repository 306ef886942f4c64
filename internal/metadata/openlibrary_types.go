// file: internal/metadata/openlibrary_types.go
// version: 1.0.0
// guid: 4b5c6d7e-8f9a-0b1c-2d3e-4f5a6b7c8d9e

package metadata

// Types for the Open Library Books API response
// (https://openlibrary.org/dev/docs/api/books, jscmd=data). The response
// is a JSON object keyed by the queried bibkey ("ISBN:<isbn>").

// BookData is one work entry from the Books API.
type BookData struct {
	Title         string      `json:"title"`
	Subtitle      string      `json:"subtitle"`
	Authors       []Author    `json:"authors"`
	Publishers    []Publisher `json:"publishers"`
	PublishDate   string      `json:"publish_date"`
	NumberOfPages *int        `json:"number_of_pages"`
	Subjects      []Subject   `json:"subjects"`
	Cover         *Cover      `json:"cover"`
	URL           string      `json:"url"`
	Key           string      `json:"key"`
}

// Author is a contributor entry; the first listed author is primary.
type Author struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Publisher is a publisher entry.
type Publisher struct {
	Name string `json:"name"`
}

// Subject is a topic tag attached to the work.
type Subject struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Cover holds cover image URLs by size.
type Cover struct {
	Small  string `json:"small,omitempty"`
	Medium string `json:"medium,omitempty"`
	Large  string `json:"large,omitempty"`
}
