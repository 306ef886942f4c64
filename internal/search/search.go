// file: internal/search/search.go
// version: 1.2.0
// guid: 0f1a2b3c-4d5e-6f7a-8b9c-0d1e2f3a4b5c

// Package search maintains a full-text index over the library. Queries
// hit the index first; a fuzzy title match over the catalog backs it up
// so typos still find books.
package search

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jdfalk/ebook-library/internal/database"
)

// Document is the indexed representation of a book.
type Document struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Subjects    []string `json:"subjects"`
	Content     string   `json:"content"`
}

// Hit is a single search result.
type Hit struct {
	BookID string  `json:"book_id"`
	Score  float64 `json:"score"`
}

// Index wraps the on-disk bleve index.
type Index struct {
	idx bleve.Index
}

// Open opens the index at path, creating it when absent.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, fmt.Errorf("failed to open search index: %w", err)
		}
		idx, err = bleve.New(path, bleve.NewIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create search index: %w", err)
		}
	}
	return &Index{idx: idx}, nil
}

// OpenInMemory creates an unpersisted index, used in tests and one-shot
// CLI runs.
func OpenInMemory() (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	return &Index{idx: idx}, nil
}

func (ix *Index) Close() error {
	return ix.idx.Close()
}

// IndexBook adds or replaces a book's document. fullText may be empty
// when chapter content is unavailable.
func (ix *Index) IndexBook(book *database.Book, fullText string) error {
	doc := Document{
		Title:    book.Title,
		Subjects: book.Subjects,
		Content:  fullText,
	}
	if book.Author != nil {
		doc.Author = *book.Author
	}
	if book.Description != nil {
		doc.Description = *book.Description
	}
	if err := ix.idx.Index(book.ID, doc); err != nil {
		return fmt.Errorf("failed to index book %s: %w", book.ID, err)
	}
	return nil
}

// Remove deletes a book's document. Removing an unindexed book is a
// no-op.
func (ix *Index) Remove(bookID string) error {
	return ix.idx.Delete(bookID)
}

// Search runs a query-string search and returns up to limit hits by
// descending score.
func (ix *Index) Search(query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 25
	}
	req := bleve.NewSearchRequest(bleve.NewQueryStringQuery(query))
	req.Size = limit
	result, err := ix.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	hits := make([]Hit, 0, len(result.Hits))
	for _, h := range result.Hits {
		hits = append(hits, Hit{BookID: h.ID, Score: h.Score})
	}
	return hits, nil
}

// Rebuild reindexes every book in the store. fullText resolves chapter
// content per book and may return an error to index metadata only.
func (ix *Index) Rebuild(store database.Store, fullText func(bookID string) (string, error)) error {
	books, err := store.GetAllBooks()
	if err != nil {
		return fmt.Errorf("failed to list books for reindex: %w", err)
	}
	for i := range books {
		content := ""
		if fullText != nil {
			if text, err := fullText(books[i].ID); err == nil {
				content = text
			}
		}
		if err := ix.IndexBook(&books[i], content); err != nil {
			return err
		}
	}
	return nil
}

// FuzzyTitles ranks books whose titles fuzzily match query, best first.
// It backs up the index for typo-heavy queries and works without any
// index at all.
func FuzzyTitles(books []database.Book, query string, limit int) []database.Book {
	if limit <= 0 {
		limit = 25
	}
	titles := make([]string, len(books))
	for i := range books {
		titles[i] = books[i].Title
	}
	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Sort(ranks)

	byTitle := make(map[string][]*database.Book, len(books))
	for i := range books {
		key := strings.ToLower(books[i].Title)
		byTitle[key] = append(byTitle[key], &books[i])
	}

	seen := make(map[string]struct{})
	out := make([]database.Book, 0, limit)
	for _, rank := range ranks {
		for _, b := range byTitle[strings.ToLower(rank.Target)] {
			if _, ok := seen[b.ID]; ok {
				continue
			}
			seen[b.ID] = struct{}{}
			out = append(out, *b)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}
