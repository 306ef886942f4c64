// file: internal/reader/reader.go
// version: 1.2.0
// guid: 8d9e0f1a-2b3c-4d5e-6f7a-8b9c0d1e2f3a

// Package reader serves sanitized chapter content from stored EPUB files
// for in-browser reading.
package reader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/simp-lee/epub"
	"golang.org/x/net/html"

	"github.com/jdfalk/ebook-library/internal/storage"
)

// ChapterInfo describes one entry in a book's reading order.
type ChapterInfo struct {
	Index int    `json:"index"`
	Title string `json:"title"`
}

// Chapter is a single chapter's sanitized content.
type Chapter struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	HTML  string `json:"html"`
	Text  string `json:"text"`
}

// ErrChapterOutOfRange is returned for a chapter index outside the
// book's reading order.
var ErrChapterOutOfRange = fmt.Errorf("chapter index out of range")

// Service reads stored EPUB files and produces sanitized chapter
// content. All markup passes through a UGC sanitizer so untrusted book
// content cannot inject script into the web UI.
type Service struct {
	files  *storage.FileStore
	policy *bluemonday.Policy
}

func NewService(files *storage.FileStore) *Service {
	return &Service{
		files:  files,
		policy: bluemonday.UGCPolicy(),
	}
}

// Chapters lists the linear reading order for a stored book. Untitled
// chapters get a fallback derived from their position.
func (s *Service) Chapters(bookID string) ([]ChapterInfo, error) {
	book, err := s.open(bookID)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	chapters := book.ContentChapters()
	out := make([]ChapterInfo, len(chapters))
	for i, ch := range chapters {
		out[i] = ChapterInfo{Index: i, Title: chapterTitle(ch, i)}
	}
	return out, nil
}

// Chapter returns one chapter's sanitized body HTML and plain text.
func (s *Service) Chapter(bookID string, index int) (*Chapter, error) {
	book, err := s.open(bookID)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	chapters := book.ContentChapters()
	if index < 0 || index >= len(chapters) {
		return nil, ErrChapterOutOfRange
	}
	ch := chapters[index]

	body, err := ch.BodyHTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read chapter %d: %w", index, err)
	}
	sanitized := s.policy.Sanitize(body)

	return &Chapter{
		Index: index,
		Title: chapterTitle(ch, index),
		HTML:  sanitized,
		Text:  extractText(sanitized),
	}, nil
}

// FullHTML concatenates the sanitized body of every linear chapter,
// separated by chapter headings, for single-page reading.
func (s *Service) FullHTML(bookID string) (string, error) {
	book, err := s.open(bookID)
	if err != nil {
		return "", err
	}
	defer book.Close()

	var sb strings.Builder
	for i, ch := range book.ContentChapters() {
		body, err := ch.BodyHTML()
		if err != nil {
			continue
		}
		sb.WriteString("<h2>")
		sb.WriteString(html.EscapeString(chapterTitle(ch, i)))
		sb.WriteString("</h2>\n")
		sb.WriteString(s.policy.Sanitize(body))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// FullText concatenates the plain text of every linear chapter, used
// for search indexing.
func (s *Service) FullText(bookID string) (string, error) {
	book, err := s.open(bookID)
	if err != nil {
		return "", err
	}
	defer book.Close()

	var sb strings.Builder
	for _, ch := range book.ContentChapters() {
		text, err := ch.TextContent()
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (s *Service) open(bookID string) (*epub.Book, error) {
	data, err := s.files.ReadEPUB(bookID)
	if err != nil {
		return nil, err
	}
	book, err := epub.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open epub for %s: %w", bookID, err)
	}
	return book, nil
}

func chapterTitle(ch epub.Chapter, index int) string {
	if ch.Title != "" {
		return ch.Title
	}
	return fmt.Sprintf("Chapter %d", index+1)
}

// extractText walks sanitized HTML and collects its text nodes.
func extractText(markup string) string {
	node, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return strings.TrimSpace(sb.String())
}
