// file: internal/metadata/extract.go
// version: 1.0.0
// guid: 1a2b3c4d-5e6f-7a8b-9c0d-1e2f3a4b5c6e

package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jdfalk/ebook-library/internal/identifier"
	"github.com/simp-lee/epub"
	"golang.org/x/text/language"
)

// UnknownTitle is the sentinel stored when an EPUB declares no title.
// The merger treats it as an invitation to adopt the external title.
const UnknownTitle = "Unknown"

// ParseError indicates the uploaded document is not a readable EPUB
// package. It is the one fatal extraction failure.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("epub parse error: %v", e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Extracted is the typed metadata record produced from one EPUB upload.
// It is immutable after extraction.
type Extracted struct {
	Title       string
	Author      *string
	Identifiers identifier.Identifiers
	Publisher   *string
	Language    *string
	Description *string
	Subjects    []string

	// Cover holds the raw embedded cover bytes, nil when the document
	// carries none.
	Cover []byte
}

// ExtractFromBytes opens the EPUB package held in data and pulls out its
// Dublin Core metadata plus the embedded cover image.
func ExtractFromBytes(data []byte) (*Extracted, error) {
	book, err := epub.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		slog.Warn("failed to open EPUB", "error", err)
		return nil, &ParseError{Cause: err}
	}
	defer book.Close()

	md := book.Metadata()

	out := &Extracted{
		Title:       UnknownTitle,
		Identifiers: normalizeIdentifiers(md.Identifiers),
		Subjects:    md.Subjects,
	}

	if len(md.Titles) > 0 && md.Titles[0] != "" {
		out.Title = md.Titles[0]
	}
	if len(md.Authors) > 0 && md.Authors[0].Name != "" {
		name := md.Authors[0].Name
		out.Author = &name
	}
	if md.Publisher != "" {
		publisher := md.Publisher
		out.Publisher = &publisher
	}
	if len(md.Language) > 0 && md.Language[0] != "" {
		lang := canonicalLanguage(md.Language[0])
		out.Language = &lang
	}
	if md.Description != "" {
		description := md.Description
		out.Description = &description
	}

	if cover, err := book.Cover(); err == nil {
		out.Cover = cover.Data
	} else if !errors.Is(err, epub.ErrNoCover) {
		slog.Warn("cover detection failed", "error", err)
	}

	slog.Info("EPUB metadata extracted",
		"title", out.Title,
		"has_author", out.Author != nil,
		"has_isbn", out.Identifiers.ISBN13 != nil || out.Identifiers.ISBN10 != nil,
		"subjects", len(out.Subjects),
		"has_cover", out.Cover != nil)

	return out, nil
}

func normalizeIdentifiers(ids []epub.Identifier) identifier.Identifiers {
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Value)
	}
	return identifier.Normalize(raw)
}

// canonicalLanguage normalizes a dc:language value to its canonical
// BCP-47 form; values that do not parse are kept verbatim.
func canonicalLanguage(raw string) string {
	tag, err := language.Parse(raw)
	if err != nil {
		return raw
	}
	return tag.String()
}
