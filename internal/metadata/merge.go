// file: internal/metadata/merge.go
// version: 1.0.0
// guid: 5c6d7e8f-9a0b-1c2d-3e4f-5a6b7c8d9e0f

package metadata

import (
	"strings"

	"github.com/jdfalk/ebook-library/internal/database"
)

// MergeOpenLibrary folds an Open Library work into book, in place. The
// precedence is deliberately asymmetric: title, author, and publisher
// favor locally extracted data (already user-visible), while description,
// publish date, page count, and catalog keys favor the external source.
// A nil data is a no-op.
func MergeOpenLibrary(book *database.Book, data *BookData) {
	if data == nil {
		return
	}

	// Local title wins unless it is the extraction sentinel.
	if book.Title == UnknownTitle && data.Title != "" {
		book.Title = data.Title
	}

	if book.Author == nil && len(data.Authors) > 0 {
		author := data.Authors[0].Name
		book.Author = &author
	}

	// A subtitle always rebuilds the description from title + subtitle;
	// without one the existing description is left alone.
	if data.Subtitle != "" {
		description := data.Title + "\n\n" + data.Subtitle
		book.Description = &description
	}

	if book.Publisher == nil && len(data.Publishers) > 0 {
		publisher := data.Publishers[0].Name
		book.Publisher = &publisher
	}

	if data.PublishDate != "" {
		date := data.PublishDate
		book.PublishDate = &date
	}

	if data.NumberOfPages != nil {
		pages := *data.NumberOfPages
		book.PageCount = &pages
	}

	if data.Key != "" {
		key := data.Key
		book.OpenLibraryKey = &key
	}

	if workKey, ok := workKeyFromURL(data.URL); ok {
		book.OpenLibraryWorkKey = &workKey
	}
}

// workKeyFromURL derives the work-level key from a canonical URL that
// contains a "/works/" segment, e.g.
// "https://openlibrary.org/works/OL12345W" -> "/works/OL12345W".
func workKeyFromURL(url string) (string, bool) {
	_, after, found := strings.Cut(url, "/works/")
	if !found || after == "" {
		return "", false
	}
	return "/works/" + after, true
}
