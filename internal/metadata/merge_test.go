// file: internal/metadata/merge_test.go
// version: 1.0.0
// guid: 7e8f9a0b-1c2d-3e4f-5a6b-7c8d9e0f1a2b

package metadata

import (
	"reflect"
	"testing"

	"github.com/jdfalk/ebook-library/internal/database"
)

func strPtr(s string) *string { return &s }

func sparseBook() *database.Book {
	return database.NewBook(UnknownTitle, "/data/books/x.epub")
}

func richBook() *database.Book {
	b := database.NewBook("The Hobbit", "/data/books/h.epub")
	b.Author = strPtr("J. R. R. Tolkien")
	b.Publisher = strPtr("Allen & Unwin")
	b.Description = strPtr("Original blurb.")
	return b
}

func sampleData() *BookData {
	pages := 310
	return &BookData{
		Title:       "The Hobbit",
		Subtitle:    "There and Back Again",
		Authors:     []Author{{Name: "J.R.R. Tolkien"}},
		Publishers:  []Publisher{{Name: "Houghton Mifflin"}},
		PublishDate: "1937",
		NumberOfPages: &pages,
		Key:         "/books/OL7353617M",
		URL:         "https://openlibrary.org/books/OL7353617M/The_Hobbit",
	}
}

func TestMergeFillsSparseBook(t *testing.T) {
	book := sparseBook()
	MergeOpenLibrary(book, sampleData())

	if book.Title != "The Hobbit" {
		t.Errorf("Title = %q", book.Title)
	}
	if book.Author == nil || *book.Author != "J.R.R. Tolkien" {
		t.Errorf("Author = %v", book.Author)
	}
	if book.Publisher == nil || *book.Publisher != "Houghton Mifflin" {
		t.Errorf("Publisher = %v", book.Publisher)
	}
	if book.Description == nil || *book.Description != "The Hobbit\n\nThere and Back Again" {
		t.Errorf("Description = %v", book.Description)
	}
	if book.PublishDate == nil || *book.PublishDate != "1937" {
		t.Errorf("PublishDate = %v", book.PublishDate)
	}
	if book.PageCount == nil || *book.PageCount != 310 {
		t.Errorf("PageCount = %v", book.PageCount)
	}
	if book.OpenLibraryKey == nil || *book.OpenLibraryKey != "/books/OL7353617M" {
		t.Errorf("OpenLibraryKey = %v", book.OpenLibraryKey)
	}
}

func TestMergePreservesLocalFields(t *testing.T) {
	book := richBook()
	MergeOpenLibrary(book, sampleData())

	// Title, author and publisher were already set locally and must win.
	if book.Title != "The Hobbit" {
		t.Errorf("Title = %q", book.Title)
	}
	if *book.Author != "J. R. R. Tolkien" {
		t.Errorf("Author = %q", *book.Author)
	}
	if *book.Publisher != "Allen & Unwin" {
		t.Errorf("Publisher = %q", *book.Publisher)
	}
	// Description is rebuilt whenever the record carries a subtitle.
	if *book.Description != "The Hobbit\n\nThere and Back Again" {
		t.Errorf("Description = %q", *book.Description)
	}
	// Date and page count always follow the fresher record.
	if *book.PublishDate != "1937" || *book.PageCount != 310 {
		t.Errorf("PublishDate = %v PageCount = %v", book.PublishDate, book.PageCount)
	}
}

func TestMergeWithoutSubtitleKeepsDescription(t *testing.T) {
	book := richBook()
	data := sampleData()
	data.Subtitle = ""
	MergeOpenLibrary(book, data)

	if *book.Description != "Original blurb." {
		t.Errorf("Description = %q", *book.Description)
	}
}

func TestMergeNilDataIsNoOp(t *testing.T) {
	book := richBook()
	before := *book
	MergeOpenLibrary(book, nil)
	if !reflect.DeepEqual(*book, before) {
		t.Error("nil record must not change the book")
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	book := sparseBook()
	data := sampleData()
	MergeOpenLibrary(book, data)
	first := *book
	MergeOpenLibrary(book, data)
	if !reflect.DeepEqual(*book, first) {
		t.Error("second merge with the same record changed the book")
	}
}

func TestMergeEmptyRecordLeavesBookAlone(t *testing.T) {
	book := sparseBook()
	MergeOpenLibrary(book, &BookData{})

	if book.Title != UnknownTitle {
		t.Errorf("Title = %q", book.Title)
	}
	if book.Author != nil || book.Publisher != nil || book.Description != nil {
		t.Errorf("empty record populated fields: %+v", book)
	}
	if book.PublishDate != nil || book.PageCount != nil || book.OpenLibraryKey != nil {
		t.Errorf("empty record populated fields: %+v", book)
	}
}

func TestWorkKeyFromURL(t *testing.T) {
	book := sparseBook()
	data := sampleData()
	data.URL = "https://openlibrary.org/works/OL262758W/The_Hobbit"
	MergeOpenLibrary(book, data)

	if book.OpenLibraryWorkKey == nil || *book.OpenLibraryWorkKey != "/works/OL262758W/The_Hobbit" {
		t.Errorf("OpenLibraryWorkKey = %v", book.OpenLibraryWorkKey)
	}

	// Edition URLs carry no /works/ segment and must not produce a key.
	other := sparseBook()
	MergeOpenLibrary(other, sampleData())
	if other.OpenLibraryWorkKey != nil {
		t.Errorf("OpenLibraryWorkKey = %v, want nil", other.OpenLibraryWorkKey)
	}
}
