// file: internal/database/store.go
// version: 1.1.0
// guid: 2d3e4f5a-6b7c-8d9e-0f1a-2b3c4d5e6f7a

package database

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrBookNotFound is returned when a lookup or delete references an id
// that is not in the catalog.
var ErrBookNotFound = errors.New("book not found")

// Store defines the catalog persistence operations. The abstraction keeps
// ingestion and HTTP services testable against fakes.
type Store interface {
	// Lifecycle
	Close() error

	// Books
	CreateBook(book *Book) error
	GetBookByID(id string) (*Book, error)
	GetAllBooks() ([]Book, error) // newest first by created_at
	DeleteBook(id string) error   // ErrBookNotFound when id does not exist
	CountBooks() (int, error)

	// Subjects (child rows, unique per (book, subject))
	AddBookSubject(bookID, subject string) error
	GetBookSubjects(bookID string) ([]string, error)
}

// Book is the durable catalog record for one uploaded EPUB.
// Pointer fields distinguish "not set" from "empty string".
type Book struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Author             *string `json:"author,omitempty"`
	ISBN10             *string `json:"isbn10,omitempty"`
	ISBN13             *string `json:"isbn13,omitempty"`
	Publisher          *string `json:"publisher,omitempty"`
	PublishDate        *string `json:"publish_date,omitempty"`
	Description        *string `json:"description,omitempty"`
	CoverImagePath     *string `json:"cover_image_path,omitempty"`
	EpubFilePath       string  `json:"epub_file_path"`
	OpenLibraryKey     *string `json:"openlibrary_key,omitempty"`
	OpenLibraryWorkKey *string `json:"openlibrary_work_key,omitempty"`
	PageCount          *int    `json:"page_count,omitempty"`
	Language           *string `json:"language,omitempty"`
	CreatedAt          int64   `json:"created_at"`
	UpdatedAt          int64   `json:"updated_at"`

	// Populated via the book_subjects table, not a books column.
	Subjects []string `json:"subjects,omitempty"`
}

// NewBook creates a catalog record with a fresh id and both timestamps
// set to now. The id is immutable for the record's lifetime.
func NewBook(title, epubPath string) *Book {
	now := time.Now().Unix()
	return &Book{
		ID:           uuid.New().String(),
		Title:        title,
		EpubFilePath: epubPath,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
