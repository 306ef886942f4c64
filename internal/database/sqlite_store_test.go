// file: internal/database/sqlite_store_test.go
// version: 1.1.0
// guid: 5e6f7a8b-9c0d-1e2f-3a4b-5c6d7e8f9a0b

package database

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewBook(t *testing.T) {
	book := NewBook("Test Book", "/data/books/x.epub")

	if _, err := uuid.Parse(book.ID); err != nil {
		t.Errorf("expected valid UUID id, got %q: %v", book.ID, err)
	}
	if book.Title != "Test Book" {
		t.Errorf("Title = %q", book.Title)
	}
	if book.CreatedAt == 0 || book.CreatedAt != book.UpdatedAt {
		t.Errorf("timestamps not initialized: created=%d updated=%d", book.CreatedAt, book.UpdatedAt)
	}
	if book.Author != nil {
		t.Error("new book should have no author")
	}
}

func TestCreateAndGetBook(t *testing.T) {
	store := newTestStore(t)

	book := NewBook("Stored Book", "/data/books/a.epub")
	author := "Some Author"
	book.Author = &author

	if err := store.CreateBook(book); err != nil {
		t.Fatalf("CreateBook failed: %v", err)
	}

	got, err := store.GetBookByID(book.ID)
	if err != nil {
		t.Fatalf("GetBookByID failed: %v", err)
	}
	if got.Title != book.Title {
		t.Errorf("Title = %q, want %q", got.Title, book.Title)
	}
	if got.Author == nil || *got.Author != author {
		t.Errorf("Author = %v, want %q", got.Author, author)
	}
}

func TestGetBookByIDNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetBookByID("no-such-id")
	if !errors.Is(err, ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
}

func TestGetAllBooksNewestFirst(t *testing.T) {
	store := newTestStore(t)

	older := NewBook("Older", "/data/books/1.epub")
	older.CreatedAt = time.Now().Unix() - 100
	newer := NewBook("Newer", "/data/books/2.epub")

	if err := store.CreateBook(older); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateBook(newer); err != nil {
		t.Fatal(err)
	}

	books, err := store.GetAllBooks()
	if err != nil {
		t.Fatalf("GetAllBooks failed: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}
	if books[0].ID != newer.ID {
		t.Errorf("expected newest record first, got %q", books[0].Title)
	}
}

func TestDeleteBook(t *testing.T) {
	store := newTestStore(t)

	book := NewBook("Doomed", "/data/books/d.epub")
	if err := store.CreateBook(book); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteBook(book.ID); err != nil {
		t.Fatalf("DeleteBook failed: %v", err)
	}
	if _, err := store.GetBookByID(book.ID); !errors.Is(err, ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound after delete, got %v", err)
	}
}

func TestDeleteBookNotFound(t *testing.T) {
	store := newTestStore(t)

	if err := store.DeleteBook("no-such-id"); !errors.Is(err, ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
}

func TestSubjects(t *testing.T) {
	store := newTestStore(t)

	book := NewBook("Tagged", "/data/books/t.epub")
	if err := store.CreateBook(book); err != nil {
		t.Fatal(err)
	}

	for _, subject := range []string{"Fiction", "Science Fiction"} {
		if err := store.AddBookSubject(book.ID, subject); err != nil {
			t.Fatalf("AddBookSubject(%q) failed: %v", subject, err)
		}
	}

	subjects, err := store.GetBookSubjects(book.ID)
	if err != nil {
		t.Fatalf("GetBookSubjects failed: %v", err)
	}
	if len(subjects) != 2 || subjects[0] != "Fiction" || subjects[1] != "Science Fiction" {
		t.Errorf("subjects = %v", subjects)
	}

	got, err := store.GetBookByID(book.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Subjects) != 2 {
		t.Errorf("GetBookByID should attach subjects, got %v", got.Subjects)
	}
}

func TestDuplicateSubjectRejected(t *testing.T) {
	store := newTestStore(t)

	book := NewBook("Tagged", "/data/books/t.epub")
	if err := store.CreateBook(book); err != nil {
		t.Fatal(err)
	}
	if err := store.AddBookSubject(book.ID, "Fiction"); err != nil {
		t.Fatal(err)
	}

	if err := store.AddBookSubject(book.ID, "Fiction"); err == nil {
		t.Error("expected unique constraint violation for duplicate subject")
	}
}

func TestSubjectsCascadeOnDelete(t *testing.T) {
	store := newTestStore(t)

	book := NewBook("Tagged", "/data/books/t.epub")
	if err := store.CreateBook(book); err != nil {
		t.Fatal(err)
	}
	if err := store.AddBookSubject(book.ID, "Fiction"); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteBook(book.ID); err != nil {
		t.Fatal(err)
	}

	subjects, err := store.GetBookSubjects(book.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(subjects) != 0 {
		t.Errorf("expected cascading delete to remove subjects, got %v", subjects)
	}
}

func TestCountBooks(t *testing.T) {
	store := newTestStore(t)

	count, err := store.CountBooks()
	if err != nil || count != 0 {
		t.Fatalf("CountBooks = %d, %v; want 0, nil", count, err)
	}

	if err := store.CreateBook(NewBook("One", "/data/books/1.epub")); err != nil {
		t.Fatal(err)
	}
	count, err = store.CountBooks()
	if err != nil || count != 1 {
		t.Errorf("CountBooks = %d, %v; want 1, nil", count, err)
	}
}

func TestGetAllBooksAttachesSubjects(t *testing.T) {
	store := newTestStore(t)

	tagged := NewBook("Tagged", "/data/books/t.epub")
	plain := NewBook("Plain", "/data/books/p.epub")
	for _, b := range []*Book{tagged, plain} {
		if err := store.CreateBook(b); err != nil {
			t.Fatal(err)
		}
	}
	for _, subject := range []string{"Fantasy", "Adventure"} {
		if err := store.AddBookSubject(tagged.ID, subject); err != nil {
			t.Fatal(err)
		}
	}

	books, err := store.GetAllBooks()
	if err != nil {
		t.Fatalf("GetAllBooks failed: %v", err)
	}
	for _, b := range books {
		switch b.ID {
		case tagged.ID:
			if len(b.Subjects) != 2 || b.Subjects[0] != "Fantasy" || b.Subjects[1] != "Adventure" {
				t.Errorf("subjects = %v, want [Fantasy Adventure]", b.Subjects)
			}
		case plain.ID:
			if len(b.Subjects) != 0 {
				t.Errorf("expected no subjects, got %v", b.Subjects)
			}
		}
	}
}
