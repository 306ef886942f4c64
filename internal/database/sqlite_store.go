// file: internal/database/sqlite_store.go
// version: 1.3.0
// guid: 8b9c0d1e-2f3a-4b5c-6d7e-8f9a0b1c2d3e

package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const bookColumns = `
	id, title, author, isbn10, isbn13, publisher, publish_date,
	description, cover_image_path, epub_file_path, openlibrary_key,
	openlibrary_work_key, page_count, language, created_at, updated_at
`

func scanBook(scanner rowScanner, book *Book) error {
	return scanner.Scan(
		&book.ID, &book.Title, &book.Author, &book.ISBN10, &book.ISBN13,
		&book.Publisher, &book.PublishDate, &book.Description,
		&book.CoverImagePath, &book.EpubFilePath, &book.OpenLibraryKey,
		&book.OpenLibraryWorkKey, &book.PageCount, &book.Language,
		&book.CreatedAt, &book.UpdatedAt,
	)
}

// SQLiteStore implements the Store interface using SQLite3
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the catalog database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// createTables creates all required tables
func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS books (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT,
		isbn10 TEXT,
		isbn13 TEXT,
		publisher TEXT,
		publish_date TEXT,
		description TEXT,
		cover_image_path TEXT,
		epub_file_path TEXT NOT NULL,
		openlibrary_key TEXT,
		openlibrary_work_key TEXT,
		page_count INTEGER,
		language TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_books_created_at ON books(created_at);
	CREATE INDEX IF NOT EXISTS idx_books_isbn13 ON books(isbn13);

	CREATE TABLE IF NOT EXISTS book_subjects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		book_id TEXT NOT NULL,
		subject TEXT NOT NULL,
		FOREIGN KEY (book_id) REFERENCES books(id) ON DELETE CASCADE,
		UNIQUE(book_id, subject)
	);

	CREATE INDEX IF NOT EXISTS idx_book_subjects_book ON book_subjects(book_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateBook inserts a new catalog record.
func (s *SQLiteStore) CreateBook(book *Book) error {
	query := fmt.Sprintf(`INSERT INTO books (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, bookColumns)
	_, err := s.db.Exec(query,
		book.ID, book.Title, book.Author, book.ISBN10, book.ISBN13,
		book.Publisher, book.PublishDate, book.Description,
		book.CoverImagePath, book.EpubFilePath, book.OpenLibraryKey,
		book.OpenLibraryWorkKey, book.PageCount, book.Language,
		book.CreatedAt, book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

// GetBookByID returns a single record, with subjects attached.
func (s *SQLiteStore) GetBookByID(id string) (*Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = ?`, bookColumns)
	var book Book
	err := scanBook(s.db.QueryRow(query, id), &book)
	if err == sql.ErrNoRows {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query book: %w", err)
	}

	subjects, err := s.GetBookSubjects(id)
	if err != nil {
		return nil, err
	}
	book.Subjects = subjects
	return &book, nil
}

// GetAllBooks returns the catalog ordered newest first, with subjects
// attached.
func (s *SQLiteStore) GetAllBooks() ([]Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books ORDER BY created_at DESC, id`, bookColumns)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []Book
	byID := make(map[string]int)
	for rows.Next() {
		var book Book
		if err := scanBook(rows, &book); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		byID[book.ID] = len(books)
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	subjectRows, err := s.db.Query(`SELECT book_id, subject FROM book_subjects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query subjects: %w", err)
	}
	defer subjectRows.Close()
	for subjectRows.Next() {
		var bookID, subject string
		if err := subjectRows.Scan(&bookID, &subject); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		if i, ok := byID[bookID]; ok {
			books[i].Subjects = append(books[i].Subjects, subject)
		}
	}
	return books, subjectRows.Err()
}

// DeleteBook removes a record; subject rows cascade. Returns
// ErrBookNotFound when the id does not exist.
func (s *SQLiteStore) DeleteBook(id string) error {
	result, err := s.db.Exec(`DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// CountBooks returns the number of catalog records.
func (s *SQLiteStore) CountBooks() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return count, nil
}

// AddBookSubject inserts one subject row. The UNIQUE(book_id, subject)
// constraint surfaces duplicate inserts as an error rather than silently
// deduplicating.
func (s *SQLiteStore) AddBookSubject(bookID, subject string) error {
	_, err := s.db.Exec(`INSERT INTO book_subjects (book_id, subject) VALUES (?, ?)`, bookID, subject)
	if err != nil {
		return fmt.Errorf("failed to insert subject: %w", err)
	}
	return nil
}

// GetBookSubjects returns subjects in insertion order.
func (s *SQLiteStore) GetBookSubjects(bookID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT subject FROM book_subjects WHERE book_id = ? ORDER BY id`, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subjects: %w", err)
	}
	defer rows.Close()

	var subjects []string
	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, subject)
	}
	return subjects, rows.Err()
}
