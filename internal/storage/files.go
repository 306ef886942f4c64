// file: internal/storage/files.go
// version: 1.2.0
// guid: 1c2d3e4f-5a6b-7c8d-9e0f-1a2b3c4d5e6f

// Package storage owns the on-disk layout for book payloads: EPUB files
// under books/ and normalized cover images under covers/, both keyed by
// book ID.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore manages EPUB and cover files under a single base directory.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a FileStore rooted at baseDir and ensures the
// books/ and covers/ subdirectories exist.
func NewFileStore(baseDir string) (*FileStore, error) {
	for _, sub := range []string{"books", "covers"} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return &FileStore{baseDir: baseDir}, nil
}

// EPUBPath returns the canonical path for a book's EPUB file.
func (fs *FileStore) EPUBPath(bookID string) string {
	return filepath.Join(fs.baseDir, "books", bookID+".epub")
}

// CoverPath returns the canonical path for a book's cover image.
func (fs *FileStore) CoverPath(bookID string) string {
	return filepath.Join(fs.baseDir, "covers", bookID+".jpg")
}

// SaveEPUB writes the EPUB payload for bookID and returns its path.
func (fs *FileStore) SaveEPUB(bookID string, data []byte) (string, error) {
	path := fs.EPUBPath(bookID)
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to save epub: %w", err)
	}
	return path, nil
}

// SaveCover writes the normalized cover for bookID and returns its path.
func (fs *FileStore) SaveCover(bookID string, data []byte) (string, error) {
	path := fs.CoverPath(bookID)
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to save cover: %w", err)
	}
	return path, nil
}

// ReadEPUB returns the stored EPUB payload for bookID.
func (fs *FileStore) ReadEPUB(bookID string) ([]byte, error) {
	data, err := os.ReadFile(fs.EPUBPath(bookID))
	if err != nil {
		return nil, fmt.Errorf("failed to read epub: %w", err)
	}
	return data, nil
}

// ReadCover returns the stored cover image for bookID.
func (fs *FileStore) ReadCover(bookID string) ([]byte, error) {
	data, err := os.ReadFile(fs.CoverPath(bookID))
	if err != nil {
		return nil, fmt.Errorf("failed to read cover: %w", err)
	}
	return data, nil
}

// DeleteBookFiles removes the EPUB and cover for bookID. Missing files
// are not an error, so deletion is idempotent.
func (fs *FileStore) DeleteBookFiles(bookID string) error {
	for _, path := range []string{fs.EPUBPath(bookID), fs.CoverPath(bookID)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// HashBytes computes the SHA256 hex digest of a payload. Used to tag
// ingested uploads in logs.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// writeFileAtomic writes data to a sibling temp file and renames it into
// place so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
