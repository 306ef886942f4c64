// file: internal/ingest/ingest.go
// version: 1.4.0
// guid: 6b7c8d9e-0f1a-2b3c-4d5e-6f7a8b9c0d1e

// Package ingest drives the book ingestion pipeline: extract embedded
// metadata, enrich it from Open Library, normalize the cover, and
// persist everything. Enrichment is best-effort and cover processing
// falls back to the raw embedded bytes; only parse and persistence
// failures abort an ingestion.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jdfalk/ebook-library/internal/covers"
	"github.com/jdfalk/ebook-library/internal/database"
	"github.com/jdfalk/ebook-library/internal/metadata"
	"github.com/jdfalk/ebook-library/internal/metrics"
	"github.com/jdfalk/ebook-library/internal/storage"
)

// State tracks where a book is in the pipeline. Transitions are linear;
// EnrichmentSkipped replaces Enriched when no lookup happens or the
// lookup yields nothing usable.
type State string

const (
	StateReceived          State = "received"
	StateExtracted         State = "extracted"
	StateEnriched          State = "enriched"
	StateEnrichmentSkipped State = "enrichment_skipped"
	StateCoverReady        State = "cover_ready"
	StatePersisted         State = "persisted"
	StateComplete          State = "complete"
	StateFailed            State = "failed"
)

// Lookup resolves an ISBN against an external bibliographic source.
type Lookup interface {
	LookupISBN(ctx context.Context, isbn string) (*metadata.BookData, error)
	Name() string
}

// Service wires the pipeline's collaborators together.
type Service struct {
	store  database.Store
	files  *storage.FileStore
	lookup Lookup
	logger *slog.Logger
}

// NewService creates an ingestion service. lookup may be nil, in which
// case every ingestion skips enrichment.
func NewService(store database.Store, files *storage.FileStore, lookup Lookup, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, files: files, lookup: lookup, logger: logger}
}

// IngestFile reads an EPUB from disk and ingests it. Files without an
// .epub extension are rejected before any bytes are read.
func (s *Service) IngestFile(ctx context.Context, path, source string) (*database.Book, error) {
	if strings.ToLower(filepath.Ext(path)) != ".epub" {
		return nil, &InvalidFormatError{Path: path}
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return s.Ingest(ctx, payload, source)
}

// Ingest runs the full pipeline on an EPUB payload. source labels where
// the payload came from ("upload", "watch", "import") for logs and
// metrics.
func (s *Service) Ingest(ctx context.Context, payload []byte, source string) (*database.Book, error) {
	opID := ulid.Make().String()
	start := time.Now()
	metrics.IncIngestStarted(source)

	logger := s.logger.With("op_id", opID, "source", source, "sha256", storage.HashBytes(payload))
	s.logState(logger, StateReceived)

	book, err := s.run(ctx, logger, payload)
	metrics.ObserveIngestDuration(source, time.Since(start))
	if err != nil {
		metrics.IncIngestFailed(source)
		s.logState(logger, StateFailed)
		return nil, err
	}

	metrics.IncIngestCompleted(source)
	s.refreshBookGauge()
	s.logState(logger, StateComplete)
	logger.Info("book ingested", "book_id", book.ID, "title", book.Title,
		"duration_ms", time.Since(start).Milliseconds())
	return book, nil
}

func (s *Service) run(ctx context.Context, logger *slog.Logger, payload []byte) (*database.Book, error) {
	extracted, err := metadata.ExtractFromBytes(payload)
	if err != nil {
		return nil, err
	}
	s.logState(logger, StateExtracted)

	book := database.NewBook(extracted.Title, "")
	book.Author = extracted.Author
	book.Publisher = extracted.Publisher
	book.Language = extracted.Language
	book.Description = extracted.Description
	book.ISBN10 = extracted.Identifiers.ISBN10
	book.ISBN13 = extracted.Identifiers.ISBN13
	book.Subjects = extracted.Subjects

	s.enrich(ctx, logger, book, extracted)
	coverBytes := s.resolveCover(logger, extracted.Cover)

	epubPath, err := s.files.SaveEPUB(book.ID, payload)
	if err != nil {
		return nil, &PersistenceError{Op: "epub write", Cause: err}
	}
	book.EpubFilePath = epubPath

	if coverBytes != nil {
		coverPath, err := s.files.SaveCover(book.ID, coverBytes)
		if err != nil {
			_ = s.files.DeleteBookFiles(book.ID)
			return nil, &PersistenceError{Op: "cover write", Cause: err}
		}
		book.CoverImagePath = &coverPath
	}

	if err := s.store.CreateBook(book); err != nil {
		_ = s.files.DeleteBookFiles(book.ID)
		return nil, &PersistenceError{Op: "book insert", Cause: err}
	}
	// A duplicate subject trips the store's uniqueness constraint and
	// fails the upload like any other persistence error.
	for _, subject := range book.Subjects {
		if err := s.store.AddBookSubject(book.ID, subject); err != nil {
			_ = s.store.DeleteBook(book.ID)
			_ = s.files.DeleteBookFiles(book.ID)
			return nil, &PersistenceError{Op: "subject insert", Cause: err}
		}
	}
	s.logState(logger, StatePersisted)
	return book, nil
}

// enrich looks the book up by ISBN and merges the result. Lookup
// failures and misses degrade to a skip; they never abort the pipeline.
func (s *Service) enrich(ctx context.Context, logger *slog.Logger, book *database.Book, extracted *metadata.Extracted) {
	if s.lookup == nil {
		s.logState(logger, StateEnrichmentSkipped)
		metrics.IncEnrichmentSkipped()
		return
	}
	isbn, ok := extracted.Identifiers.LookupKey()
	if !ok {
		logger.Info("no ISBN found, skipping enrichment")
		s.logState(logger, StateEnrichmentSkipped)
		metrics.IncEnrichmentSkipped()
		return
	}

	data, err := s.lookup.LookupISBN(ctx, isbn)
	if err != nil {
		logger.Warn("lookup failed, continuing without enrichment",
			"source_name", s.lookup.Name(), "isbn", isbn, "error", err)
		metrics.IncLookupFailure()
		s.logState(logger, StateEnrichmentSkipped)
		metrics.IncEnrichmentSkipped()
		return
	}
	if data == nil {
		logger.Info("no match found", "source_name", s.lookup.Name(), "isbn", isbn)
		s.logState(logger, StateEnrichmentSkipped)
		metrics.IncEnrichmentSkipped()
		return
	}

	metadata.MergeOpenLibrary(book, data)
	s.logState(logger, StateEnriched)
}

// resolveCover normalizes the embedded cover, falling back to the raw
// bytes when the image cannot be processed. Returns nil when the book
// carries no cover at all.
func (s *Service) resolveCover(logger *slog.Logger, raw []byte) []byte {
	defer s.logState(logger, StateCoverReady)
	if raw == nil {
		return nil
	}
	normalized, err := covers.Normalize(raw)
	if err != nil {
		logger.Warn("cover processing failed, storing original bytes", "error", err)
		metrics.IncCoverFailure()
		return raw
	}
	return normalized
}

// Delete removes a book's database row and its stored files.
func (s *Service) Delete(bookID string) error {
	if err := s.store.DeleteBook(bookID); err != nil {
		return err
	}
	if err := s.files.DeleteBookFiles(bookID); err != nil {
		return err
	}
	s.refreshBookGauge()
	return nil
}

func (s *Service) refreshBookGauge() {
	if count, err := s.store.CountBooks(); err == nil {
		metrics.SetBooks(count)
	}
}

func (s *Service) logState(logger *slog.Logger, state State) {
	logger.Debug("pipeline state", "state", string(state))
}
