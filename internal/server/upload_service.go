// file: internal/server/upload_service.go
// version: 1.1.0
// guid: 1e2f3a4b-5c6d-7e8f-9a0b-1c2d3e4f5a6b

package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/ebook-library/internal/metadata"
)

// uploadBook accepts a multipart EPUB upload under the "file" field,
// runs it through the ingestion pipeline, and returns the created book.
func (s *Server) uploadBook(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondWithBadRequest(c, "missing file field")
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".epub") {
		RespondWithBadRequest(c, "only .epub files are accepted")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		RespondWithInternalError(c, "failed to open upload")
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		if errors.As(err, new(*http.MaxBytesError)) {
			RespondWithError(c, http.StatusRequestEntityTooLarge, "upload too large", "TOO_LARGE")
			return
		}
		RespondWithInternalError(c, "failed to read upload")
		return
	}

	book, err := s.deps.Ingest.Ingest(c.Request.Context(), payload, "upload")
	if err != nil {
		var parseErr *metadata.ParseError
		if errors.As(err, &parseErr) {
			RespondWithUnprocessable(c, "file is not a valid EPUB")
			return
		}
		RespondWithInternalError(c, "ingestion failed")
		return
	}

	if s.deps.Index != nil {
		fullText := ""
		if s.deps.Reader != nil {
			if text, err := s.deps.Reader.FullText(book.ID); err == nil {
				fullText = text
			}
		}
		if err := s.deps.Index.IndexBook(book, fullText); err != nil {
			logErrorWithContext(c, http.StatusCreated, "failed to index book: "+err.Error())
		}
	}

	RespondWithCreated(c, book)
}
