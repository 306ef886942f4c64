// file: internal/server/reader_service.go
// version: 1.1.0
// guid: 2f3a4b5c-6d7e-8f9a-0b1c-2d3e4f5a6b7c

package server

import (
	"errors"
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/ebook-library/internal/database"
	"github.com/jdfalk/ebook-library/internal/reader"
)

// listChapters returns the reading order for a book.
func (s *Server) listChapters(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.deps.Store.GetBookByID(id); err != nil {
		if errors.Is(err, database.ErrBookNotFound) {
			RespondWithNotFound(c, "book", id)
			return
		}
		RespondWithInternalError(c, "failed to load book")
		return
	}

	chapters, err := s.deps.Reader.Chapters(id)
	if err != nil {
		RespondWithInternalError(c, "failed to read book")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": chapters,
		"count": len(chapters),
	})
}

// getChapter returns one chapter's sanitized content.
func (s *Server) getChapter(c *gin.Context) {
	id := c.Param("id")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondWithBadRequest(c, "chapter index must be an integer")
		return
	}

	if _, err := s.deps.Store.GetBookByID(id); err != nil {
		if errors.Is(err, database.ErrBookNotFound) {
			RespondWithNotFound(c, "book", id)
			return
		}
		RespondWithInternalError(c, "failed to load book")
		return
	}

	chapter, err := s.deps.Reader.Chapter(id, index)
	if err != nil {
		if errors.Is(err, reader.ErrChapterOutOfRange) {
			RespondWithNotFound(c, "chapter", c.Param("index"))
			return
		}
		RespondWithInternalError(c, "failed to read chapter")
		return
	}
	RespondWithOK(c, chapter)
}

// readBook returns the whole book as one sanitized HTML document.
func (s *Server) readBook(c *gin.Context) {
	id := c.Param("id")
	book, err := s.deps.Store.GetBookByID(id)
	if err != nil {
		if errors.Is(err, database.ErrBookNotFound) {
			RespondWithNotFound(c, "book", id)
			return
		}
		RespondWithInternalError(c, "failed to load book")
		return
	}

	content, err := s.deps.Reader.FullHTML(id)
	if err != nil {
		RespondWithInternalError(c, "failed to read book")
		return
	}

	var sb strings.Builder
	sb.WriteString("<h1>")
	sb.WriteString(html.EscapeString(book.Title))
	sb.WriteString("</h1>\n")
	sb.WriteString(content)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(sb.String()))
}
