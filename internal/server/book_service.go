// file: internal/server/book_service.go
// version: 1.3.0
// guid: 0d1e2f3a-4b5c-6d7e-8f9a-0b1c2d3e4f5a

package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"github.com/jdfalk/ebook-library/internal/database"
)

// listBooks returns the catalog, newest first.
func (s *Server) listBooks(c *gin.Context) {
	books, err := s.deps.Store.GetAllBooks()
	if err != nil {
		RespondWithInternalError(c, "failed to list books")
		return
	}
	if books == nil {
		books = []database.Book{}
	}
	c.JSON(http.StatusOK, gin.H{
		"items": books,
		"count": len(books),
	})
}

func (s *Server) getBook(c *gin.Context) {
	book, err := s.deps.Store.GetBookByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrBookNotFound) {
			RespondWithNotFound(c, "book", c.Param("id"))
			return
		}
		RespondWithInternalError(c, "failed to load book")
		return
	}
	RespondWithOK(c, book)
}

func (s *Server) deleteBook(c *gin.Context) {
	id := c.Param("id")
	if err := s.deps.Ingest.Delete(id); err != nil {
		if errors.Is(err, database.ErrBookNotFound) {
			RespondWithNotFound(c, "book", id)
			return
		}
		RespondWithInternalError(c, "failed to delete book")
		return
	}
	if s.deps.Index != nil {
		if err := s.deps.Index.Remove(id); err != nil {
			logErrorWithContext(c, http.StatusOK, fmt.Sprintf("failed to deindex book %s: %v", id, err))
		}
	}
	RespondWithNoContent(c)
}

func (s *Server) getBookCover(c *gin.Context) {
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
	if book.CoverImagePath == nil {
		RespondWithNotFound(c, "cover", id)
		return
	}
	data, err := s.deps.Files.ReadCover(id)
	if err != nil {
		RespondWithInternalError(c, "failed to read cover")
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}

func (s *Server) downloadBook(c *gin.Context) {
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
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", book.Title+".epub"))
	c.File(book.EpubFilePath)
}

// exportBooks streams the full catalog as YAML.
func (s *Server) exportBooks(c *gin.Context) {
	books, err := s.deps.Store.GetAllBooks()
	if err != nil {
		RespondWithInternalError(c, "failed to list books")
		return
	}
	data, err := yaml.Marshal(books)
	if err != nil {
		RespondWithInternalError(c, "failed to serialize catalog")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="books.yaml"`)
	c.Data(http.StatusOK, "application/yaml", data)
}
