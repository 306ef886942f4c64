// file: internal/server/search_service.go
// version: 1.1.0
// guid: 3a4b5c6d-7e8f-9a0b-1c2d-3e4f5a6b7c8d

package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/ebook-library/internal/database"
	"github.com/jdfalk/ebook-library/internal/search"
)

// searchBooks answers q= queries from the full-text index, then falls
// back to fuzzy title matching when the index yields nothing.
func (s *Server) searchBooks(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		RespondWithBadRequest(c, "missing q parameter")
		return
	}
	limit := ParseQueryInt(c, "limit", 25)

	var books []database.Book
	if s.deps.Index != nil {
		hits, err := s.deps.Index.Search(query, limit)
		if err != nil {
			RespondWithInternalError(c, "search failed")
			return
		}
		for _, hit := range hits {
			book, err := s.deps.Store.GetBookByID(hit.BookID)
			if err != nil {
				if errors.Is(err, database.ErrBookNotFound) {
					// Stale index entry; skip it.
					continue
				}
				RespondWithInternalError(c, "failed to load book")
				return
			}
			books = append(books, *book)
		}
	}

	if len(books) == 0 {
		all, err := s.deps.Store.GetAllBooks()
		if err != nil {
			RespondWithInternalError(c, "failed to list books")
			return
		}
		books = search.FuzzyTitles(all, query, limit)
	}

	if books == nil {
		books = []database.Book{}
	}
	c.JSON(http.StatusOK, gin.H{
		"items": books,
		"count": len(books),
		"query": query,
	})
}
