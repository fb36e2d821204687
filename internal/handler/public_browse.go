package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-portal/internal/repository"
)

// PublicHandler serves unauthenticated endpoints: the catalog browse and
// the token-shared borrowing record view.
type PublicHandler struct {
	Books      *repository.BookRepo
	Borrowings *repository.BorrowingRepo
	Extensions *repository.ExtensionRepo
}

// NewPublicHandler constructs a PublicHandler and panics if any
// dependency is nil.
func NewPublicHandler(books *repository.BookRepo, borrowings *repository.BorrowingRepo, extensions *repository.ExtensionRepo) *PublicHandler {
	if books == nil || borrowings == nil || extensions == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Books: books, Borrowings: borrowings, Extensions: extensions}
}

type bookView struct {
	ID     uint64 `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn,omitempty"`
}

// SearchBooks lists the catalog, optionally filtered by ?q= against
// title or author.
func (h *PublicHandler) SearchBooks(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	term := c.QueryParam("q")
	page, limit, offset := pageParams(c)
	total, err := h.Books.Count(ctx, term)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	books, err := h.Books.Search(ctx, term, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	views := make([]bookView, 0, len(books))
	for _, b := range books {
		views = append(views, bookView{ID: b.ID, Title: b.Title, Author: b.Author, ISBN: b.ISBN})
	}
	return c.JSON(http.StatusOK, listResponse(views, total, page))
}

// GetBook returns a single catalog entry.
func (h *PublicHandler) GetBook(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Books.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, bookView{ID: b.ID, Title: b.Title, Author: b.Author, ISBN: b.ISBN})
}

// GetSharedRecord returns a borrowing record by its share token, with
// its extension history.  The token is the only credential; an unknown
// token is a plain 404.
func (h *PublicHandler) GetSharedRecord(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Borrowings.GetByToken(ctx, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	requests, err := h.Extensions.ListForRecord(ctx, d.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"record": d, "extension_requests": requests})
}
