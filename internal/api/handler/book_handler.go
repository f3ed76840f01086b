package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/library-system/internal/api/metrics"
	"github.com/bookshelf/library-system/internal/core/domain"
	"github.com/bookshelf/library-system/internal/core/ports"
)

const defaultBookListLimit = 20

// BookHandler handles HTTP requests for book operations.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// Create handles POST /api/v1/books.
//
// @Summary      Register a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookRequest  true  "Book details"
// @Success      201   {object}  createdBookResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/books [post]
func (h *BookHandler) Create(c echo.Context, principal domain.AuthorizedUser) error {
	var req bookRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	id, err := h.service.Register(c.Request().Context(), principal, domain.CreateBook{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	metrics.BooksCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, createdBookResponse{BookID: id})
}

// List handles GET /api/v1/books.
//
// @Summary      List books, newest first
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (0-100, default 20)"
// @Param        offset  query     int  false  "Items to skip (default 0)"
// @Success      200     {object}  paginatedBookResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Router       /api/v1/books [get]
func (h *BookHandler) List(c echo.Context, _ domain.AuthorizedUser) error {
	query := listBooksQuery{Limit: defaultBookListLimit}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return err
	}
	if err := c.Validate(&query); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), domain.BookListOptions{Limit: query.Limit, Offset: query.Offset})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPaginatedBookResponse(page))
}

// Get handles GET /api/v1/books/:book_id.
//
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string  true  "Book ID"
// @Success      200      {object}  bookResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/v1/books/{book_id} [get]
func (h *BookHandler) Get(c echo.Context, _ domain.AuthorizedUser) error {
	var params bookPathParams
	if err := bindPath(c, &params); err != nil {
		return err
	}

	book, err := h.service.Get(c.Request().Context(), params.BookID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(*book))
}

// Update handles PUT /api/v1/books/:book_id. Only the owner may update.
//
// @Summary      Update a book
// @Tags         books
// @Accept       json
// @Security     BearerAuth
// @Param        book_id  path  string       true  "Book ID"
// @Param        body     body  bookRequest  true  "Book details"
// @Success      200
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/books/{book_id} [put]
func (h *BookHandler) Update(c echo.Context, principal domain.AuthorizedUser) error {
	var params bookPathParams
	if err := bindPath(c, &params); err != nil {
		return err
	}
	var req bookRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	err := h.service.Update(c.Request().Context(), principal, domain.UpdateBook{
		ID:          params.BookID,
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEntityNotFound) {
			metrics.BookWritesRejectedTotal.WithLabelValues("update").Inc()
		}
		return err
	}
	return c.NoContent(http.StatusOK)
}

// Delete handles DELETE /api/v1/books/:book_id. Only the owner may delete.
//
// @Summary      Delete a book
// @Tags         books
// @Security     BearerAuth
// @Param        book_id  path  string  true  "Book ID"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/books/{book_id} [delete]
func (h *BookHandler) Delete(c echo.Context, principal domain.AuthorizedUser) error {
	var params bookPathParams
	if err := bindPath(c, &params); err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), principal, params.BookID); err != nil {
		if errors.Is(err, domain.ErrEntityNotFound) {
			metrics.BookWritesRejectedTotal.WithLabelValues("delete").Inc()
		}
		return err
	}
	return c.NoContent(http.StatusOK)
}
