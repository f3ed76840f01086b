package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/library-system/internal/api/metrics"
	"github.com/bookshelf/library-system/internal/core/domain"
	"github.com/bookshelf/library-system/internal/core/ports"
)

// CheckoutHandler handles the checkout lifecycle endpoints.
type CheckoutHandler struct {
	service ports.CheckoutService
}

func NewCheckoutHandler(service ports.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// Checkout handles POST /api/v1/books/:book_id/checkouts.
//
// @Summary      Check out a book
// @Tags         checkouts
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string  true  "Book ID"
// @Success      201      {object}  createdCheckoutResponse
// @Failure      404      {object}  errorResponse
// @Failure      409      {object}  errorResponse
// @Router       /api/v1/books/{book_id}/checkouts [post]
func (h *CheckoutHandler) Checkout(c echo.Context, principal domain.AuthorizedUser) error {
	var params bookPathParams
	if err := bindPath(c, &params); err != nil {
		return err
	}

	id, err := h.service.Checkout(c.Request().Context(), principal, params.BookID)
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues(outcome(err)).Inc()
		return err
	}

	metrics.CheckoutsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, createdCheckoutResponse{CheckoutID: id})
}

// Return handles PUT /api/v1/books/:book_id/checkouts/:checkout_id/returned.
//
// @Summary      Return a book
// @Tags         checkouts
// @Security     BearerAuth
// @Param        book_id      path  string  true  "Book ID"
// @Param        checkout_id  path  string  true  "Checkout ID"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/books/{book_id}/checkouts/{checkout_id}/returned [put]
func (h *CheckoutHandler) Return(c echo.Context, principal domain.AuthorizedUser) error {
	var params checkoutPathParams
	if err := bindPath(c, &params); err != nil {
		return err
	}

	if err := h.service.Return(c.Request().Context(), principal, params.BookID, params.CheckoutID); err != nil {
		metrics.ReturnsTotal.WithLabelValues(outcome(err)).Inc()
		return err
	}

	metrics.ReturnsTotal.WithLabelValues("returned").Inc()
	return c.NoContent(http.StatusOK)
}

// ListActive handles GET /api/v1/books/checkouts.
//
// @Summary      List all active checkouts
// @Tags         checkouts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  checkoutsResponse
// @Router       /api/v1/books/checkouts [get]
func (h *CheckoutHandler) ListActive(c echo.Context, _ domain.AuthorizedUser) error {
	records, err := h.service.ListUnreturned(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCheckoutsResponse(records))
}

// Mine handles GET /api/v1/users/me/checkouts.
//
// @Summary      List own active checkouts
// @Tags         checkouts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  checkoutsResponse
// @Router       /api/v1/users/me/checkouts [get]
func (h *CheckoutHandler) Mine(c echo.Context, principal domain.AuthorizedUser) error {
	records, err := h.service.ListByUser(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCheckoutsResponse(records))
}

// History handles GET /api/v1/books/:book_id/checkout-history.
//
// @Summary      Checkout history of a book
// @Tags         checkouts
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string  true  "Book ID"
// @Success      200      {object}  checkoutsResponse
// @Router       /api/v1/books/{book_id}/checkout-history [get]
func (h *CheckoutHandler) History(c echo.Context, _ domain.AuthorizedUser) error {
	var params bookPathParams
	if err := bindPath(c, &params); err != nil {
		return err
	}

	records, err := h.service.History(c.Request().Context(), params.BookID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCheckoutsResponse(records))
}

// outcome labels a failed checkout or return for metrics.
func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrEntityNotFound):
		return "not_found"
	}
	return "error"
}
