package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bookshelf/library-system/internal/core/domain"
)

func TestBookHandler_Create(t *testing.T) {
	svc := &stubBookService{registerFn: func(_ context.Context, p domain.AuthorizedUser, event domain.CreateBook) (string, error) {
		if p.ID() != userID || event.Title != "Dune" || event.ISBN != "9780441172719" {
			t.Fatalf("unexpected call %s %+v", p.ID(), event)
		}
		return bookID, nil
	}}
	c, rec := newContext(http.MethodPost, "/api/v1/books", `{"title":"Dune","author":"Frank Herbert","isbn":"9780441172719"}`)

	if err := NewBookHandler(svc).Create(c, member(userID)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var body createdBookResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.BookID != bookID {
		t.Fatalf("expected bookId %s, got %+v", bookID, body)
	}
}

func TestBookHandler_CreateRequiresTitle(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/v1/books", `{"author":"Frank Herbert","isbn":"9780441172719"}`)

	err := NewBookHandler(&stubBookService{}).Create(c, member(userID))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBookHandler_ListDefaults(t *testing.T) {
	var got domain.BookListOptions
	svc := &stubBookService{listFn: func(_ context.Context, options domain.BookListOptions) (domain.PaginatedList[domain.Book], error) {
		got = options
		return domain.PaginatedList[domain.Book]{Total: 0, Limit: options.Limit, Offset: options.Offset}, nil
	}}
	c, rec := newContext(http.MethodGet, "/api/v1/books", "")

	if err := NewBookHandler(svc).List(c, member(userID)); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got.Limit != 20 || got.Offset != 0 {
		t.Fatalf("expected limit 20 offset 0, got %+v", got)
	}
	var body paginatedBookResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Books == nil {
		t.Fatalf("expected empty books array, got null")
	}
}

func TestBookHandler_ListRejectsLimitAboveMax(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/api/v1/books?limit=101", "")

	err := NewBookHandler(&stubBookService{}).List(c, member(userID))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBookHandler_GetRendersActiveCheckout(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := &stubBookService{getFn: func(_ context.Context, id string) (*domain.Book, error) {
		return &domain.Book{
			ID:    id,
			Title: "Dune",
			Owner: domain.BookOwner{ID: userID, Name: "Ann"},
			Checkout: &domain.Checkout{
				ID:           checkoutID,
				CheckedOutBy: domain.CheckoutUser{ID: "u2", Name: "Bob"},
				CheckedOutAt: at,
			},
		}, nil
	}}
	c, rec := newContext(http.MethodGet, "/", "", "book_id", bookID)

	if err := NewBookHandler(svc).Get(c, member(userID)); err != nil {
		t.Fatalf("get: %v", err)
	}
	var body bookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Checkout == nil || body.Checkout.CheckoutID != checkoutID || body.Checkout.CheckedOutBy.Name != "Bob" {
		t.Fatalf("unexpected checkout %+v", body.Checkout)
	}
	if !body.Checkout.CheckedOutAt.Equal(at) {
		t.Fatalf("expected checkedOutAt %v, got %v", at, body.Checkout.CheckedOutAt)
	}
}

func TestBookHandler_UpdateNotOwnedIsNotFound(t *testing.T) {
	svc := &stubBookService{updateFn: func(_ context.Context, _ domain.AuthorizedUser, event domain.UpdateBook) error {
		if event.ID != bookID {
			t.Fatalf("unexpected id %s", event.ID)
		}
		return domain.ErrEntityNotFound
	}}
	c, _ := newContext(http.MethodPut, "/", `{"title":"T","author":"A","isbn":"I"}`, "book_id", bookID)

	if err := NewBookHandler(svc).Update(c, member("someone-else")); !errors.Is(err, domain.ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
}

func TestBookHandler_Delete(t *testing.T) {
	svc := &stubBookService{deleteFn: func(_ context.Context, p domain.AuthorizedUser, id string) error {
		if id != bookID || p.ID() != userID {
			t.Fatalf("unexpected call %s %s", p.ID(), id)
		}
		return nil
	}}
	c, rec := newContext(http.MethodDelete, "/", "", "book_id", bookID)

	if err := NewBookHandler(svc).Delete(c, member(userID)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
