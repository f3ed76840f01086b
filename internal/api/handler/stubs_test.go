package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/library-system/internal/core/domain"
)

const (
	bookID     = "0b3a5c1e-6f1d-4b5e-9a43-2f8b1f7c9d10"
	checkoutID = "5d2e8f4a-1c3b-4a7d-8e6f-9b0c1d2e3f40"
	userID     = "7f9e2d1c-3b4a-4c5d-8e7f-6a5b4c3d2e1f"
)

type stubAuthService struct {
	loginFn  func(ctx context.Context, email, password string) (domain.AccessToken, *domain.User, error)
	logoutFn func(ctx context.Context, principal domain.AuthorizedUser) error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (domain.AccessToken, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, principal domain.AuthorizedUser) error {
	return s.logoutFn(ctx, principal)
}

type stubUserService struct {
	listFn           func(ctx context.Context) ([]domain.User, error)
	createFn         func(ctx context.Context, principal domain.AuthorizedUser, event domain.CreateUser) (*domain.User, error)
	updatePasswordFn func(ctx context.Context, principal domain.AuthorizedUser, event domain.UpdateUserPassword) error
	updateRoleFn     func(ctx context.Context, principal domain.AuthorizedUser, event domain.UpdateUserRole) error
	deleteFn         func(ctx context.Context, principal domain.AuthorizedUser, event domain.DeleteUser) error
}

func (s *stubUserService) List(ctx context.Context) ([]domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) Create(ctx context.Context, principal domain.AuthorizedUser, event domain.CreateUser) (*domain.User, error) {
	return s.createFn(ctx, principal, event)
}

func (s *stubUserService) UpdatePassword(ctx context.Context, principal domain.AuthorizedUser, event domain.UpdateUserPassword) error {
	return s.updatePasswordFn(ctx, principal, event)
}

func (s *stubUserService) UpdateRole(ctx context.Context, principal domain.AuthorizedUser, event domain.UpdateUserRole) error {
	return s.updateRoleFn(ctx, principal, event)
}

func (s *stubUserService) Delete(ctx context.Context, principal domain.AuthorizedUser, event domain.DeleteUser) error {
	return s.deleteFn(ctx, principal, event)
}

type stubBookService struct {
	registerFn func(ctx context.Context, principal domain.AuthorizedUser, event domain.CreateBook) (string, error)
	listFn     func(ctx context.Context, options domain.BookListOptions) (domain.PaginatedList[domain.Book], error)
	getFn      func(ctx context.Context, id string) (*domain.Book, error)
	updateFn   func(ctx context.Context, principal domain.AuthorizedUser, event domain.UpdateBook) error
	deleteFn   func(ctx context.Context, principal domain.AuthorizedUser, id string) error
}

func (s *stubBookService) Register(ctx context.Context, principal domain.AuthorizedUser, event domain.CreateBook) (string, error) {
	return s.registerFn(ctx, principal, event)
}

func (s *stubBookService) List(ctx context.Context, options domain.BookListOptions) (domain.PaginatedList[domain.Book], error) {
	return s.listFn(ctx, options)
}

func (s *stubBookService) Get(ctx context.Context, id string) (*domain.Book, error) {
	return s.getFn(ctx, id)
}

func (s *stubBookService) Update(ctx context.Context, principal domain.AuthorizedUser, event domain.UpdateBook) error {
	return s.updateFn(ctx, principal, event)
}

func (s *stubBookService) Delete(ctx context.Context, principal domain.AuthorizedUser, id string) error {
	return s.deleteFn(ctx, principal, id)
}

type stubCheckoutService struct {
	checkoutFn   func(ctx context.Context, principal domain.AuthorizedUser, bookID string) (string, error)
	returnFn     func(ctx context.Context, principal domain.AuthorizedUser, bookID, checkoutID string) error
	unreturnedFn func(ctx context.Context) ([]domain.CheckoutRecord, error)
	byUserFn     func(ctx context.Context, principal domain.AuthorizedUser) ([]domain.CheckoutRecord, error)
	historyFn    func(ctx context.Context, bookID string) ([]domain.CheckoutRecord, error)
}

func (s *stubCheckoutService) Checkout(ctx context.Context, principal domain.AuthorizedUser, bookID string) (string, error) {
	return s.checkoutFn(ctx, principal, bookID)
}

func (s *stubCheckoutService) Return(ctx context.Context, principal domain.AuthorizedUser, bookID, checkoutID string) error {
	return s.returnFn(ctx, principal, bookID, checkoutID)
}

func (s *stubCheckoutService) ListUnreturned(ctx context.Context) ([]domain.CheckoutRecord, error) {
	return s.unreturnedFn(ctx)
}

func (s *stubCheckoutService) ListByUser(ctx context.Context, principal domain.AuthorizedUser) ([]domain.CheckoutRecord, error) {
	return s.byUserFn(ctx, principal)
}

func (s *stubCheckoutService) History(ctx context.Context, bookID string) ([]domain.CheckoutRecord, error) {
	return s.historyFn(ctx, bookID)
}

func member(id string) domain.AuthorizedUser {
	return domain.AuthorizedUser{
		AccessToken: "token",
		User:        domain.User{ID: id, Name: "Ann", Email: "ann@example.com", Role: domain.RoleUser},
	}
}

// newContext builds a request context with a JSON body and route params
// given as name/value pairs.
func newContext(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}
