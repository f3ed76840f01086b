package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type accessTokenResponse struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken"`
}

// --- Users ---

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user Admin User"`
}

type userPathParams struct {
	UserID string `param:"user_id" validate:"required,uuid"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role" example:"user"`
}

type usersResponse struct {
	Items []userResponse `json:"items"`
}

// --- Books ---

type bookRequest struct {
	Title       string `json:"title"       validate:"required"`
	Author      string `json:"author"      validate:"required"`
	ISBN        string `json:"isbn"        validate:"required"`
	Description string `json:"description"`
}

type bookPathParams struct {
	BookID string `param:"book_id" validate:"required,uuid"`
}

type listBooksQuery struct {
	Limit  int64 `query:"limit"  validate:"min=0,max=100"`
	Offset int64 `query:"offset" validate:"min=0"`
}

type createdBookResponse struct {
	BookID string `json:"bookId"`
}

type bookOwnerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type checkoutUserResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type bookCheckoutResponse struct {
	CheckoutID   string               `json:"checkoutId"`
	CheckedOutBy checkoutUserResponse `json:"checkedOutBy"`
	CheckedOutAt time.Time            `json:"checkedOutAt"`
}

type bookResponse struct {
	BookID      string                `json:"bookId"`
	Title       string                `json:"title"`
	Author      string                `json:"author"`
	ISBN        string                `json:"isbn"`
	Description string                `json:"description"`
	Owner       bookOwnerResponse     `json:"owner"`
	Checkout    *bookCheckoutResponse `json:"checkout"`
}

type paginatedBookResponse struct {
	Total  int64          `json:"total"`
	Limit  int64          `json:"limit"`
	Offset int64          `json:"offset"`
	Books  []bookResponse `json:"books"`
}

// --- Checkouts ---

type checkoutPathParams struct {
	BookID     string `param:"book_id"     validate:"required,uuid"`
	CheckoutID string `param:"checkout_id" validate:"required,uuid"`
}

type createdCheckoutResponse struct {
	CheckoutID string `json:"checkoutId"`
}

type checkoutBookResponse struct {
	BookID string `json:"bookId"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

type checkoutResponse struct {
	ID           string               `json:"id"`
	CheckedOutBy checkoutUserResponse `json:"checkedOutBy"`
	CheckedOutAt time.Time            `json:"checkedOutAt"`
	ReturnedAt   *time.Time           `json:"returnedAt"`
	ReturnedBy   string               `json:"returnedBy,omitempty"`
	Book         checkoutBookResponse `json:"book"`
}

type checkoutsResponse struct {
	Items []checkoutResponse `json:"items"`
}
