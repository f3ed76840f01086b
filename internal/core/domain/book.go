package domain

import "time"

// BookOwner is a snapshot of the user who registered a book.
type BookOwner struct {
	ID   string
	Name string
}

// CheckoutUser is a snapshot of the user holding a checkout.
type CheckoutUser struct {
	ID   string
	Name string
}

// Checkout is the active checkout of a book. Returned checkouts only appear
// as CheckoutRecord values in history queries.
type Checkout struct {
	ID           string
	CheckedOutBy CheckoutUser
	CheckedOutAt time.Time
}

// Book is owned by the user who registered it for its whole lifetime.
type Book struct {
	ID          string
	Title       string
	Author      string
	ISBN        string
	Description string
	Owner       BookOwner
	// Checkout is non-nil iff the book is currently checked out.
	Checkout  *Checkout
	CreatedAt time.Time
}

// Available reports whether the book can be checked out.
func (b Book) Available() bool {
	return b.Checkout == nil
}

// CreateBook registers a new book; the owner is supplied separately.
type CreateBook struct {
	Title       string
	Author      string
	ISBN        string
	Description string
}

// UpdateBook replaces the descriptive fields of a book. It only applies when
// RequestedBy is the recorded owner.
type UpdateBook struct {
	ID          string
	Title       string
	Author      string
	ISBN        string
	Description string
	RequestedBy string
}

// DeleteBook removes a book. It only applies when RequestedBy is the owner.
type DeleteBook struct {
	ID          string
	RequestedBy string
}

// BookListOptions selects a page of the book list.
type BookListOptions struct {
	Limit  int64
	Offset int64
}
