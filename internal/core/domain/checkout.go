package domain

import "time"

// CheckoutBook is the book summary attached to checkout listings.
type CheckoutBook struct {
	ID     string
	Title  string
	Author string
	ISBN   string
}

// CheckoutRecord is one entry of the checkout ledger. A record is Active
// until ReturnedAt is set; the transition is one-way.
type CheckoutRecord struct {
	ID           string
	Book         CheckoutBook
	CheckedOutBy CheckoutUser
	CheckedOutAt time.Time
	ReturnedAt   *time.Time
	ReturnedBy   string
}

// Returned reports whether the record reached its terminal state.
func (c CheckoutRecord) Returned() bool {
	return c.ReturnedAt != nil
}

// CreateCheckout opens an Active checkout of BookID for UserID.
type CreateCheckout struct {
	BookID       string
	UserID       string
	CheckedOutAt time.Time
}

// UpdateReturned closes the Active checkout CheckoutID of BookID.
type UpdateReturned struct {
	CheckoutID string
	BookID     string
	ReturnedBy string
	ReturnedAt time.Time
	// RestrictToBorrower limits the return to the user who checked the book out.
	RestrictToBorrower bool
}
