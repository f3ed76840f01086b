package handler

import (
	"github.com/bookshelf/library-system/internal/core/domain"
)

// --- Domain → Response ---

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role.WireName(),
	}
}

func toUsersResponse(users []domain.User) usersResponse {
	items := make([]userResponse, len(users))
	for i, u := range users {
		items[i] = toUserResponse(u)
	}
	return usersResponse{Items: items}
}

func toBookResponse(b domain.Book) bookResponse {
	resp := bookResponse{
		BookID:      b.ID,
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		Description: b.Description,
		Owner:       bookOwnerResponse{ID: b.Owner.ID, Name: b.Owner.Name},
	}
	if b.Checkout != nil {
		resp.Checkout = &bookCheckoutResponse{
			CheckoutID:   b.Checkout.ID,
			CheckedOutBy: checkoutUserResponse{ID: b.Checkout.CheckedOutBy.ID, Name: b.Checkout.CheckedOutBy.Name},
			CheckedOutAt: b.Checkout.CheckedOutAt,
		}
	}
	return resp
}

func toPaginatedBookResponse(page domain.PaginatedList[domain.Book]) paginatedBookResponse {
	mapped := domain.MapList(page, toBookResponse)
	return paginatedBookResponse{
		Total:  mapped.Total,
		Limit:  mapped.Limit,
		Offset: mapped.Offset,
		Books:  mapped.Items,
	}
}

func toCheckoutsResponse(records []domain.CheckoutRecord) checkoutsResponse {
	items := make([]checkoutResponse, len(records))
	for i, r := range records {
		items[i] = checkoutResponse{
			ID:           r.ID,
			CheckedOutBy: checkoutUserResponse{ID: r.CheckedOutBy.ID, Name: r.CheckedOutBy.Name},
			CheckedOutAt: r.CheckedOutAt,
			ReturnedAt:   r.ReturnedAt,
			ReturnedBy:   r.ReturnedBy,
			Book: checkoutBookResponse{
				BookID: r.Book.ID,
				Title:  r.Book.Title,
				Author: r.Book.Author,
				ISBN:   r.Book.ISBN,
			},
		}
	}
	return checkoutsResponse{Items: items}
}
