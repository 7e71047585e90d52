// Package handler exposes the REST API over chi.
package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/bookheaven/bookheaven/internal/domain/account"
	"github.com/bookheaven/bookheaven/internal/domain/announcement"
	"github.com/bookheaven/bookheaven/internal/domain/book"
	"github.com/bookheaven/bookheaven/internal/domain/bookmark"
	"github.com/bookheaven/bookheaven/internal/domain/cart"
	"github.com/bookheaven/bookheaven/internal/domain/fulfillment"
	"github.com/bookheaven/bookheaven/internal/domain/order"
	"github.com/bookheaven/bookheaven/internal/domain/review"
)

// Handler holds the domain services behind the REST API. The authenticated
// identity always flows from the auth middleware into service calls as an
// explicit parameter.
type Handler struct {
	accounts      *account.Service
	books         book.Repository
	carts         *cart.Service
	orders        *order.Service
	fulfillments  *fulfillment.Service
	reviews       *review.Service
	bookmarks     bookmark.Repository
	announcements *announcement.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	accounts *account.Service,
	books book.Repository,
	carts *cart.Service,
	orders *order.Service,
	fulfillments *fulfillment.Service,
	reviews *review.Service,
	bookmarks bookmark.Repository,
	announcements *announcement.Service,
) *Handler {
	return &Handler{
		accounts:      accounts,
		books:         books,
		carts:         carts,
		orders:        orders,
		fulfillments:  fulfillments,
		reviews:       reviews,
		bookmarks:     bookmarks,
		announcements: announcements,
	}
}

// Routes builds the API router. All routes are mounted under /api by the
// application wiring.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// Public.
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Get("/books", h.listBooks)
	r.Get("/books/{bookID}", h.getBook)
	r.Get("/books/{bookID}/reviews", h.listBookReviews)
	r.Get("/announcements", h.listActiveAnnouncements)

	// Member.
	r.Group(func(r chi.Router) {
		r.Use(h.authenticate, requireRole(account.RoleMember))

		r.Get("/cart", h.getCart)
		r.Put("/cart", h.putCartItem)
		r.Delete("/cart", h.clearCart)
		r.Delete("/cart/{bookID}", h.removeCartItem)

		r.Post("/orders", h.placeOrder)
		r.Post("/orders/cancel/{orderID}", h.cancelOrder)
		r.Get("/orders/my-orders", h.myOrders)

		r.Post("/reviews", h.addReview)

		r.Get("/bookmarks", h.listBookmarks)
		r.Post("/bookmarks", h.addBookmark)
		r.Delete("/bookmarks/{bookID}", h.removeBookmark)
	})

	// Staff.
	r.Group(func(r chi.Router) {
		r.Use(h.authenticate, requireRole(account.RoleStaff))

		r.Post("/staff/fulfill-order", h.fulfillOrder)
		r.Get("/staff/fulfilled-orders", h.listFulfilledOrders)
	})

	// Admin.
	r.Group(func(r chi.Router) {
		r.Use(h.authenticate, requireRole(account.RoleAdmin))

		r.Post("/books", h.createBook)
		r.Put("/books/{bookID}", h.updateBook)
		r.Delete("/books/{bookID}", h.deleteBook)

		r.Get("/admin/staffs", h.listStaff)
		r.Post("/admin/staffs", h.createStaff)
		r.Delete("/admin/staffs/{staffID}", h.deleteStaff)
		r.Get("/admin/members", h.listMembers)
		r.Delete("/admin/members/{memberID}", h.deleteMember)

		r.Get("/admin/reviews", h.listAllReviews)
		r.Delete("/admin/reviews/{reviewID}", h.deleteReview)

		r.Get("/admin/announcements", h.listAllAnnouncements)
		r.Post("/admin/announcements", h.createAnnouncement)
		r.Put("/admin/announcements/{announcementID}", h.updateAnnouncement)
		r.Delete("/admin/announcements/{announcementID}", h.deleteAnnouncement)
	})

	return r
}
