package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order.
type Status string

const (
	// StatusPending is the initial state of every placed order.
	StatusPending Status = "pending"
	// StatusCancelled is terminal and reachable only from pending.
	StatusCancelled Status = "cancelled"
	// StatusFulfilled is terminal, set once by claim-code fulfillment.
	StatusFulfilled Status = "fulfilled"
)

// Order represents a placed order with its pricing and discount details.
type Order struct {
	ID              string
	MemberID        string
	Status          Status
	Lines           []Line
	TotalPrice      decimal.Decimal
	BulkDiscount    bool
	LoyaltyDiscount bool
	ClaimCode       string
	CreatedAt       time.Time
}

// Line is a single line item. UnitPrice is the per-unit price actually
// charged: after any book-level sale discount, before order-level discounts.
// Lines are immutable once the order is persisted.
type Line struct {
	BookID    string
	BookTitle string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Item is a (bookID, quantity) pair from a place-order request.
type Item struct {
	BookID   string
	Quantity int
}

// Sentinel errors for order validation and state transitions.
var (
	ErrEmptyItems     = errors.New("items required")
	ErrOrderNotFound  = errors.New("order not found")
	ErrNotCancellable = errors.New("only pending orders can be cancelled")
)

// BookNotFoundError indicates a requested book has no catalog entry.
type BookNotFoundError struct {
	BookID string
}

func (e *BookNotFoundError) Error() string {
	return "book " + e.BookID + " not found"
}

// InvalidQuantityError indicates a line item with a non-positive quantity.
type InvalidQuantityError struct {
	BookID string
}

func (e *InvalidQuantityError) Error() string {
	return "quantity must be greater than 0 for book " + e.BookID
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order header and all its lines atomically.
	Create(ctx context.Context, o *Order) error
	// ListByMember returns the member's orders, newest first, lines included.
	ListByMember(ctx context.Context, memberID string) ([]Order, error)
	// Cancel transitions the member's pending order to cancelled. It returns
	// ErrOrderNotFound when no such order exists for the member and
	// ErrNotCancellable when the order is not pending.
	Cancel(ctx context.Context, memberID, orderID string) error
	// CountFulfilled returns how many of the member's orders are fulfilled.
	CountFulfilled(ctx context.Context, memberID string) (int, error)
}
