package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Entry is one cart row joined with the book data the storefront displays.
type Entry struct {
	BookID    string
	BookTitle string
	Author    string
	ImageURL  string
	Quantity  int
	UnitPrice decimal.Decimal
	IsOnSale  bool
}

// ErrBookNotFound is returned when an upsert references an unknown book.
var ErrBookNotFound = errors.New("book not found")

// Repository defines persistence operations for member carts.
type Repository interface {
	List(ctx context.Context, memberID string) ([]Entry, error)
	// Upsert inserts or replaces the quantity of one cart row.
	Upsert(ctx context.Context, memberID, bookID string, quantity int) error
	Remove(ctx context.Context, memberID, bookID string) error
	Clear(ctx context.Context, memberID string) error
	// RemoveBooks deletes the member's cart rows for exactly the given book
	// ids. Order placement uses it to clear only what was ordered.
	RemoveBooks(ctx context.Context, memberID string, bookIDs []string) error
}

// Service manages member carts.
type Service struct {
	carts Repository
}

// NewService creates a cart Service.
func NewService(carts Repository) *Service {
	return &Service{carts: carts}
}

// Get returns the member's cart entries.
func (s *Service) Get(ctx context.Context, memberID string) ([]Entry, error) {
	entries, err := s.carts.List(ctx, memberID)
	if err != nil {
		return nil, errors.Wrap(err, "list cart")
	}
	return entries, nil
}

// Put sets the quantity for one book in the member's cart. A quantity of zero
// or less removes the row, matching the storefront's "set to 0 to drop" flow.
func (s *Service) Put(ctx context.Context, memberID, bookID string, quantity int) error {
	if quantity <= 0 {
		return s.carts.Remove(ctx, memberID, bookID)
	}
	if err := s.carts.Upsert(ctx, memberID, bookID, quantity); err != nil {
		return errors.Wrap(err, "upsert cart item")
	}
	return nil
}

// Remove drops one book from the member's cart.
func (s *Service) Remove(ctx context.Context, memberID, bookID string) error {
	return s.carts.Remove(ctx, memberID, bookID)
}

// Clear empties the member's cart.
func (s *Service) Clear(ctx context.Context, memberID string) error {
	return s.carts.Clear(ctx, memberID)
}

// RemoveBooks drops the given books from the member's cart. Called after a
// successful order placement with the ordered book ids only.
func (s *Service) RemoveBooks(ctx context.Context, memberID string, bookIDs []string) error {
	if len(bookIDs) == 0 {
		return nil
	}
	return s.carts.RemoveBooks(ctx, memberID, bookIDs)
}
