package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookheaven/bookheaven/internal/domain/cart"
)

const (
	listCartSQL = `SELECT c.book_id, b.title, b.author, b.image_url, c.quantity, b.price, b.is_on_sale
		FROM cart_items c
		JOIN books b ON b.id = c.book_id
		WHERE c.member_id = $1
		ORDER BY b.title`

	upsertCartSQL = `INSERT INTO cart_items (member_id, book_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (member_id, book_id) DO UPDATE SET quantity = EXCLUDED.quantity`

	removeCartItemSQL  = `DELETE FROM cart_items WHERE member_id = $1 AND book_id = $2`
	clearCartSQL       = `DELETE FROM cart_items WHERE member_id = $1`
	removeCartBooksSQL = `DELETE FROM cart_items WHERE member_id = $1 AND book_id = ANY($2)`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// List returns the member's cart entries joined with book data.
func (r *CartRepository) List(ctx context.Context, memberID string) ([]cart.Entry, error) {
	rows, err := r.pool.Query(ctx, listCartSQL, memberID)
	if err != nil {
		return nil, errors.Wrap(err, "listing cart")
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (cart.Entry, error) {
		var e cart.Entry
		err := row.Scan(&e.BookID, &e.BookTitle, &e.Author, &e.ImageURL, &e.Quantity, &e.UnitPrice, &e.IsOnSale)
		return e, err
	})
}

// Upsert inserts or replaces the quantity of one cart row. A missing book
// surfaces as cart.ErrBookNotFound via the foreign key.
func (r *CartRepository) Upsert(ctx context.Context, memberID, bookID string, quantity int) error {
	_, err := r.pool.Exec(ctx, upsertCartSQL, memberID, bookID, quantity)
	if err != nil {
		if isForeignKeyViolation(err) {
			return cart.ErrBookNotFound
		}
		return errors.Wrapf(err, "upserting cart item %q", bookID)
	}
	return nil
}

// Remove drops one book from the member's cart. Removing an absent row is
// not an error.
func (r *CartRepository) Remove(ctx context.Context, memberID, bookID string) error {
	if _, err := r.pool.Exec(ctx, removeCartItemSQL, memberID, bookID); err != nil {
		return errors.Wrapf(err, "removing cart item %q", bookID)
	}
	return nil
}

// Clear empties the member's cart.
func (r *CartRepository) Clear(ctx context.Context, memberID string) error {
	if _, err := r.pool.Exec(ctx, clearCartSQL, memberID); err != nil {
		return errors.Wrap(err, "clearing cart")
	}
	return nil
}

// RemoveBooks deletes the member's cart rows for exactly the given book ids.
func (r *CartRepository) RemoveBooks(ctx context.Context, memberID string, bookIDs []string) error {
	if _, err := r.pool.Exec(ctx, removeCartBooksSQL, memberID, bookIDs); err != nil {
		return errors.Wrap(err, "removing ordered books from cart")
	}
	return nil
}
