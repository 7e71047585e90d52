package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookheaven/bookheaven/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (id, member_id, status, total_price,
		bulk_discount, loyalty_discount, claim_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	insertOrderLineSQL = `INSERT INTO order_lines (order_id, book_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)`

	listOrdersSQL = `SELECT id, member_id, status, total_price, bulk_discount,
		loyalty_discount, claim_code, created_at
		FROM orders WHERE member_id = $1 ORDER BY created_at DESC`

	listOrderLinesSQL = `SELECT l.order_id, l.book_id, b.title, l.quantity, l.unit_price
		FROM order_lines l
		JOIN orders o ON o.id = l.order_id
		JOIN books b ON b.id = l.book_id
		WHERE o.member_id = $1
		ORDER BY l.id`

	cancelOrderSQL = `UPDATE orders SET status = 'cancelled'
		WHERE id = $1 AND member_id = $2 AND status = 'pending'`

	getOrderStatusSQL = `SELECT status FROM orders WHERE id = $1 AND member_id = $2`

	countFulfilledSQL = `SELECT COUNT(*) FROM orders
		WHERE member_id = $1 AND status = 'fulfilled'`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order header and all its lines in one transaction.
// A failure at any point rolls back the whole order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, insertOrderSQL,
		o.ID, o.MemberID, string(o.Status), o.TotalPrice,
		o.BulkDiscount, o.LoyaltyDiscount, o.ClaimCode, o.CreatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "inserting order %q", o.ID)
	}

	for _, l := range o.Lines {
		if _, err := tx.Exec(ctx, insertOrderLineSQL, o.ID, l.BookID, l.Quantity, l.UnitPrice); err != nil {
			return errors.Wrapf(err, "inserting line for book %q", l.BookID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrapf(err, "committing order %q", o.ID)
	}
	return nil
}

// ListByMember returns the member's orders, newest first, lines included.
func (r *OrderRepository) ListByMember(ctx context.Context, memberID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL, memberID)
	if err != nil {
		return nil, errors.Wrap(err, "listing orders")
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, errors.Wrap(err, "listing orders")
	}

	lineRows, err := r.pool.Query(ctx, listOrderLinesSQL, memberID)
	if err != nil {
		return nil, errors.Wrap(err, "listing order lines")
	}

	type orderLine struct {
		orderID string
		line    order.Line
	}
	lines, err := pgx.CollectRows(lineRows, func(row pgx.CollectableRow) (orderLine, error) {
		var l orderLine
		err := row.Scan(&l.orderID, &l.line.BookID, &l.line.BookTitle, &l.line.Quantity, &l.line.UnitPrice)
		return l, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing order lines")
	}

	byID := make(map[string]*order.Order, len(orders))
	for i := range orders {
		byID[orders[i].ID] = &orders[i]
	}
	for _, l := range lines {
		if o, ok := byID[l.orderID]; ok {
			o.Lines = append(o.Lines, l.line)
		}
	}
	return orders, nil
}

// Cancel transitions the member's pending order to cancelled. The status
// guard is in the UPDATE itself, so a concurrent fulfillment cannot be
// overwritten.
func (r *OrderRepository) Cancel(ctx context.Context, memberID, orderID string) error {
	tag, err := r.pool.Exec(ctx, cancelOrderSQL, orderID, memberID)
	if err != nil {
		return errors.Wrapf(err, "cancelling order %q", orderID)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing updated: distinguish a missing order from a non-pending one.
	var status string
	err = r.pool.QueryRow(ctx, getOrderStatusSQL, orderID, memberID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.ErrOrderNotFound
		}
		return errors.Wrapf(err, "checking order %q", orderID)
	}
	return order.ErrNotCancellable
}

// CountFulfilled returns how many of the member's orders are fulfilled.
func (r *OrderRepository) CountFulfilled(ctx context.Context, memberID string) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, countFulfilledSQL, memberID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting fulfilled orders")
	}
	return count, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o      order.Order
		status string
	)
	err := row.Scan(
		&o.ID, &o.MemberID, &status, &o.TotalPrice,
		&o.BulkDiscount, &o.LoyaltyDiscount, &o.ClaimCode, &o.CreatedAt,
	)
	o.Status = order.Status(status)
	return o, err
}
