package repository

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookheaven/bookheaven/internal/domain/fulfillment"
)

const (
	getOrderByClaimCodeSQL = `SELECT id, status FROM orders WHERE claim_code = $1`

	insertFulfillmentSQL = `INSERT INTO fulfillments (order_id, staff_id, processed_at)
		VALUES ($1, $2, $3)`

	markOrderFulfilledSQL = `UPDATE orders SET status = 'fulfilled'
		WHERE id = $1 AND status = 'pending'`

	listFulfilledSQL = `SELECT f.order_id, a.full_name, o.total_price, f.processed_at
		FROM fulfillments f
		JOIN orders o ON o.id = f.order_id
		JOIN accounts a ON a.id = o.member_id
		ORDER BY f.processed_at DESC`
)

var _ fulfillment.Repository = (*FulfillmentRepository)(nil)

// fulfillmentDB is the pool subset the repository needs. *pgxpool.Pool
// satisfies it; tests substitute a fake to drive transaction interleavings.
type fulfillmentDB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// FulfillmentRepository implements fulfillment.Repository backed by
// PostgreSQL. The primary key on fulfillments.order_id makes the once-only
// guard race-safe under read-committed isolation; no application lock is
// involved.
type FulfillmentRepository struct {
	db fulfillmentDB
}

// NewFulfillmentRepository returns a FulfillmentRepository that uses the
// given pool.
func NewFulfillmentRepository(pool *pgxpool.Pool) *FulfillmentRepository {
	return &FulfillmentRepository{db: pool}
}

// Fulfill records the fulfillment and flips the order to fulfilled in one
// transaction.
func (r *FulfillmentRepository) Fulfill(ctx context.Context, claimCode, staffID string) (*fulfillment.Record, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		orderID string
		status  string
	)
	err = tx.QueryRow(ctx, getOrderByClaimCodeSQL, claimCode).Scan(&orderID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fulfillment.ErrOrderNotFound
		}
		return nil, errors.Wrap(err, "looking up claim code")
	}
	if status == "cancelled" {
		return nil, fulfillment.ErrOrderNotFound
	}

	rec := &fulfillment.Record{
		OrderID:     orderID,
		StaffID:     staffID,
		ProcessedAt: time.Now(),
	}
	if _, err := tx.Exec(ctx, insertFulfillmentSQL, rec.OrderID, rec.StaffID, rec.ProcessedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, fulfillment.ErrAlreadyFulfilled
		}
		return nil, errors.Wrapf(err, "inserting fulfillment for order %q", orderID)
	}

	tag, err := tx.Exec(ctx, markOrderFulfilledSQL, orderID)
	if err != nil {
		return nil, errors.Wrapf(err, "marking order %q fulfilled", orderID)
	}
	if tag.RowsAffected() == 0 {
		// The order was cancelled between our status read and the guarded
		// update. The deferred rollback discards the fulfillment row.
		return nil, fulfillment.ErrOrderNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrapf(err, "committing fulfillment for order %q", orderID)
	}
	return rec, nil
}

// ListFulfilled returns fulfilled orders, most recently processed first.
func (r *FulfillmentRepository) ListFulfilled(ctx context.Context) ([]fulfillment.FulfilledOrder, error) {
	rows, err := r.db.Query(ctx, listFulfilledSQL)
	if err != nil {
		return nil, errors.Wrap(err, "listing fulfilled orders")
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (fulfillment.FulfilledOrder, error) {
		var f fulfillment.FulfilledOrder
		err := row.Scan(&f.OrderID, &f.MemberName, &f.TotalPrice, &f.ProcessedAt)
		return f, err
	})
}
