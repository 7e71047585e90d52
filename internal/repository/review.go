package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookheaven/bookheaven/internal/domain/review"
)

const (
	insertReviewSQL = `INSERT INTO reviews (id, member_id, book_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	reviewColumns = `r.id, r.member_id, a.full_name, r.book_id, r.rating, r.comment, r.created_at`

	listReviewsByBookSQL = `SELECT ` + reviewColumns + `
		FROM reviews r JOIN accounts a ON a.id = r.member_id
		WHERE r.book_id = $1 ORDER BY r.created_at DESC`

	listReviewsSQL = `SELECT ` + reviewColumns + `
		FROM reviews r JOIN accounts a ON a.id = r.member_id
		ORDER BY r.created_at DESC`

	deleteReviewSQL = `DELETE FROM reviews WHERE id = $1`
)

var _ review.Repository = (*ReviewRepository)(nil)

// ReviewRepository implements review.Repository backed by PostgreSQL.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a ReviewRepository that uses the given pool.
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, rev *review.Review) error {
	_, err := r.pool.Exec(ctx, insertReviewSQL,
		rev.ID, rev.MemberID, rev.BookID, rev.Rating, rev.Comment, rev.CreatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "creating review %q", rev.ID)
	}
	return nil
}

// ListByBook returns a book's reviews, newest first.
func (r *ReviewRepository) ListByBook(ctx context.Context, bookID string) ([]review.Review, error) {
	rows, err := r.pool.Query(ctx, listReviewsByBookSQL, bookID)
	if err != nil {
		return nil, errors.Wrap(err, "listing reviews")
	}
	return pgx.CollectRows(rows, scanReview)
}

// List returns every review, newest first.
func (r *ReviewRepository) List(ctx context.Context) ([]review.Review, error) {
	rows, err := r.pool.Query(ctx, listReviewsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "listing reviews")
	}
	return pgx.CollectRows(rows, scanReview)
}

// Delete removes a review. Returns review.ErrNotFound when absent.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteReviewSQL, id)
	if err != nil {
		return errors.Wrapf(err, "deleting review %q", id)
	}
	if tag.RowsAffected() == 0 {
		return review.ErrNotFound
	}
	return nil
}

func scanReview(row pgx.CollectableRow) (review.Review, error) {
	var rev review.Review
	err := row.Scan(&rev.ID, &rev.MemberID, &rev.MemberName, &rev.BookID, &rev.Rating, &rev.Comment, &rev.CreatedAt)
	return rev, err
}
