package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookheaven/bookheaven/internal/domain/bookmark"
)

const (
	insertBookmarkSQL = `INSERT INTO bookmarks (member_id, book_id) VALUES ($1, $2)`

	listBookmarksSQL = `SELECT m.book_id, b.title, b.author, b.image_url, m.created_at
		FROM bookmarks m
		JOIN books b ON b.id = m.book_id
		WHERE m.member_id = $1
		ORDER BY m.created_at DESC`

	removeBookmarkSQL = `DELETE FROM bookmarks WHERE member_id = $1 AND book_id = $2`
)

var _ bookmark.Repository = (*BookmarkRepository)(nil)

// BookmarkRepository implements bookmark.Repository backed by PostgreSQL.
type BookmarkRepository struct {
	pool *pgxpool.Pool
}

// NewBookmarkRepository returns a BookmarkRepository that uses the given pool.
func NewBookmarkRepository(pool *pgxpool.Pool) *BookmarkRepository {
	return &BookmarkRepository{pool: pool}
}

// Add inserts the bookmark. The composite primary key turns a repeat insert
// into bookmark.ErrDuplicate.
func (r *BookmarkRepository) Add(ctx context.Context, memberID, bookID string) error {
	_, err := r.pool.Exec(ctx, insertBookmarkSQL, memberID, bookID)
	if err != nil {
		if isUniqueViolation(err) {
			return bookmark.ErrDuplicate
		}
		return errors.Wrapf(err, "adding bookmark %q", bookID)
	}
	return nil
}

// List returns the member's bookmarks, newest first.
func (r *BookmarkRepository) List(ctx context.Context, memberID string) ([]bookmark.Bookmark, error) {
	rows, err := r.pool.Query(ctx, listBookmarksSQL, memberID)
	if err != nil {
		return nil, errors.Wrap(err, "listing bookmarks")
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (bookmark.Bookmark, error) {
		var b bookmark.Bookmark
		err := row.Scan(&b.BookID, &b.BookTitle, &b.Author, &b.ImageURL, &b.CreatedAt)
		return b, err
	})
}

// Remove deletes the bookmark. Returns bookmark.ErrNotFound when absent.
func (r *BookmarkRepository) Remove(ctx context.Context, memberID, bookID string) error {
	tag, err := r.pool.Exec(ctx, removeBookmarkSQL, memberID, bookID)
	if err != nil {
		return errors.Wrapf(err, "removing bookmark %q", bookID)
	}
	if tag.RowsAffected() == 0 {
		return bookmark.ErrNotFound
	}
	return nil
}
