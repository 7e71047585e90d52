package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookheaven/bookheaven/internal/domain/announcement"
)

const (
	insertAnnouncementSQL = `INSERT INTO announcements (id, title, message, starts_at, ends_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	listAnnouncementsSQL = `SELECT id, title, message, starts_at, ends_at, created_at
		FROM announcements ORDER BY starts_at DESC`

	updateAnnouncementSQL = `UPDATE announcements
		SET title = $2, message = $3, starts_at = $4, ends_at = $5
		WHERE id = $1`

	deleteAnnouncementSQL = `DELETE FROM announcements WHERE id = $1`
)

var _ announcement.Repository = (*AnnouncementRepository)(nil)

// AnnouncementRepository implements announcement.Repository backed by
// PostgreSQL.
type AnnouncementRepository struct {
	pool *pgxpool.Pool
}

// NewAnnouncementRepository returns an AnnouncementRepository that uses the
// given pool.
func NewAnnouncementRepository(pool *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{pool: pool}
}

// Create inserts a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, a *announcement.Announcement) error {
	_, err := r.pool.Exec(ctx, insertAnnouncementSQL,
		a.ID, a.Title, a.Message, a.StartsAt, a.EndsAt, a.CreatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "creating announcement %q", a.ID)
	}
	return nil
}

// List returns every announcement, latest window first.
func (r *AnnouncementRepository) List(ctx context.Context) ([]announcement.Announcement, error) {
	rows, err := r.pool.Query(ctx, listAnnouncementsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "listing announcements")
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (announcement.Announcement, error) {
		var a announcement.Announcement
		err := row.Scan(&a.ID, &a.Title, &a.Message, &a.StartsAt, &a.EndsAt, &a.CreatedAt)
		return a, err
	})
}

// Update replaces an announcement's content and window.
func (r *AnnouncementRepository) Update(ctx context.Context, a *announcement.Announcement) error {
	tag, err := r.pool.Exec(ctx, updateAnnouncementSQL, a.ID, a.Title, a.Message, a.StartsAt, a.EndsAt)
	if err != nil {
		return errors.Wrapf(err, "updating announcement %q", a.ID)
	}
	if tag.RowsAffected() == 0 {
		return announcement.ErrNotFound
	}
	return nil
}

// Delete removes an announcement.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteAnnouncementSQL, id)
	if err != nil {
		return errors.Wrapf(err, "deleting announcement %q", id)
	}
	if tag.RowsAffected() == 0 {
		return announcement.ErrNotFound
	}
	return nil
}
