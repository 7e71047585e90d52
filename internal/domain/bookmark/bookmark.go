package bookmark

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrDuplicate is returned when the member already bookmarked the book.
	ErrDuplicate = errors.New("book already bookmarked")
	// ErrNotFound is returned when the bookmark does not exist.
	ErrNotFound = errors.New("bookmark not found")
)

// Bookmark is a member's saved book, joined with display data.
type Bookmark struct {
	BookID    string
	BookTitle string
	Author    string
	ImageURL  string
	CreatedAt time.Time
}

// Repository defines persistence operations for bookmarks.
type Repository interface {
	// Add inserts the bookmark; returns ErrDuplicate if it already exists.
	Add(ctx context.Context, memberID, bookID string) error
	List(ctx context.Context, memberID string) ([]Bookmark, error)
	// Remove deletes the bookmark; returns ErrNotFound if absent.
	Remove(ctx context.Context, memberID, bookID string) error
}
