package review

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var (
	// ErrInvalidRating is returned when a rating falls outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrNotFound is returned when a review does not exist.
	ErrNotFound = errors.New("review not found")
)

// Review is a member's rating and comment for a book.
type Review struct {
	ID         string
	MemberID   string
	MemberName string
	BookID     string
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

// Repository defines persistence operations for reviews.
type Repository interface {
	Create(ctx context.Context, r *Review) error
	ListByBook(ctx context.Context, bookID string) ([]Review, error)
	List(ctx context.Context) ([]Review, error)
	Delete(ctx context.Context, id string) error
}

// Service manages book reviews.
type Service struct {
	reviews Repository
}

// NewService creates a review Service.
func NewService(reviews Repository) *Service {
	return &Service{reviews: reviews}
}

// Add stores a new review by memberID for bookID.
func (s *Service) Add(ctx context.Context, memberID, bookID string, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	r := &Review{
		ID:        uuid.New().String(),
		MemberID:  memberID,
		BookID:    bookID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, errors.Wrap(err, "create review")
	}
	return r, nil
}

// ForBook returns all reviews of one book, newest first.
func (s *Service) ForBook(ctx context.Context, bookID string) ([]Review, error) {
	out, err := s.reviews.ListByBook(ctx, bookID)
	if err != nil {
		return nil, errors.Wrap(err, "list reviews")
	}
	return out, nil
}

// All returns every review; used by the admin moderation view.
func (s *Service) All(ctx context.Context) ([]Review, error) {
	out, err := s.reviews.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list reviews")
	}
	return out, nil
}

// Delete removes a review. Admin only; ownership is not checked here.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.reviews.Delete(ctx, id)
}
