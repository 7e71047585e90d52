package announcement

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrNotFound is returned when an announcement does not exist.
var ErrNotFound = errors.New("announcement not found")

// Announcement is a storefront banner shown during its display window.
type Announcement struct {
	ID        string
	Title     string
	Message   string
	StartsAt  time.Time
	EndsAt    time.Time
	CreatedAt time.Time
}

// ActiveAt reports whether the announcement should be displayed at the given
// instant. Window bounds are inclusive, same as book sale windows.
func (a *Announcement) ActiveAt(at time.Time) bool {
	return !at.Before(a.StartsAt) && !at.After(a.EndsAt)
}

// Repository defines persistence operations for announcements.
type Repository interface {
	Create(ctx context.Context, a *Announcement) error
	List(ctx context.Context) ([]Announcement, error)
	Update(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, id string) error
}

// Service manages announcements.
type Service struct {
	store Repository
	now   func() time.Time
}

// NewService creates an announcement Service.
func NewService(store Repository) *Service {
	return &Service{store: store, now: time.Now}
}

// Create stores a new announcement.
func (s *Service) Create(ctx context.Context, title, message string, startsAt, endsAt time.Time) (*Announcement, error) {
	if endsAt.Before(startsAt) {
		return nil, errors.New("announcement window ends before it starts")
	}
	a := &Announcement{
		ID:        uuid.New().String(),
		Title:     title,
		Message:   message,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		CreatedAt: s.now(),
	}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, errors.Wrap(err, "create announcement")
	}
	return a, nil
}

// Active returns announcements whose display window contains now.
func (s *Service) Active(ctx context.Context) ([]Announcement, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list announcements")
	}

	now := s.now()
	out := make([]Announcement, 0, len(all))
	for _, a := range all {
		if a.ActiveAt(now) {
			out = append(out, a)
		}
	}
	return out, nil
}

// All returns every announcement regardless of window; admin view.
func (s *Service) All(ctx context.Context) ([]Announcement, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list announcements")
	}
	return all, nil
}

// Update replaces an announcement's content and window.
func (s *Service) Update(ctx context.Context, a *Announcement) error {
	if a.EndsAt.Before(a.StartsAt) {
		return errors.New("announcement window ends before it starts")
	}
	return s.store.Update(ctx, a)
}

// Delete removes an announcement.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
