package account

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Role is an account's authorization role.
type Role string

const (
	RoleMember Role = "member"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

var (
	// ErrNotFound is returned when an account does not exist.
	ErrNotFound = errors.New("account not found")
	// ErrEmailTaken is returned when registering with an existing email.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials is returned on a failed login. The message does
	// not distinguish unknown email from wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrMissingFields is returned when a registration has blank required fields.
	ErrMissingFields = errors.New("name, email and password are required")
)

// Account is a member, staff, or admin identity.
type Account struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	PasswordSalt string
	Role         Role
	// Position is staff-only job title metadata; empty for other roles.
	Position string
	JoinDate time.Time
}

// New builds an account with a freshly hashed password. The email is
// normalized to lower case. Besides registration, the seed tool uses it to
// create the bootstrap admin and staff accounts.
func New(fullName, email, password string, role Role, position string) (*Account, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	hash, salt, err := hashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	return &Account{
		ID:           uuid.New().String(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         role,
		Position:     position,
		JoinDate:     time.Now(),
	}, nil
}

// Repository defines persistence operations for accounts.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	ListByRole(ctx context.Context, role Role) ([]Account, error)
	// Delete removes the account; dependent rows (carts, orders, reviews,
	// bookmarks) cascade in storage.
	Delete(ctx context.Context, id string) error
}
