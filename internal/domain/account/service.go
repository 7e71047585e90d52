package account

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
)

// Service manages accounts and authentication.
type Service struct {
	accounts Repository
	tokens   *TokenIssuer
}

// NewService creates an account Service.
func NewService(accounts Repository, tokens *TokenIssuer) *Service {
	return &Service{accounts: accounts, tokens: tokens}
}

// Register creates a member account and returns it with a signed token.
func (s *Service) Register(ctx context.Context, fullName, email, password string) (*Account, string, error) {
	a, err := s.create(ctx, fullName, email, password, RoleMember, "")
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(a)
	if err != nil {
		return nil, "", errors.Wrap(err, "issue token")
	}
	return a, token, nil
}

// CreateStaff creates a staff account. Admin only; enforced by the handler.
func (s *Service) CreateStaff(ctx context.Context, fullName, email, password, position string) (*Account, error) {
	return s.create(ctx, fullName, email, password, RoleStaff, position)
}

func (s *Service) create(ctx context.Context, fullName, email, password string, role Role, position string) (*Account, error) {
	a, err := New(fullName, email, password, role, position)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, errors.Wrap(err, "create account")
	}
	return a, nil
}

// Login authenticates by email and password and returns the account with a
// signed token. Unknown email and wrong password are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Account, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", errors.Wrap(err, "get account")
	}

	ok, err := verifyPassword(password, a.PasswordSalt, a.PasswordHash)
	if err != nil {
		return nil, "", errors.Wrap(err, "verify password")
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(a)
	if err != nil {
		return nil, "", errors.Wrap(err, "issue token")
	}
	return a, token, nil
}

// VerifyToken validates a bearer token and returns its claims.
func (s *Service) VerifyToken(token string) (*Claims, error) {
	return s.tokens.Verify(token)
}

// ListByRole returns accounts with the given role.
func (s *Service) ListByRole(ctx context.Context, role Role) ([]Account, error) {
	out, err := s.accounts.ListByRole(ctx, role)
	if err != nil {
		return nil, errors.Wrap(err, "list accounts")
	}
	return out, nil
}

// Delete removes an account and, through storage cascades, its carts,
// orders, reviews, and bookmarks.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.accounts.Delete(ctx, id)
}
