package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAccountRepo struct {
	byEmail map[string]*Account
	created *Account
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{byEmail: map[string]*Account{}}
}

func (m *mockAccountRepo) Create(_ context.Context, a *Account) error {
	if _, ok := m.byEmail[a.Email]; ok {
		return ErrEmailTaken
	}
	m.byEmail[a.Email] = a
	m.created = a
	return nil
}

func (m *mockAccountRepo) GetByEmail(_ context.Context, email string) (*Account, error) {
	a, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockAccountRepo) GetByID(_ context.Context, _ string) (*Account, error) {
	return nil, ErrNotFound
}

func (m *mockAccountRepo) ListByRole(_ context.Context, _ Role) ([]Account, error) {
	return nil, nil
}

func (m *mockAccountRepo) Delete(_ context.Context, _ string) error { return nil }

func newTestService(repo Repository) *Service {
	return NewService(repo, NewTokenIssuer([]byte("test-secret"), time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMockAccountRepo()
	svc := newTestService(repo)

	a, token, err := svc.Register(context.Background(), "Jane Reader", "JANE@example.com ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, RoleMember, a.Role)
	assert.Equal(t, "jane@example.com", a.Email, "email is normalized")
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "hunter22", a.PasswordHash)

	got, token, err := svc.Login(context.Background(), "jane@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService(newMockAccountRepo())

	_, _, err := svc.Register(context.Background(), "Jane", "jane@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "jane@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newTestService(newMockAccountRepo())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "pw")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestService(newMockAccountRepo())

	_, _, err := svc.Register(context.Background(), "Jane", "jane@example.com", "pw1")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "Other Jane", "jane@example.com", "pw2")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_MissingFields(t *testing.T) {
	svc := newTestService(newMockAccountRepo())

	for _, tc := range []struct{ name, email, pw string }{
		{"", "a@b.c", "pw"},
		{"Jane", "", "pw"},
		{"Jane", "a@b.c", ""},
	} {
		_, _, err := svc.Register(context.Background(), tc.name, tc.email, tc.pw)
		require.Error(t, err)
	}
}

func TestCreateStaff(t *testing.T) {
	repo := newMockAccountRepo()
	svc := newTestService(repo)

	a, err := svc.CreateStaff(context.Background(), "Sam Clerk", "sam@example.com", "pw", "Front Desk")
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, a.Role)
	assert.Equal(t, "Front Desk", a.Position)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), time.Hour)
	a := &Account{ID: "acc-1", Role: RoleStaff}

	token, err := issuer.Issue(a)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, RoleStaff, claims.Role)
}

func TestTokenVerify_WrongSecret(t *testing.T) {
	token, err := NewTokenIssuer([]byte("secret-a"), time.Hour).Issue(&Account{ID: "x", Role: RoleMember})
	require.NoError(t, err)

	_, err = NewTokenIssuer([]byte("secret-b"), time.Hour).Verify(token)
	require.Error(t, err)
}

func TestTokenVerify_Expired(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), time.Hour)
	issuer.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	token, err := issuer.Issue(&Account{ID: "x", Role: RoleMember})
	require.NoError(t, err)

	verifier := NewTokenIssuer([]byte("secret"), time.Hour)
	verifier.now = func() time.Time { return time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC) }

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestPasswordHash_UniqueSalts(t *testing.T) {
	h1, s1, err := hashPassword("same-password")
	require.NoError(t, err)
	h2, s2, err := hashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, h1, h2)

	ok, err := verifyPassword("same-password", s1, h1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyPassword("different", s1, h1)
	require.NoError(t, err)
	assert.False(t, ok)
}
