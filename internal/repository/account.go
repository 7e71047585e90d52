package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookheaven/bookheaven/internal/domain/account"
)

const (
	insertAccountSQL = `INSERT INTO accounts (id, full_name, email, password_hash,
		password_salt, role, position, join_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	accountColumns = `id, full_name, email, password_hash, password_salt, role, position, join_date`

	getAccountByEmailSQL = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	getAccountByIDSQL    = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	listAccountsSQL      = `SELECT ` + accountColumns + ` FROM accounts WHERE role = $1 ORDER BY join_date`
	deleteAccountSQL     = `DELETE FROM accounts WHERE id = $1`
)

var _ account.Repository = (*AccountRepository)(nil)

// AccountRepository implements account.Repository backed by PostgreSQL.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns an AccountRepository that uses the given pool.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a new account. The unique index on email turns duplicate
// registrations into account.ErrEmailTaken.
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	_, err := r.pool.Exec(ctx, insertAccountSQL,
		a.ID, a.FullName, a.Email, a.PasswordHash, a.PasswordSalt,
		string(a.Role), a.Position, a.JoinDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return account.ErrEmailTaken
		}
		return errors.Wrapf(err, "creating account %q", a.ID)
	}
	return nil
}

// GetByEmail returns the account with the given email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.getOne(ctx, getAccountByEmailSQL, email)
}

// GetByID returns the account with the given id.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	return r.getOne(ctx, getAccountByIDSQL, id)
}

func (r *AccountRepository) getOne(ctx context.Context, query, arg string) (*account.Account, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, errors.Wrap(err, "getting account")
	}

	a, err := pgx.CollectExactlyOneRow(rows, scanAccount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrNotFound
		}
		return nil, errors.Wrap(err, "getting account")
	}
	return &a, nil
}

// ListByRole returns accounts with the given role, oldest first.
func (r *AccountRepository) ListByRole(ctx context.Context, role account.Role) ([]account.Account, error) {
	rows, err := r.pool.Query(ctx, listAccountsSQL, string(role))
	if err != nil {
		return nil, errors.Wrap(err, "listing accounts")
	}
	return pgx.CollectRows(rows, scanAccount)
}

// Delete removes the account; dependent rows cascade via foreign keys.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteAccountSQL, id)
	if err != nil {
		return errors.Wrapf(err, "deleting account %q", id)
	}
	if tag.RowsAffected() == 0 {
		return account.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.CollectableRow) (account.Account, error) {
	var (
		a    account.Account
		role string
	)
	err := row.Scan(&a.ID, &a.FullName, &a.Email, &a.PasswordHash, &a.PasswordSalt, &role, &a.Position, &a.JoinDate)
	a.Role = account.Role(role)
	return a, err
}
