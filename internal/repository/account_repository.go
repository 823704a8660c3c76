package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/piiquante/sauce-service/internal/domain"
)

// AccountRepository is the credential store.
type AccountRepository interface {
	// Create persists a new account; a taken normalized email yields domain.ErrDuplicateEmail.
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (id, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING created_at`

	account.Email = domain.NormalizeEmail(account.Email)
	err := r.pool.QueryRow(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
	).Scan(&account.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	return castErr(err, domain.ErrAccountNotFound)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT id, email, password_hash, created_at
        FROM accounts WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT id, email, password_hash, created_at
        FROM accounts WHERE email=$1`
	return r.fetchSingle(ctx, query, domain.NormalizeEmail(email))
}

func (r *accountRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
	); err != nil {
		return nil, castErr(err, domain.ErrAccountNotFound)
	}
	return &account, nil
}
