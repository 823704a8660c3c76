package repository

import (
	"context"
	"sync"
	"time"

	"github.com/piiquante/sauce-service/internal/domain"
)

type memoryAccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.Account
	byEmail map[string]string
}

// NewMemoryAccountRepository returns an in-process credential store. The
// uniqueness check and the insert happen under one lock.
func NewMemoryAccountRepository() AccountRepository {
	return &memoryAccountRepository{
		byID:    make(map[string]domain.Account),
		byEmail: make(map[string]string),
	}
}

func (r *memoryAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	email := domain.NormalizeEmail(account.Email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[email]; taken {
		return domain.ErrDuplicateEmail
	}
	if _, taken := r.byID[account.ID]; taken {
		return domain.ErrConstraintViolation
	}
	account.Email = email
	account.CreatedAt = time.Now().UTC()
	r.byID[account.ID] = *account
	r.byEmail[email] = account.ID
	return nil
}

func (r *memoryAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &account, nil
}

func (r *memoryAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	account := r.byID[id]
	return &account, nil
}
