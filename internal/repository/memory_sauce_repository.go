package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/piiquante/sauce-service/internal/domain"
)

// sauceEntry carries its own lock so writers on different sauces never contend.
type sauceEntry struct {
	mu      sync.Mutex
	sauce   domain.Sauce
	deleted bool
}

type memorySauceRepository struct {
	mu     sync.RWMutex
	sauces map[string]*sauceEntry
}

// NewMemorySauceRepository returns an in-process item store.
func NewMemorySauceRepository() SauceRepository {
	return &memorySauceRepository{sauces: make(map[string]*sauceEntry)}
}

func (r *memorySauceRepository) Create(ctx context.Context, sauce *domain.Sauce) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	sauce.Ratings = domain.Ratings{UsersLiked: []string{}, UsersDisliked: []string{}}
	sauce.CreatedAt = now
	sauce.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.sauces[sauce.ID]; taken {
		return domain.ErrConstraintViolation
	}
	r.sauces[sauce.ID] = &sauceEntry{sauce: copySauce(*sauce)}
	return nil
}

func (r *memorySauceRepository) GetByID(ctx context.Context, id string) (*domain.Sauce, error) {
	entry, err := r.entry(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return nil, domain.ErrSauceNotFound
	}
	sauce := copySauce(entry.sauce)
	return &sauce, nil
}

func (r *memorySauceRepository) List(ctx context.Context) ([]domain.Sauce, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	entries := make([]*sauceEntry, 0, len(r.sauces))
	for _, entry := range r.sauces {
		entries = append(entries, entry)
	}
	r.mu.RUnlock()

	result := make([]domain.Sauce, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		if !entry.deleted {
			result = append(result, copySauce(entry.sauce))
		}
		entry.mu.Unlock()
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memorySauceRepository) Update(ctx context.Context, sauce *domain.Sauce) error {
	entry, err := r.entry(ctx, sauce.ID)
	if err != nil {
		return err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return domain.ErrSauceNotFound
	}
	stored := &entry.sauce
	stored.Name = sauce.Name
	stored.Manufacturer = sauce.Manufacturer
	stored.Description = sauce.Description
	stored.MainPepper = sauce.MainPepper
	stored.ImageURL = sauce.ImageURL
	stored.Heat = sauce.Heat
	stored.UpdatedAt = time.Now().UTC()
	sauce.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *memorySauceRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	entry, ok := r.sauces[id]
	delete(r.sauces, id)
	r.mu.Unlock()
	if !ok {
		return domain.ErrSauceNotFound
	}

	entry.mu.Lock()
	entry.deleted = true
	entry.sauce.Ratings = domain.Ratings{}
	entry.mu.Unlock()
	return nil
}

func (r *memorySauceRepository) UpdateRatings(ctx context.Context, id string, fn RatingsMutator) (*domain.Ratings, error) {
	entry, err := r.entry(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return nil, domain.ErrSauceNotFound
	}

	ratings := entry.sauce.Ratings.Clone()
	if err := fn(&ratings); err != nil {
		return nil, err
	}
	if !ratings.Consistent() {
		return nil, domain.ErrConstraintViolation
	}
	entry.sauce.Ratings = ratings.Clone()
	entry.sauce.UpdatedAt = time.Now().UTC()
	return &ratings, nil
}

func (r *memorySauceRepository) entry(ctx context.Context, id string) (*sauceEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sauces[id]
	if !ok {
		return nil, domain.ErrSauceNotFound
	}
	return entry, nil
}

func copySauce(s domain.Sauce) domain.Sauce {
	s.Ratings = s.Ratings.Clone()
	return s
}
