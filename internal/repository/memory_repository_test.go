package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/piiquante/sauce-service/internal/domain"
	"github.com/piiquante/sauce-service/internal/rating"
)

func TestMemoryAccountConcurrentSignup(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()

	const workers = 16
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := "Chef@Example.com"
			if i%2 == 0 {
				email = "  chef@example.COM "
			}
			err := repo.Create(ctx, &domain.Account{ID: uuid.NewString(), Email: email, PasswordHash: "x"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrDuplicateEmail):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if successes != 1 || duplicates != workers-1 {
		t.Fatalf("successes=%d duplicates=%d", successes, duplicates)
	}

	got, err := repo.GetByEmail(ctx, "CHEF@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Email != "chef@example.com" {
		t.Fatalf("stored email = %q", got.Email)
	}
}

func TestMemoryAccountNotFound(t *testing.T) {
	repo := NewMemoryAccountRepository()
	if _, err := repo.GetByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func newStoredSauce(t *testing.T, repo SauceRepository) *domain.Sauce {
	t.Helper()
	sauce := &domain.Sauce{ID: uuid.NewString(), OwnerID: "owner", Name: "Ghost", Heat: 9}
	if err := repo.Create(context.Background(), sauce); err != nil {
		t.Fatalf("create: %v", err)
	}
	return sauce
}

func TestMemorySauceConcurrentLikes(t *testing.T) {
	repo := NewMemorySauceRepository()
	sauce := newStoredSauce(t, repo)
	ctx := context.Background()

	const users = 64
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", i)
			_, err := repo.UpdateRatings(ctx, sauce.ID, func(r *domain.Ratings) error {
				_, err := rating.Apply(r, user, domain.OpinionLike)
				return err
			})
			if err != nil {
				t.Errorf("update ratings: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, sauce.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Likes != users || len(got.UsersLiked) != users || !got.Consistent() {
		t.Fatalf("likes=%d usersLiked=%d consistent=%v", got.Likes, len(got.UsersLiked), got.Consistent())
	}
}

func TestMemorySauceUpdateKeepsRatings(t *testing.T) {
	repo := NewMemorySauceRepository()
	sauce := newStoredSauce(t, repo)
	ctx := context.Background()

	if _, err := repo.UpdateRatings(ctx, sauce.ID, func(r *domain.Ratings) error {
		_, err := rating.Apply(r, "u1", domain.OpinionDislike)
		return err
	}); err != nil {
		t.Fatal(err)
	}

	edit := *sauce
	edit.Name = "Ghost Reaper"
	edit.Ratings = domain.Ratings{Likes: 100}
	if err := repo.Update(ctx, &edit); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByID(ctx, sauce.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Ghost Reaper" || got.Likes != 0 || got.Dislikes != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestMemorySauceMutatorErrorAborts(t *testing.T) {
	repo := NewMemorySauceRepository()
	sauce := newStoredSauce(t, repo)
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := repo.UpdateRatings(ctx, sauce.ID, func(r *domain.Ratings) error {
		r.Likes = 42
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	got, _ := repo.GetByID(ctx, sauce.ID)
	if got.Likes != 0 {
		t.Fatalf("partial write leaked: likes=%d", got.Likes)
	}
}

func TestMemorySauceDelete(t *testing.T) {
	repo := NewMemorySauceRepository()
	sauce := newStoredSauce(t, repo)
	ctx := context.Background()

	if err := repo.Delete(ctx, sauce.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByID(ctx, sauce.ID); !errors.Is(err, domain.ErrSauceNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
	if _, err := repo.UpdateRatings(ctx, sauce.ID, func(*domain.Ratings) error { return nil }); !errors.Is(err, domain.ErrSauceNotFound) {
		t.Fatalf("rate after delete: %v", err)
	}
	if err := repo.Delete(ctx, sauce.ID); !errors.Is(err, domain.ErrSauceNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}
