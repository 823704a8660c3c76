package repository

import (
	"context"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/piiquante/sauce-service/internal/domain"
)

// RatingsMutator decides the new ratings of a sauce from its current ones.
// It runs while the sauce is locked; returning an error aborts the update.
type RatingsMutator func(r *domain.Ratings) error

// SauceRepository is the item store.
type SauceRepository interface {
	Create(ctx context.Context, sauce *domain.Sauce) error
	GetByID(ctx context.Context, id string) (*domain.Sauce, error)
	List(ctx context.Context) ([]domain.Sauce, error)
	// Update writes the descriptive fields only; ratings are owned by UpdateRatings.
	Update(ctx context.Context, sauce *domain.Sauce) error
	Delete(ctx context.Context, id string) error
	// UpdateRatings applies fn to the sauce's ratings as one atomic unit,
	// serialized against other UpdateRatings calls on the same sauce.
	UpdateRatings(ctx context.Context, id string, fn RatingsMutator) (*domain.Ratings, error)
}

const sauceColumns = `id, owner_id, name, manufacturer, description, main_pepper, image_url, heat,
               likes, dislikes, users_liked, users_disliked, created_at, updated_at`

type sauceRepository struct {
	pool *pgxpool.Pool
}

// NewSauceRepository instantiates repository.
func NewSauceRepository(pool *pgxpool.Pool) SauceRepository {
	return &sauceRepository{pool: pool}
}

func (r *sauceRepository) Create(ctx context.Context, sauce *domain.Sauce) error {
	const query = `
        INSERT INTO sauces (id, owner_id, name, manufacturer, description, main_pepper, image_url, heat)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING likes, dislikes, users_liked, users_disliked, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		sauce.ID,
		sauce.OwnerID,
		sauce.Name,
		sauce.Manufacturer,
		sauce.Description,
		sauce.MainPepper,
		sauce.ImageURL,
		sauce.Heat,
	).Scan(
		&sauce.Likes,
		&sauce.Dislikes,
		&sauce.UsersLiked,
		&sauce.UsersDisliked,
		&sauce.CreatedAt,
		&sauce.UpdatedAt,
	)
	return castErr(err, domain.ErrSauceNotFound)
}

func (r *sauceRepository) GetByID(ctx context.Context, id string) (*domain.Sauce, error) {
	query := `SELECT ` + sauceColumns + ` FROM sauces WHERE id=$1`
	sauce, err := scanSauce(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, castErr(err, domain.ErrSauceNotFound)
	}
	return sauce, nil
}

func (r *sauceRepository) List(ctx context.Context) ([]domain.Sauce, error) {
	query := `SELECT ` + sauceColumns + ` FROM sauces ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, castErr(err, domain.ErrSauceNotFound)
	}
	defer rows.Close()

	result := make([]domain.Sauce, 0)
	for rows.Next() {
		sauce, err := scanSauce(rows)
		if err != nil {
			return nil, castErr(err, domain.ErrSauceNotFound)
		}
		result = append(result, *sauce)
	}
	return result, castErr(rows.Err(), domain.ErrSauceNotFound)
}

func (r *sauceRepository) Update(ctx context.Context, sauce *domain.Sauce) error {
	const query = `
        UPDATE sauces SET name=$1, manufacturer=$2, description=$3, main_pepper=$4, image_url=$5, heat=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		sauce.Name,
		sauce.Manufacturer,
		sauce.Description,
		sauce.MainPepper,
		sauce.ImageURL,
		sauce.Heat,
		sauce.ID,
	).Scan(&sauce.UpdatedAt)
	return castErr(err, domain.ErrSauceNotFound)
}

func (r *sauceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sauces WHERE id=$1`, id)
	if err != nil {
		return castErr(err, domain.ErrSauceNotFound)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSauceNotFound
	}
	return nil
}

// UpdateRatings locks the sauce row with SELECT ... FOR UPDATE so concurrent
// opinions on the same sauce queue behind each other while other sauces proceed.
func (r *sauceRepository) UpdateRatings(ctx context.Context, id string, fn RatingsMutator) (*domain.Ratings, error) {
	var ratings domain.Ratings
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const selectQuery = `
            SELECT likes, dislikes, users_liked, users_disliked
            FROM sauces WHERE id=$1 FOR UPDATE`
		if err := tx.QueryRow(ctx, selectQuery, id).Scan(
			&ratings.Likes,
			&ratings.Dislikes,
			&ratings.UsersLiked,
			&ratings.UsersDisliked,
		); err != nil {
			return castErr(err, domain.ErrSauceNotFound)
		}

		before := ratings.Clone()
		if err := fn(&ratings); err != nil {
			return err
		}
		if ratingsEqual(before, ratings) {
			return nil
		}

		const updateQuery = `
            UPDATE sauces SET likes=$1, dislikes=$2, users_liked=$3, users_disliked=$4, updated_at=NOW()
            WHERE id=$5`
		_, err := tx.Exec(ctx, updateQuery,
			ratings.Likes,
			ratings.Dislikes,
			nonNil(ratings.UsersLiked),
			nonNil(ratings.UsersDisliked),
			id,
		)
		return castErr(err, domain.ErrSauceNotFound)
	})
	if err != nil {
		return nil, castErr(err, domain.ErrSauceNotFound)
	}
	return &ratings, nil
}

func scanSauce(row pgx.Row) (*domain.Sauce, error) {
	var sauce domain.Sauce
	if err := row.Scan(
		&sauce.ID,
		&sauce.OwnerID,
		&sauce.Name,
		&sauce.Manufacturer,
		&sauce.Description,
		&sauce.MainPepper,
		&sauce.ImageURL,
		&sauce.Heat,
		&sauce.Likes,
		&sauce.Dislikes,
		&sauce.UsersLiked,
		&sauce.UsersDisliked,
		&sauce.CreatedAt,
		&sauce.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sauce, nil
}

func ratingsEqual(a, b domain.Ratings) bool {
	return a.Likes == b.Likes && a.Dislikes == b.Dislikes &&
		slices.Equal(a.UsersLiked, b.UsersLiked) && slices.Equal(a.UsersDisliked, b.UsersDisliked)
}

// nonNil keeps pgx from encoding an empty set as NULL.
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
