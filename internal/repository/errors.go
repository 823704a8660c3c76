package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/piiquante/sauce-service/internal/domain"
)

// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation        = "23505"
	pgIntegrityConstraintCls = "23"
)

var passthrough = []error{
	domain.ErrDuplicateEmail,
	domain.ErrAccountNotFound,
	domain.ErrSauceNotFound,
	domain.ErrInvalidOpinion,
	domain.ErrConstraintViolation,
	domain.ErrStorageUnavailable,
}

// castErr replaces driver errors with domain sentinels. notFound is returned for pgx.ErrNoRows.
func castErr(err error, notFound error) error {
	if err == nil {
		return nil
	}
	for _, known := range passthrough {
		if errors.Is(err, known) {
			return err
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 && pgErr.Code[:2] == pgIntegrityConstraintCls {
		return fmt.Errorf("%w: %s", domain.ErrConstraintViolation, pgErr.ConstraintName)
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
