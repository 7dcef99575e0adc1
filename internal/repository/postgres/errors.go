package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/excellent-grade/gradetest-api/internal/pkg/errors"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// translateWriteError maps a unique constraint violation to ErrConflict. The
// services pre-check duplicates, but two concurrent writes can both pass the
// check; the constraint is the backstop.
func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperrors.ErrConflict
	}
	return err
}
