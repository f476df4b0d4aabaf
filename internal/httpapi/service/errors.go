package service

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"reviewhub/internal/httpapi/repository"
)

// Postgres error code for unique constraint violations.
const uniqueViolationCode = "23505"

// isUniqueViolation detects a unique-index rejection. Concurrent writes that
// slip past the application-level existence checks land here and the DB
// verdict wins.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// resolveUserConflict names the colliding half of a (username, email) identity
// after the unique index rejected a write. selfID excludes the user's own row
// so an email collision on update is not misreported as a username collision.
func resolveUserConflict(repo repository.UserRepository, selfID int64, username string) error {
	if other, err := repo.FindByUsername(username); err == nil && other.ID != selfID {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}
