package db

import (
	"errors"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// IsNotFound reports whether the error is a missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports whether the error is a duplicate-key violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// sqlite reports constraint failures as plain strings through gorm
	return err != nil && errors.Is(err, gorm.ErrDuplicatedKey)
}
