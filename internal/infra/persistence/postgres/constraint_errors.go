package postgres

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// isUniqueConstraintViolation reports whether err comes from a unique index.
// GORM translates driver errors when TranslateError is on; the message check
// covers drivers that surface the raw PostgreSQL error instead.
func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505") // PostgreSQL unique_violation
}

func isForeignKeyConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "foreign key") ||
		strings.Contains(msg, "23503") // PostgreSQL foreign_key_violation
}

func isNotNullConstraintViolation(err error) bool {
	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "null value") ||
		strings.Contains(msg, "not null") ||
		strings.Contains(msg, "23502") // PostgreSQL not_null_violation
}
