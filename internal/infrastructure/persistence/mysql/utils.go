package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError reports a unique index violation.
// MySQL 1062 "Duplicate entry", SQLite "UNIQUE constraint failed".
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// isForeignKeyError reports a referential integrity violation.
// MySQL 1451/1452 "a foreign key constraint fails", SQLite "FOREIGN KEY constraint failed".
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// likeEscape is the escape character declared by every LIKE built from likePattern.
// A backslash would need different quoting in MySQL and SQLite.
const likeEscape = "!"

// likeEscaper makes % and _ in user input match literally.
var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// likePattern builds the case-insensitive substring pattern used with
// LOWER(col) LIKE ? ESCAPE '!'.
func likePattern(v string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(v)) + "%"
}
