package user

import (
	"fmt"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

var (
	// ErrUserNotFound is returned for a missing user.
	ErrUserNotFound = apperrors.New(apperrors.ErrCodeUserNotFound, "Entity not found")

	// ErrRoleNotFound is returned when a role id or authority does not exist.
	ErrRoleNotFound = apperrors.New(apperrors.ErrCodeNotFound, "Role not found")

	// ErrEmailTaken is the field error for a duplicate email.
	ErrEmailTaken = apperrors.Validation(apperrors.FieldError{
		FieldName: "email",
		Message:   "Email already exists",
	})
)

// UserIDNotFound reports an update or delete of a missing user.
func UserIDNotFound(id uint) *apperrors.AppError {
	return ErrUserNotFound.WithMessage(fmt.Sprintf("Id not found %d", id))
}
