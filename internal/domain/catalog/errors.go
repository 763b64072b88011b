package catalog

import (
	"fmt"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

var (
	// ErrProductNotFound is returned by FindByID for a missing product.
	ErrProductNotFound = apperrors.New(apperrors.ErrCodeProductNotFound, "Entity not found")

	// ErrCategoryNotFound is returned by FindByID for a missing category.
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "Entity not found")
)

// ProductIDNotFound reports a missing product on update or delete.
func ProductIDNotFound(id uint) *apperrors.AppError {
	return ErrProductNotFound.WithMessage(idNotFound(id))
}

// CategoryIDNotFound reports a missing category on update, delete, or when a
// product references an unknown category.
func CategoryIDNotFound(id uint) *apperrors.AppError {
	return ErrCategoryNotFound.WithMessage(idNotFound(id))
}

func idNotFound(id uint) string {
	return fmt.Sprintf("Id not found %d", id)
}
