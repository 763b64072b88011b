package event

import (
	"fmt"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

var (
	ErrCityNotFound  = apperrors.New(apperrors.ErrCodeCityNotFound, "Entity not found")
	ErrEventNotFound = apperrors.New(apperrors.ErrCodeEventNotFound, "Entity not found")
)

// CityIDNotFound reports an event pointing at an unknown city.
func CityIDNotFound(id uint) *apperrors.AppError {
	return ErrCityNotFound.WithMessage(fmt.Sprintf("Id not found %d", id))
}

// EventIDNotFound reports an update of a missing event.
func EventIDNotFound(id uint) *apperrors.AppError {
	return ErrEventNotFound.WithMessage(fmt.Sprintf("Id not found %d", id))
}
