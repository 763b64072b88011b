package movie

import (
	"fmt"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

// ErrMovieNotFound is returned for a missing movie.
var ErrMovieNotFound = apperrors.New(apperrors.ErrCodeMovieNotFound, "Entity not found")

// MovieIDNotFound reports a review pointing at an unknown movie.
func MovieIDNotFound(id uint) *apperrors.AppError {
	return ErrMovieNotFound.WithMessage(fmt.Sprintf("Id not found %d", id))
}
