package movie

import (
	"context"

	"github.com/xiebiao/catalog/pkg/pagination"
)

// Filter narrows a movie search. GenreID 0 matches every genre.
type Filter struct {
	GenreID uint
}

type GenreRepository interface {
	// FindAll returns every genre ordered by name.
	FindAll(ctx context.Context) ([]*Genre, error)
}

type Repository interface {
	// Search binds filter to a two-step paged query ordered by title, then id.
	Search(filter Filter) pagination.Query[uint, *Movie]

	// FindByID loads the movie with its genre, ErrMovieNotFound if missing.
	FindByID(ctx context.Context, id uint) (*Movie, error)

	ExistsByID(ctx context.Context, id uint) (bool, error)
}

type ReviewRepository interface {
	// FindByMovie returns the reviews of a movie with their authors, oldest first.
	FindByMovie(ctx context.Context, movieID uint) ([]*Review, error)

	Create(ctx context.Context, review *Review) error

	// FindByID loads a single review with its author.
	FindByID(ctx context.Context, id uint) (*Review, error)
}
