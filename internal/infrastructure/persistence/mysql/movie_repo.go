package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/catalog/internal/domain/movie"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/pagination"
)

type genreRepository struct {
	repository
}

// NewGenreRepository creates the genre repository.
func NewGenreRepository(db *gorm.DB) movie.GenreRepository {
	return &genreRepository{repository{db: db}}
}

func (r *genreRepository) FindAll(ctx context.Context) ([]*movie.Genre, error) {
	var models []GenreModel
	if err := r.getDB(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "Find genres failed")
	}
	out := make([]*movie.Genre, len(models))
	for i := range models {
		out[i] = toGenreEntity(&models[i])
	}
	return out, nil
}

type movieRepository struct {
	repository
}

// NewMovieRepository creates the movie repository.
func NewMovieRepository(db *gorm.DB) movie.Repository {
	return &movieRepository{repository{db: db}}
}

// Movies are always listed by title.
var movieSorts = sortColumns{
	def: "title",
	cols: map[string]string{
		"title": "movies.title",
	},
}

// Search pages movie ids by title, then hydrates them with a single JOIN on
// genres. GenreID 0 means every genre.
func (r *movieRepository) Search(filter movie.Filter) pagination.Query[uint, *movie.Movie] {
	return &pagedQuery[MovieModel, *movie.Movie]{
		name:  "movie_search",
		table: "movies",
		db:    r.getDB,
		filter: func(db *gorm.DB) *gorm.DB {
			if filter.GenreID != 0 {
				db = db.Where("movies.genre_id = ?", filter.GenreID)
			}
			return db
		},
		sorts:    movieSorts,
		eager:    func(db *gorm.DB) *gorm.DB { return db.Joins("Genre") },
		toEntity: toMovieEntity,
		idOf:     func(m *movie.Movie) uint { return m.ID },
	}
}

func (r *movieRepository) FindByID(ctx context.Context, id uint) (*movie.Movie, error) {
	var model MovieModel
	if err := r.getDB(ctx).Joins("Genre").Where("movies.id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, movie.ErrMovieNotFound
		}
		return nil, apperrors.Wrap(err, "Find movie failed")
	}
	return toMovieEntity(&model), nil
}

func (r *movieRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	return exists(r.getDB(ctx), &MovieModel{}, id)
}

type reviewRepository struct {
	repository
}

// NewReviewRepository creates the review repository.
func NewReviewRepository(db *gorm.DB) movie.ReviewRepository {
	return &reviewRepository{repository{db: db}}
}

func (r *reviewRepository) FindByMovie(ctx context.Context, movieID uint) ([]*movie.Review, error) {
	var models []ReviewModel
	err := r.getDB(ctx).Joins("User").
		Where("reviews.movie_id = ?", movieID).
		Order("reviews.id").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Find reviews failed")
	}
	out := make([]*movie.Review, len(models))
	for i := range models {
		out[i] = toReviewEntity(&models[i])
	}
	return out, nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*movie.Review, error) {
	var model ReviewModel
	if err := r.getDB(ctx).Joins("User").Where("reviews.id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "Find review failed")
	}
	return toReviewEntity(&model), nil
}

// Create fails with a conflict when the movie or the user does not exist.
func (r *reviewRepository) Create(ctx context.Context, rv *movie.Review) error {
	model := &ReviewModel{
		Text:      rv.Text,
		MovieID:   rv.MovieID,
		UserID:    rv.UserID,
		CreatedAt: rv.CreatedAt,
	}
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isForeignKeyError(err) {
			return apperrors.Conflict(err)
		}
		return apperrors.Wrap(err, "Create review failed")
	}
	rv.ID = model.ID
	rv.CreatedAt = model.CreatedAt
	return nil
}

func toGenreEntity(m *GenreModel) *movie.Genre {
	return &movie.Genre{ID: m.ID, Name: m.Name}
}

func toMovieEntity(m *MovieModel) *movie.Movie {
	mv := &movie.Movie{
		ID:       m.ID,
		Title:    m.Title,
		SubTitle: m.SubTitle,
		Year:     m.Year,
		ImgURL:   m.ImgURL,
		Synopsis: m.Synopsis,
		GenreID:  m.GenreID,
	}
	if m.Genre != nil {
		mv.Genre = toGenreEntity(m.Genre)
	}
	return mv
}

func toReviewEntity(m *ReviewModel) *movie.Review {
	rv := &movie.Review{
		ID:        m.ID,
		Text:      m.Text,
		MovieID:   m.MovieID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
	if m.User != nil {
		rv.Author = &movie.Author{
			ID:    m.User.ID,
			Name:  m.User.FirstName,
			Email: m.User.Email,
		}
	}
	return rv
}
