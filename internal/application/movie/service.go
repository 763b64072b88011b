// Package movie holds the genre, movie and review use cases.
// Reading requires ROLE_VISITOR or ROLE_MEMBER, writing reviews ROLE_MEMBER.
package movie

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/catalog/internal/application/tx"
	"github.com/xiebiao/catalog/internal/domain/movie"
	"github.com/xiebiao/catalog/pkg/authz"
	"github.com/xiebiao/catalog/pkg/logger"
	"github.com/xiebiao/catalog/pkg/metrics"
	"github.com/xiebiao/catalog/pkg/pagination"
)

type Service struct {
	genres  movie.GenreRepository
	movies  movie.Repository
	reviews movie.ReviewRepository
	authz   *authz.Authorizer
	tx      tx.Manager
}

func NewService(
	genres movie.GenreRepository,
	movies movie.Repository,
	reviews movie.ReviewRepository,
	authorizer *authz.Authorizer,
	txManager tx.Manager,
) *Service {
	return &Service{
		genres:  genres,
		movies:  movies,
		reviews: reviews,
		authz:   authorizer,
		tx:      txManager,
	}
}

func (s *Service) FindAllGenres(ctx context.Context, p *authz.Principal) ([]GenreDTO, error) {
	if err := s.authz.Check(p, authz.ResourceMovie, authz.ActionRead); err != nil {
		return nil, err
	}
	genres, err := s.genres.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]GenreDTO, len(genres))
	for i, g := range genres {
		out[i] = *toGenreDTO(g)
	}
	return out, nil
}

// FindByGenre pages movies ordered by title. genreID 0 lists every genre.
func (s *Service) FindByGenre(ctx context.Context, p *authz.Principal, genreID uint, req pagination.PageRequest) (*pagination.Page[MovieCardDTO], error) {
	if err := s.authz.Check(p, authz.ResourceMovie, authz.ActionRead); err != nil {
		return nil, err
	}

	var page *pagination.Page[MovieCardDTO]
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		page, err = pagination.Search(ctx, s.movies.Search(movie.Filter{GenreID: genreID}), req, toCardDTO)
		return err
	})
	return page, err
}

func (s *Service) FindByID(ctx context.Context, p *authz.Principal, id uint) (*MovieDetailsDTO, error) {
	if err := s.authz.Check(p, authz.ResourceMovie, authz.ActionRead); err != nil {
		return nil, err
	}
	m, err := s.movies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &MovieDetailsDTO{MovieCardDTO: toCardDTO(m), Synopsis: m.Synopsis}, nil
}

// FindReviews lists the reviews of a movie with their authors.
func (s *Service) FindReviews(ctx context.Context, p *authz.Principal, movieID uint) ([]ReviewDTO, error) {
	if err := s.authz.Check(p, authz.ResourceMovie, authz.ActionRead); err != nil {
		return nil, err
	}

	var out []ReviewDTO
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		ok, err := s.movies.ExistsByID(ctx, movieID)
		if err != nil {
			return err
		}
		if !ok {
			return movie.MovieIDNotFound(movieID)
		}
		reviews, err := s.reviews.FindByMovie(ctx, movieID)
		if err != nil {
			return err
		}
		out = make([]ReviewDTO, len(reviews))
		for i, r := range reviews {
			out[i] = toReviewDTO(r)
		}
		return nil
	})
	return out, err
}

// InsertReview stores a review written by the caller.
func (s *Service) InsertReview(ctx context.Context, p *authz.Principal, req ReviewRequest) (dto *ReviewDTO, err error) {
	if err := s.authz.Check(p, authz.ResourceReview, authz.ActionCreate); err != nil {
		return nil, err
	}
	defer func() { metrics.RecordMutation("review", "insert", err) }()

	var saved *movie.Review
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.movies.FindByID(ctx, req.MovieID); err != nil {
			if errors.Is(err, movie.ErrMovieNotFound) {
				return movie.MovieIDNotFound(req.MovieID)
			}
			return err
		}

		r := movie.NewReview(req.Text, req.MovieID, p.UserID)
		if err := s.reviews.Create(ctx, r); err != nil {
			return err
		}
		saved, err = s.reviews.FindByID(ctx, r.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("review created",
		zap.Uint("id", saved.ID),
		zap.Uint("movie_id", saved.MovieID),
		zap.Uint("user_id", saved.UserID))
	out := toReviewDTO(saved)
	return &out, nil
}
