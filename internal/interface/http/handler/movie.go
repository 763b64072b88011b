package handler

import (
	"github.com/gin-gonic/gin"

	appmovie "github.com/xiebiao/catalog/internal/application/movie"
	"github.com/xiebiao/catalog/internal/interface/http/dto"
	"github.com/xiebiao/catalog/internal/interface/http/middleware"
	"github.com/xiebiao/catalog/pkg/response"
)

// MovieHandler serves genres, movies and reviews. Every route needs a login.
type MovieHandler struct {
	movies *appmovie.Service
}

func NewMovieHandler(movies *appmovie.Service) *MovieHandler {
	return &MovieHandler{movies: movies}
}

// Genres godoc
// @Summary      List genres
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appmovie.GenreDTO}
// @Router       /api/v1/genres [get]
func (h *MovieHandler) Genres(c *gin.Context) {
	out, err := h.movies.FindAllGenres(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

type genreQuery struct {
	GenreID uint `form:"genreId"`
}

// Search godoc
// @Summary      List movies by genre
// @Description  genreId 0 or absent lists every genre. Sorted by title.
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Param        genreId  query  int  false  "genre id"
// @Param        page     query  int  false  "zero-based page"
// @Param        size     query  int  false  "page size"
// @Success      200 {object} response.Response{data=pagination.Page[appmovie.MovieCardDTO]}
// @Router       /api/v1/movies [get]
func (h *MovieHandler) Search(c *gin.Context) {
	req, ok := pageRequest(c)
	if !ok {
		return
	}
	var q genreQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	page, err := h.movies.FindByGenre(c.Request.Context(), middleware.GetPrincipal(c), q.GenreID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, page)
}

// Get godoc
// @Summary      Find a movie
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "movie id"
// @Success      200 {object} response.Response{data=appmovie.MovieDetailsDTO}
// @Failure      404 {object} response.Response
// @Router       /api/v1/movies/{id} [get]
func (h *MovieHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.movies.FindByID(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// Reviews godoc
// @Summary      List the reviews of a movie
// @Tags         movies
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "movie id"
// @Success      200 {object} response.Response{data=[]appmovie.ReviewDTO}
// @Failure      404 {object} response.Response
// @Router       /api/v1/movies/{id}/reviews [get]
func (h *MovieHandler) Reviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.movies.FindReviews(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// CreateReview godoc
// @Summary      Review a movie
// @Description  Members only. The author is the caller.
// @Tags         movies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ReviewRequest true "review"
// @Success      201 {object} response.Response{data=appmovie.ReviewDTO}
// @Failure      403 {object} response.Response
// @Failure      404 {object} response.Response "unknown movie"
// @Router       /api/v1/reviews [post]
func (h *MovieHandler) CreateReview(c *gin.Context) {
	var req dto.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.movies.InsertReview(c.Request.Context(), middleware.GetPrincipal(c), appmovie.ReviewRequest{
		MovieID: req.MovieID,
		Text:    req.Text,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, out)
}
