package movie

import (
	"time"

	"github.com/xiebiao/catalog/internal/domain/movie"
)

type GenreDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// MovieCardDTO is a movie as listed in search results.
type MovieCardDTO struct {
	ID       uint      `json:"id"`
	Title    string    `json:"title"`
	SubTitle string    `json:"sub_title"`
	Year     int       `json:"year"`
	ImgURL   string    `json:"img_url"`
	Genre    *GenreDTO `json:"genre,omitempty"`
}

// MovieDetailsDTO adds the synopsis to the card.
type MovieDetailsDTO struct {
	MovieCardDTO
	Synopsis string `json:"synopsis"`
}

type AuthorDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ReviewDTO struct {
	ID        uint       `json:"id"`
	Text      string     `json:"text"`
	MovieID   uint       `json:"movie_id"`
	User      *AuthorDTO `json:"user,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ReviewRequest is a new review written by the caller.
type ReviewRequest struct {
	MovieID uint
	Text    string
}

func toGenreDTO(g *movie.Genre) *GenreDTO {
	if g == nil {
		return nil
	}
	return &GenreDTO{ID: g.ID, Name: g.Name}
}

func toCardDTO(m *movie.Movie) MovieCardDTO {
	return MovieCardDTO{
		ID:       m.ID,
		Title:    m.Title,
		SubTitle: m.SubTitle,
		Year:     m.Year,
		ImgURL:   m.ImgURL,
		Genre:    toGenreDTO(m.Genre),
	}
}

func toReviewDTO(r *movie.Review) ReviewDTO {
	dto := ReviewDTO{
		ID:        r.ID,
		Text:      r.Text,
		MovieID:   r.MovieID,
		CreatedAt: r.CreatedAt,
	}
	if r.Author != nil {
		dto.User = &AuthorDTO{ID: r.Author.ID, Name: r.Author.Name, Email: r.Author.Email}
	}
	return dto
}
