package movie

import (
	"time"
)

// Genre classifies movies.
type Genre struct {
	ID   uint
	Name string
}

// Movie belongs to exactly one genre.
type Movie struct {
	ID       uint
	Title    string
	SubTitle string
	Year     int
	ImgURL   string
	Synopsis string
	GenreID  uint
	Genre    *Genre // loaded by FindByID and Search hydration
}

// Review is a member's text about a movie.
type Review struct {
	ID        uint
	Text      string
	MovieID   uint
	UserID    uint
	Author    *Author // loaded by FindByMovie
	CreatedAt time.Time
}

// Author is the user part a review shows.
type Author struct {
	ID    uint
	Name  string
	Email string
}

// NewReview creates a review written by userID.
func NewReview(text string, movieID, userID uint) *Review {
	return &Review{
		Text:      text,
		MovieID:   movieID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
}
