package handlers

import (
	"context"
	"io"

	"github.com/reelmates/backend/internal/models"
)

// FilmService captures the film operations required by the film handlers.
type FilmService interface {
	AddFilm(ctx context.Context, film models.Film) (models.Film, error)
	UpdateFilm(ctx context.Context, film models.Film) (models.Film, error)
	DeleteFilm(ctx context.Context, filmID int64) error
	Film(ctx context.Context, filmID int64) (models.Film, error)
	Films(ctx context.Context) ([]models.Film, error)
	AddLike(ctx context.Context, filmID, userID int64) error
	DeleteLike(ctx context.Context, filmID, userID int64) error
	PopularFilms(ctx context.Context, count int, genreID, year int64) ([]models.Film, error)
	CommonFilms(ctx context.Context, userID, friendID int64) ([]models.Film, error)
	DirectorFilms(ctx context.Context, directorID int64, sortBy string) ([]models.Film, error)
	SearchFilms(ctx context.Context, query string, by []string) ([]models.Film, error)
	SetPoster(ctx context.Context, filmID int64, r io.Reader) (string, error)
}

// Recommender produces film recommendations for a user.
type Recommender interface {
	Recommend(ctx context.Context, userID int64) ([]models.Film, error)
}

// UserService captures the account and friend-graph operations required by
// the user handlers.
type UserService interface {
	AddUser(ctx context.Context, user models.User) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
	User(ctx context.Context, userID int64) (models.User, error)
	Users(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	AddFriend(ctx context.Context, userID, friendID int64) error
	DeleteFriend(ctx context.Context, userID, friendID int64) error
	Friends(ctx context.Context, userID int64) ([]models.User, error)
	CommonFriends(ctx context.Context, userID, otherID int64) ([]models.User, error)
	Feed(ctx context.Context, userID int64) ([]models.FeedEvent, error)
}

// CatalogService captures the reference-data operations required by the
// catalog handlers.
type CatalogService interface {
	Genres(ctx context.Context) ([]models.Genre, error)
	Genre(ctx context.Context, genreID int64) (models.Genre, error)
	Mpas(ctx context.Context) ([]models.MPA, error)
	Mpa(ctx context.Context, mpaID int64) (models.MPA, error)
	Directors(ctx context.Context) ([]models.Director, error)
	Director(ctx context.Context, directorID int64) (models.Director, error)
	AddDirector(ctx context.Context, director models.Director) (models.Director, error)
	UpdateDirector(ctx context.Context, director models.Director) (models.Director, error)
	DeleteDirector(ctx context.Context, directorID int64) error
}
