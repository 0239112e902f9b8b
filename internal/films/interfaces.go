package films

import (
	"context"
	"io"

	"github.com/reelmates/backend/internal/models"
)

// FilmStore captures the persistence operations the film service needs. Read
// methods return flat join rows so that Collapse is the only place where
// genre and director sets are merged.
type FilmStore interface {
	Insert(ctx context.Context, film models.Film) (int64, error)
	Update(ctx context.Context, film models.Film) error
	Delete(ctx context.Context, filmID int64) error
	RowsByID(ctx context.Context, filmID int64) ([]Row, error)
	RowsByIDs(ctx context.Context, filmIDs []int64) ([]Row, error)
	AllRows(ctx context.Context) ([]Row, error)
	PopularEntries(ctx context.Context, genreID, year int64) ([]RankEntry, error)
	DirectorEntries(ctx context.Context, directorID int64) ([]RankEntry, error)
	SearchEntries(ctx context.Context, query string, byTitle, byDirector bool) ([]RankEntry, error)
	SetPosterURL(ctx context.Context, filmID int64, url string) error
}

// LikeStore captures persistence for like rows.
type LikeStore interface {
	// Add records the like, treating an already existing (film, user) pair
	// as a no-op rather than an error.
	Add(ctx context.Context, filmID, userID int64) error
	// Remove deletes the like and reports whether a row existed.
	Remove(ctx context.Context, filmID, userID int64) (bool, error)
	FilmsLikedBy(ctx context.Context, userID int64) ([]int64, error)
	All(ctx context.Context) ([]models.Like, error)
	Counts(ctx context.Context, filmIDs []int64) ([]RankEntry, error)
}

// UserLookup resolves user existence for like validation.
type UserLookup interface {
	Get(ctx context.Context, userID int64) (models.User, error)
}

// GenreCatalog and MpaCatalog expose the reference data film payloads are
// validated against.
type GenreCatalog interface {
	Genres(ctx context.Context) ([]models.Genre, error)
}

// MpaCatalog resolves a single MPA rating by id.
type MpaCatalog interface {
	Mpa(ctx context.Context, mpaID int64) (models.MPA, error)
}

// DirectorCatalog resolves directors referenced by film payloads.
type DirectorCatalog interface {
	Director(ctx context.Context, directorID int64) (models.Director, error)
}

// FeedSink receives activity events. Writes are best-effort; callers log and
// continue when an append fails.
type FeedSink interface {
	Append(ctx context.Context, event models.FeedEvent) error
}

// PosterStore persists poster images and returns their public location.
type PosterStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}
