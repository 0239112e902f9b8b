// Package catalog serves the reference data films are described with:
// genres, MPA ratings and directors.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/reelmates/backend/internal/domain"
	"github.com/reelmates/backend/internal/models"
)

// GenreStore captures persistence for genres.
type GenreStore interface {
	All(ctx context.Context) ([]models.Genre, error)
	Get(ctx context.Context, genreID int64) (models.Genre, error)
}

// MpaStore captures persistence for MPA ratings.
type MpaStore interface {
	All(ctx context.Context) ([]models.MPA, error)
	Get(ctx context.Context, mpaID int64) (models.MPA, error)
}

// DirectorStore captures persistence for directors.
type DirectorStore interface {
	Insert(ctx context.Context, director models.Director) (int64, error)
	Update(ctx context.Context, director models.Director) error
	Delete(ctx context.Context, directorID int64) error
	Get(ctx context.Context, directorID int64) (models.Director, error)
	All(ctx context.Context) ([]models.Director, error)
}

const refCacheTTL = 5 * time.Minute

// Service answers reference-data lookups. Genre and MPA reads go through a
// TTL cache since both sets are fixed by migrations; directors are mutable
// and always hit the store.
type Service struct {
	genres    GenreStore
	mpa       MpaStore
	directors DirectorStore

	genreByID *refCache[int64, models.Genre]
	mpaByID   *refCache[int64, models.MPA]
	genreAll  *refCache[struct{}, []models.Genre]
	mpaAll    *refCache[struct{}, []models.MPA]
}

// NewService constructs the catalog service. A non-positive ttl falls back
// to the default cache lifetime.
func NewService(genres GenreStore, mpa MpaStore, directors DirectorStore, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = refCacheTTL
	}
	return &Service{
		genres:    genres,
		mpa:       mpa,
		directors: directors,
		genreByID: newRefCache[int64, models.Genre](ttl),
		mpaByID:   newRefCache[int64, models.MPA](ttl),
		genreAll:  newRefCache[struct{}, []models.Genre](ttl),
		mpaAll:    newRefCache[struct{}, []models.MPA](ttl),
	}
}

// Genres lists every genre ordered by id.
func (s *Service) Genres(ctx context.Context) ([]models.Genre, error) {
	if cached, ok := s.genreAll.get(struct{}{}); ok {
		return slices.Clone(cached), nil
	}

	genres, err := s.genres.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}
	s.genreAll.put(struct{}{}, genres)
	// Callers get a copy so the cached slice cannot be mutated under us.
	return slices.Clone(genres), nil
}

// Genre fetches one genre by id.
func (s *Service) Genre(ctx context.Context, genreID int64) (models.Genre, error) {
	if genreID <= 0 {
		return models.Genre{}, domain.BadParameter("id", genreID)
	}
	if cached, ok := s.genreByID.get(genreID); ok {
		return cached, nil
	}

	genre, err := s.genres.Get(ctx, genreID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return models.Genre{}, domain.NotFound(domain.KindGenre, genreID)
		}
		return models.Genre{}, fmt.Errorf("load genre: %w", err)
	}
	s.genreByID.put(genreID, genre)
	return genre, nil
}

// Mpas lists every MPA rating ordered by id.
func (s *Service) Mpas(ctx context.Context) ([]models.MPA, error) {
	if cached, ok := s.mpaAll.get(struct{}{}); ok {
		return slices.Clone(cached), nil
	}

	ratings, err := s.mpa.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load mpa ratings: %w", err)
	}
	s.mpaAll.put(struct{}{}, ratings)
	return slices.Clone(ratings), nil
}

// Mpa fetches one MPA rating by id.
func (s *Service) Mpa(ctx context.Context, mpaID int64) (models.MPA, error) {
	if mpaID <= 0 {
		return models.MPA{}, domain.BadParameter("id", mpaID)
	}
	if cached, ok := s.mpaByID.get(mpaID); ok {
		return cached, nil
	}

	rating, err := s.mpa.Get(ctx, mpaID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return models.MPA{}, domain.NotFound(domain.KindMpa, mpaID)
		}
		return models.MPA{}, fmt.Errorf("load mpa rating: %w", err)
	}
	s.mpaByID.put(mpaID, rating)
	return rating, nil
}

// Directors lists every director.
func (s *Service) Directors(ctx context.Context) ([]models.Director, error) {
	directors, err := s.directors.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load directors: %w", err)
	}
	return directors, nil
}

// Director fetches one director by id.
func (s *Service) Director(ctx context.Context, directorID int64) (models.Director, error) {
	if directorID <= 0 {
		return models.Director{}, domain.BadParameter("id", directorID)
	}

	director, err := s.directors.Get(ctx, directorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return models.Director{}, domain.NotFound(domain.KindDirector, directorID)
		}
		return models.Director{}, fmt.Errorf("load director: %w", err)
	}
	return director, nil
}

// AddDirector persists a new director.
func (s *Service) AddDirector(ctx context.Context, director models.Director) (models.Director, error) {
	if err := validateDirector(director); err != nil {
		return models.Director{}, err
	}

	id, err := s.directors.Insert(ctx, director)
	if err != nil {
		return models.Director{}, fmt.Errorf("insert director: %w", err)
	}
	director.ID = id
	return director, nil
}

// UpdateDirector rewrites an existing director.
func (s *Service) UpdateDirector(ctx context.Context, director models.Director) (models.Director, error) {
	if director.ID <= 0 {
		return models.Director{}, domain.BadParameter("id", director.ID)
	}
	if err := validateDirector(director); err != nil {
		return models.Director{}, err
	}

	if err := s.directors.Update(ctx, director); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return models.Director{}, domain.NotFound(domain.KindDirector, director.ID)
		}
		return models.Director{}, fmt.Errorf("update director: %w", err)
	}
	return director, nil
}

// DeleteDirector removes a director and their film links.
func (s *Service) DeleteDirector(ctx context.Context, directorID int64) error {
	if directorID <= 0 {
		return domain.BadParameter("id", directorID)
	}
	if err := s.directors.Delete(ctx, directorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(domain.KindDirector, directorID)
		}
		return fmt.Errorf("delete director: %w", err)
	}
	return nil
}

func validateDirector(director models.Director) error {
	if director.Name == "" {
		return domain.Validation("director name must not be empty")
	}
	return nil
}
