package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reelmates/backend/internal/domain"
	"github.com/reelmates/backend/internal/models"
)

type stubCatalogService struct {
	genres    []models.Genre
	ratings   []models.MPA
	directors []models.Director
	err       error
}

func (s *stubCatalogService) Genres(context.Context) ([]models.Genre, error) {
	return s.genres, s.err
}

func (s *stubCatalogService) Genre(_ context.Context, genreID int64) (models.Genre, error) {
	if s.err != nil {
		return models.Genre{}, s.err
	}
	for _, genre := range s.genres {
		if genre.ID == genreID {
			return genre, nil
		}
	}
	return models.Genre{}, domain.NotFound(domain.KindGenre, genreID)
}

func (s *stubCatalogService) Mpas(context.Context) ([]models.MPA, error) {
	return s.ratings, s.err
}

func (s *stubCatalogService) Mpa(_ context.Context, mpaID int64) (models.MPA, error) {
	if s.err != nil {
		return models.MPA{}, s.err
	}
	for _, rating := range s.ratings {
		if rating.ID == mpaID {
			return rating, nil
		}
	}
	return models.MPA{}, domain.NotFound(domain.KindMpa, mpaID)
}

func (s *stubCatalogService) Directors(context.Context) ([]models.Director, error) {
	return s.directors, s.err
}

func (s *stubCatalogService) Director(_ context.Context, directorID int64) (models.Director, error) {
	if s.err != nil {
		return models.Director{}, s.err
	}
	for _, director := range s.directors {
		if director.ID == directorID {
			return director, nil
		}
	}
	return models.Director{}, domain.NotFound(domain.KindDirector, directorID)
}

func (s *stubCatalogService) AddDirector(_ context.Context, director models.Director) (models.Director, error) {
	if s.err != nil {
		return models.Director{}, s.err
	}
	director.ID = 1
	return director, nil
}

func (s *stubCatalogService) UpdateDirector(_ context.Context, director models.Director) (models.Director, error) {
	return director, s.err
}

func (s *stubCatalogService) DeleteDirector(context.Context, int64) error { return s.err }

func newCatalogMux(service CatalogService) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterRoutes(mux, Dependencies{
		Films:           &stubFilmService{},
		Users:           &stubUserService{},
		Catalog:         service,
		Recommendations: &stubRecommender{},
	})
	return mux
}

func TestGenreRoutes(t *testing.T) {
	service := &stubCatalogService{genres: []models.Genre{{ID: 1, Name: "Comedy"}, {ID: 2, Name: "Drama"}}}
	mux := newCatalogMux(service)

	req := httptest.NewRequest(http.MethodGet, "/genres", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var genres []models.Genre
	if err := json.NewDecoder(rec.Body).Decode(&genres); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(genres) != 2 {
		t.Fatalf("expected 2 genres, got %d", len(genres))
	}

	req = httptest.NewRequest(http.MethodGet, "/genres/2", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/genres/99", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestMpaRoutes(t *testing.T) {
	service := &stubCatalogService{ratings: []models.MPA{{ID: 1, Name: "G"}}}
	mux := newCatalogMux(service)

	req := httptest.NewRequest(http.MethodGet, "/mpa/1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var rating models.MPA
	if err := json.NewDecoder(rec.Body).Decode(&rating); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rating.Name != "G" {
		t.Fatalf("expected G, got %q", rating.Name)
	}
}

func TestDirectorCreateAndValidation(t *testing.T) {
	mux := newCatalogMux(&stubCatalogService{})

	body, _ := json.Marshal(models.Director{Name: "Mara Voss"})
	req := httptest.NewRequest(http.MethodPost, "/directors", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	failing := newCatalogMux(&stubCatalogService{err: domain.Validation("director name must not be empty")})
	req = httptest.NewRequest(http.MethodPost, "/directors", bytes.NewReader([]byte(`{}`)))
	rec = httptest.NewRecorder()
	failing.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
