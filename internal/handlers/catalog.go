package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/reelmates/backend/internal/models"
)

// CatalogHandler serves the reference tables: genres, MPA ratings and
// directors.
type CatalogHandler struct {
	Catalog CatalogService
}

// Genres handles GET /genres.
func (h CatalogHandler) Genres(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	genres, err := h.Catalog.Genres(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, genres)
}

// Genre handles GET /genres/{id}.
func (h CatalogHandler) Genre(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	genreID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	genre, err := h.Catalog.Genre(ctx, genreID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, genre)
}

// Mpas handles GET /mpa.
func (h CatalogHandler) Mpas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ratings, err := h.Catalog.Mpas(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, ratings)
}

// Mpa handles GET /mpa/{id}.
func (h CatalogHandler) Mpa(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mpaID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	rating, err := h.Catalog.Mpa(ctx, mpaID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, rating)
}

// Directors handles GET /directors.
func (h CatalogHandler) Directors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	directors, err := h.Catalog.Directors(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, directors)
}

// Director handles GET /directors/{id}.
func (h CatalogHandler) Director(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	directorID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	director, err := h.Catalog.Director(ctx, directorID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, director)
}

// CreateDirector handles POST /directors.
func (h CatalogHandler) CreateDirector(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var director models.Director
	if err := json.NewDecoder(r.Body).Decode(&director); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	created, err := h.Catalog.AddDirector(ctx, director)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusCreated, created)
}

// UpdateDirector handles PUT /directors.
func (h CatalogHandler) UpdateDirector(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var director models.Director
	if err := json.NewDecoder(r.Body).Decode(&director); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	updated, err := h.Catalog.UpdateDirector(ctx, director)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, updated)
}

// DeleteDirector handles DELETE /directors/{id}.
func (h CatalogHandler) DeleteDirector(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	directorID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	if err := h.Catalog.DeleteDirector(ctx, directorID); err != nil {
		respondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
