package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/reelmates/backend/internal/films"
	"github.com/reelmates/backend/internal/models"
)

const maxPosterBytes = 5 << 20

// FilmHandler exposes the film catalogue, likes, popularity queries and
// poster uploads.
type FilmHandler struct {
	Films   FilmService
	Limiter RateLimiter
}

// Create handles POST /films.
func (h FilmHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var film models.Film
	if err := json.NewDecoder(r.Body).Decode(&film); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	created, err := h.Films.AddFilm(ctx, film)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusCreated, created)
}

// Update handles PUT /films; the film id travels in the body.
func (h FilmHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var film models.Film
	if err := json.NewDecoder(r.Body).Decode(&film); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	updated, err := h.Films.UpdateFilm(ctx, film)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, updated)
}

// List handles GET /films.
func (h FilmHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	all, err := h.Films.Films(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, all)
}

// Get handles GET /films/{id}.
func (h FilmHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filmID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	film, err := h.Films.Film(ctx, filmID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, film)
}

// Delete handles DELETE /films/{id}.
func (h FilmHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filmID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	if err := h.Films.DeleteFilm(ctx, filmID); err != nil {
		respondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddLike handles PUT /films/{id}/like/{userId}.
func (h FilmHandler) AddLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !allowRequest(h.Limiter, r, "like") {
		respondJSON(ctx, w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
		return
	}

	filmID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(ctx, w, r, "userId")
	if !ok {
		return
	}

	if err := h.Films.AddLike(ctx, filmID, userID); err != nil {
		respondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteLike handles DELETE /films/{id}/like/{userId}.
func (h FilmHandler) DeleteLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filmID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(ctx, w, r, "userId")
	if !ok {
		return
	}

	if err := h.Films.DeleteLike(ctx, filmID, userID); err != nil {
		respondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Popular handles GET /films/popular?count=&genreId=&year=.
func (h FilmHandler) Popular(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := queryInt64(r, "count", films.DefaultPopularCount)
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid count"})
		return
	}
	genreID, err := queryInt64(r, "genreId", 0)
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid genreId"})
		return
	}
	year, err := queryInt64(r, "year", 0)
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid year"})
		return
	}

	popular, err := h.Films.PopularFilms(ctx, int(count), genreID, year)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, popular)
}

// Common handles GET /films/common?userId=&friendId=.
func (h FilmHandler) Common(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := queryInt64(r, "userId", 0)
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid userId"})
		return
	}
	friendID, err := queryInt64(r, "friendId", 0)
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid friendId"})
		return
	}

	common, err := h.Films.CommonFilms(ctx, userID, friendID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, common)
}

// ByDirector handles GET /films/director/{directorId}?sortBy=year|likes.
func (h FilmHandler) ByDirector(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	directorID, ok := pathID(ctx, w, r, "directorId")
	if !ok {
		return
	}

	listed, err := h.Films.DirectorFilms(ctx, directorID, r.URL.Query().Get("sortBy"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, listed)
}

// Search handles GET /films/search?query=&by=title,director.
func (h FilmHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var by []string
	if raw := r.URL.Query().Get("by"); raw != "" {
		by = strings.Split(raw, ",")
	}

	found, err := h.Films.SearchFilms(ctx, r.URL.Query().Get("query"), by)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, found)
}

// UploadPoster handles POST /films/{id}/poster with the raw image as body.
func (h FilmHandler) UploadPoster(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filmID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	location, err := h.Films.SetPoster(ctx, filmID, http.MaxBytesReader(w, r.Body, maxPosterBytes))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]string{"posterUrl": location})
}
