package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/reelmates/backend/internal/domain"
	"github.com/reelmates/backend/internal/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

// respondError maps the typed domain error kinds onto HTTP statuses:
// not-found → 404, validation and parameter faults → 400, storage conflicts
// → 409, everything else → 500.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		notFound   *domain.NotFoundError
		validation *domain.ValidationError
		badSort    *domain.UnsupportedSortError
		badParam   *domain.BadParameterError
	)

	switch {
	case errors.As(err, &notFound), errors.Is(err, domain.ErrNotFound):
		respondJSON(ctx, w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &validation), errors.As(err, &badSort), errors.As(err, &badParam):
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		respondJSON(ctx, w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		logging.FromContext(ctx).Error("unhandled service error", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// pathID parses a positive numeric path segment; ok is false after an error
// response has been written.
func pathID(ctx context.Context, w http.ResponseWriter, r *http.Request, segment string) (int64, bool) {
	raw := r.PathValue(segment)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid " + segment})
		return 0, false
	}
	return id, true
}

// queryInt64 parses an optional numeric query parameter, falling back to def
// when absent.
func queryInt64(r *http.Request, name string, def int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
