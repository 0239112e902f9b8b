package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/reelmates/backend/internal/models"
)

// UserHandler exposes user accounts, the friendship graph, the event feed
// and personal recommendations.
type UserHandler struct {
	Users           UserService
	Recommendations Recommender
	Limiter         RateLimiter
}

// Create handles POST /users.
func (h UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	created, err := h.Users.AddUser(ctx, user)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusCreated, created)
}

// Update handles PUT /users; the user id travels in the body.
func (h UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	updated, err := h.Users.UpdateUser(ctx, user)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, updated)
}

// List handles GET /users.
func (h UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	all, err := h.Users.Users(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, all)
}

// Get handles GET /users/{id}.
func (h UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	user, err := h.Users.User(ctx, userID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, user)
}

// Delete handles DELETE /users/{id}.
func (h UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	if err := h.Users.DeleteUser(ctx, userID); err != nil {
		respondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddFriend handles PUT /users/{id}/friends/{friendId}.
func (h UserHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !allowRequest(h.Limiter, r, "friend") {
		respondJSON(ctx, w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
		return
	}

	userID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}
	friendID, ok := pathID(ctx, w, r, "friendId")
	if !ok {
		return
	}

	if err := h.Users.AddFriend(ctx, userID, friendID); err != nil {
		respondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteFriend handles DELETE /users/{id}/friends/{friendId}.
func (h UserHandler) DeleteFriend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}
	friendID, ok := pathID(ctx, w, r, "friendId")
	if !ok {
		return
	}

	if err := h.Users.DeleteFriend(ctx, userID, friendID); err != nil {
		respondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Friends handles GET /users/{id}/friends.
func (h UserHandler) Friends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	listed, err := h.Users.Friends(ctx, userID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, listed)
}

// CommonFriends handles GET /users/{id}/friends/common/{otherId}.
func (h UserHandler) CommonFriends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}
	otherID, ok := pathID(ctx, w, r, "otherId")
	if !ok {
		return
	}

	shared, err := h.Users.CommonFriends(ctx, userID, otherID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, shared)
}

// Recommendations handles GET /users/{id}/recommendations.
func (h UserHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	// Recommendations only make sense for a user that exists.
	if _, err := h.Users.User(ctx, userID); err != nil {
		respondError(ctx, w, err)
		return
	}

	films, err := h.Recommendations.Recommend(ctx, userID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, films)
}

// Feed handles GET /users/{id}/feed.
func (h UserHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	events, err := h.Users.Feed(ctx, userID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if events == nil {
		events = []models.FeedEvent{}
	}
	respondJSON(ctx, w, http.StatusOK, events)
}
