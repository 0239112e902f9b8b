package films

import (
	"context"
	"fmt"

	"github.com/reelmates/backend/internal/logging"
	"github.com/reelmates/backend/internal/models"
)

// Engine produces film recommendations through peer-overlap collaborative
// filtering: find the users whose like-sets overlap the target's the most,
// then suggest what they liked and the target has not.
type Engine struct {
	likes LikeStore
	films FilmStore
}

// NewEngine constructs a recommendation engine over the given stores.
func NewEngine(likes LikeStore, films FilmStore) *Engine {
	return &Engine{likes: likes, films: films}
}

// Recommend returns films for the user ranked by global like count
// descending, film id ascending on ties. The result is empty when the user
// has no likes or no other user shares a liked film with them.
func (e *Engine) Recommend(ctx context.Context, userID int64) ([]models.Film, error) {
	ctx, span := logging.StartSpan(ctx, "recommend")
	defer span.End()

	liked, err := e.likes.FilmsLikedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load likes of user %d: %w", userID, err)
	}
	if len(liked) == 0 {
		return nil, nil
	}

	likedSet := make(map[int64]struct{}, len(liked))
	for _, filmID := range liked {
		likedSet[filmID] = struct{}{}
	}

	all, err := e.likes.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}

	globalCount := make(map[int64]int)
	likesByUser := make(map[int64][]int64)
	for _, like := range all {
		globalCount[like.FilmID]++
		if like.UserID != userID {
			likesByUser[like.UserID] = append(likesByUser[like.UserID], like.FilmID)
		}
	}

	// Peers are every user tied at the maximum overlap; ties are not broken.
	maxOverlap := 0
	overlaps := make(map[int64]int, len(likesByUser))
	for peerID, films := range likesByUser {
		overlap := 0
		for _, filmID := range films {
			if _, ok := likedSet[filmID]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		overlaps[peerID] = overlap
		if overlap > maxOverlap {
			maxOverlap = overlap
		}
	}
	if maxOverlap == 0 {
		return nil, nil
	}

	candidateSet := make(map[int64]struct{})
	for peerID, overlap := range overlaps {
		if overlap != maxOverlap {
			continue
		}
		for _, filmID := range likesByUser[peerID] {
			if _, alreadyLiked := likedSet[filmID]; !alreadyLiked {
				candidateSet[filmID] = struct{}{}
			}
		}
	}
	if len(candidateSet) == 0 {
		return nil, nil
	}

	entries := make([]RankEntry, 0, len(candidateSet))
	for filmID := range candidateSet {
		entries = append(entries, RankEntry{FilmID: filmID, Likes: globalCount[filmID]})
	}
	SortByLikes(entries)

	rows, err := e.films.RowsByIDs(ctx, entryIDs(entries))
	if err != nil {
		return nil, fmt.Errorf("load film rows: %w", err)
	}
	return orderFilms(Collapse(rows), entryIDs(entries)), nil
}
