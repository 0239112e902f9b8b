package films

import (
	"sort"

	"github.com/reelmates/backend/internal/models"
)

// RankEntry pairs a film id with its aggregate like count and release year.
// The stores return these unordered; all ordering happens here so ties are
// always broken the same way.
type RankEntry struct {
	FilmID int64
	Likes  int
	Year   int
}

// SortByLikes orders entries by like count descending. Equal counts fall back
// to film id ascending so repeated calls produce a stable order.
func SortByLikes(entries []RankEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Likes != entries[j].Likes {
			return entries[i].Likes > entries[j].Likes
		}
		return entries[i].FilmID < entries[j].FilmID
	})
}

// SortByYear orders entries by release year ascending, film id ascending on
// equal years.
func SortByYear(entries []RankEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Year != entries[j].Year {
			return entries[i].Year < entries[j].Year
		}
		return entries[i].FilmID < entries[j].FilmID
	})
}

// Truncate limits entries to at most n elements.
func Truncate(entries []RankEntry, n int) []RankEntry {
	if n >= 0 && len(entries) > n {
		return entries[:n]
	}
	return entries
}

func entryIDs(entries []RankEntry) []int64 {
	ids := make([]int64, len(entries))
	for i, entry := range entries {
		ids[i] = entry.FilmID
	}
	return ids
}

// orderFilms arranges films to follow the given id order. Films whose id is
// missing from the order are dropped.
func orderFilms(films []models.Film, order []int64) []models.Film {
	byID := make(map[int64]models.Film, len(films))
	for _, film := range films {
		byID[film.ID] = film
	}

	out := make([]models.Film, 0, len(order))
	for _, id := range order {
		if film, ok := byID[id]; ok {
			out = append(out, film)
		}
	}
	return out
}
