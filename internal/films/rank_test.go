package films

import (
	"reflect"
	"testing"

	"github.com/reelmates/backend/internal/models"
)

func TestSortByLikesBreaksTiesByID(t *testing.T) {
	entries := []RankEntry{
		{FilmID: 4, Likes: 2},
		{FilmID: 1, Likes: 3},
		{FilmID: 2, Likes: 2},
		{FilmID: 3, Likes: 0},
	}

	SortByLikes(entries)

	var ids []int64
	for _, entry := range entries {
		ids = append(ids, entry.FilmID)
	}
	if !reflect.DeepEqual(ids, []int64{1, 2, 4, 3}) {
		t.Fatalf("expected [1 2 4 3], got %v", ids)
	}
}

func TestSortByYearAscending(t *testing.T) {
	entries := []RankEntry{
		{FilmID: 9, Year: 2020},
		{FilmID: 2, Year: 1994},
		{FilmID: 5, Year: 1994},
	}

	SortByYear(entries)

	var ids []int64
	for _, entry := range entries {
		ids = append(ids, entry.FilmID)
	}
	if !reflect.DeepEqual(ids, []int64{2, 5, 9}) {
		t.Fatalf("expected [2 5 9], got %v", ids)
	}
}

func TestTruncate(t *testing.T) {
	entries := []RankEntry{{FilmID: 1}, {FilmID: 2}, {FilmID: 3}}

	if got := Truncate(entries, 2); len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got := Truncate(entries, 10); len(got) != 3 {
		t.Fatalf("expected all entries when limit exceeds length, got %d", len(got))
	}
}

func TestOrderFilmsDropsMissingIDs(t *testing.T) {
	films := []models.Film{{ID: 1}, {ID: 2}}

	ordered := orderFilms(films, []int64{2, 3, 1})

	var ids []int64
	for _, film := range ordered {
		ids = append(ids, film.ID)
	}
	if !reflect.DeepEqual(ids, []int64{2, 1}) {
		t.Fatalf("expected [2 1], got %v", ids)
	}
}
