package films

import "github.com/reelmates/backend/internal/models"

// Row is one flat record of the film listing join: the film's scalar fields
// plus at most one genre and one director. A nil Genre or Director marks an
// outer-join miss, never a zero-valued id.
type Row struct {
	Film     models.Film
	Genre    *models.Genre
	Director *models.Director
}

// Collapse folds flat join rows into unique films, preserving the first-seen
// order of film ids. Rows sharing an id differ only in their nested
// attributes; genres and directors are merged as sets deduplicated by id.
// Collapsing the same row set twice yields an identical result.
func Collapse(rows []Row) []models.Film {
	index := make(map[int64]int, len(rows))
	out := make([]models.Film, 0, len(rows))

	for _, row := range rows {
		i, seen := index[row.Film.ID]
		if !seen {
			film := row.Film
			film.Genres = nil
			film.Directors = nil
			out = append(out, film)
			i = len(out) - 1
			index[row.Film.ID] = i
		}
		if row.Genre != nil {
			out[i].Genres = appendGenre(out[i].Genres, *row.Genre)
		}
		if row.Director != nil {
			out[i].Directors = appendDirector(out[i].Directors, *row.Director)
		}
	}

	return out
}

// CollapseOne folds rows that describe a single requested film. The second
// return value is false when the row set is empty.
func CollapseOne(rows []Row) (models.Film, bool) {
	collapsed := Collapse(rows)
	if len(collapsed) == 0 {
		return models.Film{}, false
	}
	return collapsed[0], true
}

func appendGenre(genres []models.Genre, genre models.Genre) []models.Genre {
	for _, existing := range genres {
		if existing.ID == genre.ID {
			return genres
		}
	}
	return append(genres, genre)
}

func appendDirector(directors []models.Director, director models.Director) []models.Director {
	for _, existing := range directors {
		if existing.ID == director.ID {
			return directors
		}
	}
	return append(directors, director)
}
