package films

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/reelmates/backend/internal/domain"
	"github.com/reelmates/backend/internal/logging"
	"github.com/reelmates/backend/internal/models"
)

// DefaultPopularCount is applied when a caller does not limit the popular
// film listing.
const DefaultPopularCount = 10

// Service implements the film-facing operations: CRUD with reference
// validation, likes, popularity and search. All listing paths go through
// Collapse so genre merging never diverges between operations.
type Service struct {
	films     FilmStore
	likes     LikeStore
	users     UserLookup
	genres    GenreCatalog
	mpa       MpaCatalog
	directors DirectorCatalog
	feed      FeedSink
	posters   PosterStore
	nowFunc   func() time.Time
}

// Deps aggregates the collaborators a Service needs. Posters may be nil when
// no object storage is configured.
type Deps struct {
	Films     FilmStore
	Likes     LikeStore
	Users     UserLookup
	Genres    GenreCatalog
	Mpa       MpaCatalog
	Directors DirectorCatalog
	Feed      FeedSink
	Posters   PosterStore
	NowFunc   func() time.Time
}

// NewService constructs a film service.
func NewService(deps Deps) *Service {
	now := deps.NowFunc
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		films:     deps.Films,
		likes:     deps.Likes,
		users:     deps.Users,
		genres:    deps.Genres,
		mpa:       deps.Mpa,
		directors: deps.Directors,
		feed:      deps.Feed,
		posters:   deps.Posters,
		nowFunc:   now,
	}
}

// AddFilm validates the film's reference attributes and persists it.
func (s *Service) AddFilm(ctx context.Context, film models.Film) (models.Film, error) {
	if err := s.validateRefs(ctx, film); err != nil {
		return models.Film{}, err
	}

	id, err := s.films.Insert(ctx, film)
	if err != nil {
		return models.Film{}, fmt.Errorf("insert film: %w", err)
	}

	return s.Film(ctx, id)
}

// UpdateFilm rewrites an existing film, including its genre and director
// links.
func (s *Service) UpdateFilm(ctx context.Context, film models.Film) (models.Film, error) {
	if film.ID <= 0 {
		return models.Film{}, domain.BadParameter("id", film.ID)
	}
	if err := s.validateRefs(ctx, film); err != nil {
		return models.Film{}, err
	}

	if err := s.films.Update(ctx, film); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return models.Film{}, domain.NotFound(domain.KindFilm, film.ID)
		}
		return models.Film{}, fmt.Errorf("update film: %w", err)
	}

	return s.Film(ctx, film.ID)
}

// DeleteFilm removes a film and its dependent rows.
func (s *Service) DeleteFilm(ctx context.Context, filmID int64) error {
	if filmID <= 0 {
		return domain.BadParameter("id", filmID)
	}
	if err := s.films.Delete(ctx, filmID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(domain.KindFilm, filmID)
		}
		return fmt.Errorf("delete film: %w", err)
	}
	return nil
}

// Film fetches a single film by id.
func (s *Service) Film(ctx context.Context, filmID int64) (models.Film, error) {
	if filmID <= 0 {
		return models.Film{}, domain.BadParameter("id", filmID)
	}

	rows, err := s.films.RowsByID(ctx, filmID)
	if err != nil {
		return models.Film{}, fmt.Errorf("load film rows: %w", err)
	}

	film, ok := CollapseOne(rows)
	if !ok {
		return models.Film{}, domain.NotFound(domain.KindFilm, filmID)
	}
	return film, nil
}

// Films lists every film. An empty catalogue is not an error.
func (s *Service) Films(ctx context.Context) ([]models.Film, error) {
	rows, err := s.films.AllRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load film rows: %w", err)
	}
	return Collapse(rows), nil
}

// AddLike records a like after checking that both the film and the user
// exist. Re-liking an already liked film is a no-op; the feed event is
// emitted either way, matching the original behavior.
func (s *Service) AddLike(ctx context.Context, filmID, userID int64) error {
	if filmID <= 0 {
		return domain.BadParameter("filmId", filmID)
	}
	if userID <= 0 {
		return domain.BadParameter("userId", userID)
	}

	if _, err := s.Film(ctx, filmID); err != nil {
		return err
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(domain.KindUser, userID)
		}
		return fmt.Errorf("load user: %w", err)
	}

	if err := s.likes.Add(ctx, filmID, userID); err != nil {
		return fmt.Errorf("add like: %w", err)
	}

	s.emitFeed(ctx, userID, models.EventLike, models.OperationAdd, filmID)
	return nil
}

// DeleteLike removes a like; a missing row is reported as not found.
func (s *Service) DeleteLike(ctx context.Context, filmID, userID int64) error {
	if filmID <= 0 {
		return domain.BadParameter("filmId", filmID)
	}
	if userID <= 0 {
		return domain.BadParameter("userId", userID)
	}

	removed, err := s.likes.Remove(ctx, filmID, userID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if !removed {
		return domain.NoLike(filmID, userID)
	}

	s.emitFeed(ctx, userID, models.EventLike, models.OperationRemove, filmID)
	return nil
}

// PopularFilms ranks films by total like count descending, film id ascending
// on ties, optionally restricted to a genre and a release year.
func (s *Service) PopularFilms(ctx context.Context, count int, genreID, year int64) ([]models.Film, error) {
	if count <= 0 {
		return nil, domain.BadParameter("count", int64(count))
	}
	if genreID < 0 {
		return nil, domain.BadParameter("genreId", genreID)
	}
	if year < 0 {
		return nil, domain.BadParameter("year", year)
	}

	entries, err := s.films.PopularEntries(ctx, genreID, year)
	if err != nil {
		return nil, fmt.Errorf("load popularity entries: %w", err)
	}

	SortByLikes(entries)
	entries = Truncate(entries, count)

	return s.filmsInOrder(ctx, entries)
}

// CommonFilms lists the films liked by both users, most liked first. The
// like counts used for ranking span all users, not just the two compared.
func (s *Service) CommonFilms(ctx context.Context, userID, friendID int64) ([]models.Film, error) {
	if userID <= 0 {
		return nil, domain.BadParameter("userId", userID)
	}
	if friendID <= 0 {
		return nil, domain.BadParameter("friendId", friendID)
	}
	if userID == friendID {
		return nil, domain.Validation("userId and friendId must differ")
	}

	mine, err := s.likes.FilmsLikedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load likes of user %d: %w", userID, err)
	}
	theirs, err := s.likes.FilmsLikedBy(ctx, friendID)
	if err != nil {
		return nil, fmt.Errorf("load likes of user %d: %w", friendID, err)
	}

	common := intersect(mine, theirs)
	if len(common) == 0 {
		return nil, nil
	}

	entries, err := s.likes.Counts(ctx, common)
	if err != nil {
		return nil, fmt.Errorf("load like counts: %w", err)
	}

	SortByLikes(entries)
	return s.filmsInOrder(ctx, entries)
}

// DirectorFilms lists a director's films sorted by release year ascending or
// like count descending.
func (s *Service) DirectorFilms(ctx context.Context, directorID int64, sortBy string) ([]models.Film, error) {
	if directorID <= 0 {
		return nil, domain.BadParameter("directorId", directorID)
	}

	// The catalog reports a missing director as a typed not-found error.
	if _, err := s.directors.Director(ctx, directorID); err != nil {
		return nil, err
	}

	entries, err := s.films.DirectorEntries(ctx, directorID)
	if err != nil {
		return nil, fmt.Errorf("load director entries: %w", err)
	}

	switch sortBy {
	case "year":
		SortByYear(entries)
	case "likes":
		SortByLikes(entries)
	default:
		return nil, &domain.UnsupportedSortError{SortBy: sortBy}
	}

	return s.filmsInOrder(ctx, entries)
}

// SearchFilms matches the query as a substring of the film title and/or a
// director's name, case-insensitively, ordered by like count.
func (s *Service) SearchFilms(ctx context.Context, query string, by []string) ([]models.Film, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.Validation("search query must not be empty")
	}

	byTitle, byDirector := false, false
	if len(by) == 0 {
		byTitle = true
	}
	for _, field := range by {
		switch strings.TrimSpace(field) {
		case "title":
			byTitle = true
		case "director":
			byDirector = true
		default:
			return nil, domain.Validation("unknown search field %q", field)
		}
	}

	entries, err := s.films.SearchEntries(ctx, query, byTitle, byDirector)
	if err != nil {
		return nil, fmt.Errorf("search films: %w", err)
	}

	SortByLikes(entries)
	return s.filmsInOrder(ctx, entries)
}

// SetPoster stores a poster image for the film and records its public URL.
func (s *Service) SetPoster(ctx context.Context, filmID int64, r io.Reader) (string, error) {
	if s.posters == nil {
		return "", errors.New("poster storage is not configured")
	}
	if _, err := s.Film(ctx, filmID); err != nil {
		return "", err
	}

	location, err := s.posters.Save(ctx, fmt.Sprintf("posters/%d", filmID), r)
	if err != nil {
		return "", fmt.Errorf("store poster: %w", err)
	}

	if err := s.films.SetPosterURL(ctx, filmID, location); err != nil {
		return "", fmt.Errorf("record poster url: %w", err)
	}
	return location, nil
}

// filmsInOrder resolves ranked entries into full films, preserving the entry
// order.
func (s *Service) filmsInOrder(ctx context.Context, entries []RankEntry) ([]models.Film, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	rows, err := s.films.RowsByIDs(ctx, entryIDs(entries))
	if err != nil {
		return nil, fmt.Errorf("load film rows: %w", err)
	}
	return orderFilms(Collapse(rows), entryIDs(entries)), nil
}

func (s *Service) validateRefs(ctx context.Context, film models.Film) error {
	if film.Mpa.ID > 0 {
		if _, err := s.mpa.Mpa(ctx, film.Mpa.ID); err != nil {
			if domain.IsNotFound(err) {
				return domain.Validation("mpa rating with id=%d does not exist", film.Mpa.ID)
			}
			return err
		}
	}

	if len(film.Genres) > 0 {
		known, err := s.genres.Genres(ctx)
		if err != nil {
			return fmt.Errorf("load genres: %w", err)
		}
		knownIDs := make(map[int64]struct{}, len(known))
		for _, genre := range known {
			knownIDs[genre.ID] = struct{}{}
		}
		for _, genre := range film.Genres {
			if _, ok := knownIDs[genre.ID]; !ok {
				return domain.Validation("genre with id=%d does not exist", genre.ID)
			}
		}
	}

	for _, director := range film.Directors {
		if _, err := s.directors.Director(ctx, director.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) emitFeed(ctx context.Context, userID int64, eventType, operation string, entityID int64) {
	if s.feed == nil {
		return
	}
	event := models.FeedEvent{
		UserID:    userID,
		EventType: eventType,
		Operation: operation,
		EntityID:  entityID,
		Timestamp: s.nowFunc(),
	}
	if err := s.feed.Append(ctx, event); err != nil {
		logging.FromContext(ctx).Warn("append feed event", "userId", userID, "eventType", eventType, "error", err)
	}
}

func intersect(a, b []int64) []int64 {
	inA := make(map[int64]struct{}, len(a))
	for _, id := range a {
		inA[id] = struct{}{}
	}

	var out []int64
	seen := make(map[int64]struct{}, len(b))
	for _, id := range b {
		if _, ok := inA[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
