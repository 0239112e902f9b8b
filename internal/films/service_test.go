package films

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/reelmates/backend/internal/domain"
	"github.com/reelmates/backend/internal/models"
)

type stubFilmStore struct {
	insertID  int64
	insertErr error
	updateErr error
	deleteErr error

	rows       map[int64][]Row
	popular    []RankEntry
	byDirector []RankEntry
	search     []RankEntry

	lastQuery      string
	lastByTitle    bool
	lastByDirector bool
	posterURL      string
}

func (s *stubFilmStore) Insert(context.Context, models.Film) (int64, error) {
	return s.insertID, s.insertErr
}

func (s *stubFilmStore) Update(context.Context, models.Film) error { return s.updateErr }

func (s *stubFilmStore) Delete(context.Context, int64) error { return s.deleteErr }

func (s *stubFilmStore) RowsByID(_ context.Context, filmID int64) ([]Row, error) {
	return s.rows[filmID], nil
}

func (s *stubFilmStore) RowsByIDs(_ context.Context, filmIDs []int64) ([]Row, error) {
	rows := make([]Row, 0, len(filmIDs))
	for _, id := range filmIDs {
		if stored, ok := s.rows[id]; ok {
			rows = append(rows, stored...)
			continue
		}
		rows = append(rows, Row{Film: models.Film{ID: id}})
	}
	return rows, nil
}

func (s *stubFilmStore) AllRows(_ context.Context) ([]Row, error) {
	ids := make([]int64, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var rows []Row
	for _, id := range ids {
		rows = append(rows, s.rows[id]...)
	}
	return rows, nil
}

func (s *stubFilmStore) PopularEntries(context.Context, int64, int64) ([]RankEntry, error) {
	return s.popular, nil
}

func (s *stubFilmStore) DirectorEntries(context.Context, int64) ([]RankEntry, error) {
	return s.byDirector, nil
}

func (s *stubFilmStore) SearchEntries(_ context.Context, query string, byTitle, byDirector bool) ([]RankEntry, error) {
	s.lastQuery = query
	s.lastByTitle = byTitle
	s.lastByDirector = byDirector
	return s.search, nil
}

func (s *stubFilmStore) SetPosterURL(_ context.Context, _ int64, url string) error {
	s.posterURL = url
	return nil
}

type fakeLikeStore struct {
	added   []models.Like
	removed bool
	byUser  map[int64][]int64
	counts  []RankEntry
}

func (s *fakeLikeStore) Add(_ context.Context, filmID, userID int64) error {
	s.added = append(s.added, models.Like{FilmID: filmID, UserID: userID})
	return nil
}

func (s *fakeLikeStore) Remove(context.Context, int64, int64) (bool, error) {
	return s.removed, nil
}

func (s *fakeLikeStore) FilmsLikedBy(_ context.Context, userID int64) ([]int64, error) {
	return s.byUser[userID], nil
}

func (s *fakeLikeStore) All(context.Context) ([]models.Like, error) {
	var out []models.Like
	for userID, films := range s.byUser {
		for _, filmID := range films {
			out = append(out, models.Like{FilmID: filmID, UserID: userID})
		}
	}
	return out, nil
}

func (s *fakeLikeStore) Counts(context.Context, []int64) ([]RankEntry, error) {
	return s.counts, nil
}

type fakeUserLookup struct {
	users map[int64]models.User
}

func (s *fakeUserLookup) Get(_ context.Context, userID int64) (models.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return models.User{}, domain.ErrNotFound
	}
	return user, nil
}

type stubGenreCatalog struct {
	genres []models.Genre
}

func (s *stubGenreCatalog) Genres(context.Context) ([]models.Genre, error) {
	return s.genres, nil
}

type stubMpaCatalog struct {
	known map[int64]models.MPA
}

func (s *stubMpaCatalog) Mpa(_ context.Context, mpaID int64) (models.MPA, error) {
	rating, ok := s.known[mpaID]
	if !ok {
		return models.MPA{}, domain.NotFound(domain.KindMpa, mpaID)
	}
	return rating, nil
}

type stubDirectorCatalog struct {
	known map[int64]models.Director
}

func (s *stubDirectorCatalog) Director(_ context.Context, directorID int64) (models.Director, error) {
	director, ok := s.known[directorID]
	if !ok {
		return models.Director{}, domain.NotFound(domain.KindDirector, directorID)
	}
	return director, nil
}

type captureFeed struct {
	events []models.FeedEvent
	err    error
}

func (s *captureFeed) Append(_ context.Context, event models.FeedEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type serviceFixture struct {
	films     *stubFilmStore
	likes     *fakeLikeStore
	users     *fakeUserLookup
	directors *stubDirectorCatalog
	feed      *captureFeed
	service   *Service
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		films:     &stubFilmStore{insertID: 1, rows: map[int64][]Row{}},
		likes:     &fakeLikeStore{byUser: map[int64][]int64{}},
		users:     &fakeUserLookup{users: map[int64]models.User{}},
		directors: &stubDirectorCatalog{known: map[int64]models.Director{}},
		feed:      &captureFeed{},
	}
	f.service = NewService(Deps{
		Films:     f.films,
		Likes:     f.likes,
		Users:     f.users,
		Genres:    &stubGenreCatalog{genres: []models.Genre{{ID: 1, Name: "Comedy"}}},
		Mpa:       &stubMpaCatalog{known: map[int64]models.MPA{1: {ID: 1, Name: "G"}}},
		Directors: f.directors,
		Feed:      f.feed,
		NowFunc:   func() time.Time { return time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC) },
	})
	return f
}

func filmIDs(films []models.Film) []int64 {
	var ids []int64
	for _, film := range films {
		ids = append(ids, film.ID)
	}
	return ids
}

func TestPopularFilmsRanksAndTruncates(t *testing.T) {
	f := newServiceFixture()
	f.films.popular = []RankEntry{
		{FilmID: 3, Likes: 2},
		{FilmID: 1, Likes: 3},
		{FilmID: 2, Likes: 2},
	}

	films, err := f.service.PopularFilms(context.Background(), 2, 0, 0)
	if err != nil {
		t.Fatalf("popular films: %v", err)
	}

	ids := filmIDs(films)
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("expected [1 2], got %v", ids)
	}
}

func TestPopularFilmsRejectsBadParameters(t *testing.T) {
	f := newServiceFixture()

	var badParam *domain.BadParameterError
	if _, err := f.service.PopularFilms(context.Background(), 0, 0, 0); !errors.As(err, &badParam) {
		t.Fatalf("expected bad parameter error for count=0, got %v", err)
	}
	if _, err := f.service.PopularFilms(context.Background(), 10, -1, 0); !errors.As(err, &badParam) {
		t.Fatalf("expected bad parameter error for negative genreId, got %v", err)
	}
}

func TestCommonFilmsRankedByGlobalLikes(t *testing.T) {
	f := newServiceFixture()
	f.likes.byUser = map[int64][]int64{
		1: {1, 2, 3},
		2: {2, 3},
	}
	f.likes.counts = []RankEntry{
		{FilmID: 2, Likes: 5},
		{FilmID: 3, Likes: 7},
	}

	films, err := f.service.CommonFilms(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("common films: %v", err)
	}

	ids := filmIDs(films)
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 2 {
		t.Fatalf("expected [3 2], got %v", ids)
	}
}

func TestCommonFilmsRejectsIdenticalUsers(t *testing.T) {
	f := newServiceFixture()

	var validation *domain.ValidationError
	if _, err := f.service.CommonFilms(context.Background(), 4, 4); !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDirectorFilmsSorting(t *testing.T) {
	f := newServiceFixture()
	f.directors.known[9] = models.Director{ID: 9, Name: "Mara Voss"}
	f.films.byDirector = []RankEntry{
		{FilmID: 1, Likes: 1, Year: 2005},
		{FilmID: 2, Likes: 4, Year: 1999},
	}

	films, err := f.service.DirectorFilms(context.Background(), 9, "likes")
	if err != nil {
		t.Fatalf("director films by likes: %v", err)
	}
	if ids := filmIDs(films); ids[0] != 2 || ids[1] != 1 {
		t.Fatalf("expected [2 1], got %v", ids)
	}

	films, err = f.service.DirectorFilms(context.Background(), 9, "year")
	if err != nil {
		t.Fatalf("director films by year: %v", err)
	}
	if ids := filmIDs(films); ids[0] != 2 || ids[1] != 1 {
		t.Fatalf("expected [2 1], got %v", ids)
	}
}

func TestDirectorFilmsRejectsUnknownSort(t *testing.T) {
	f := newServiceFixture()
	f.directors.known[9] = models.Director{ID: 9, Name: "Mara Voss"}

	var unsupported *domain.UnsupportedSortError
	if _, err := f.service.DirectorFilms(context.Background(), 9, "rating"); !errors.As(err, &unsupported) {
		t.Fatalf("expected unsupported sort error, got %v", err)
	}
}

func TestDirectorFilmsUnknownDirector(t *testing.T) {
	f := newServiceFixture()

	if _, err := f.service.DirectorFilms(context.Background(), 9, "likes"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddLikeRecordsAndEmitsFeedEvent(t *testing.T) {
	f := newServiceFixture()
	f.films.rows[7] = []Row{{Film: models.Film{ID: 7, Name: "Static"}}}
	f.users.users[3] = models.User{ID: 3, Login: "carol"}

	if err := f.service.AddLike(context.Background(), 7, 3); err != nil {
		t.Fatalf("add like: %v", err)
	}

	if len(f.likes.added) != 1 || f.likes.added[0].FilmID != 7 {
		t.Fatalf("expected like recorded, got %+v", f.likes.added)
	}
	if len(f.feed.events) != 1 {
		t.Fatalf("expected one feed event, got %d", len(f.feed.events))
	}
	event := f.feed.events[0]
	if event.EventType != models.EventLike || event.Operation != models.OperationAdd || event.EntityID != 7 {
		t.Fatalf("unexpected feed event %+v", event)
	}
}

func TestAddLikeUnknownFilmOrUser(t *testing.T) {
	f := newServiceFixture()
	f.films.rows[7] = []Row{{Film: models.Film{ID: 7}}}
	f.users.users[3] = models.User{ID: 3}

	if err := f.service.AddLike(context.Background(), 99, 3); !domain.IsNotFound(err) {
		t.Fatalf("expected not found for missing film, got %v", err)
	}
	if err := f.service.AddLike(context.Background(), 7, 99); !domain.IsNotFound(err) {
		t.Fatalf("expected not found for missing user, got %v", err)
	}
}

func TestAddLikeSurvivesFeedFailure(t *testing.T) {
	f := newServiceFixture()
	f.films.rows[7] = []Row{{Film: models.Film{ID: 7}}}
	f.users.users[3] = models.User{ID: 3}
	f.feed.err = errors.New("feed unavailable")

	if err := f.service.AddLike(context.Background(), 7, 3); err != nil {
		t.Fatalf("expected like to succeed despite feed failure, got %v", err)
	}
}

func TestDeleteLikeMissingRow(t *testing.T) {
	f := newServiceFixture()
	f.likes.removed = false

	err := f.service.DeleteLike(context.Background(), 7, 3)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	// The like record is keyed by both ids, so the message must name both.
	if msg := err.Error(); !strings.Contains(msg, "id=7") || !strings.Contains(msg, "id=3") {
		t.Fatalf("expected both ids in message, got %q", msg)
	}
	if len(f.feed.events) != 0 {
		t.Fatalf("expected no feed event, got %d", len(f.feed.events))
	}
}

func TestDeleteLikeEmitsRemoveEvent(t *testing.T) {
	f := newServiceFixture()
	f.likes.removed = true

	if err := f.service.DeleteLike(context.Background(), 7, 3); err != nil {
		t.Fatalf("delete like: %v", err)
	}
	if len(f.feed.events) != 1 || f.feed.events[0].Operation != models.OperationRemove {
		t.Fatalf("expected remove feed event, got %+v", f.feed.events)
	}
}

func TestAddFilmValidatesReferences(t *testing.T) {
	f := newServiceFixture()
	f.films.rows[1] = []Row{{Film: models.Film{ID: 1}}}

	var validation *domain.ValidationError

	bad := models.Film{Name: "Static", Mpa: models.MPA{ID: 99}}
	if _, err := f.service.AddFilm(context.Background(), bad); !errors.As(err, &validation) {
		t.Fatalf("expected validation error for unknown mpa, got %v", err)
	}

	bad = models.Film{Name: "Static", Genres: []models.Genre{{ID: 42}}}
	if _, err := f.service.AddFilm(context.Background(), bad); !errors.As(err, &validation) {
		t.Fatalf("expected validation error for unknown genre, got %v", err)
	}

	bad = models.Film{Name: "Static", Directors: []models.Director{{ID: 8}}}
	if _, err := f.service.AddFilm(context.Background(), bad); !domain.IsNotFound(err) {
		t.Fatalf("expected not found for unknown director, got %v", err)
	}

	good := models.Film{Name: "Static", Mpa: models.MPA{ID: 1}, Genres: []models.Genre{{ID: 1}}}
	if _, err := f.service.AddFilm(context.Background(), good); err != nil {
		t.Fatalf("expected valid film to persist, got %v", err)
	}
}

func TestSearchFilmsFieldSelection(t *testing.T) {
	f := newServiceFixture()

	if _, err := f.service.SearchFilms(context.Background(), "   ", nil); err == nil {
		t.Fatal("expected error for blank query")
	}

	var validation *domain.ValidationError
	if _, err := f.service.SearchFilms(context.Background(), "static", []string{"plot"}); !errors.As(err, &validation) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}

	if _, err := f.service.SearchFilms(context.Background(), "static", nil); err != nil {
		t.Fatalf("search: %v", err)
	}
	if !f.films.lastByTitle || f.films.lastByDirector {
		t.Fatalf("expected default title-only search, got title=%v director=%v", f.films.lastByTitle, f.films.lastByDirector)
	}

	if _, err := f.service.SearchFilms(context.Background(), "voss", []string{"director"}); err != nil {
		t.Fatalf("search by director: %v", err)
	}
	if f.films.lastByTitle || !f.films.lastByDirector {
		t.Fatalf("expected director-only search, got title=%v director=%v", f.films.lastByTitle, f.films.lastByDirector)
	}
}

func TestSetPoster(t *testing.T) {
	f := newServiceFixture()
	f.films.rows[5] = []Row{{Film: models.Film{ID: 5}}}

	if _, err := f.service.SetPoster(context.Background(), 5, strings.NewReader("img")); err == nil {
		t.Fatal("expected error when poster storage is not configured")
	}
}
