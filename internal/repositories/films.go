package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reelmates/backend/internal/db"
	"github.com/reelmates/backend/internal/domain"
	"github.com/reelmates/backend/internal/films"
	"github.com/reelmates/backend/internal/models"
)

// filmRowColumns is the flat listing join shared by every film read. One row
// per film × genre × director combination; the aggregation layer collapses
// the duplicates.
const filmRowColumns = `
        SELECT f.id, f.name, f.description, f.release_date, f.duration, f.rate, f.poster_url,
               r.id, r.name,
               g.id, g.name,
               d.id, d.name
        FROM films f
        LEFT JOIN mpa_ratings r ON r.id = f.rating_id
        LEFT JOIN films_genres fg ON fg.film_id = f.id
        LEFT JOIN genres g ON g.id = fg.genre_id
        LEFT JOIN films_directors fd ON fd.film_id = f.id
        LEFT JOIN directors d ON d.id = fd.director_id
`

// PostgresFilmRepository provides PostgreSQL-backed persistence for films.
type PostgresFilmRepository struct {
	pool db.Pool
}

// NewPostgresFilmRepository constructs a film repository backed by PostgreSQL.
func NewPostgresFilmRepository(pool db.Pool) *PostgresFilmRepository {
	return &PostgresFilmRepository{pool: pool}
}

// Insert persists a new film together with its genre and director links.
func (r *PostgresFilmRepository) Insert(ctx context.Context, film models.Film) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin insert film: %w", err)
	}
	defer tx.Rollback(ctx)

	var filmID int64
	err = tx.QueryRow(ctx, `
        INSERT INTO films (name, description, release_date, duration, rate, rating_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, film.Name, film.Description, film.ReleaseDate, film.Duration, film.Rate, nullableID(film.Mpa.ID)).Scan(&filmID)
	if err != nil {
		return 0, classifyWriteError("insert film", err)
	}

	if err := insertFilmLinks(ctx, tx, filmID, film); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit insert film: %w", err)
	}
	return filmID, nil
}

// Update rewrites the film's scalar fields and replaces its genre and
// director links.
func (r *PostgresFilmRepository) Update(ctx context.Context, film models.Film) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update film: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
        UPDATE films
        SET name = $2, description = $3, release_date = $4, duration = $5, rate = $6, rating_id = $7
        WHERE id = $1
    `, film.ID, film.Name, film.Description, film.ReleaseDate, film.Duration, film.Rate, nullableID(film.Mpa.ID))
	if err != nil {
		return classifyWriteError("update film", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM films_genres WHERE film_id = $1`, film.ID); err != nil {
		return fmt.Errorf("clear film genres: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM films_directors WHERE film_id = $1`, film.ID); err != nil {
		return fmt.Errorf("clear film directors: %w", err)
	}
	if err := insertFilmLinks(ctx, tx, film.ID, film); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update film: %w", err)
	}
	return nil
}

// Delete removes a film; dependent rows go with it via cascading constraints.
func (r *PostgresFilmRepository) Delete(ctx context.Context, filmID int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM films WHERE id = $1`, filmID)
	if err != nil {
		return fmt.Errorf("delete film: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RowsByID returns the flat listing rows for one film.
func (r *PostgresFilmRepository) RowsByID(ctx context.Context, filmID int64) ([]films.Row, error) {
	return r.queryRows(ctx, filmRowColumns+` WHERE f.id = $1 ORDER BY g.id, d.id`, filmID)
}

// RowsByIDs returns the flat listing rows for the given films, ordered by id.
func (r *PostgresFilmRepository) RowsByIDs(ctx context.Context, filmIDs []int64) ([]films.Row, error) {
	if len(filmIDs) == 0 {
		return nil, nil
	}
	return r.queryRows(ctx, filmRowColumns+` WHERE f.id = ANY($1) ORDER BY f.id, g.id, d.id`, filmIDs)
}

// AllRows returns the flat listing rows for the whole catalogue.
func (r *PostgresFilmRepository) AllRows(ctx context.Context) ([]films.Row, error) {
	return r.queryRows(ctx, filmRowColumns+` ORDER BY f.id, g.id, d.id`)
}

// PopularEntries returns every film matching the optional genre and release
// year filters together with its aggregate like count. Ordering is left to
// the caller.
func (r *PostgresFilmRepository) PopularEntries(ctx context.Context, genreID, year int64) ([]films.RankEntry, error) {
	return r.queryEntries(ctx, `
        SELECT f.id, COALESCE(lc.like_count, 0), EXTRACT(YEAR FROM f.release_date)::INT
        FROM films f
        LEFT JOIN (
            SELECT film_id, COUNT(*) AS like_count FROM likes GROUP BY film_id
        ) lc ON lc.film_id = f.id
        WHERE ($1 = 0 OR EXISTS (
                SELECT 1 FROM films_genres fg WHERE fg.film_id = f.id AND fg.genre_id = $1
        ))
          AND ($2 = 0 OR EXTRACT(YEAR FROM f.release_date) = $2)
    `, genreID, year)
}

// DirectorEntries returns the director's films with like counts and release
// years.
func (r *PostgresFilmRepository) DirectorEntries(ctx context.Context, directorID int64) ([]films.RankEntry, error) {
	return r.queryEntries(ctx, `
        SELECT f.id, COALESCE(lc.like_count, 0), EXTRACT(YEAR FROM f.release_date)::INT
        FROM films f
        JOIN films_directors fd ON fd.film_id = f.id AND fd.director_id = $1
        LEFT JOIN (
            SELECT film_id, COUNT(*) AS like_count FROM likes GROUP BY film_id
        ) lc ON lc.film_id = f.id
    `, directorID)
}

// SearchEntries matches the query case-insensitively against film titles
// and/or director names.
func (r *PostgresFilmRepository) SearchEntries(ctx context.Context, query string, byTitle, byDirector bool) ([]films.RankEntry, error) {
	return r.queryEntries(ctx, `
        SELECT f.id, COALESCE(lc.like_count, 0), EXTRACT(YEAR FROM f.release_date)::INT
        FROM films f
        LEFT JOIN (
            SELECT film_id, COUNT(*) AS like_count FROM likes GROUP BY film_id
        ) lc ON lc.film_id = f.id
        WHERE ($2 AND f.name ILIKE '%' || $1 || '%')
           OR ($3 AND EXISTS (
                SELECT 1
                FROM films_directors fd
                JOIN directors d ON d.id = fd.director_id
                WHERE fd.film_id = f.id AND d.name ILIKE '%' || $1 || '%'
        ))
    `, query, byTitle, byDirector)
}

// SetPosterURL records the public location of the film's poster image.
func (r *PostgresFilmRepository) SetPosterURL(ctx context.Context, filmID int64, url string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `UPDATE films SET poster_url = $2 WHERE id = $1`, filmID, url)
	if err != nil {
		return fmt.Errorf("update film poster url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresFilmRepository) queryRows(ctx context.Context, query string, args ...any) ([]films.Row, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query film rows: %w", err)
	}
	defer rows.Close()

	var out []films.Row
	for rows.Next() {
		row, err := scanFilmRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate film rows: %w", err)
	}
	return out, nil
}

func (r *PostgresFilmRepository) queryEntries(ctx context.Context, query string, args ...any) ([]films.RankEntry, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rank entries: %w", err)
	}
	defer rows.Close()

	var out []films.RankEntry
	for rows.Next() {
		var entry films.RankEntry
		if err := rows.Scan(&entry.FilmID, &entry.Likes, &entry.Year); err != nil {
			return nil, fmt.Errorf("scan rank entry: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rank entries: %w", err)
	}
	return out, nil
}

func scanFilmRow(rows pgx.Rows) (films.Row, error) {
	var (
		row       films.Row
		posterURL sql.NullString
		mpaID     sql.NullInt64
		mpaName   sql.NullString
		genreID   sql.NullInt64
		genreName sql.NullString
		dirID     sql.NullInt64
		dirName   sql.NullString
	)

	err := rows.Scan(
		&row.Film.ID, &row.Film.Name, &row.Film.Description, &row.Film.ReleaseDate,
		&row.Film.Duration, &row.Film.Rate, &posterURL,
		&mpaID, &mpaName,
		&genreID, &genreName,
		&dirID, &dirName,
	)
	if err != nil {
		return films.Row{}, fmt.Errorf("scan film row: %w", err)
	}

	row.Film.PosterURL = posterURL.String
	if mpaID.Valid {
		row.Film.Mpa = models.MPA{ID: mpaID.Int64, Name: mpaName.String}
	}
	if genreID.Valid {
		row.Genre = &models.Genre{ID: genreID.Int64, Name: genreName.String}
	}
	if dirID.Valid {
		row.Director = &models.Director{ID: dirID.Int64, Name: dirName.String}
	}
	return row, nil
}

func insertFilmLinks(ctx context.Context, tx pgx.Tx, filmID int64, film models.Film) error {
	seenGenres := make(map[int64]struct{}, len(film.Genres))
	for _, genre := range film.Genres {
		if _, dup := seenGenres[genre.ID]; dup {
			continue
		}
		seenGenres[genre.ID] = struct{}{}
		if _, err := tx.Exec(ctx, `
            INSERT INTO films_genres (film_id, genre_id) VALUES ($1, $2)
        `, filmID, genre.ID); err != nil {
			return classifyWriteError("insert film genre", err)
		}
	}

	seenDirectors := make(map[int64]struct{}, len(film.Directors))
	for _, director := range film.Directors {
		if _, dup := seenDirectors[director.ID]; dup {
			continue
		}
		seenDirectors[director.ID] = struct{}{}
		if _, err := tx.Exec(ctx, `
            INSERT INTO films_directors (film_id, director_id) VALUES ($1, $2)
        `, filmID, director.ID); err != nil {
			return classifyWriteError("insert film director", err)
		}
	}
	return nil
}

func nullableID(id int64) any {
	if id <= 0 {
		return nil
	}
	return id
}

func classifyWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return domain.ErrConflict
		case "23503":
			return domain.ErrNotFound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ films.FilmStore = (*PostgresFilmRepository)(nil)
