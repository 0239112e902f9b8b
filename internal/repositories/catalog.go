package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/reelmates/backend/internal/catalog"
	"github.com/reelmates/backend/internal/db"
	"github.com/reelmates/backend/internal/domain"
	"github.com/reelmates/backend/internal/models"
)

// PostgresGenreRepository reads the genres reference table.
type PostgresGenreRepository struct {
	pool db.Pool
}

// NewPostgresGenreRepository constructs a genre repository backed by
// PostgreSQL.
func NewPostgresGenreRepository(pool db.Pool) *PostgresGenreRepository {
	return &PostgresGenreRepository{pool: pool}
}

// All returns every genre ordered by id.
func (r *PostgresGenreRepository) All(ctx context.Context) ([]models.Genre, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT id, name FROM genres ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query genres: %w", err)
	}
	defer rows.Close()

	var genres []models.Genre
	for rows.Next() {
		var genre models.Genre
		if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genres: %w", err)
	}
	return genres, nil
}

// Get fetches one genre by id.
func (r *PostgresGenreRepository) Get(ctx context.Context, genreID int64) (models.Genre, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Genre{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var genre models.Genre
	err = conn.QueryRow(ctx, `SELECT id, name FROM genres WHERE id = $1`, genreID).
		Scan(&genre.ID, &genre.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Genre{}, domain.ErrNotFound
		}
		return models.Genre{}, fmt.Errorf("select genre: %w", err)
	}
	return genre, nil
}

// PostgresMpaRepository reads the MPA ratings reference table.
type PostgresMpaRepository struct {
	pool db.Pool
}

// NewPostgresMpaRepository constructs an MPA repository backed by PostgreSQL.
func NewPostgresMpaRepository(pool db.Pool) *PostgresMpaRepository {
	return &PostgresMpaRepository{pool: pool}
}

// All returns every MPA rating ordered by id.
func (r *PostgresMpaRepository) All(ctx context.Context) ([]models.MPA, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT id, name FROM mpa_ratings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query mpa ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.MPA
	for rows.Next() {
		var rating models.MPA
		if err := rows.Scan(&rating.ID, &rating.Name); err != nil {
			return nil, fmt.Errorf("scan mpa rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mpa ratings: %w", err)
	}
	return ratings, nil
}

// Get fetches one MPA rating by id.
func (r *PostgresMpaRepository) Get(ctx context.Context, mpaID int64) (models.MPA, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.MPA{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var rating models.MPA
	err = conn.QueryRow(ctx, `SELECT id, name FROM mpa_ratings WHERE id = $1`, mpaID).
		Scan(&rating.ID, &rating.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MPA{}, domain.ErrNotFound
		}
		return models.MPA{}, fmt.Errorf("select mpa rating: %w", err)
	}
	return rating, nil
}

// PostgresDirectorRepository provides PostgreSQL-backed persistence for
// directors.
type PostgresDirectorRepository struct {
	pool db.Pool
}

// NewPostgresDirectorRepository constructs a director repository backed by
// PostgreSQL.
func NewPostgresDirectorRepository(pool db.Pool) *PostgresDirectorRepository {
	return &PostgresDirectorRepository{pool: pool}
}

// Insert persists a new director and returns its generated id.
func (r *PostgresDirectorRepository) Insert(ctx context.Context, director models.Director) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var directorID int64
	err = conn.QueryRow(ctx, `
        INSERT INTO directors (name) VALUES ($1) RETURNING id
    `, director.Name).Scan(&directorID)
	if err != nil {
		return 0, classifyWriteError("insert director", err)
	}
	return directorID, nil
}

// Update modifies an existing director.
func (r *PostgresDirectorRepository) Update(ctx context.Context, director models.Director) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `UPDATE directors SET name = $2 WHERE id = $1`, director.ID, director.Name)
	if err != nil {
		return classifyWriteError("update director", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a director; film links cascade.
func (r *PostgresDirectorRepository) Delete(ctx context.Context, directorID int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM directors WHERE id = $1`, directorID)
	if err != nil {
		return fmt.Errorf("delete director: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Get fetches one director by id.
func (r *PostgresDirectorRepository) Get(ctx context.Context, directorID int64) (models.Director, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Director{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var director models.Director
	err = conn.QueryRow(ctx, `SELECT id, name FROM directors WHERE id = $1`, directorID).
		Scan(&director.ID, &director.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Director{}, domain.ErrNotFound
		}
		return models.Director{}, fmt.Errorf("select director: %w", err)
	}
	return director, nil
}

// All returns every director ordered by id.
func (r *PostgresDirectorRepository) All(ctx context.Context) ([]models.Director, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT id, name FROM directors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query directors: %w", err)
	}
	defer rows.Close()

	var directors []models.Director
	for rows.Next() {
		var director models.Director
		if err := rows.Scan(&director.ID, &director.Name); err != nil {
			return nil, fmt.Errorf("scan director: %w", err)
		}
		directors = append(directors, director)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate directors: %w", err)
	}
	return directors, nil
}

var _ catalog.GenreStore = (*PostgresGenreRepository)(nil)
var _ catalog.MpaStore = (*PostgresMpaRepository)(nil)
var _ catalog.DirectorStore = (*PostgresDirectorRepository)(nil)
