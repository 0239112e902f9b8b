package repositories

import (
	"context"
	"fmt"

	"github.com/reelmates/backend/internal/db"
	"github.com/reelmates/backend/internal/films"
	"github.com/reelmates/backend/internal/models"
)

// PostgresLikeRepository provides PostgreSQL-backed persistence for likes.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// Add upserts the like. The primary key on (film_id, user_id) makes the
// insert atomic under concurrent calls; an existing pair is a no-op.
func (r *PostgresLikeRepository) Add(ctx context.Context, filmID, userID int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO likes (film_id, user_id) VALUES ($1, $2)
        ON CONFLICT (film_id, user_id) DO NOTHING
    `, filmID, userID)
	if err != nil {
		return classifyWriteError("insert like", err)
	}
	return nil
}

// Remove deletes the like and reports whether a row existed.
func (r *PostgresLikeRepository) Remove(ctx context.Context, filmID, userID int64) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM likes WHERE film_id = $1 AND user_id = $2`, filmID, userID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// FilmsLikedBy lists the ids of every film the user has liked.
func (r *PostgresLikeRepository) FilmsLikedBy(ctx context.Context, userID int64) ([]int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT film_id FROM likes WHERE user_id = $1 ORDER BY film_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query likes of user: %w", err)
	}
	defer rows.Close()

	var filmIDs []int64
	for rows.Next() {
		var filmID int64
		if err := rows.Scan(&filmID); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		filmIDs = append(filmIDs, filmID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate likes of user: %w", err)
	}
	return filmIDs, nil
}

// All returns every like row.
func (r *PostgresLikeRepository) All(ctx context.Context) ([]models.Like, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT film_id, user_id FROM likes`)
	if err != nil {
		return nil, fmt.Errorf("query likes: %w", err)
	}
	defer rows.Close()

	var likes []models.Like
	for rows.Next() {
		var like models.Like
		if err := rows.Scan(&like.FilmID, &like.UserID); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		likes = append(likes, like)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate likes: %w", err)
	}
	return likes, nil
}

// Counts returns the aggregate like count for each of the given films.
func (r *PostgresLikeRepository) Counts(ctx context.Context, filmIDs []int64) ([]films.RankEntry, error) {
	if len(filmIDs) == 0 {
		return nil, nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT film_id, COUNT(*) FROM likes WHERE film_id = ANY($1) GROUP BY film_id
    `, filmIDs)
	if err != nil {
		return nil, fmt.Errorf("query like counts: %w", err)
	}
	defer rows.Close()

	var entries []films.RankEntry
	for rows.Next() {
		var entry films.RankEntry
		if err := rows.Scan(&entry.FilmID, &entry.Likes); err != nil {
			return nil, fmt.Errorf("scan like count: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate like counts: %w", err)
	}
	return entries, nil
}

var _ films.LikeStore = (*PostgresLikeRepository)(nil)
