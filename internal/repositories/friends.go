package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reelmates/backend/internal/db"
	"github.com/reelmates/backend/internal/domain"
	"github.com/reelmates/backend/internal/models"
	"github.com/reelmates/backend/internal/users"
)

// PostgresFriendRepository provides PostgreSQL-backed persistence for friend
// edges.
type PostgresFriendRepository struct {
	pool db.Pool
}

// NewPostgresFriendRepository constructs a friend repository backed by
// PostgreSQL.
func NewPostgresFriendRepository(pool db.Pool) *PostgresFriendRepository {
	return &PostgresFriendRepository{pool: pool}
}

// edgeMutateAttempts bounds the retry loop in Mutate.
const edgeMutateAttempts = 3

// Mutate loads the pair's edge inside a transaction with a FOR UPDATE lock,
// applies the mutation fn computes and commits. The lock serializes
// concurrent mutations of an existing pair; two first-time inserts race past
// the empty read, so the pair index rejects the loser and the whole
// transaction is retried against the winner's committed edge. Serialization
// aborts retry the same way.
func (r *PostgresFriendRepository) Mutate(ctx context.Context, a, b int64, fn func(current *models.FriendEdge) models.EdgeMutation) (models.EdgeMutation, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.EdgeMutation{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var lastErr error
	for attempt := 0; attempt < edgeMutateAttempts; attempt++ {
		mutation, err := r.mutateOnce(ctx, conn, a, b, fn)
		if err == nil {
			return mutation, nil
		}
		if !retryableEdgeError(err) {
			return models.EdgeMutation{}, err
		}
		lastErr = err
	}
	return models.EdgeMutation{}, lastErr
}

func retryableEdgeError(err error) bool {
	if errors.Is(err, domain.ErrConflict) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

func (r *PostgresFriendRepository) mutateOnce(ctx context.Context, conn *pgxpool.Conn, a, b int64, fn func(current *models.FriendEdge) models.EdgeMutation) (models.EdgeMutation, error) {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return models.EdgeMutation{}, fmt.Errorf("begin edge mutation: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
        SELECT owner_id, target_id, confirmed
        FROM friends
        WHERE (owner_id = $1 AND target_id = $2) OR (owner_id = $2 AND target_id = $1)
        FOR UPDATE
    `, a, b)

	var current *models.FriendEdge
	var edge models.FriendEdge
	switch err := row.Scan(&edge.OwnerID, &edge.TargetID, &edge.Confirmed); {
	case err == nil:
		current = &edge
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return models.EdgeMutation{}, fmt.Errorf("select friend edge: %w", err)
	}

	mutation := fn(current)

	if mutation.DeletePair {
		if _, err := tx.Exec(ctx, `
            DELETE FROM friends
            WHERE (owner_id = $1 AND target_id = $2) OR (owner_id = $2 AND target_id = $1)
        `, a, b); err != nil {
			return models.EdgeMutation{}, fmt.Errorf("delete friend edge: %w", err)
		}
	}

	if mutation.Confirm != nil {
		if _, err := tx.Exec(ctx, `
            UPDATE friends SET confirmed = TRUE WHERE owner_id = $1 AND target_id = $2
        `, mutation.Confirm.OwnerID, mutation.Confirm.TargetID); err != nil {
			return models.EdgeMutation{}, fmt.Errorf("confirm friend edge: %w", err)
		}
	}

	if mutation.Insert != nil {
		if _, err := tx.Exec(ctx, `
            INSERT INTO friends (owner_id, target_id, confirmed) VALUES ($1, $2, FALSE)
        `, mutation.Insert.OwnerID, mutation.Insert.TargetID); err != nil {
			return models.EdgeMutation{}, classifyWriteError("insert friend edge", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.EdgeMutation{}, fmt.Errorf("commit edge mutation: %w", err)
	}
	return mutation, nil
}

// FriendIDs returns the ids of everyone the user considers a friend: targets
// of edges the user owns, in any status, plus owners of confirmed edges
// pointing at the user.
func (r *PostgresFriendRepository) FriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT friend_id FROM (
            SELECT target_id AS friend_id FROM friends WHERE owner_id = $1
            UNION
            SELECT owner_id AS friend_id FROM friends WHERE target_id = $1 AND confirmed
        ) edges
        ORDER BY friend_id
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query friend ids: %w", err)
	}
	defer rows.Close()

	var friendIDs []int64
	for rows.Next() {
		var friendID int64
		if err := rows.Scan(&friendID); err != nil {
			return nil, fmt.Errorf("scan friend id: %w", err)
		}
		friendIDs = append(friendIDs, friendID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friend ids: %w", err)
	}
	return friendIDs, nil
}

var _ users.EdgeStore = (*PostgresFriendRepository)(nil)
