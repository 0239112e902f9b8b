package repositories

import (
	"context"
	"fmt"

	"github.com/reelmates/backend/internal/db"
	"github.com/reelmates/backend/internal/films"
	"github.com/reelmates/backend/internal/models"
	"github.com/reelmates/backend/internal/users"
)

// PostgresFeedRepository appends and reads activity feed rows. The feed is
// append-only; nothing in the core ever updates or deletes an event.
type PostgresFeedRepository struct {
	pool db.Pool
}

// NewPostgresFeedRepository constructs a feed repository backed by
// PostgreSQL.
func NewPostgresFeedRepository(pool db.Pool) *PostgresFeedRepository {
	return &PostgresFeedRepository{pool: pool}
}

// Append inserts one feed event.
func (r *PostgresFeedRepository) Append(ctx context.Context, event models.FeedEvent) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO feed (user_id, event_type, operation, entity_id, event_timestamp)
        VALUES ($1, $2, $3, $4, $5)
    `, event.UserID, event.EventType, event.Operation, event.EntityID, event.Timestamp)
	if err != nil {
		return classifyWriteError("insert feed event", err)
	}
	return nil
}

// ForUser returns the user's events oldest first.
func (r *PostgresFeedRepository) ForUser(ctx context.Context, userID int64) ([]models.FeedEvent, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT event_id, user_id, event_type, operation, entity_id, event_timestamp
        FROM feed
        WHERE user_id = $1
        ORDER BY event_timestamp, event_id
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query feed: %w", err)
	}
	defer rows.Close()

	var events []models.FeedEvent
	for rows.Next() {
		var event models.FeedEvent
		if err := rows.Scan(&event.EventID, &event.UserID, &event.EventType, &event.Operation, &event.EntityID, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("scan feed event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed: %w", err)
	}
	return events, nil
}

var _ users.FeedStore = (*PostgresFeedRepository)(nil)
var _ films.FeedSink = (*PostgresFeedRepository)(nil)
