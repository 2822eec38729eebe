package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/resolveapp/resolve/internal/models"
	"github.com/resolveapp/resolve/internal/storage"
)

// CreateFriendship persists a new friendship record.
func (s *SQLiteStore) CreateFriendship(ctx context.Context, friendship *models.Friendship) error {
	if friendship.ID == "" {
		friendship.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if friendship.CreatedAt == 0 {
		friendship.CreatedAt = now
	}
	if friendship.UpdatedAt == 0 {
		friendship.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO friendships (id, requester_id, recipient_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		friendship.ID, friendship.RequesterID, friendship.RecipientID,
		friendship.Status, friendship.CreatedAt, friendship.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert friendship: %w", err)
	}

	return nil
}

// GetFriendship retrieves a friendship by ID.
func (s *SQLiteStore) GetFriendship(ctx context.Context, id string) (*models.Friendship, error) {
	friendship := &models.Friendship{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, requester_id, recipient_id, status, created_at, updated_at
		 FROM friendships WHERE id = ?`,
		id,
	).Scan(&friendship.ID, &friendship.RequesterID, &friendship.RecipientID,
		&friendship.Status, &friendship.CreatedAt, &friendship.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}

	return friendship, nil
}

// GetFriendshipBetween finds the friendship between two users in either
// direction. Returns (nil, nil) when none exists.
func (s *SQLiteStore) GetFriendshipBetween(ctx context.Context, userA, userB string) (*models.Friendship, error) {
	friendship := &models.Friendship{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, requester_id, recipient_id, status, created_at, updated_at
		 FROM friendships
		 WHERE (requester_id = ? AND recipient_id = ?)
		    OR (requester_id = ? AND recipient_id = ?)`,
		userA, userB, userB, userA,
	).Scan(&friendship.ID, &friendship.RequesterID, &friendship.RecipientID,
		&friendship.Status, &friendship.CreatedAt, &friendship.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship between users: %w", err)
	}

	return friendship, nil
}

// UpdateFriendshipStatus sets the status of a friendship.
func (s *SQLiteStore) UpdateFriendshipStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE friendships SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update friendship status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check friendship update: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// ListFriendships returns all friendships involving the user, most recent
// first.
func (s *SQLiteStore) ListFriendships(ctx context.Context, userID string) ([]*models.Friendship, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, requester_id, recipient_id, status, created_at, updated_at
		 FROM friendships
		 WHERE requester_id = ? OR recipient_id = ?
		 ORDER BY created_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}
	defer rows.Close()

	var friendships []*models.Friendship
	for rows.Next() {
		friendship := &models.Friendship{}
		if err := rows.Scan(&friendship.ID, &friendship.RequesterID, &friendship.RecipientID,
			&friendship.Status, &friendship.CreatedAt, &friendship.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friendship: %w", err)
		}
		friendships = append(friendships, friendship)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friendships: %w", err)
	}

	return friendships, nil
}
