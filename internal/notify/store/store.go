package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/redixstudio/atelier/internal/notify"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Notify(ctx context.Context, recipientID uuid.UUID, message string, severity notify.Severity, relatedID *uuid.UUID) error {
	query := `
		INSERT INTO notifications (recipient_id, message, severity, related_id)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := s.db.ExecContext(ctx, query, recipientID, message, severity, relatedID); err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}

	return nil
}

func (s *Store) ListNotifications(ctx context.Context, limit int) ([]*notify.Notification, error) {
	query := `
		SELECT id, recipient_id, message, severity, related_id, created_at
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var out []*notify.Notification

	for rows.Next() {
		var n notify.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Message, &n.Severity, &n.RelatedID, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}

		out = append(out, &n)
	}

	return out, rows.Err()
}
