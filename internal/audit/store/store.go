package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redixstudio/atelier/internal/audit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Record(ctx context.Context, e audit.Entry) error {
	query := `
		INSERT INTO audit_log (action, entity_type, entity_id, details)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := s.db.ExecContext(ctx, query, e.Action, e.EntityType, e.EntityID, e.Details); err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}

	return nil
}
