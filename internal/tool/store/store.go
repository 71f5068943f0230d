package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/redixstudio/atelier/internal/tool"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectToolColumns = `
	id, name, purchase_price, revenue_counter, payoff_percent, usage_count,
	last_used_at, created_at, updated_at
`

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTool(s scanner) (*tool.Tool, error) {
	var t tool.Tool

	if err := s.Scan(
		&t.ID, &t.Name, &t.PurchasePrice, &t.RevenueCounter, &t.PayoffPercent,
		&t.UsageCount, &t.LastUsedAt, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &t, nil
}

func (s *Store) CreateTool(ctx context.Context, t *tool.Tool) error {
	query := `
		INSERT INTO tools (name, purchase_price, revenue_counter, payoff_percent, usage_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		t.Name,
		t.PurchasePrice,
		t.RevenueCounter,
		t.PayoffPercent,
		t.UsageCount,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating tool: %w", err)
	}

	return nil
}

func (s *Store) GetTool(ctx context.Context, id uuid.UUID) (*tool.Tool, error) {
	query := `SELECT ` + selectToolColumns + ` FROM tools WHERE id = $1`

	t, err := scanTool(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, tool.ErrNotFound
		}

		return nil, fmt.Errorf("getting tool: %w", err)
	}

	return t, nil
}

// Querier is satisfied by *sql.DB and *sql.Tx; the project ledger
// transaction mutates tool counters through it.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ToolForUpdate loads a tool row with a row lock.
func ToolForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*tool.Tool, error) {
	query := `SELECT ` + selectToolColumns + ` FROM tools WHERE id = $1 FOR UPDATE`

	t, err := scanTool(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, tool.ErrNotFound
		}

		return nil, fmt.Errorf("locking tool: %w", err)
	}

	return t, nil
}

// SaveTool writes a tool's counters back.
func SaveTool(ctx context.Context, q Querier, t *tool.Tool) error {
	query := `
		UPDATE tools
		SET revenue_counter = $1, payoff_percent = $2, usage_count = $3,
		    last_used_at = $4, updated_at = NOW()
		WHERE id = $5
	`

	_, err := q.ExecContext(ctx, query, t.RevenueCounter, t.PayoffPercent, t.UsageCount, t.LastUsedAt, t.ID)
	if err != nil {
		return fmt.Errorf("saving tool: %w", err)
	}

	return nil
}

func (s *Store) ListTools(ctx context.Context) ([]*tool.Tool, error) {
	query := `SELECT ` + selectToolColumns + ` FROM tools ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tools: %w", err)
	}
	defer rows.Close()

	var tools []*tool.Tool

	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tool: %w", err)
		}

		tools = append(tools, t)
	}

	return tools, rows.Err()
}
