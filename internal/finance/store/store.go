package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redixstudio/atelier/internal/finance"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Querier is satisfied by *sql.DB and *sql.Tx; the ledger transactions
// in the team and project stores update the singleton through it.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// MetricsForUpdate locks and loads the financial singleton.
func MetricsForUpdate(ctx context.Context, q Querier) (*finance.Metrics, error) {
	query := `
		SELECT tools_reserve, team_share, investment_reserve, redix_caisse,
		       total_revenue, total_expenses, net_profit, last_updated
		FROM financial_metrics
		WHERE id = TRUE
		FOR UPDATE
	`

	var m finance.Metrics

	err := q.QueryRowContext(ctx, query).Scan(
		&m.ToolsReserve, &m.TeamShare, &m.InvestmentReserve, &m.RedixCaisse,
		&m.TotalRevenue, &m.TotalExpenses, &m.NetProfit, &m.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("locking financial metrics: %w", err)
	}

	return &m, nil
}

// SaveMetrics writes the financial singleton back.
func SaveMetrics(ctx context.Context, q Querier, m *finance.Metrics) error {
	query := `
		UPDATE financial_metrics
		SET tools_reserve = $1, team_share = $2, investment_reserve = $3,
		    redix_caisse = $4, total_revenue = $5, total_expenses = $6,
		    net_profit = $7, last_updated = $8
		WHERE id = TRUE
	`

	_, err := q.ExecContext(ctx, query,
		m.ToolsReserve, m.TeamShare, m.InvestmentReserve, m.RedixCaisse,
		m.TotalRevenue, m.TotalExpenses, m.NetProfit, m.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("saving financial metrics: %w", err)
	}

	return nil
}

func (s *Store) GetMetrics(ctx context.Context) (*finance.Metrics, error) {
	query := `
		SELECT tools_reserve, team_share, investment_reserve, redix_caisse,
		       total_revenue, total_expenses, net_profit, last_updated
		FROM financial_metrics
		WHERE id = TRUE
	`

	var m finance.Metrics

	err := s.db.QueryRowContext(ctx, query).Scan(
		&m.ToolsReserve, &m.TeamShare, &m.InvestmentReserve, &m.RedixCaisse,
		&m.TotalRevenue, &m.TotalExpenses, &m.NetProfit, &m.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("getting financial metrics: %w", err)
	}

	return &m, nil
}
