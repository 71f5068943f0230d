package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/redixstudio/atelier/internal/finance"
	financestore "github.com/redixstudio/atelier/internal/finance/store"
	"github.com/redixstudio/atelier/internal/project"
	"github.com/redixstudio/atelier/internal/team"
	teamstore "github.com/redixstudio/atelier/internal/team/store"
	"github.com/redixstudio/atelier/internal/tool"
	toolstore "github.com/redixstudio/atelier/internal/tool/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const selectProjectColumns = `
	id, name, client_name, total_price, amount_paid, payment_status, project_status,
	distribution, tools_usage, team_shares, applied, created_at, updated_at
`

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*project.Project, error) {
	var (
		p                            project.Project
		distRaw, usageRaw, sharesRaw []byte
		appliedRaw                   []byte
	)

	if err := s.Scan(
		&p.ID, &p.Name, &p.ClientName, &p.TotalPrice, &p.AmountPaid,
		&p.PaymentStatus, &p.ProjectStatus,
		&distRaw, &usageRaw, &sharesRaw, &appliedRaw,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(distRaw, &p.Distribution); err != nil {
		return nil, fmt.Errorf("decoding distribution: %w", err)
	}

	if err := json.Unmarshal(usageRaw, &p.ToolsUsage); err != nil {
		return nil, fmt.Errorf("decoding tools usage: %w", err)
	}

	if err := json.Unmarshal(sharesRaw, &p.TeamShares); err != nil {
		return nil, fmt.Errorf("decoding team shares: %w", err)
	}

	if appliedRaw != nil {
		p.Applied = &project.Applied{}
		if err := json.Unmarshal(appliedRaw, p.Applied); err != nil {
			return nil, fmt.Errorf("decoding applied snapshot: %w", err)
		}
	}

	return &p, nil
}

func encodeProject(p *project.Project) (dist, usage, shares, applied []byte, err error) {
	dist, err = json.Marshal(p.Distribution)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encoding distribution: %w", err)
	}

	if usage, err = json.Marshal(emptyAsList(p.ToolsUsage)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encoding tools usage: %w", err)
	}

	if shares, err = json.Marshal(emptyAsList(p.TeamShares)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encoding team shares: %w", err)
	}

	if p.Applied != nil {
		if applied, err = json.Marshal(p.Applied); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("encoding applied snapshot: %w", err)
		}
	}

	return dist, usage, shares, applied, nil
}

// emptyAsList keeps nil slices as JSON [] rather than null.
func emptyAsList[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}

func getProject(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (*project.Project, error) {
	query := `SELECT ` + selectProjectColumns + ` FROM projects WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	p, err := scanProject(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, project.ErrNotFound
		}

		return nil, fmt.Errorf("getting project: %w", err)
	}

	return p, nil
}

func updateProject(ctx context.Context, q querier, p *project.Project) error {
	dist, usage, shares, applied, err := encodeProject(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE projects
		SET name = $1, client_name = $2, total_price = $3, amount_paid = $4,
		    payment_status = $5, project_status = $6,
		    distribution = $7, tools_usage = $8, team_shares = $9, applied = $10,
		    updated_at = NOW()
		WHERE id = $11
	`

	_, err = q.ExecContext(ctx, query,
		p.Name, p.ClientName, p.TotalPrice, p.AmountPaid,
		p.PaymentStatus, p.ProjectStatus,
		dist, usage, shares, applied, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}

	return nil
}

func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	return getProject(ctx, s.db, id, false)
}

func (s *Store) ListProjects(ctx context.Context) ([]*project.Project, error) {
	query := `SELECT ` + selectProjectColumns + ` FROM projects ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*project.Project

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}

		projects = append(projects, p)
	}

	return projects, rows.Err()
}

func (s *Store) Begin(ctx context.Context) (project.LedgerTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning ledger tx: %w", err)
	}

	return &ledgerTx{tx: dbTx}, nil
}

// ledgerTx implements the coordinator's unit of work on one sql.Tx.
// The tool, member and metrics statements are shared with the domain
// stores so both paths stay in sync.
type ledgerTx struct {
	tx *sql.Tx
}

func (t *ledgerTx) Commit() error   { return t.tx.Commit() }
func (t *ledgerTx) Rollback() error { return t.tx.Rollback() }

func (t *ledgerTx) ProjectForUpdate(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	return getProject(ctx, t.tx, id, true)
}

func (t *ledgerTx) CreateProject(ctx context.Context, p *project.Project) error {
	dist, usage, shares, applied, err := encodeProject(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO projects (name, client_name, total_price, amount_paid,
			payment_status, project_status, distribution, tools_usage, team_shares, applied,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = t.tx.QueryRowContext(ctx, query,
		p.Name, p.ClientName, p.TotalPrice, p.AmountPaid,
		p.PaymentStatus, p.ProjectStatus, dist, usage, shares, applied,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}

	return nil
}

func (t *ledgerTx) UpdateProject(ctx context.Context, p *project.Project) error {
	return updateProject(ctx, t.tx, p)
}

func (t *ledgerTx) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	return nil
}

func (t *ledgerTx) ToolForUpdate(ctx context.Context, id uuid.UUID) (*tool.Tool, error) {
	return toolstore.ToolForUpdate(ctx, t.tx, id)
}

func (t *ledgerTx) SaveTool(ctx context.Context, tl *tool.Tool) error {
	return toolstore.SaveTool(ctx, t.tx, tl)
}

func (t *ledgerTx) MemberForUpdate(ctx context.Context, id uuid.UUID) (*team.Member, error) {
	return teamstore.MemberForUpdate(ctx, t.tx, id)
}

func (t *ledgerTx) SaveMember(ctx context.Context, m *team.Member) error {
	return teamstore.SaveMember(ctx, t.tx, m)
}

func (t *ledgerTx) AppendMemberTransaction(ctx context.Context, e team.Transaction) error {
	return teamstore.AppendTransaction(ctx, t.tx, e)
}

func (t *ledgerTx) MetricsForUpdate(ctx context.Context) (*finance.Metrics, error) {
	return financestore.MetricsForUpdate(ctx, t.tx)
}

func (t *ledgerTx) SaveMetrics(ctx context.Context, m *finance.Metrics) error {
	return financestore.SaveMetrics(ctx, t.tx, m)
}
