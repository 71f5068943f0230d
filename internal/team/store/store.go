package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/redixstudio/atelier/internal/finance"
	financestore "github.com/redixstudio/atelier/internal/finance/store"
	"github.com/redixstudio/atelier/internal/team"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Querier is satisfied by *sql.DB and *sql.Tx. The exported Tx helpers
// below take it so the project ledger transaction can reuse the same
// statements inside its own transaction.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const selectMemberColumns = `
	id, name, role, total_earned, total_received, pending_earnings,
	total_withdrawn, balance, created_at, updated_at
`

func scanMember(row *sql.Row) (*team.Member, error) {
	var m team.Member

	err := row.Scan(
		&m.ID, &m.Name, &m.Role, &m.TotalEarned, &m.TotalReceived,
		&m.PendingEarnings, &m.TotalWithdrawn, &m.Balance, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, team.ErrNotFound
		}

		return nil, fmt.Errorf("getting team member: %w", err)
	}

	return &m, nil
}

func (s *Store) CreateMember(ctx context.Context, m *team.Member) error {
	query := `
		INSERT INTO team_members (name, role, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if err := s.db.QueryRowContext(ctx, query, m.Name, m.Role).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return fmt.Errorf("creating team member: %w", err)
	}

	return nil
}

func (s *Store) GetMember(ctx context.Context, id uuid.UUID) (*team.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM team_members WHERE id = $1`
	return scanMember(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) ListMembers(ctx context.Context) ([]*team.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM team_members ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}
	defer rows.Close()

	var members []*team.Member

	for rows.Next() {
		var m team.Member
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Role, &m.TotalEarned, &m.TotalReceived,
			&m.PendingEarnings, &m.TotalWithdrawn, &m.Balance, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning team member: %w", err)
		}

		members = append(members, &m)
	}

	return members, rows.Err()
}

func (s *Store) ListTransactions(ctx context.Context, memberID uuid.UUID) ([]*team.Transaction, error) {
	query := `
		SELECT id, member_id, type, amount, project_id, note, created_at
		FROM member_transactions
		WHERE member_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("listing member transactions: %w", err)
	}
	defer rows.Close()

	var entries []*team.Transaction

	for rows.Next() {
		var e team.Transaction
		if err := rows.Scan(&e.ID, &e.MemberID, &e.Type, &e.Amount, &e.ProjectID, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning member transaction: %w", err)
		}

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

func (s *Store) Begin(ctx context.Context) (team.LedgerTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning ledger tx: %w", err)
	}

	return &ledgerTx{tx: dbTx}, nil
}

type ledgerTx struct {
	tx *sql.Tx
}

func (t *ledgerTx) Commit() error   { return t.tx.Commit() }
func (t *ledgerTx) Rollback() error { return t.tx.Rollback() }

func (t *ledgerTx) MemberForUpdate(ctx context.Context, id uuid.UUID) (*team.Member, error) {
	return MemberForUpdate(ctx, t.tx, id)
}

func (t *ledgerTx) SaveMember(ctx context.Context, m *team.Member) error {
	return SaveMember(ctx, t.tx, m)
}

func (t *ledgerTx) AppendTransaction(ctx context.Context, e team.Transaction) error {
	return AppendTransaction(ctx, t.tx, e)
}

func (t *ledgerTx) MetricsForUpdate(ctx context.Context) (*finance.Metrics, error) {
	return financestore.MetricsForUpdate(ctx, t.tx)
}

func (t *ledgerTx) SaveMetrics(ctx context.Context, m *finance.Metrics) error {
	return financestore.SaveMetrics(ctx, t.tx, m)
}

// MemberForUpdate loads a member row with a row lock.
func MemberForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*team.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM team_members WHERE id = $1 FOR UPDATE`
	return scanMember(q.QueryRowContext(ctx, query, id))
}

// SaveMember writes a member's balances back.
func SaveMember(ctx context.Context, q Querier, m *team.Member) error {
	query := `
		UPDATE team_members
		SET total_earned = $1, total_received = $2, pending_earnings = $3,
		    total_withdrawn = $4, balance = $5, updated_at = NOW()
		WHERE id = $6
	`

	_, err := q.ExecContext(ctx, query,
		m.TotalEarned, m.TotalReceived, m.PendingEarnings, m.TotalWithdrawn, m.Balance, m.ID,
	)
	if err != nil {
		return fmt.Errorf("saving team member: %w", err)
	}

	return nil
}

// AppendTransaction inserts one append-only log entry.
func AppendTransaction(ctx context.Context, q Querier, e team.Transaction) error {
	query := `
		INSERT INTO member_transactions (member_id, type, amount, project_id, note)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := q.ExecContext(ctx, query, e.MemberID, e.Type, e.Amount, e.ProjectID, e.Note); err != nil {
		return fmt.Errorf("appending member transaction: %w", err)
	}

	return nil
}

