package team

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redixstudio/atelier/internal/audit"
	"github.com/redixstudio/atelier/internal/finance"
	"github.com/redixstudio/atelier/internal/notify"
)

var (
	ErrNotFound      = errors.New("team member not found")
	ErrInvalidAmount = errors.New("amount must be positive")
)

type Repository interface {
	CreateMember(ctx context.Context, m *Member) error
	GetMember(ctx context.Context, id uuid.UUID) (*Member, error)
	ListMembers(ctx context.Context) ([]*Member, error)
	ListTransactions(ctx context.Context, memberID uuid.UUID) ([]*Transaction, error)

	Begin(ctx context.Context) (LedgerTx, error)
}

// LedgerTx is one atomic settings operation: the member row, its log
// entry and (for commissions) the financial singleton commit or roll
// back together.
type LedgerTx interface {
	MemberForUpdate(ctx context.Context, id uuid.UUID) (*Member, error)
	SaveMember(ctx context.Context, m *Member) error
	AppendTransaction(ctx context.Context, t Transaction) error
	MetricsForUpdate(ctx context.Context) (*finance.Metrics, error)
	SaveMetrics(ctx context.Context, m *finance.Metrics) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo     Repository
	auditor  audit.Recorder
	notifier notify.Notifier
}

func NewService(repo Repository, auditor audit.Recorder, notifier notify.Notifier) *Service {
	return &Service{repo: repo, auditor: auditor, notifier: notifier}
}

type CreateParams struct {
	Name string
	Role string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Member, error) {
	m := &Member{Name: params.Name, Role: params.Role}
	if err := s.repo.CreateMember(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.repo.GetMember(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Member, error) {
	return s.repo.ListMembers(ctx)
}

func (s *Service) Transactions(ctx context.Context, memberID uuid.UUID) ([]*Transaction, error) {
	if _, err := s.repo.GetMember(ctx, memberID); err != nil {
		return nil, err
	}

	return s.repo.ListTransactions(ctx, memberID)
}

// RecordPayment credits a commission to the member. Unlike project
// earnings this is outside money, so it also credits the company's
// operating cash and total revenue.
func (s *Service) RecordPayment(ctx context.Context, memberID uuid.UUID, amount float64, note string) (*Member, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	now := time.Now().UTC()

	m, err := s.inTx(ctx, memberID, func(tx LedgerTx, m *Member) error {
		entry := m.ApplyEarning(amount, TxCommission, nil, note)
		if err := tx.AppendTransaction(ctx, entry); err != nil {
			return err
		}

		metrics, err := tx.MetricsForUpdate(ctx)
		if err != nil {
			return err
		}

		metrics.Apply(finance.Delta{RedixCaisse: amount, TotalRevenue: amount}, now)

		return tx.SaveMetrics(ctx, metrics)
	})
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, s.auditor, audit.Entry{
		Action:     "member.payment",
		EntityType: "team_member",
		EntityID:   memberID.String(),
		Details:    fmt.Sprintf("commission of %.2f", amount),
	})
	notify.Send(ctx, s.notifier, memberID,
		fmt.Sprintf("You received a payment of %.2f", amount), notify.SeveritySuccess, nil)

	return m, nil
}

// RecordAdvance debits an advance against future earnings.
func (s *Service) RecordAdvance(ctx context.Context, memberID uuid.UUID, amount float64, note string) (*Member, error) {
	return s.recordDebit(ctx, memberID, amount, TxAdvance, note)
}

// RecordWithdrawal debits a withdrawal from the member's balance.
func (s *Service) RecordWithdrawal(ctx context.Context, memberID uuid.UUID, amount float64, note string) (*Member, error) {
	return s.recordDebit(ctx, memberID, amount, TxWithdrawal, note)
}

func (s *Service) recordDebit(ctx context.Context, memberID uuid.UUID, amount float64, typ TransactionType, note string) (*Member, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	m, err := s.inTx(ctx, memberID, func(tx LedgerTx, m *Member) error {
		entry := m.Withdraw(amount, typ, note)
		return tx.AppendTransaction(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, s.auditor, audit.Entry{
		Action:     "member." + string(typ),
		EntityType: "team_member",
		EntityID:   memberID.String(),
		Details:    fmt.Sprintf("%s of %.2f", typ, amount),
	})

	return m, nil
}

// inTx loads the member with a row lock, runs fn, saves the member and
// commits. Any error rolls the whole operation back.
func (s *Service) inTx(ctx context.Context, memberID uuid.UUID, fn func(tx LedgerTx, m *Member) error) (*Member, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin ledger tx: %w", err)
	}
	defer tx.Rollback()

	m, err := tx.MemberForUpdate(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if err := fn(tx, m); err != nil {
		return nil, err
	}

	if err := tx.SaveMember(ctx, m); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit ledger tx: %w", err)
	}

	return m, nil
}
