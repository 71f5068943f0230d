package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/redixstudio/atelier/internal/audit"
	"github.com/redixstudio/atelier/internal/distribution"
	"github.com/redixstudio/atelier/internal/finance"
	"github.com/redixstudio/atelier/internal/notify"
	"github.com/redixstudio/atelier/internal/team"
	"github.com/redixstudio/atelier/internal/tool"
)

type Repository interface {
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)

	Begin(ctx context.Context) (LedgerTx, error)
}

// LedgerTx spans every record one lifecycle transition may touch: the
// project, its tools, its members with their transaction log, and the
// financial singleton. Everything inside one transition commits or
// rolls back together, so partially applied distributions cannot be
// observed. Rows are loaded with row locks, which also serializes
// concurrent requests hitting the same tool, member or singleton.
type LedgerTx interface {
	ProjectForUpdate(ctx context.Context, id uuid.UUID) (*Project, error)
	CreateProject(ctx context.Context, p *Project) error
	UpdateProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	ToolForUpdate(ctx context.Context, id uuid.UUID) (*tool.Tool, error)
	SaveTool(ctx context.Context, t *tool.Tool) error

	MemberForUpdate(ctx context.Context, id uuid.UUID) (*team.Member, error)
	SaveMember(ctx context.Context, m *team.Member) error
	AppendMemberTransaction(ctx context.Context, e team.Transaction) error

	MetricsForUpdate(ctx context.Context) (*finance.Metrics, error)
	SaveMetrics(ctx context.Context, m *finance.Metrics) error

	Commit() error
	Rollback() error
}

// Service coordinates the three ledgers across a project's lifecycle.
// Every forward application it performs has a matching reverse driven
// by the stored applied snapshot.
type Service struct {
	repo     Repository
	auditor  audit.Recorder
	notifier notify.Notifier
}

func NewService(repo Repository, auditor audit.Recorder, notifier notify.Notifier) *Service {
	return &Service{repo: repo, auditor: auditor, notifier: notifier}
}

type CreateParams struct {
	Name          string
	ClientName    string
	TotalPrice    float64
	PaymentStatus PaymentStatus
	ProjectStatus Status
	Distribution  distribution.Split
	ToolsUsage    []ToolUsage
	TeamShares    []TeamShare
}

// allocationPlan is everything computed up front, before the first
// write: a validation failure here aborts with no ledger touched.
type allocationPlan struct {
	amounts distribution.Amounts
	tools   []distribution.Share
	members []distribution.Share
}

func planAllocations(params CreateParams) (*allocationPlan, error) {
	if params.Name == "" {
		return nil, invalidf("project name is required")
	}

	if params.TotalPrice < 0 {
		return nil, invalidf("total price must not be negative")
	}

	switch params.PaymentStatus {
	case PaymentPending, PaymentPartial, PaymentDone:
	default:
		return nil, invalidf("unknown payment status %q", params.PaymentStatus)
	}

	amounts, err := distribution.ComputeSplit(params.TotalPrice, params.Distribution)
	if err != nil {
		return nil, &ValidationError{msg: err.Error()}
	}

	toolEntries := make([]distribution.Entry, len(params.ToolsUsage))
	for i, u := range params.ToolsUsage {
		toolEntries[i] = distribution.Entry{Ref: u.ToolID, Percentage: u.Percentage}
	}

	toolShares, err := distribution.ComputeShares(amounts.Tools, toolEntries)
	if err != nil {
		return nil, &ValidationError{msg: "tools usage: " + err.Error()}
	}

	memberEntries := make([]distribution.Entry, len(params.TeamShares))
	for i, sh := range params.TeamShares {
		memberEntries[i] = distribution.Entry{Ref: sh.MemberID, Percentage: sh.Percentage}
	}

	memberShares, err := distribution.ComputeShares(amounts.Team, memberEntries)
	if err != nil {
		return nil, &ValidationError{msg: "team shares: " + err.Error()}
	}

	return &allocationPlan{amounts: amounts, tools: toolShares, members: memberShares}, nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Project, error) {
	if params.PaymentStatus == "" {
		params.PaymentStatus = PaymentPending
	}

	if params.ProjectStatus == "" {
		params.ProjectStatus = StatusPlanned
	}

	plan, err := planAllocations(params)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	p := &Project{
		Name:          params.Name,
		ClientName:    params.ClientName,
		TotalPrice:    params.TotalPrice,
		PaymentStatus: params.PaymentStatus,
		ProjectStatus: params.ProjectStatus,
		Distribution:  params.Distribution,
		ToolsUsage:    params.ToolsUsage,
		TeamShares:    snapshotShares(params.TeamShares, plan),
	}
	if p.PaymentStatus == PaymentDone {
		p.AmountPaid = p.TotalPrice
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin ledger tx: %w", err)
	}
	defer tx.Rollback()

	if err := tx.CreateProject(ctx, p); err != nil {
		return nil, err
	}

	if err := s.applyAllocations(ctx, tx, p, plan, now); err != nil {
		return nil, err
	}

	if err := tx.UpdateProject(ctx, p); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit ledger tx: %w", err)
	}

	audit.Log(ctx, s.auditor, audit.Entry{
		Action:     "project.create",
		EntityType: "project",
		EntityID:   p.ID.String(),
		Details:    fmt.Sprintf("%s, total %.2f, %s", p.Name, p.TotalPrice, p.PaymentStatus),
	})

	if p.PaymentStatus == PaymentDone {
		s.notifyShares(ctx, p, p.Applied.Members)
	}

	return p, nil
}

// Update fully replaces the project. From the ledgers' perspective an
// edit is a delete followed by a recreate: the previously applied
// snapshot is reversed in full, then the new values are applied.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params CreateParams) (*Project, error) {
	if params.PaymentStatus == "" {
		params.PaymentStatus = PaymentPending
	}

	if params.ProjectStatus == "" {
		params.ProjectStatus = StatusPlanned
	}

	plan, err := planAllocations(params)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin ledger tx: %w", err)
	}
	defer tx.Rollback()

	p, err := tx.ProjectForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.reverseAllocations(ctx, tx, p, now); err != nil {
		return nil, err
	}

	p.Name = params.Name
	p.ClientName = params.ClientName
	p.TotalPrice = params.TotalPrice
	p.PaymentStatus = params.PaymentStatus
	p.ProjectStatus = params.ProjectStatus
	p.Distribution = params.Distribution
	p.ToolsUsage = params.ToolsUsage
	p.TeamShares = snapshotShares(params.TeamShares, plan)

	switch {
	case p.PaymentStatus == PaymentDone:
		p.AmountPaid = p.TotalPrice
	case p.AmountPaid > p.TotalPrice:
		p.AmountPaid = p.TotalPrice
	}

	if err := s.applyAllocations(ctx, tx, p, plan, now); err != nil {
		return nil, err
	}

	if err := tx.UpdateProject(ctx, p); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit ledger tx: %w", err)
	}

	audit.Log(ctx, s.auditor, audit.Entry{
		Action:     "project.update",
		EntityType: "project",
		EntityID:   p.ID.String(),
		Details:    fmt.Sprintf("%s, total %.2f, %s", p.Name, p.TotalPrice, p.PaymentStatus),
	})

	return p, nil
}

type StatusParams struct {
	PaymentStatus *PaymentStatus
	ProjectStatus *Status
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, params StatusParams) (*Project, error) {
	if params.PaymentStatus != nil {
		switch *params.PaymentStatus {
		case PaymentPending, PaymentPartial, PaymentDone:
		default:
			return nil, invalidf("unknown payment status %q", *params.PaymentStatus)
		}
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin ledger tx: %w", err)
	}
	defer tx.Rollback()

	p, err := tx.ProjectForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.ProjectStatus != nil {
		p.ProjectStatus = *params.ProjectStatus
	}

	var confirmed []AppliedShare

	if params.PaymentStatus != nil && *params.PaymentStatus != p.PaymentStatus {
		from := p.PaymentStatus
		to := *params.PaymentStatus

		switch {
		case to == PaymentDone:
			confirmed, err = s.confirmShares(ctx, tx, p)
			if err != nil {
				return nil, err
			}

			p.AmountPaid = p.TotalPrice
		case from == PaymentDone:
			// Team earnings go back to pending. The tool allocation
			// stays applied: that work is already consumed.
			if err := s.revertShares(ctx, tx, p); err != nil {
				return nil, err
			}
		}

		p.PaymentStatus = to
	}

	if err := tx.UpdateProject(ctx, p); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit ledger tx: %w", err)
	}

	audit.Log(ctx, s.auditor, audit.Entry{
		Action:     "project.status",
		EntityType: "project",
		EntityID:   p.ID.String(),
		Details:    fmt.Sprintf("%s now %s/%s", p.Name, p.PaymentStatus, p.ProjectStatus),
	})
	s.notifyShares(ctx, p, confirmed)

	return p, nil
}

// RecordPartialPayment adds a payment toward the project's price. The
// paid amount is capped at the total; reaching the cap flips the
// project to done and converts all pending team shares to received.
func (s *Service) RecordPartialPayment(ctx context.Context, id uuid.UUID, amount float64) (*Project, error) {
	if amount <= 0 {
		return nil, invalidf("payment amount must be positive")
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin ledger tx: %w", err)
	}
	defer tx.Rollback()

	p, err := tx.ProjectForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	p.AmountPaid += amount

	var confirmed []AppliedShare

	if p.AmountPaid >= p.TotalPrice {
		p.AmountPaid = p.TotalPrice

		if p.PaymentStatus != PaymentDone {
			confirmed, err = s.confirmShares(ctx, tx, p)
			if err != nil {
				return nil, err
			}

			p.PaymentStatus = PaymentDone
		}
	} else {
		p.PaymentStatus = PaymentPartial
	}

	if err := tx.UpdateProject(ctx, p); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit ledger tx: %w", err)
	}

	audit.Log(ctx, s.auditor, audit.Entry{
		Action:     "project.partial_payment",
		EntityType: "project",
		EntityID:   p.ID.String(),
		Details:    fmt.Sprintf("%.2f received, %.2f/%.2f paid", amount, p.AmountPaid, p.TotalPrice),
	})
	s.notifyShares(ctx, p, confirmed)

	return p, nil
}

// Delete reverses every applied allocation from the stored snapshot,
// then removes the project. The caller must confirm with the exact
// project name; a mismatch rejects before anything is touched.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, confirmName string) error {
	now := time.Now().UTC()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer tx.Rollback()

	p, err := tx.ProjectForUpdate(ctx, id)
	if err != nil {
		return err
	}

	if confirmName != p.Name {
		return invalidf("confirmation name does not match project name")
	}

	if err := s.reverseAllocations(ctx, tx, p, now); err != nil {
		return err
	}

	if err := tx.DeleteProject(ctx, p.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}

	audit.Log(ctx, s.auditor, audit.Entry{
		Action:     "project.delete",
		EntityType: "project",
		EntityID:   p.ID.String(),
		Details:    p.Name,
	})

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.repo.GetProject(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Project, error) {
	return s.repo.ListProjects(ctx)
}

// applyAllocations distributes the planned amounts into the three
// ledgers and records the applied snapshot on the project. A tool or
// member reference that no longer resolves is skipped with a warning;
// its amount stays in the bucket totals, unallocated to any entity.
func (s *Service) applyAllocations(ctx context.Context, tx LedgerTx, p *Project, plan *allocationPlan, now time.Time) error {
	applied := &Applied{
		Total:        p.TotalPrice,
		ToolsAmount:  plan.amounts.Tools,
		TeamAmount:   plan.amounts.Team,
		CaisseAmount: plan.amounts.Caisse,
	}

	for _, share := range plan.tools {
		t, err := tx.ToolForUpdate(ctx, share.Ref)
		if err != nil {
			if errors.Is(err, tool.ErrNotFound) {
				slog.Warn("tool missing during allocation, skipped", "tool_id", share.Ref, "project", p.Name)
				continue
			}

			return err
		}

		t.ApplyRevenue(share.Amount, now)

		if err := tx.SaveTool(ctx, t); err != nil {
			return err
		}

		applied.Tools = append(applied.Tools, AppliedTool{ToolID: share.Ref, Amount: share.Amount})
	}

	done := p.PaymentStatus == PaymentDone

	for _, share := range plan.members {
		m, err := tx.MemberForUpdate(ctx, share.Ref)
		if err != nil {
			if errors.Is(err, team.ErrNotFound) {
				slog.Warn("member missing during allocation, skipped", "member_id", share.Ref, "project", p.Name)
				continue
			}

			return err
		}

		if done {
			entry := m.ApplyEarning(share.Amount, team.TxEarning, &p.ID, p.Name)
			if err := tx.AppendMemberTransaction(ctx, entry); err != nil {
				return err
			}
		} else {
			m.AddPending(share.Amount)
		}

		if err := tx.SaveMember(ctx, m); err != nil {
			return err
		}

		applied.Members = append(applied.Members, AppliedShare{MemberID: share.Ref, Amount: share.Amount, Confirmed: done})
	}

	metrics, err := tx.MetricsForUpdate(ctx)
	if err != nil {
		return err
	}

	metrics.Apply(appliedDelta(applied), now)

	if err := tx.SaveMetrics(ctx, metrics); err != nil {
		return err
	}

	p.Applied = applied

	return nil
}

// reverseAllocations undoes everything the stored snapshot says was
// applied. It never recomputes from percentages: only the historical
// amounts captured at apply time are used.
func (s *Service) reverseAllocations(ctx context.Context, tx LedgerTx, p *Project, now time.Time) error {
	if p.Applied == nil {
		return nil
	}

	for _, e := range p.Applied.Tools {
		t, err := tx.ToolForUpdate(ctx, e.ToolID)
		if err != nil {
			if errors.Is(err, tool.ErrNotFound) {
				slog.Warn("tool missing during reversal, skipped", "tool_id", e.ToolID, "project", p.Name)
				continue
			}

			return err
		}

		t.ReverseRevenue(e.Amount)

		if err := tx.SaveTool(ctx, t); err != nil {
			return err
		}
	}

	for _, e := range p.Applied.Members {
		m, err := tx.MemberForUpdate(ctx, e.MemberID)
		if err != nil {
			if errors.Is(err, team.ErrNotFound) {
				slog.Warn("member missing during reversal, skipped", "member_id", e.MemberID, "project", p.Name)
				continue
			}

			return err
		}

		if e.Confirmed {
			entry := m.ReverseEarning(e.Amount, &p.ID, p.Name)
			if err := tx.AppendMemberTransaction(ctx, entry); err != nil {
				return err
			}
		} else {
			m.ReversePending(e.Amount)
		}

		if err := tx.SaveMember(ctx, m); err != nil {
			return err
		}
	}

	metrics, err := tx.MetricsForUpdate(ctx)
	if err != nil {
		return err
	}

	metrics.Apply(appliedDelta(p.Applied).Negate(), now)

	if err := tx.SaveMetrics(ctx, metrics); err != nil {
		return err
	}

	p.Applied = nil

	return nil
}

// confirmShares converts every unconfirmed applied share from pending
// to received and returns the shares it confirmed.
func (s *Service) confirmShares(ctx context.Context, tx LedgerTx, p *Project) ([]AppliedShare, error) {
	if p.Applied == nil {
		return nil, nil
	}

	var confirmed []AppliedShare

	for i := range p.Applied.Members {
		e := &p.Applied.Members[i]
		if e.Confirmed {
			continue
		}

		m, err := tx.MemberForUpdate(ctx, e.MemberID)
		if err != nil {
			if errors.Is(err, team.ErrNotFound) {
				slog.Warn("member missing during confirmation, skipped", "member_id", e.MemberID, "project", p.Name)
				continue
			}

			return nil, err
		}

		entry := m.ConfirmPending(e.Amount, &p.ID, p.Name)
		if err := tx.AppendMemberTransaction(ctx, entry); err != nil {
			return nil, err
		}

		if err := tx.SaveMember(ctx, m); err != nil {
			return nil, err
		}

		e.Confirmed = true
		confirmed = append(confirmed, *e)
	}

	return confirmed, nil
}

// revertShares moves every confirmed applied share back to pending.
func (s *Service) revertShares(ctx context.Context, tx LedgerTx, p *Project) error {
	if p.Applied == nil {
		return nil
	}

	for i := range p.Applied.Members {
		e := &p.Applied.Members[i]
		if !e.Confirmed {
			continue
		}

		m, err := tx.MemberForUpdate(ctx, e.MemberID)
		if err != nil {
			if errors.Is(err, team.ErrNotFound) {
				slog.Warn("member missing during revert, skipped", "member_id", e.MemberID, "project", p.Name)
				continue
			}

			return err
		}

		entry := m.ReverseEarning(e.Amount, &p.ID, p.Name)
		if err := tx.AppendMemberTransaction(ctx, entry); err != nil {
			return err
		}

		m.AddPending(e.Amount)

		if err := tx.SaveMember(ctx, m); err != nil {
			return err
		}

		e.Confirmed = false
	}

	return nil
}

func (s *Service) notifyShares(ctx context.Context, p *Project, shares []AppliedShare) {
	for _, e := range shares {
		notify.Send(ctx, s.notifier, e.MemberID,
			fmt.Sprintf("You received %.2f for project %s", e.Amount, p.Name),
			notify.SeveritySuccess, &p.ID)
	}
}

func appliedDelta(a *Applied) finance.Delta {
	return finance.Delta{
		ToolsReserve: a.ToolsAmount,
		TeamShare:    a.TeamAmount,
		RedixCaisse:  a.CaisseAmount,
		TotalRevenue: a.Total,
	}
}

// snapshotShares copies the requested team shares with their computed
// monetary amounts filled in.
func snapshotShares(shares []TeamShare, plan *allocationPlan) []TeamShare {
	out := make([]TeamShare, len(shares))
	for i, sh := range shares {
		out[i] = TeamShare{MemberID: sh.MemberID, Percentage: sh.Percentage, Amount: plan.members[i].Amount}
	}

	return out
}
