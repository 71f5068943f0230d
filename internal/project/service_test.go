package project_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redixstudio/atelier/internal/audit"
	"github.com/redixstudio/atelier/internal/distribution"
	"github.com/redixstudio/atelier/internal/finance"
	"github.com/redixstudio/atelier/internal/notify"
	"github.com/redixstudio/atelier/internal/project"
	"github.com/redixstudio/atelier/internal/team"
	"github.com/redixstudio/atelier/internal/tool"
)

// fakeLedger is an in-memory Repository + LedgerTx. The coordinator's
// unit of work is stateful across many entities, which a real fake
// exercises far better than expectation mocks.
type fakeLedger struct {
	projects map[uuid.UUID]*project.Project
	tools    map[uuid.UUID]*tool.Tool
	members  map[uuid.UUID]*team.Member
	metrics  finance.Metrics
	entries  []team.Transaction

	commits int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		projects: make(map[uuid.UUID]*project.Project),
		tools:    make(map[uuid.UUID]*tool.Tool),
		members:  make(map[uuid.UUID]*team.Member),
	}
}

func (l *fakeLedger) GetProject(_ context.Context, id uuid.UUID) (*project.Project, error) {
	p, ok := l.projects[id]
	if !ok {
		return nil, project.ErrNotFound
	}

	return p, nil
}

func (l *fakeLedger) ListProjects(context.Context) ([]*project.Project, error) {
	var out []*project.Project
	for _, p := range l.projects {
		out = append(out, p)
	}

	return out, nil
}

func (l *fakeLedger) Begin(context.Context) (project.LedgerTx, error) {
	return &fakeTx{l: l}, nil
}

type fakeTx struct {
	l *fakeLedger
}

func (t *fakeTx) ProjectForUpdate(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	return t.l.GetProject(ctx, id)
}

func (t *fakeTx) CreateProject(_ context.Context, p *project.Project) error {
	p.ID = uuid.New()
	t.l.projects[p.ID] = p

	return nil
}

func (t *fakeTx) UpdateProject(_ context.Context, p *project.Project) error {
	t.l.projects[p.ID] = p
	return nil
}

func (t *fakeTx) DeleteProject(_ context.Context, id uuid.UUID) error {
	delete(t.l.projects, id)
	return nil
}

func (t *fakeTx) ToolForUpdate(_ context.Context, id uuid.UUID) (*tool.Tool, error) {
	tl, ok := t.l.tools[id]
	if !ok {
		return nil, tool.ErrNotFound
	}

	return tl, nil
}

func (t *fakeTx) SaveTool(_ context.Context, tl *tool.Tool) error {
	t.l.tools[tl.ID] = tl
	return nil
}

func (t *fakeTx) MemberForUpdate(_ context.Context, id uuid.UUID) (*team.Member, error) {
	m, ok := t.l.members[id]
	if !ok {
		return nil, team.ErrNotFound
	}

	return m, nil
}

func (t *fakeTx) SaveMember(_ context.Context, m *team.Member) error {
	t.l.members[m.ID] = m
	return nil
}

func (t *fakeTx) AppendMemberTransaction(_ context.Context, e team.Transaction) error {
	t.l.entries = append(t.l.entries, e)
	return nil
}

func (t *fakeTx) MetricsForUpdate(context.Context) (*finance.Metrics, error) {
	return &t.l.metrics, nil
}

func (t *fakeTx) SaveMetrics(_ context.Context, m *finance.Metrics) error {
	t.l.metrics = *m
	return nil
}

func (t *fakeTx) Commit() error {
	t.l.commits++
	return nil
}

func (t *fakeTx) Rollback() error { return nil }

// standardFixture is one tool at 100% usage and one member at 100%
// share on a 30/50/20 split.
func standardFixture(l *fakeLedger) (*tool.Tool, *team.Member, project.CreateParams) {
	tl := &tool.Tool{ID: uuid.New(), Name: "Camera", PurchasePrice: 2000}
	m := &team.Member{ID: uuid.New(), Name: "Sara"}
	l.tools[tl.ID] = tl
	l.members[m.ID] = m

	params := project.CreateParams{
		Name:         "Brand Film",
		TotalPrice:   1000,
		Distribution: distribution.Split{ToolsAndCharges: 30, TeamShare: 50, RedixCaisse: 20},
		ToolsUsage:   []project.ToolUsage{{ToolID: tl.ID, Percentage: 100}},
		TeamShares:   []project.TeamShare{{MemberID: m.ID, Percentage: 100}},
	}

	return tl, m, params
}

func TestService_Create_Done(t *testing.T) {
	l := newFakeLedger()
	tl, m, params := standardFixture(l)
	params.PaymentStatus = project.PaymentDone

	svc := project.NewService(l, nil, nil)

	p, err := svc.Create(context.Background(), params)
	require.NoError(t, err)

	assert.InDelta(t, 300, tl.RevenueCounter, 0.001)
	assert.Equal(t, 1, tl.UsageCount)

	assert.InDelta(t, 500, m.TotalReceived, 0.001)
	assert.InDelta(t, 500, m.Balance, 0.001)
	assert.InDelta(t, 0, m.PendingEarnings, 0.001)

	assert.InDelta(t, 300, l.metrics.ToolsReserve, 0.001)
	assert.InDelta(t, 500, l.metrics.TeamShare, 0.001)
	assert.InDelta(t, 200, l.metrics.RedixCaisse, 0.001)
	assert.InDelta(t, 1000, l.metrics.TotalRevenue, 0.001)

	require.NotNil(t, p.Applied)
	assert.InDelta(t, 1000, p.Applied.Total, 0.001)
	require.Len(t, p.Applied.Members, 1)
	assert.True(t, p.Applied.Members[0].Confirmed)
	assert.InDelta(t, 1000, p.AmountPaid, 0.001)

	require.Len(t, l.entries, 1)
	assert.Equal(t, team.TxEarning, l.entries[0].Type)
	assert.Equal(t, 1, l.commits)
}

func TestService_Create_Pending(t *testing.T) {
	l := newFakeLedger()
	tl, m, params := standardFixture(l)

	svc := project.NewService(l, nil, nil)

	p, err := svc.Create(context.Background(), params)
	require.NoError(t, err)

	// Member money waits as pending; the tool share applies immediately.
	assert.InDelta(t, 500, m.PendingEarnings, 0.001)
	assert.InDelta(t, 0, m.TotalReceived, 0.001)
	assert.InDelta(t, 300, tl.RevenueCounter, 0.001)

	assert.Equal(t, project.PaymentPending, p.PaymentStatus)
	require.Len(t, p.Applied.Members, 1)
	assert.False(t, p.Applied.Members[0].Confirmed)
	assert.Empty(t, l.entries)
}

func TestService_Delete_ReversesEverything(t *testing.T) {
	l := newFakeLedger()
	tl, m, params := standardFixture(l)
	params.PaymentStatus = project.PaymentDone

	svc := project.NewService(l, nil, nil)

	p, err := svc.Create(context.Background(), params)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), p.ID, p.Name))

	assert.InDelta(t, 0, tl.RevenueCounter, 0.001)
	assert.Equal(t, 0, tl.UsageCount)
	assert.InDelta(t, 0, m.TotalReceived, 0.001)
	assert.InDelta(t, 0, m.Balance, 0.001)
	assert.InDelta(t, 0, l.metrics.RedixCaisse, 0.001)
	assert.InDelta(t, 0, l.metrics.TotalRevenue, 0.001)
	assert.InDelta(t, 0, l.metrics.ToolsReserve, 0.001)
	assert.InDelta(t, 0, l.metrics.TeamShare, 0.001)

	// Reversal appends a deduction; it never rewrites history.
	require.Len(t, l.entries, 2)
	assert.Equal(t, team.TxDeduction, l.entries[1].Type)

	_, err = svc.Get(context.Background(), p.ID)
	assert.ErrorIs(t, err, project.ErrNotFound)
}

func TestService_Delete_ConfirmNameMismatch(t *testing.T) {
	l := newFakeLedger()
	tl, m, params := standardFixture(l)
	params.PaymentStatus = project.PaymentDone

	svc := project.NewService(l, nil, nil)

	p, err := svc.Create(context.Background(), params)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), p.ID, "wrong name")

	var ve *project.ValidationError
	require.ErrorAs(t, err, &ve)

	// Nothing reversed, project still there.
	assert.InDelta(t, 300, tl.RevenueCounter, 0.001)
	assert.InDelta(t, 500, m.TotalReceived, 0.001)
	_, err = svc.Get(context.Background(), p.ID)
	assert.NoError(t, err)
}

func TestService_PartialPayment(t *testing.T) {
	l := newFakeLedger()
	_, m, params := standardFixture(l)

	svc := project.NewService(l, nil, nil)

	p, err := svc.Create(context.Background(), params)
	require.NoError(t, err)

	p, err = svc.RecordPartialPayment(context.Background(), p.ID, 400)
	require.NoError(t, err)

	assert.InDelta(t, 400, p.AmountPaid, 0.001)
	assert.Equal(t, project.PaymentPartial, p.PaymentStatus)

	// No ledger movement until the cap is reached.
	assert.InDelta(t, 500, m.PendingEarnings, 0.001)
	assert.InDelta(t, 0, m.TotalReceived, 0.001)

	p, err = svc.RecordPartialPayment(context.Background(), p.ID, 600)
	require.NoError(t, err)

	assert.InDelta(t, 1000, p.AmountPaid, 0.001)
	assert.Equal(t, project.PaymentDone, p.PaymentStatus)

	assert.InDelta(t, 0, m.PendingEarnings, 0.001)
	assert.InDelta(t, 500, m.TotalReceived, 0.001)
	require.Len(t, l.entries, 1)
	assert.Equal(t, team.TxEarning, l.entries[0].Type)
}

func TestService_PartialPayment_CapsAtTotal(t *testing.T) {
	l := newFakeLedger()
	_, _, params := standardFixture(l)

	svc := project.NewService(l, nil, nil)

	p, err := svc.Create(context.Background(), params)
	require.NoError(t, err)

	p, err = svc.RecordPartialPayment(context.Background(), p.ID, 5000)
	require.NoError(t, err)

	assert.InDelta(t, 1000, p.AmountPaid, 0.001)
	assert.Equal(t, project.PaymentDone, p.PaymentStatus)
}

func TestService_StatusTransitions(t *testing.T) {
	l := newFakeLedger()
	tl, m, params := standardFixture(l)

	svc := project.NewService(l, nil, nil)

	p, err := svc.Create(context.Background(), params)
	require.NoError(t, err)

	done := project.PaymentDone
	p, err = svc.UpdateStatus(context.Background(), p.ID, project.StatusParams{PaymentStatus: &done})
	require.NoError(t, err)

	assert.InDelta(t, 500, m.TotalReceived, 0.001)
	assert.InDelta(t, 0, m.PendingEarnings, 0.001)
	assert.InDelta(t, 1000, p.AmountPaid, 0.001)

	// Back to pending: earnings return to pending, the tool
	// allocation stays where it is.
	pending := project.PaymentPending
	p, err = svc.UpdateStatus(context.Background(), p.ID, project.StatusParams{PaymentStatus: &pending})
	require.NoError(t, err)

	assert.InDelta(t, 0, m.TotalReceived, 0.001)
	assert.InDelta(t, 500, m.PendingEarnings, 0.001)
	assert.InDelta(t, 300, tl.RevenueCounter, 0.001)
	assert.Equal(t, 1, tl.UsageCount)

	// earning, then deduction on the way back.
	require.Len(t, l.entries, 2)
	assert.Equal(t, team.TxEarning, l.entries[0].Type)
	assert.Equal(t, team.TxDeduction, l.entries[1].Type)

	// Done again: conversion repeats cleanly.
	p, err = svc.UpdateStatus(context.Background(), p.ID, project.StatusParams{PaymentStatus: &done})
	require.NoError(t, err)

	assert.InDelta(t, 500, m.TotalReceived, 0.001)
	assert.InDelta(t, 0, m.PendingEarnings, 0.001)
	assert.InDelta(t, 300, tl.RevenueCounter, 0.001)
}

func TestService_StatusTransitions_RepeatedCycles(t *testing.T) {
	l := newFakeLedger()
	tl, m, params := standardFixture(l)

	svc := project.NewService(l, nil, nil)

	p, err := svc.Create(context.Background(), params)
	require.NoError(t, err)

	done := project.PaymentDone
	pending := project.PaymentPending

	for range 3 {
		p, err = svc.UpdateStatus(context.Background(), p.ID, project.StatusParams{PaymentStatus: &done})
		require.NoError(t, err)

		p, err = svc.UpdateStatus(context.Background(), p.ID, project.StatusParams{PaymentStatus: &pending})
		require.NoError(t, err)
	}

	// However many times the status flips, the money only ever moves
	// between pending and received; nothing accumulates.
	assert.InDelta(t, 0, m.TotalReceived, 0.001)
	assert.InDelta(t, 500, m.PendingEarnings, 0.001)
	assert.InDelta(t, 300, tl.RevenueCounter, 0.001)
	assert.Equal(t, 1, tl.UsageCount)
	assert.InDelta(t, 1000, l.metrics.TotalRevenue, 0.001)
}

func TestService_Delete_UsesStoredSnapshot(t *testing.T) {
	l := newFakeLedger()
	tl, m, params := standardFixture(l)
	params.PaymentStatus = project.PaymentDone

	svc := project.NewService(l, nil, nil)

	p, err := svc.Create(context.Background(), params)
	require.NoError(t, err)

	// Tamper with the stored project the way a buggy writer might:
	// reversal must still use the amounts captured at apply time, not
	// recompute from the current price and percentages.
	stored := l.projects[p.ID]
	stored.TotalPrice = 9999
	stored.Distribution = distribution.Split{ToolsAndCharges: 10, TeamShare: 10, RedixCaisse: 80}

	require.NoError(t, svc.Delete(context.Background(), p.ID, p.Name))

	assert.InDelta(t, 0, tl.RevenueCounter, 0.001)
	assert.InDelta(t, 0, m.TotalReceived, 0.001)
	assert.InDelta(t, 0, l.metrics.ToolsReserve, 0.001)
	assert.InDelta(t, 0, l.metrics.TeamShare, 0.001)
	assert.InDelta(t, 0, l.metrics.RedixCaisse, 0.001)
	assert.InDelta(t, 0, l.metrics.TotalRevenue, 0.001)
}

func TestService_Update_ReversesThenReapplies(t *testing.T) {
	l := newFakeLedger()
	tl, m, params := standardFixture(l)
	params.PaymentStatus = project.PaymentDone

	svc := project.NewService(l, nil, nil)

	p, err := svc.Create(context.Background(), params)
	require.NoError(t, err)

	// Double the price and flip the member's bucket to 40%.
	params.TotalPrice = 2000
	params.Distribution = distribution.Split{ToolsAndCharges: 40, TeamShare: 40, RedixCaisse: 20}

	p, err = svc.Update(context.Background(), p.ID, params)
	require.NoError(t, err)

	assert.InDelta(t, 800, tl.RevenueCounter, 0.001)
	assert.InDelta(t, 800, m.TotalReceived, 0.001)

	assert.InDelta(t, 800, l.metrics.ToolsReserve, 0.001)
	assert.InDelta(t, 800, l.metrics.TeamShare, 0.001)
	assert.InDelta(t, 400, l.metrics.RedixCaisse, 0.001)
	assert.InDelta(t, 2000, l.metrics.TotalRevenue, 0.001)

	require.NotNil(t, p.Applied)
	assert.InDelta(t, 2000, p.Applied.Total, 0.001)
}

func TestService_Create_BadPercentages(t *testing.T) {
	l := newFakeLedger()
	tl, m, params := standardFixture(l)
	params.Distribution = distribution.Split{ToolsAndCharges: 30, TeamShare: 50, RedixCaisse: 19}

	svc := project.NewService(l, nil, nil)

	_, err := svc.Create(context.Background(), params)

	var ve *project.ValidationError
	require.ErrorAs(t, err, &ve)

	// Nothing mutated anywhere.
	assert.InDelta(t, 0, tl.RevenueCounter, 0.001)
	assert.InDelta(t, 0, m.PendingEarnings, 0.001)
	assert.InDelta(t, 0, l.metrics.TotalRevenue, 0.001)
	assert.Empty(t, l.projects)
	assert.Zero(t, l.commits)
}

func TestService_Create_MissingToolSkipped(t *testing.T) {
	l := newFakeLedger()
	_, m, params := standardFixture(l)
	params.ToolsUsage = []project.ToolUsage{{ToolID: uuid.New(), Percentage: 100}}

	svc := project.NewService(l, nil, nil)

	p, err := svc.Create(context.Background(), params)
	require.NoError(t, err)

	// The dangling reference is skipped, the rest is applied: the
	// bucket amount stays counted in the aggregate either way.
	assert.Empty(t, p.Applied.Tools)
	assert.InDelta(t, 300, l.metrics.ToolsReserve, 0.001)
	assert.InDelta(t, 500, m.PendingEarnings, 0.001)
}

func TestService_EmptyAllocationLists(t *testing.T) {
	l := newFakeLedger()

	svc := project.NewService(l, nil, nil)

	p, err := svc.Create(context.Background(), project.CreateParams{
		Name:         "Consulting Only",
		TotalPrice:   1000,
		Distribution: distribution.Split{ToolsAndCharges: 30, TeamShare: 50, RedixCaisse: 20},
	})
	require.NoError(t, err)

	// Buckets are counted but allocated to nobody.
	assert.Empty(t, p.Applied.Tools)
	assert.Empty(t, p.Applied.Members)
	assert.InDelta(t, 300, l.metrics.ToolsReserve, 0.001)
	assert.InDelta(t, 500, l.metrics.TeamShare, 0.001)
	assert.InDelta(t, 1000, l.metrics.TotalRevenue, 0.001)
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, audit.Entry) error {
	return errors.New("audit store down")
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, uuid.UUID, string, notify.Severity, *uuid.UUID) error {
	return errors.New("notification store down")
}

func TestService_Create_CollaboratorFailuresDoNotAbort(t *testing.T) {
	l := newFakeLedger()
	tl, m, params := standardFixture(l)
	params.PaymentStatus = project.PaymentDone

	svc := project.NewService(l, failingRecorder{}, failingNotifier{})

	p, err := svc.Create(context.Background(), params)
	require.NoError(t, err)

	// The ledger mutation committed; the broken audit and notification
	// writes were logged and swallowed.
	assert.Equal(t, 1, l.commits)
	assert.InDelta(t, 300, tl.RevenueCounter, 0.001)
	assert.InDelta(t, 500, m.TotalReceived, 0.001)
	require.NotNil(t, p.Applied)
}

func TestService_PartialPayment_RejectsNonPositive(t *testing.T) {
	l := newFakeLedger()
	_, _, params := standardFixture(l)

	svc := project.NewService(l, nil, nil)

	p, err := svc.Create(context.Background(), params)
	require.NoError(t, err)

	_, err = svc.RecordPartialPayment(context.Background(), p.ID, 0)

	var ve *project.ValidationError
	assert.ErrorAs(t, err, &ve)
}
