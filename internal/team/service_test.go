package team_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redixstudio/atelier/internal/audit"
	"github.com/redixstudio/atelier/internal/finance"
	"github.com/redixstudio/atelier/internal/notify"
	"github.com/redixstudio/atelier/internal/team"
)

// fakeRepo is an in-memory Repository + LedgerTx. The stateful ledger
// transaction is easier to exercise with a real fake than with
// expectation mocks.
type fakeRepo struct {
	members map[uuid.UUID]*team.Member
	metrics finance.Metrics
	entries []team.Transaction

	commits int
}

func newFakeRepo(members ...*team.Member) *fakeRepo {
	r := &fakeRepo{members: make(map[uuid.UUID]*team.Member)}
	for _, m := range members {
		r.members[m.ID] = m
	}

	return r
}

func (r *fakeRepo) CreateMember(_ context.Context, m *team.Member) error {
	m.ID = uuid.New()
	r.members[m.ID] = m

	return nil
}

func (r *fakeRepo) GetMember(_ context.Context, id uuid.UUID) (*team.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, team.ErrNotFound
	}

	return m, nil
}

func (r *fakeRepo) ListMembers(context.Context) ([]*team.Member, error) { return nil, nil }

func (r *fakeRepo) ListTransactions(_ context.Context, memberID uuid.UUID) ([]*team.Transaction, error) {
	var out []*team.Transaction

	for i := range r.entries {
		if r.entries[i].MemberID == memberID {
			out = append(out, &r.entries[i])
		}
	}

	return out, nil
}

func (r *fakeRepo) Begin(context.Context) (team.LedgerTx, error) { return &fakeTx{repo: r}, nil }

type fakeTx struct {
	repo *fakeRepo
}

func (t *fakeTx) MemberForUpdate(ctx context.Context, id uuid.UUID) (*team.Member, error) {
	return t.repo.GetMember(ctx, id)
}

func (t *fakeTx) SaveMember(_ context.Context, m *team.Member) error {
	t.repo.members[m.ID] = m
	return nil
}

func (t *fakeTx) AppendTransaction(_ context.Context, e team.Transaction) error {
	t.repo.entries = append(t.repo.entries, e)
	return nil
}

func (t *fakeTx) MetricsForUpdate(context.Context) (*finance.Metrics, error) {
	return &t.repo.metrics, nil
}

func (t *fakeTx) SaveMetrics(_ context.Context, m *finance.Metrics) error {
	t.repo.metrics = *m
	return nil
}

func (t *fakeTx) Commit() error {
	t.repo.commits++
	return nil
}

func (t *fakeTx) Rollback() error { return nil }

func TestService_RecordPayment(t *testing.T) {
	member := &team.Member{ID: uuid.New(), Name: "Sara"}
	repo := newFakeRepo(member)
	svc := team.NewService(repo, nil, nil)

	got, err := svc.RecordPayment(context.Background(), member.ID, 250, "client referral")
	require.NoError(t, err)

	assert.InDelta(t, 250, got.TotalReceived, 0.001)
	assert.InDelta(t, 250, got.Balance, 0.001)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, team.TxCommission, repo.entries[0].Type)

	// Outside money credits operating cash and revenue.
	assert.InDelta(t, 250, repo.metrics.RedixCaisse, 0.001)
	assert.InDelta(t, 250, repo.metrics.TotalRevenue, 0.001)
	assert.InDelta(t, 250, repo.metrics.NetProfit, 0.001)

	assert.Equal(t, 1, repo.commits)
}

func TestService_RecordWithdrawal(t *testing.T) {
	member := &team.Member{ID: uuid.New(), TotalReceived: 800, TotalEarned: 800, Balance: 800}
	repo := newFakeRepo(member)
	svc := team.NewService(repo, nil, nil)

	got, err := svc.RecordWithdrawal(context.Background(), member.ID, 300, "cash out")
	require.NoError(t, err)

	assert.InDelta(t, 300, got.TotalWithdrawn, 0.001)
	assert.InDelta(t, 500, got.Balance, 0.001)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, team.TxWithdrawal, repo.entries[0].Type)

	// Withdrawals never touch the company aggregate.
	assert.InDelta(t, 0, repo.metrics.TotalExpenses, 0.001)
}

func TestService_RejectsNonPositiveAmounts(t *testing.T) {
	member := &team.Member{ID: uuid.New()}
	repo := newFakeRepo(member)
	svc := team.NewService(repo, nil, nil)

	for _, amount := range []float64{0, -10} {
		_, err := svc.RecordPayment(context.Background(), member.ID, amount, "")
		assert.ErrorIs(t, err, team.ErrInvalidAmount)

		_, err = svc.RecordAdvance(context.Background(), member.ID, amount, "")
		assert.ErrorIs(t, err, team.ErrInvalidAmount)
	}

	assert.Empty(t, repo.entries)
	assert.Zero(t, repo.commits)
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, audit.Entry) error {
	return errors.New("audit store down")
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, uuid.UUID, string, notify.Severity, *uuid.UUID) error {
	return errors.New("notification store down")
}

func TestService_RecordPayment_CollaboratorFailuresDoNotAbort(t *testing.T) {
	member := &team.Member{ID: uuid.New(), Name: "Sara"}
	repo := newFakeRepo(member)
	svc := team.NewService(repo, failingRecorder{}, failingNotifier{})

	got, err := svc.RecordPayment(context.Background(), member.ID, 250, "client referral")
	require.NoError(t, err)

	// The ledger commit stands; the broken audit and notification
	// writes were logged and swallowed.
	assert.InDelta(t, 250, got.TotalReceived, 0.001)
	assert.InDelta(t, 250, repo.metrics.RedixCaisse, 0.001)
	assert.Equal(t, 1, repo.commits)
}

func TestService_UnknownMember(t *testing.T) {
	repo := newFakeRepo()
	svc := team.NewService(repo, nil, nil)

	_, err := svc.RecordPayment(context.Background(), uuid.New(), 100, "")
	assert.ErrorIs(t, err, team.ErrNotFound)
}
