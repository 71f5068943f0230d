package team

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType tags one entry in a member's append-only earnings log.
type TransactionType string

const (
	TxEarning    TransactionType = "earning"
	TxPending    TransactionType = "pending"
	TxAdvance    TransactionType = "advance"
	TxPayment    TransactionType = "payment"
	TxDeduction  TransactionType = "deduction"
	TxWithdrawal TransactionType = "withdrawal"
	TxCommission TransactionType = "commission"
)

// Transaction is one immutable entry in a member's earnings history.
// Reversals append new entries; nothing is ever deleted.
type Transaction struct {
	ID        uuid.UUID
	MemberID  uuid.UUID
	Type      TransactionType
	Amount    float64
	ProjectID *uuid.UUID
	Note      string
	CreatedAt time.Time
}

// Member is a team member with running earning balances.
// Balance is always totalReceived - totalWithdrawn and is recomputed
// on every mutation rather than adjusted incrementally.
type Member struct {
	ID              uuid.UUID
	Name            string
	Role            string
	TotalEarned     float64
	TotalReceived   float64
	PendingEarnings float64
	TotalWithdrawn  float64
	Balance         float64
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

func (m *Member) recomputeBalance() {
	m.Balance = m.TotalReceived - m.TotalWithdrawn
}

// ApplyEarning credits a received amount and returns the log entry.
// typ distinguishes plain project earnings from commissions.
func (m *Member) ApplyEarning(amount float64, typ TransactionType, projectID *uuid.UUID, note string) Transaction {
	m.TotalReceived += amount
	m.TotalEarned += amount
	m.recomputeBalance()

	return Transaction{MemberID: m.ID, Type: typ, Amount: amount, ProjectID: projectID, Note: note}
}

// AddPending records revenue owed for not-yet-paid work. Pending
// amounts carry no log entry until they are confirmed.
func (m *Member) AddPending(amount float64) {
	m.PendingEarnings += amount
}

// ReversePending removes a pending amount, floored at zero.
func (m *Member) ReversePending(amount float64) {
	m.PendingEarnings -= amount
	if m.PendingEarnings < 0 {
		m.PendingEarnings = 0
	}
}

// ConfirmPending converts a pending amount into a received earning.
func (m *Member) ConfirmPending(amount float64, projectID *uuid.UUID, note string) Transaction {
	m.ReversePending(amount)
	return m.ApplyEarning(amount, TxEarning, projectID, note)
}

// ReverseEarning undoes a previously received earning, floored at
// zero, and returns the compensating deduction entry.
func (m *Member) ReverseEarning(amount float64, projectID *uuid.UUID, note string) Transaction {
	m.TotalReceived -= amount
	if m.TotalReceived < 0 {
		m.TotalReceived = 0
	}

	m.TotalEarned -= amount
	if m.TotalEarned < 0 {
		m.TotalEarned = 0
	}

	m.recomputeBalance()

	return Transaction{MemberID: m.ID, Type: TxDeduction, Amount: amount, ProjectID: projectID, Note: note}
}

// Withdraw debits the member's balance. typ is TxWithdrawal or TxAdvance.
func (m *Member) Withdraw(amount float64, typ TransactionType, note string) Transaction {
	m.TotalWithdrawn += amount
	m.recomputeBalance()

	return Transaction{MemberID: m.ID, Type: typ, Amount: amount, Note: note}
}
