package team

import (
	"time"

	"github.com/google/uuid"

	"github.com/redixstudio/atelier/internal/team"
)

type memberResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Role            string     `json:"role,omitempty"`
	TotalEarned     float64    `json:"total_earned"`
	TotalReceived   float64    `json:"total_received"`
	PendingEarnings float64    `json:"pending_earnings"`
	TotalWithdrawn  float64    `json:"total_withdrawn"`
	Balance         float64    `json:"balance"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

type transactionResponse struct {
	ID        uuid.UUID            `json:"id"`
	MemberID  uuid.UUID            `json:"member_id"`
	Type      team.TransactionType `json:"type"`
	Amount    float64              `json:"amount"`
	ProjectID *uuid.UUID           `json:"project_id,omitempty"`
	Note      string               `json:"note,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

func toResponse(m *team.Member) memberResponse {
	return memberResponse{
		ID:              m.ID,
		Name:            m.Name,
		Role:            m.Role,
		TotalEarned:     m.TotalEarned,
		TotalReceived:   m.TotalReceived,
		PendingEarnings: m.PendingEarnings,
		TotalWithdrawn:  m.TotalWithdrawn,
		Balance:         m.Balance,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toResponseList(members []*team.Member) []memberResponse {
	resp := make([]memberResponse, len(members))
	for i, m := range members {
		resp[i] = toResponse(m)
	}

	return resp
}

func toTransactionResponse(tx *team.Transaction) transactionResponse {
	return transactionResponse{
		ID:        tx.ID,
		MemberID:  tx.MemberID,
		Type:      tx.Type,
		Amount:    tx.Amount,
		ProjectID: tx.ProjectID,
		Note:      tx.Note,
		CreatedAt: tx.CreatedAt,
	}
}

func toTransactionList(txs []*team.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toTransactionResponse(tx)
	}

	return resp
}
