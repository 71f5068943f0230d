package project

import (
	"time"

	"github.com/google/uuid"

	"github.com/redixstudio/atelier/internal/distribution"
)

// PaymentStatus is how much of the project's price the client has paid.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentDone    PaymentStatus = "done"
)

// Status is the delivery state of the project, independent of payment.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ToolUsage is one tool's percentage of the tooling bucket.
type ToolUsage struct {
	ToolID     uuid.UUID `json:"tool_id"`
	Percentage float64   `json:"percentage"`
}

// TeamShare is one member's percentage of the team bucket, with the
// monetary amount computed when the distribution snapshot was taken.
type TeamShare struct {
	MemberID   uuid.UUID `json:"member_id"`
	Percentage float64   `json:"percentage"`
	Amount     float64   `json:"amount"`
}

// AppliedTool records the amount actually credited to a tool.
type AppliedTool struct {
	ToolID uuid.UUID `json:"tool_id"`
	Amount float64   `json:"amount"`
}

// AppliedShare records the amount actually allocated to a member.
// Confirmed is true once the amount moved from pending to received.
type AppliedShare struct {
	MemberID  uuid.UUID `json:"member_id"`
	Amount    float64   `json:"amount"`
	Confirmed bool      `json:"confirmed"`
}

// Applied is the distribution snapshot persisted when allocations were
// applied. Reversal reads exclusively from here: the amounts are the
// historical ones, immune to later edits of price or percentages.
type Applied struct {
	Total        float64        `json:"total"`
	ToolsAmount  float64        `json:"tools_amount"`
	TeamAmount   float64        `json:"team_amount"`
	CaisseAmount float64        `json:"caisse_amount"`
	Tools        []AppliedTool  `json:"tools"`
	Members      []AppliedShare `json:"members"`
}

// Project is a billable unit of work.
type Project struct {
	ID            uuid.UUID
	Name          string
	ClientName    string
	TotalPrice    float64
	AmountPaid    float64
	PaymentStatus PaymentStatus
	ProjectStatus Status
	Distribution  distribution.Split
	ToolsUsage    []ToolUsage
	TeamShares    []TeamShare
	Applied       *Applied
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
