package tool

import (
	"time"

	"github.com/google/uuid"
)

// Tool is a piece of equipment whose purchase cost is recovered from
// project revenue over time.
type Tool struct {
	ID             uuid.UUID
	Name           string
	PurchasePrice  float64
	RevenueCounter float64
	PayoffPercent  float64
	UsageCount     int
	LastUsedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// ApplyRevenue credits a cost-recovery allocation to the tool. The
// revenue counter never exceeds the purchase price; the excess is
// silently dropped.
func (t *Tool) ApplyRevenue(amount float64, now time.Time) {
	remaining := t.PurchasePrice - t.RevenueCounter
	if amount > remaining {
		amount = remaining
	}

	if amount > 0 {
		t.RevenueCounter += amount
	}

	t.UsageCount++
	t.LastUsedAt = &now
	t.recomputePayoff()
}

// ReverseRevenue undoes a prior ApplyRevenue. Both the counter and the
// usage count are floored at zero, so reversing more than was applied
// cannot drive the tool negative. Each apply still assumes exactly one
// matching reverse; callers must not double-apply.
func (t *Tool) ReverseRevenue(amount float64) {
	t.RevenueCounter -= amount
	if t.RevenueCounter < 0 {
		t.RevenueCounter = 0
	}

	t.UsageCount--
	if t.UsageCount < 0 {
		t.UsageCount = 0
	}

	t.recomputePayoff()
}

func (t *Tool) recomputePayoff() {
	if t.PurchasePrice <= 0 {
		t.PayoffPercent = 100
		return
	}

	t.PayoffPercent = t.RevenueCounter / t.PurchasePrice * 100
	if t.PayoffPercent > 100 {
		t.PayoffPercent = 100
	}
}
