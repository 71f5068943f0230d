package finance

import (
	"time"
)

// Metrics is the company-wide financial summary. Exactly one row
// exists; the schema seeds it and constrains the table to a single
// primary-key value, so there is no find-or-create race.
type Metrics struct {
	ToolsReserve      float64
	TeamShare         float64
	InvestmentReserve float64
	RedixCaisse       float64
	TotalRevenue      float64
	TotalExpenses     float64
	NetProfit         float64
	LastUpdated       time.Time
}

// Delta is a set of signed adjustments. Zero fields leave the
// corresponding metric untouched.
type Delta struct {
	ToolsReserve      float64
	TeamShare         float64
	InvestmentReserve float64
	RedixCaisse       float64
	TotalRevenue      float64
	TotalExpenses     float64
}

// Negate returns the delta that undoes d.
func (d Delta) Negate() Delta {
	return Delta{
		ToolsReserve:      -d.ToolsReserve,
		TeamShare:         -d.TeamShare,
		InvestmentReserve: -d.InvestmentReserve,
		RedixCaisse:       -d.RedixCaisse,
		TotalRevenue:      -d.TotalRevenue,
		TotalExpenses:     -d.TotalExpenses,
	}
}

// Apply adds the delta to the running totals and recomputes net profit.
func (m *Metrics) Apply(d Delta, now time.Time) {
	m.ToolsReserve += d.ToolsReserve
	m.TeamShare += d.TeamShare
	m.InvestmentReserve += d.InvestmentReserve
	m.RedixCaisse += d.RedixCaisse
	m.TotalRevenue += d.TotalRevenue
	m.TotalExpenses += d.TotalExpenses
	m.NetProfit = m.TotalRevenue - m.TotalExpenses
	m.LastUpdated = now
}
