package finance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/redixstudio/atelier/internal/finance"
)

func TestMetrics_Apply(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	m := &finance.Metrics{}

	m.Apply(finance.Delta{
		ToolsReserve: 300,
		TeamShare:    500,
		RedixCaisse:  200,
		TotalRevenue: 1000,
	}, now)

	assert.InDelta(t, 300, m.ToolsReserve, 0.001)
	assert.InDelta(t, 500, m.TeamShare, 0.001)
	assert.InDelta(t, 200, m.RedixCaisse, 0.001)
	assert.InDelta(t, 1000, m.TotalRevenue, 0.001)
	assert.InDelta(t, 1000, m.NetProfit, 0.001)
	assert.Equal(t, now, m.LastUpdated)

	m.Apply(finance.Delta{TotalExpenses: 250}, now.Add(time.Hour))

	assert.InDelta(t, 250, m.TotalExpenses, 0.001)
	assert.InDelta(t, 750, m.NetProfit, 0.001)
	assert.Equal(t, now.Add(time.Hour), m.LastUpdated)
}

func TestDelta_Negate(t *testing.T) {
	now := time.Now()

	d := finance.Delta{
		ToolsReserve: 300,
		TeamShare:    500,
		RedixCaisse:  200,
		TotalRevenue: 1000,
	}

	m := &finance.Metrics{}
	m.Apply(d, now)
	m.Apply(d.Negate(), now)

	assert.InDelta(t, 0, m.ToolsReserve, 0.001)
	assert.InDelta(t, 0, m.TeamShare, 0.001)
	assert.InDelta(t, 0, m.RedixCaisse, 0.001)
	assert.InDelta(t, 0, m.TotalRevenue, 0.001)
	assert.InDelta(t, 0, m.NetProfit, 0.001)
}
