package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/redixstudio/atelier/internal/finance"
)

type FinancialModel struct {
	CommonModel
	financeService *finance.Service

	metrics *finance.Metrics
	loading bool
	err     error
}

func NewFinancialModel(financeSvc *finance.Service) FinancialModel {
	return FinancialModel{financeService: financeSvc, loading: true}
}

func (m FinancialModel) Title() string     { return "Financial Summary" }
func (m FinancialModel) ShortHelp() string { return "Esc: back | r: refresh" }

type loadMetricsMsg struct {
	metrics *finance.Metrics
	err     error
}

func (m FinancialModel) loadMetricsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		metrics, err := m.financeService.Summary(ctx)

		return loadMetricsMsg{metrics: metrics, err: err}
	}
}

func (m FinancialModel) Init() tea.Cmd {
	return m.loadMetricsCmd()
}

func (m FinancialModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadMetricsMsg:
		m.loading = false
		m.err = msg.err
		m.metrics = msg.metrics

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadMetricsCmd()
		}
	}

	return m, nil
}

func (m FinancialModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading financial summary...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	labelStyle := lipgloss.NewStyle().Width(20).Foreground(lipgloss.Color("245"))
	row := func(label string, v float64) string {
		return labelStyle.Render(label) + FormatAmount(v)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingBottom(1).Render("Financial Summary"),
		row("Tools reserve", m.metrics.ToolsReserve),
		row("Team share", m.metrics.TeamShare),
		row("Investment reserve", m.metrics.InvestmentReserve),
		row("Redix caisse", m.metrics.RedixCaisse),
		"",
		row("Total revenue", m.metrics.TotalRevenue),
		row("Total expenses", m.metrics.TotalExpenses),
		row("Net profit", m.metrics.NetProfit),
		"",
		labelStyle.Render("Last updated")+FormatDate(m.metrics.LastUpdated),
	)

	return lipgloss.NewStyle().Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(body)
}
