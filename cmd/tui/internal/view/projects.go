package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/redixstudio/atelier/internal/project"
)

type projectsState int

const (
	projectsStateBrowse projectsState = iota
	projectsStatePay
	projectsStateDelete
)

type ProjectsModel struct {
	CommonModel
	projectService *project.Service

	state    projectsState
	table    table.Model
	projects []*project.Project
	form     *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formAmount  string
	formConfirm string
}

func NewProjectsModel(projectSvc *project.Service) ProjectsModel {
	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Client", Width: 20},
		{Title: "Total", Width: 10},
		{Title: "Paid", Width: 10},
		{Title: "Payment", Width: 10},
		{Title: "Status", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ProjectsModel{
		projectService: projectSvc,
		table:          t,
		loading:        true,
	}
}

func (m ProjectsModel) Title() string { return "Projects" }
func (m ProjectsModel) ShortHelp() string {
	if m.state != projectsStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | p: record payment | x: delete | r: refresh"
}

type loadProjectsMsg struct {
	projects []*project.Project
	err      error
}

type projectOpMsg struct {
	status string
	err    error
}

func (m ProjectsModel) loadProjectsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		projects, err := m.projectService.List(ctx)

		return loadProjectsMsg{projects: projects, err: err}
	}
}

func (m ProjectsModel) Init() tea.Cmd {
	return m.loadProjectsCmd()
}

func (m ProjectsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadProjectsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.projects = msg.projects
		m.refreshTable()

		return m, nil

	case projectOpMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.status
		}

		m.state = projectsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadProjectsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case projectsStateBrowse:
		return m.updateBrowse(msg)
	case projectsStatePay, projectsStateDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m ProjectsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadProjectsCmd()
		case "p":
			return m.enterPayMode()
		case "x":
			return m.enterDeleteMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ProjectsModel) selected() *project.Project {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.projects) {
		return nil
	}

	return m.projects[idx]
}

func (m ProjectsModel) enterPayMode() (tea.Model, tea.Cmd) {
	p := m.selected()
	if p == nil {
		return m, nil
	}

	if p.PaymentStatus == project.PaymentDone {
		m.status = "Project is already fully paid"
		return m, nil
	}

	m.formAmount = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title(fmt.Sprintf("Payment amount (%s remaining)", FormatAmount(p.TotalPrice-p.AmountPaid))).
				Value(&m.formAmount).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil {
						return fmt.Errorf("enter a number")
					}
					if v <= 0 {
						return fmt.Errorf("amount must be positive")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = projectsStatePay
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProjectsModel) enterDeleteMode() (tea.Model, tea.Cmd) {
	p := m.selected()
	if p == nil {
		return m, nil
	}

	m.formConfirm = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("confirm").
				Title(fmt.Sprintf("Type the project name (%s) to delete it", p.Name)).
				Value(&m.formConfirm),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = projectsStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProjectsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = projectsStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	switch m.state {
	case projectsStatePay:
		return m, m.payCmd()
	case projectsStateDelete:
		return m, m.deleteCmd()
	}

	return m, nil
}

func (m ProjectsModel) payCmd() tea.Cmd {
	p := m.selected()
	amount, _ := strconv.ParseFloat(strings.TrimSpace(m.formAmount), 64)

	return func() tea.Msg {
		if p == nil {
			return projectOpMsg{err: fmt.Errorf("no project selected")}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		updated, err := m.projectService.RecordPartialPayment(ctx, p.ID, amount)
		if err != nil {
			return projectOpMsg{err: err}
		}

		return projectOpMsg{status: fmt.Sprintf("Recorded %s, now %s/%s paid",
			FormatAmount(amount), FormatAmount(updated.AmountPaid), FormatAmount(updated.TotalPrice))}
	}
}

func (m ProjectsModel) deleteCmd() tea.Cmd {
	p := m.selected()
	confirm := m.formConfirm

	return func() tea.Msg {
		if p == nil {
			return projectOpMsg{err: fmt.Errorf("no project selected")}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.projectService.Delete(ctx, p.ID, confirm); err != nil {
			return projectOpMsg{err: err}
		}

		return projectOpMsg{status: fmt.Sprintf("Deleted %s and reversed its allocations", p.Name)}
	}
}

func (m *ProjectsModel) refreshTable() {
	rows := make([]table.Row, len(m.projects))
	for i, p := range m.projects {
		rows[i] = table.Row{
			p.Name,
			p.ClientName,
			FormatAmount(p.TotalPrice),
			FormatAmount(p.AmountPaid),
			string(p.PaymentStatus),
			string(p.ProjectStatus),
		}
	}

	m.table.SetRows(rows)
}

func (m ProjectsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading projects...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	parts := []string{tableView}

	if m.status != "" {
		parts = append(parts, lipgloss.NewStyle().PaddingTop(1).Render(activeStyle(m.status)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.state != projectsStateBrowse && m.form != nil {
		title := "Record Partial Payment"
		if m.state == projectsStateDelete {
			title = "Delete Project"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(64).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinVertical(lipgloss.Left, content, panel)
	}

	return content
}
