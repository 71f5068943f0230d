package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/redixstudio/atelier/cmd/tui/internal/view"
	auditStore "github.com/redixstudio/atelier/internal/audit/store"
	"github.com/redixstudio/atelier/internal/config"
	"github.com/redixstudio/atelier/internal/database"
	"github.com/redixstudio/atelier/internal/finance"
	financeStore "github.com/redixstudio/atelier/internal/finance/store"
	notifyStore "github.com/redixstudio/atelier/internal/notify/store"
	"github.com/redixstudio/atelier/internal/project"
	projectStore "github.com/redixstudio/atelier/internal/project/store"
)

type model struct {
	projectService *project.Service
	financeService *finance.Service

	currentView View

	projectsView  view.ProjectsModel
	financialView view.FinancialModel
}

type View int

const (
	ViewMenu      View = 0
	ViewProjects  View = 1
	ViewFinancial View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	projectSvc := project.NewService(projectStore.New(db), auditStore.New(db), notifyStore.New(db))
	financeSvc := finance.NewService(financeStore.New(db))

	return model{
		projectService: projectSvc,
		financeService: financeSvc,
		currentView:    ViewMenu,
		projectsView:   view.NewProjectsModel(projectSvc),
		financialView:  view.NewFinancialModel(financeSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewProjects
				m.projectsView = view.NewProjectsModel(m.projectService)

				return m, m.projectsView.Init()
			case "2":
				m.currentView = ViewFinancial
				m.financialView = view.NewFinancialModel(m.financeService)

				return m, m.financialView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewProjects:
		var newModel tea.Model
		newModel, cmd = m.projectsView.Update(msg)
		m.projectsView = newModel.(view.ProjectsModel)
	case ViewFinancial:
		var newModel tea.Model
		newModel, cmd = m.financialView.Update(msg)
		m.financialView = newModel.(view.FinancialModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Atelier TUI\n\n" +
				"1. Projects\n" +
				"2. Financial Summary\n\n" +
				"q. Quit",
		)
	case ViewProjects:
		return m.projectsView.View()
	case ViewFinancial:
		return m.financialView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
