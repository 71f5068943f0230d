package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/redixstudio/atelier/internal/audit"
	auditStore "github.com/redixstudio/atelier/internal/audit/store"
	"github.com/redixstudio/atelier/internal/config"
	"github.com/redixstudio/atelier/internal/database"
	"github.com/redixstudio/atelier/internal/finance"
	financeStore "github.com/redixstudio/atelier/internal/finance/store"
	atelierHttp "github.com/redixstudio/atelier/internal/http"
	financeHandler "github.com/redixstudio/atelier/internal/http/finance"
	importHandler "github.com/redixstudio/atelier/internal/http/importcsv"
	notificationHandler "github.com/redixstudio/atelier/internal/http/notification"
	projectHandler "github.com/redixstudio/atelier/internal/http/project"
	teamHandler "github.com/redixstudio/atelier/internal/http/team"
	toolHandler "github.com/redixstudio/atelier/internal/http/tool"
	"github.com/redixstudio/atelier/internal/importer"
	notifyStore "github.com/redixstudio/atelier/internal/notify/store"
	"github.com/redixstudio/atelier/internal/project"
	projectStore "github.com/redixstudio/atelier/internal/project/store"
	"github.com/redixstudio/atelier/internal/team"
	teamStore "github.com/redixstudio/atelier/internal/team/store"
	"github.com/redixstudio/atelier/internal/tool"
	toolStore "github.com/redixstudio/atelier/internal/tool/store"
)

func main() {
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
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var (
		auditor  audit.Recorder = auditStore.New(db)
		notifier                = notifyStore.New(db)
	)

	var (
		projectService = project.NewService(projectStore.New(db), auditor, notifier)
		teamService    = team.NewService(teamStore.New(db), auditor, notifier)
		toolService    = tool.NewService(toolStore.New(db))
		financeService = finance.NewService(financeStore.New(db))
	)

	var (
		projectH      = projectHandler.NewHandler(projectService)
		teamH         = teamHandler.NewHandler(teamService)
		toolH         = toolHandler.NewHandler(toolService)
		financeH      = financeHandler.NewHandler(financeService)
		notificationH = notificationHandler.NewHandler(notifier)
		importH       = importHandler.NewHandler(importer.NewParser(), projectService)
	)

	router := atelierHttp.New(projectH, teamH, toolH, financeH, notificationH, importH, cfg.Server.AllowedOrigins)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
