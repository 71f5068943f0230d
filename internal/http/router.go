package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/redixstudio/atelier/internal/http/finance"
	"github.com/redixstudio/atelier/internal/http/importcsv"
	"github.com/redixstudio/atelier/internal/http/notification"
	"github.com/redixstudio/atelier/internal/http/project"
	"github.com/redixstudio/atelier/internal/http/team"
	"github.com/redixstudio/atelier/internal/http/tool"
)

func New(
	projectsV1 *project.Handler,
	teamV1 *team.Handler,
	toolsV1 *tool.Handler,
	financialV1 *finance.Handler,
	notificationsV1 *notification.Handler,
	importV1 *importcsv.Handler,
	allowedOrigins []string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			projectsV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)

		r.Route("/team", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			teamV1.Routes(r)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			teamV1.SettingsRoutes(r)
		})

		r.Route("/tools", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			toolsV1.Routes(r)
		})

		r.Route("/financial", financialV1.Routes)

		r.Route("/notifications", notificationsV1.Routes)
	})

	return router
}
