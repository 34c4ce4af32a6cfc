package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/genzspace/genzflow/internal/auth"
	"github.com/genzspace/genzflow/internal/dashboard"
	"github.com/genzspace/genzflow/internal/department"
	"github.com/genzspace/genzflow/internal/employee"
	"github.com/genzspace/genzflow/internal/project"
	"github.com/genzspace/genzflow/internal/task"
	"github.com/genzspace/genzflow/internal/transport/middleware"
	"github.com/genzspace/genzflow/internal/transport/swagger"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth       *auth.Handler
	Employee   *employee.Handler
	Department *department.Handler
	Task       *task.Handler
	Project    *project.Handler
	Dashboard  *dashboard.Handler
	Health     *HealthHandler
}

// RegisterAllRoutes wires the full API surface under /api. Role gates come
// from the auth handler's policy-backed middleware; ownership checks that
// need row data live in the services.
func RegisterAllRoutes(router *chi.Mux, h Handlers, allowedOrigins []string, logger *slog.Logger) {
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.TraceID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.Liveness)
		r.Get("/health/ready", h.Health.Readiness)
		r.Get("/ping", h.Health.Ping)

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", h.Auth.Register)
			ar.Post("/login", h.Auth.Login)

			ar.Group(func(pr chi.Router) {
				pr.Use(h.Auth.RequireAuth)
				pr.Get("/me", h.Auth.GetMe)
				pr.Put("/me", h.Auth.UpdateMe)
				pr.Put("/change-password", h.Auth.ChangePassword)
				pr.Post("/logout", h.Auth.Logout)
			})
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.RequireAuth)

			pr.Route("/employees", func(er chi.Router) {
				er.Get("/", h.Employee.List)
				er.Get("/org-chart/hierarchy", h.Employee.OrgChart)

				er.Group(func(gr chi.Router) {
					gr.Use(h.Auth.RequirePermission(auth.ResourceEmployees, auth.ActionStats))
					gr.Get("/stats/overview", h.Employee.StatsOverview)
				})

				er.Group(func(gr chi.Router) {
					gr.Use(h.Auth.RequirePermission(auth.ResourceEmployees, auth.ActionCreate))
					gr.Post("/", h.Employee.Create)
				})

				er.Group(func(gr chi.Router) {
					gr.Use(h.Auth.RequireSelfOrAdmin("id"))
					gr.Get("/{id}", h.Employee.Get)
					gr.Put("/{id}", h.Employee.Update)
				})

				er.Group(func(gr chi.Router) {
					gr.Use(h.Auth.RequirePermission(auth.ResourceEmployees, auth.ActionDelete))
					gr.Delete("/{id}", h.Employee.Delete)
				})
			})

			pr.Get("/departments", h.Department.List)

			pr.Route("/tasks", func(tr chi.Router) {
				tr.Get("/", h.Task.List)
				tr.Get("/stats/overview", h.Task.StatsOverview)
				tr.Get("/{id}", h.Task.Get)
				// Update authorization needs the task row (assignee/assigner
				// may edit), so the service decides it.
				tr.Put("/{id}", h.Task.Update)

				tr.Group(func(gr chi.Router) {
					gr.Use(h.Auth.RequirePermission(auth.ResourceTasks, auth.ActionCreate))
					gr.Post("/", h.Task.Create)
				})

				tr.Group(func(gr chi.Router) {
					gr.Use(h.Auth.RequirePermission(auth.ResourceTasks, auth.ActionDelete))
					gr.Delete("/{id}", h.Task.Delete)
				})
			})

			pr.Route("/projects", func(jr chi.Router) {
				jr.Get("/", h.Project.List)
				jr.Get("/stats/overview", h.Project.StatsOverview)
				jr.Get("/{id}", h.Project.Get)

				jr.Group(func(gr chi.Router) {
					gr.Use(h.Auth.RequirePermission(auth.ResourceProjects, auth.ActionCreate))
					gr.Post("/", h.Project.Create)
				})

				jr.Group(func(gr chi.Router) {
					gr.Use(h.Auth.RequirePermission(auth.ResourceProjects, auth.ActionUpdate))
					gr.Put("/{id}", h.Project.Update)
				})

				jr.Group(func(gr chi.Router) {
					gr.Use(h.Auth.RequirePermission(auth.ResourceProjects, auth.ActionDelete))
					gr.Delete("/{id}", h.Project.Delete)
				})
			})

			pr.Route("/dashboard", func(dr chi.Router) {
				dr.Group(func(gr chi.Router) {
					gr.Use(h.Auth.RequirePermission(auth.ResourceDashboard, auth.ActionViewCEO))
					gr.Get("/ceo", h.Dashboard.CEO)
				})

				dr.Group(func(gr chi.Router) {
					gr.Use(h.Auth.RequirePermission(auth.ResourceDashboard, auth.ActionViewManager))
					gr.Get("/manager", h.Dashboard.Manager)
				})

				dr.Get("/employee", h.Dashboard.Employee)
				dr.Get("/general", h.Dashboard.General)
			})
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"API endpoint not found"}`))
	})
}
