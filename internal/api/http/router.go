package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/staff-policy-service/internal/api/http/handlers"
	"github.com/spec-kit/staff-policy-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Policies       *handlers.PolicyHandler
	Admin          *handlers.AdminHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("/api")

	api.Get("/lic-records", cfg.Policies.List)
	api.Get("/lic-records/staff/:staffId", cfg.Policies.ListByStaff)
	api.Post("/lic-records", cfg.Policies.BulkCreate)
	api.Put("/lic-records/emp-id", cfg.Policies.UpdateStaffID)
	api.Put("/lic-records/:id", cfg.Policies.Update)
	api.Delete("/lic-records/:id", cfg.Policies.Delete)

	api.Get("/stats", cfg.Policies.Stats)
	api.Get("/backup", cfg.Admin.Backup)

	// The wipe endpoint carries its own password check and restore must stay
	// reachable by unauthenticated restore tooling; only the roster import
	// sits behind the admin token.
	api.Post("/delete-all", cfg.Admin.DeleteAll)
	api.Post("/restore", cfg.Admin.Restore)

	api.Get("/staff", cfg.Staff.List)
	api.Get("/staff/export", cfg.Staff.Export)
	api.Post("/staff", cfg.Staff.Create)
	api.Put("/staff/:empId", cfg.Staff.Update)
	api.Delete("/staff/:empId", cfg.Staff.Delete)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/staff/import", cfg.Staff.Import)
}
