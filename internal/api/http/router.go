package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/garage-scheduler/internal/api/http/handlers"
	"github.com/spec-kit/garage-scheduler/internal/auth"
	"github.com/spec-kit/garage-scheduler/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Dashboard     *handlers.DashboardHandler
	Appointments  *handlers.AppointmentsHandler
	Notifications *handlers.NotificationsHandler
	Session       *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes. The session middleware resolves an
// identity (or anonymous) on every request; guards enforce per-route
// requirements on top of it.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Use(cfg.Session.Resolve)

	app.Get("/register", cfg.Auth.RegisterForm)
	app.Post("/register", cfg.Auth.Register)
	app.Get("/login", cfg.Auth.LoginForm)
	app.Post("/login", cfg.Auth.Login)
	app.Get("/logout", cfg.Auth.Logout)

	dashboard := app.Group("/dashboard", auth.RequireAuthenticated())
	dashboard.Get("/", cfg.Dashboard.Dashboard)
	dashboard.Get("/profile", cfg.Dashboard.Profile)
	dashboard.Post("/profile", cfg.Dashboard.UpdateProfile)
	dashboard.Post("/profile/change-password", cfg.Dashboard.ChangePassword)
	dashboard.Post("/profile/delete", cfg.Dashboard.DeleteAccount)

	appts := app.Group("/appointments")
	appts.Get("/book", cfg.Appointments.BookForm)
	appts.Post("/book", auth.RequireAuthenticated(), cfg.Appointments.Book)
	appts.Get("/my", auth.RequireAuthenticated(), cfg.Appointments.My)

	appts.Get("/list", auth.RequireRole(domain.RoleAdmin), cfg.Appointments.ListAll)
	appts.Get("/assigned", auth.RequireRole(domain.RoleAdmin), cfg.Appointments.Assigned)
	appts.Get("/admin/suggest", auth.RequireRole(domain.RoleAdmin), cfg.Appointments.Suggest)
	appts.Post("/admin/:id/assign", auth.RequireRole(domain.RoleAdmin), cfg.Appointments.Assign)

	appts.Get("/mechanic/appointments", auth.RequireRole(domain.RoleMechanic), cfg.Appointments.MechanicAppointments)
	appts.Post("/mechanic/appointments/:id/complete", auth.RequireRole(domain.RoleMechanic, domain.RoleAdmin), cfg.Appointments.Complete)
	appts.Get("/mechanic/history", auth.RequireRole(domain.RoleMechanic), cfg.Appointments.History)

	appts.Post("/:id/edit", auth.RequireRole(domain.RoleAdmin), cfg.Appointments.Edit)
	appts.Post("/:id/delete", auth.RequireRole(domain.RoleAdmin), cfg.Appointments.Delete)

	notifications := app.Group("/notifications", auth.RequireAuthenticated())
	notifications.Get("/", cfg.Notifications.List)
	notifications.Get("/unread", cfg.Notifications.Unread)
}
