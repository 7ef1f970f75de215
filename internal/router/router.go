package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bhardwajvivekkumar/JobSync/internal/applications"
	"github.com/bhardwajvivekkumar/JobSync/internal/auth"
	"github.com/bhardwajvivekkumar/JobSync/internal/dashboard"
	"github.com/bhardwajvivekkumar/JobSync/internal/export"
)

type Router struct {
	AuthHandler      *auth.Handler
	AppsHandler      *applications.Handler
	DashboardHandler *dashboard.Handler
	ExportHandler    *export.Handler
	AuthMW           fiber.Handler
	LoginLimiter     fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	if r.AuthHandler != nil {
		if r.LoginLimiter != nil {
			app.Post("/api/auth/register", r.LoginLimiter, r.AuthHandler.Register)
			app.Post("/api/auth/login", r.LoginLimiter, r.AuthHandler.Login)
		} else {
			app.Post("/api/auth/register", r.AuthHandler.Register)
			app.Post("/api/auth/login", r.AuthHandler.Login)
		}
		app.Post("/api/auth/forgot-password", r.AuthHandler.ForgotPassword)
		app.Post("/api/auth/reset-password", r.AuthHandler.ResetPassword)
		app.Get("/api/auth/me", r.AuthMW, r.AuthHandler.Me)
		app.Delete("/api/auth/delete", r.AuthMW, r.AuthHandler.DeleteAccount)
	}

	if r.AppsHandler != nil {
		app.Post("/api/applications", r.AuthMW, r.AppsHandler.Create)
		app.Get("/api/applications", r.AuthMW, r.AppsHandler.List)

		// Fixed paths must register before the :id wildcard.
		app.Get("/api/applications/followups/due", r.AuthMW, r.AppsHandler.DueFollowUps)

		if r.DashboardHandler != nil {
			app.Get("/api/applications/dashboard/count", r.AuthMW, r.DashboardHandler.Count)
			app.Get("/api/applications/dashboard/trends", r.AuthMW, r.DashboardHandler.Trends)
			app.Get("/api/applications/dashboard/activity", r.AuthMW, r.DashboardHandler.Activity)
			app.Get("/api/applications/dashboard/status", r.AuthMW, r.DashboardHandler.Status)
		}

		app.Get("/api/applications/:id", r.AuthMW, r.AppsHandler.GetByID)
		app.Put("/api/applications/:id/followup-toggle", r.AuthMW, r.AppsHandler.ToggleFollowUp)
		app.Put("/api/applications/:id", r.AuthMW, r.AppsHandler.Update)
		app.Delete("/api/applications/:id", r.AuthMW, r.AppsHandler.Delete)
	}

	if r.ExportHandler != nil {
		app.Get("/api/jobs/export/csv", r.AuthMW, r.ExportHandler.CSV)
		app.Get("/api/jobs/export/pdf", r.AuthMW, r.ExportHandler.PDF)
	}
}
