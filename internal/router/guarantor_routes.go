package router

import (
	"github.com/labstack/echo/v4"

	"github.com/finbeam/guarantor-intake/internal/handler"
	"github.com/finbeam/guarantor-intake/internal/middleware"
	"github.com/finbeam/guarantor-intake/internal/model"
)

// RegisterGuarantor registers the guarantor intake endpoints under /v1.
// All routes require a valid JWT; both roles may submit and query.
// Deletion is destructive and is restricted to ADMIN separately.
func RegisterGuarantor(e *echo.Echo, s *handler.SubmissionHandler, at *handler.AttachmentHandler, d *handler.DashboardHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
		limiter, // after JWTAuth so user keying works
	)
	g.POST("/guarantor/submit", s.Submit)
	g.GET("/guarantor/:id", s.Get)
	g.PUT("/guarantor/:id", s.Update)
	g.GET("/submissions/list", s.List)
	g.POST("/attachments/upload", at.Upload)
	g.GET("/dashboard/stats", d.Stats)

	admin := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
		limiter,
	)
	admin.DELETE("/submissions/:id", s.Delete)
}
