package router

import (
	"github.com/labstack/echo/v4"

	"github.com/finbeam/guarantor-intake/internal/handler"
	"github.com/finbeam/guarantor-intake/internal/middleware"
	"github.com/finbeam/guarantor-intake/internal/model"
)

// RegisterAdmin registers the ADMIN-only user directory under /v1.
func RegisterAdmin(e *echo.Echo, u *handler.UserHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
		limiter,
	)
	g.GET("/users", u.List)
	g.GET("/users/:id", u.Get)
}
