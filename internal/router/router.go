// Package router maps HTTP routes onto handlers and their middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/finbeam/guarantor-intake/internal/handler"
	"github.com/finbeam/guarantor-intake/internal/middleware"
	"github.com/finbeam/guarantor-intake/internal/model"
)

// RegisterRoutes registers routes that never require authentication.
// Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Token issuing operations
// live under /v1/auth without JWT middleware; /v1/me requires a valid
// access token. The rate limiter runs after JWTAuth on protected
// groups so user-keyed strategies see the authenticated id; on the
// anonymous auth group it keys by IP.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Issues a fresh access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout validates the refresh token (or bearer) itself, so it
	// stays outside the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
		limiter,
	)
	auth.GET("/me", a.Me)
}
