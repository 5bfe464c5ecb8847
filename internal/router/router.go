// Package router registers the HTTP routes of the service.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vaani/internal/handler"
	"github.com/iliyamo/vaani/internal/middleware"
)

// RegisterRoutes registers routes that need no session: the landing page,
// the health check and the public sites.
func RegisterRoutes(e *echo.Echo, health *handler.HealthHandler, w *handler.WebsiteHandler) {
	e.GET("/", w.Index)
	e.GET("/healthz", health.Health)
	// Public pages are counted on every load; nothing here may be cached.
	e.GET("/public/:username", w.Public)
}

// RegisterAuth registers the account routes.  Register, login and logout
// work without a session; password change and deletion require one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, secret string) {
	e.GET("/register", a.RegisterPage)
	e.POST("/register", a.Register)
	e.GET("/login", a.LoginPage)
	e.POST("/login", a.Login)
	e.GET("/logout", a.Logout)

	acct := e.Group("/account", middleware.SessionAuth(secret))
	acct.POST("/password", a.ChangePassword)
	acct.POST("/delete", a.DeleteAccount)
}

// RegisterSite registers the signed-in editor: the dashboard page and the
// manual save endpoint.
func RegisterSite(e *echo.Echo, w *handler.WebsiteHandler, secret string) {
	e.GET("/dashboard", w.Dashboard, middleware.SessionPage(secret))
	e.POST("/save-data", w.SaveData, middleware.SessionAuth(secret))
}
