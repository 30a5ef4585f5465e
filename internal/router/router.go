package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/health-record/internal/auth"       // session manager consumed by the guard
	"github.com/iliyamo/health-record/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/health-record/internal/middleware" // import middleware for session authentication
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check, used
// by load balancers and monitoring systems to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints and the /v1/me
// session probe.  The credential endpoints live under /v1/auth and are
// wrapped in the rate limiter when one is provided; they must stay outside
// the session guard because they exist to create or destroy sessions.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, sessions *auth.SessionManager, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	// Registration creates the user and logs the browser in immediately.
	g.POST("/register", a.Register)
	// Login verifies the credential and sets a fresh session cookie.
	g.POST("/login", a.Login)
	// Logout clears the cookie unconditionally and never fails.
	g.POST("/logout", a.Logout)

	// /v1/me requires a resolvable session; the guard re-fetches the user
	// from the directory on every request.
	authed := e.Group("/v1")
	authed.Use(middleware.RequireSession(sessions))
	authed.GET("/me", a.Me)
}

// RegisterRecords registers the document, insight and reminder endpoints.
// Every route here runs behind the session guard: an absent or invalid
// cookie answers 401 before any handler executes.
func RegisterRecords(e *echo.Echo, d *handler.DocumentHandler, i *handler.InsightHandler, r *handler.ReminderHandler, sessions *auth.SessionManager) {
	g := e.Group("/v1")
	g.Use(middleware.RequireSession(sessions))

	g.GET("/documents", d.List)
	g.POST("/documents", d.Create)

	g.GET("/insights", i.List)
	g.POST("/insights/:id/read", i.MarkRead)

	g.GET("/reminders", r.List)
	g.POST("/reminders", r.Create)
	g.POST("/reminders/:id/complete", r.Complete)
}
