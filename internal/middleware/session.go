package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/health-record/internal/auth"
	"github.com/iliyamo/health-record/internal/model"
)

// userKey is the context key under which the resolved session user is
// stored for downstream handlers.
const userKey = "user"

// RequireSession returns an Echo middleware that resolves the session
// cookie into a live user record and rejects the request when no valid
// session exists.  Every verification failure looks the same from the
// outside: a 401 with a generic body.  Only a directory failure surfaces
// as a 500, with detail kept in the server log.
func RequireSession(sessions *auth.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, err := sessions.Resolve(c)
			if err != nil {
				c.Logger().Errorf("session resolve: %v", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
			}
			if u == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			c.Set(userKey, *u)
			return next(c)
		}
	}
}

// CurrentUser returns the session user stored by RequireSession.  The
// boolean is false on routes that did not pass through the guard.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userKey).(model.User)
	return u, ok
}
