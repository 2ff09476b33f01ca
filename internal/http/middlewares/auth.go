package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskmaster.app/taskmaster/internal/auth"
	"taskmaster.app/taskmaster/internal/logger"
	"taskmaster.app/taskmaster/internal/session"
)

const (
	UserIDKey = "user_id"
	BinderKey = "binder"
)

// Authenticate verifies the bearer token and attaches the caller's binder.
// A binder whose load failed is still attached so the caller can inspect
// and reload the session.
func Authenticate(verifier *auth.Verifier, sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, err := verifier.Verify(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			ctx := c.Request().Context()
			binder, err := sessions.Attach(ctx, s)
			if err != nil {
				logger.WarnContext(ctx, "Session not bound", "user_id", s.UserID, "error", err)
			}

			c.Set(UserIDKey, s.UserID)
			c.Set(BinderKey, binder)
			return next(c)
		}
	}
}

func Binder(c echo.Context) (*session.Binder, bool) {
	b, ok := c.Get(BinderKey).(*session.Binder)
	return b, ok && b != nil
}
