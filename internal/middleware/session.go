package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vaani/internal/logger"
	"github.com/iliyamo/vaani/internal/model"
	"github.com/iliyamo/vaani/internal/utils"
)

// SessionAuth guards JSON endpoints.  It validates the session cookie and
// stores the decoded Identity in the request context; requests without a
// valid session are answered with 401 {"error": "Unauthorized"}.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return session(secret, func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	})
}

// SessionPage guards HTML pages.  Anonymous visitors are redirected to the
// login page.
func SessionPage(secret string) echo.MiddlewareFunc {
	return session(secret, func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/login")
	})
}

// OptionalSession decodes the session when present but never rejects.
func OptionalSession(secret string) echo.MiddlewareFunc {
	return session(secret, nil)
}

func session(secret string, deny echo.HandlerFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := readSession(c, secret)
			if !ok {
				if deny != nil {
					return deny(c)
				}
				return next(c)
			}
			SetIdentity(c, id)

			// Tag the request logger with the user so every later line carries it.
			req := c.Request()
			ctx := req.Context()
			l := logger.FromContext(ctx).With("user_id", id.UserID)
			c.SetRequest(req.WithContext(logger.WithContext(ctx, l)))
			return next(c)
		}
	}
}

func readSession(c echo.Context, secret string) (model.Identity, bool) {
	ck, err := c.Cookie(SessionCookie)
	if err != nil || ck.Value == "" {
		return model.Identity{}, false
	}
	uid, username, err := utils.ParseSessionToken(secret, ck.Value)
	if err != nil {
		logger.FromContext(c.Request().Context()).Debug("rejected session cookie", "err", err)
		return model.Identity{}, false
	}
	return model.Identity{UserID: uid, Username: username}, true
}
