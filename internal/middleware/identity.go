package middleware

// identity.go holds the request-scoped session identity.  The session
// middleware stores it on the Echo context; handlers read it back with
// CurrentIdentity instead of consulting any global state.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vaani/internal/model"
)

// SessionCookie is the name of the cookie carrying the signed session.
const SessionCookie = "vaani_session"

const identityKey = "identity"

// SetIdentity attaches id to the request context.
func SetIdentity(c echo.Context, id model.Identity) {
	c.Set(identityKey, id)
}

// CurrentIdentity returns the identity established by the session
// middleware.  ok is false for anonymous requests.
func CurrentIdentity(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(identityKey).(model.Identity)
	if !ok || id.UserID == 0 {
		return model.Identity{}, false
	}
	return id, true
}

// userID returns the session user id as a string, or "anon" when the
// request carries no identity.
func userID(c echo.Context) string {
	if id, ok := CurrentIdentity(c); ok {
		return strconv.FormatUint(id.UserID, 10)
	}
	return "anon"
}
