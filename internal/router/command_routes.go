package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vaani/internal/handler"
	"github.com/iliyamo/vaani/internal/middleware"
)

// RegisterCommands registers the voice and text command endpoints.  The
// session check runs before the limiter so buckets are keyed per user.
func RegisterCommands(e *echo.Echo, h *handler.CommandHandler, secret string, limiter echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{middleware.SessionAuth(secret)}
	if limiter != nil {
		mws = append(mws, limiter)
	}
	e.POST("/process-audio", h.ProcessAudio, mws...)
	e.POST("/process-text", h.ProcessText, mws...)
}
