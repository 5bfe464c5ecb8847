package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vaani/internal/logger"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = echo.HeaderXRequestID

// RequestLogger assigns every request an id (the incoming X-Request-ID or a
// new UUID), stores a child of base carrying it in the request context and
// logs the completed request with its status and duration.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	if base == nil {
		base = slog.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := req.Header.Get(RequestIDHeader)
			if rid == "" || len(rid) > 128 {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(RequestIDHeader, rid)

			l := base.With("request_id", rid, "method", req.Method, "path", req.URL.Path)
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				// let Echo write the error response so the status below is final
				c.Error(err)
			}

			status := c.Response().Status
			attrs := []any{"status", status, "duration", time.Since(start), "bytes", c.Response().Size}
			if id, ok := CurrentIdentity(c); ok {
				attrs = append(attrs, "user_id", id.UserID)
			}
			switch {
			case status >= 500:
				l.Error("request completed", append(attrs, "err", err)...)
			case status >= 400:
				l.Warn("request completed", attrs...)
			default:
				l.Info("request completed", attrs...)
			}
			return nil
		}
	}
}
