package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vaani/internal/logger"
	"github.com/iliyamo/vaani/internal/queue"
)

// EventPublisher delivers content-change events.  A nil publisher disables
// events.
type EventPublisher interface {
	PublishWebsiteUpdated(ctx context.Context, ev queue.WebsiteUpdatedEvent) error
}

// publishUpdate sends ev in the background.  Delivery is best-effort and
// never delays or fails the request.
func publishUpdate(c echo.Context, p EventPublisher, ev queue.WebsiteUpdatedEvent) {
	if p == nil {
		return
	}
	ctx := context.WithoutCancel(c.Request().Context())
	go func() {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := p.PublishWebsiteUpdated(ctx, ev); err != nil {
			logger.FromContext(ctx).Warn("publish website.updated failed", "err", err)
		}
	}()
}
