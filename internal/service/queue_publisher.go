// Package service publishes domain events to RabbitMQ.  Errors are logged and
// returned so callers can ignore failures without interrupting the request
// flow.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/vaani/internal/logger"
	q "github.com/iliyamo/vaani/internal/queue"
)

// QueuePublisher sends events to the broker at URL.  Each publish opens its
// own connection.
type QueuePublisher struct {
	URL string
}

// NewQueuePublisher returns a publisher for the broker at url.
func NewQueuePublisher(url string) *QueuePublisher {
	return &QueuePublisher{URL: url}
}

// PublishWebsiteUpdated publishes event to the website.updated queue.  A
// missing event id or timestamp is filled in.  Messages are persistent.
func (p *QueuePublisher) PublishWebsiteUpdated(ctx context.Context, event q.WebsiteUpdatedEvent) error {
	log := logger.FromContext(ctx).With("queue", q.WebsiteUpdatedQueue)
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.UpdatedAt == "" {
		event.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Warn("rabbitmq dial failed", "err", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn("rabbitmq channel open failed", "err", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// idempotent; durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(q.WebsiteUpdatedQueue, true, false, false, false, nil); err != nil {
		log.Warn("rabbitmq queue declare failed", "err", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Warn("marshal event failed", "err", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.WebsiteUpdatedQueue, false, false, pub); err != nil {
		log.Warn("rabbitmq publish failed", "err", err)
		return err
	}
	log.Debug("event published", "event_id", event.EventID, slog.Uint64("user_id", event.UserID))
	return nil
}
