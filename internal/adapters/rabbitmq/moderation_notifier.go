package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// ListingSubmittedDTO - тело сообщения для очереди модерации.
type ListingSubmittedDTO struct {
	DocumentID  string    `json:"document_id"`
	OwnerID     string    `json:"owner_id"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
	TraceID     string    `json:"trace_id,omitempty"`
}

// publisher - то, что нужно адаптеру от rabbitmq_producer.Publisher.
type publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

type ModerationNotifierAdapter struct {
	producer   publisher
	routingKey string
}

func NewModerationNotifierAdapter(producer publisher, routingKey string) (*ModerationNotifierAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &ModerationNotifierAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

func (a *ModerationNotifierAdapter) NotifySubmitted(ctx context.Context, event domain.ListingSubmitted) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "ModerationNotifierAdapter",
		"routing_key": a.routingKey,
		"document_id": event.DocumentID,
	})

	traceID := contextkeys.TraceIDFromContext(ctx)
	body, err := json.Marshal(ListingSubmittedDTO{
		DocumentID:  event.DocumentID,
		OwnerID:     event.OwnerID,
		Status:      string(event.Status),
		SubmittedAt: event.SubmittedAt,
		TraceID:     traceID,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Type:         "ListingSubmitted",
		Headers:      make(amqp.Table),
	}
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish listing submitted event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish event for %s: %w", event.DocumentID, err)
	}

	adapterLogger.Debug("Published listing submitted event", nil)
	return nil
}

// NoopModerationNotifier используется, когда RabbitMQ не настроен.
type NoopModerationNotifier struct{}

func (NoopModerationNotifier) NotifySubmitted(ctx context.Context, event domain.ListingSubmitted) error {
	contextkeys.LoggerFromContext(ctx).Debug("Moderation notifications disabled, event dropped", port.Fields{
		"document_id": event.DocumentID,
	})
	return nil
}
