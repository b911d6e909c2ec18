package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	routingKey string
	msg        amqp.Publishing
	deadline   bool
	err        error
}

func (p *fakePublisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.routingKey = routingKey
	p.msg = msg
	_, p.deadline = ctx.Deadline()
	return p.err
}

func TestModerationNotifierAdapter(t *testing.T) {
	pub := &fakePublisher{}
	adapter, err := NewModerationNotifierAdapter(pub, "moderation.listing.submitted")
	require.NoError(t, err)

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-123")
	submitted := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err = adapter.NotifySubmitted(ctx, domain.ListingSubmitted{
		DocumentID:  "doc-1",
		OwnerID:     "user-1",
		Status:      domain.StatusPending,
		SubmittedAt: submitted,
	})
	require.NoError(t, err)

	require.Equal(t, "moderation.listing.submitted", pub.routingKey)
	require.True(t, pub.deadline)
	require.Equal(t, "application/json", pub.msg.ContentType)
	require.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	require.Equal(t, "trace-123", pub.msg.Headers["x-trace-id"])

	var dto ListingSubmittedDTO
	require.NoError(t, json.Unmarshal(pub.msg.Body, &dto))
	require.Equal(t, "doc-1", dto.DocumentID)
	require.Equal(t, "pending", dto.Status)
	require.True(t, submitted.Equal(dto.SubmittedAt))
}

func TestModerationNotifierAdapterErrors(t *testing.T) {
	_, err := NewModerationNotifierAdapter(nil, "key")
	require.Error(t, err)

	_, err = NewModerationNotifierAdapter(&fakePublisher{}, "")
	require.Error(t, err)

	adapter, err := NewModerationNotifierAdapter(&fakePublisher{err: errors.New("channel closed")}, "key")
	require.NoError(t, err)
	err = adapter.NotifySubmitted(context.Background(), domain.ListingSubmitted{DocumentID: "doc-1"})
	require.ErrorContains(t, err, "channel closed")

	require.NoError(t, NoopModerationNotifier{}.NotifySubmitted(context.Background(), domain.ListingSubmitted{}))
}
