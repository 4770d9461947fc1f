package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/camerodev/wabridge/internal/bridge_service/domain"
	"github.com/camerodev/wabridge/internal/platform/messagebroker"
)

// Raw event subjects published by the session transport. The last token
// distinguishes the provider's message-received and message-created
// streams.
const (
	RawEventSubjectPattern = "wa.events.raw.*"
	rawIncomingToken       = "incoming"
	rawOutgoingToken       = "outgoing"
)

// EventConsumer subscribes to the raw event subjects and forwards decoded
// events to the processing stage.
type EventConsumer struct {
	natsClient *messagebroker.NATSClient
	logger     *slog.Logger
	outputChan chan<- domain.MessageEvent
}

// NewEventConsumer creates an EventConsumer feeding outputChan.
func NewEventConsumer(natsClient *messagebroker.NATSClient, logger *slog.Logger, outputChan chan<- domain.MessageEvent) *EventConsumer {
	return &EventConsumer{
		natsClient: natsClient,
		logger:     logger.With("component", "event_consumer"),
		outputChan: outputChan,
	}
}

// StartConsuming subscribes to subject within queueGroup and blocks until
// the context is cancelled.
func (c *EventConsumer) StartConsuming(ctx context.Context, subject, queueGroup string) error {
	msgHandler := func(msg *nats.Msg) {
		eventsReceivedCounter.WithLabelValues(subject).Inc()

		parts := strings.Split(msg.Subject, ".")
		stream := parts[len(parts)-1]
		if stream != rawIncomingToken && stream != rawOutgoingToken {
			c.logger.ErrorContext(ctx, "Unexpected raw event subject", "subject", msg.Subject)
			return
		}

		var ev domain.MessageEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			c.logger.ErrorContext(ctx, "Failed to decode raw message event",
				"error", err, "subject", msg.Subject, "data_len", len(msg.Data))
			return
		}

		// The provider emits self-authored messages on both streams; only
		// the outgoing stream is allowed to carry them, mirroring the
		// fromMe gate of the session process.
		if stream == rawIncomingToken && ev.FromMe {
			c.logger.DebugContext(ctx, "Dropping self-authored event on incoming stream", "message_id", ev.MessageID)
			return
		}

		select {
		case c.outputChan <- ev:
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
			c.logger.ErrorContext(ctx, "Timed out handing event to processor; dropping",
				"subject", msg.Subject, "message_id", ev.MessageID)
		}
	}

	sub, err := c.natsClient.QueueSubscribe(subject, queueGroup, msgHandler)
	if err != nil {
		return err
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			c.logger.Warn("Failed to unsubscribe from raw events", "error", err)
		}
	}()

	c.logger.Info("Consuming raw message events", "subject", subject, "queue_group", queueGroup)
	<-ctx.Done()
	return ctx.Err()
}
