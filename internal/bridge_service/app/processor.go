package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/camerodev/wabridge/internal/bridge_service/adapters/filelog"
	"github.com/camerodev/wabridge/internal/bridge_service/domain"
)

type eventResolver interface {
	Resolve(ctx context.Context, ev *domain.MessageEvent, dir domain.Direction) (*domain.ResolvedMessage, error)
}

type recordDeliverer interface {
	Deliver(ctx context.Context, record *domain.ResolvedMessage, raw *domain.MessageEvent)
}

// Processor runs one event through the pipeline: classify, resolve,
// deliver. Events are independent; a failure aborts only its own event.
type Processor struct {
	resolver eventResolver
	fanout   recordDeliverer
	files    *filelog.Store
	logger   *slog.Logger
}

// NewProcessor creates a Processor. files may be nil when the data
// directory is unavailable; failed events are then only logged.
func NewProcessor(resolver eventResolver, fanout recordDeliverer, files *filelog.Store, logger *slog.Logger) *Processor {
	return &Processor{
		resolver: resolver,
		fanout:   fanout,
		files:    files,
		logger:   logger.With("component", "processor"),
	}
}

// Process handles a single raw event. The returned error reports a
// resolution failure; classification skips and sink failures are not
// errors from the caller's point of view.
func (p *Processor) Process(ctx context.Context, ev *domain.MessageEvent) error {
	direction := domain.Inbound
	if ev.FromMe {
		direction = domain.Outbound
	}

	if !ShouldProcess(ev) {
		messagesProcessedCounter.WithLabelValues(direction.String(), "skipped").Inc()
		return nil
	}

	timer := time.Now()
	defer func() {
		processingDurationHist.WithLabelValues(direction.String()).Observe(time.Since(timer).Seconds())
	}()

	record, err := p.resolver.Resolve(ctx, ev, direction)
	if err != nil {
		messagesProcessedCounter.WithLabelValues(direction.String(), "error_resolve").Inc()
		p.logger.ErrorContext(ctx, "Failed to resolve message event",
			"error", err,
			"message_id", ev.MessageID,
			"chat_id", ev.Chat.ID,
		)
		if p.files != nil {
			if dumpErr := p.files.AppendProcessingError(err, ev); dumpErr != nil {
				p.logger.ErrorContext(ctx, "Failed to record failed event", "error", dumpErr)
			}
		}
		return err
	}

	p.fanout.Deliver(ctx, record, ev)
	messagesProcessedCounter.WithLabelValues(direction.String(), "delivered").Inc()
	return nil
}
