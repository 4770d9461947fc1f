package app

import (
	"context"
	"log/slog"

	"github.com/camerodev/wabridge/internal/bridge_service/domain"
)

// Fanout delivers a resolved record to every configured sink in order.
// Each sink is failure-isolated: an error is logged and counted but never
// stops the remaining sinks, and never reaches the caller. Delivery is not
// transactional across sinks.
type Fanout struct {
	sinks  []domain.Sink
	logger *slog.Logger
}

// NewFanout creates a Fanout over the given sinks. Zero sinks is valid.
func NewFanout(sinks []domain.Sink, logger *slog.Logger) *Fanout {
	return &Fanout{
		sinks:  sinks,
		logger: logger.With("component", "fanout"),
	}
}

// Deliver writes the record to all sinks.
func (f *Fanout) Deliver(ctx context.Context, record *domain.ResolvedMessage, raw *domain.MessageEvent) {
	for _, sink := range f.sinks {
		if err := sink.Deliver(ctx, record, raw); err != nil {
			sinkDeliveryCounter.WithLabelValues(sink.Name(), "error").Inc()
			f.logger.ErrorContext(ctx, "Sink delivery failed",
				"sink", sink.Name(),
				"error", err,
				"record_id", record.ID,
				"message_id", record.MessageID,
			)
			continue
		}
		sinkDeliveryCounter.WithLabelValues(sink.Name(), "success").Inc()
	}
}

// RepositorySink adapts the relational MessageRecordRepository to the Sink
// interface.
type RepositorySink struct {
	repo domain.MessageRecordRepository
}

// NewRepositorySink wraps a record repository as a sink.
func NewRepositorySink(repo domain.MessageRecordRepository) *RepositorySink {
	return &RepositorySink{repo: repo}
}

func (s *RepositorySink) Name() string { return "postgres" }

func (s *RepositorySink) Deliver(ctx context.Context, record *domain.ResolvedMessage, raw *domain.MessageEvent) error {
	return s.repo.Create(ctx, record)
}
