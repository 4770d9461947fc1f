package notion

import (
	"context"
	"log/slog"

	"github.com/camerodev/wabridge/internal/bridge_service/domain"
)

// Sink routes each resolved record to the document database bound to its
// project, falling back to the globally configured destination for
// projects without a binding of their own.
type Sink struct {
	client         *Client
	bindings       domain.SinkBindingDirectory
	defaultBinding domain.SinkBinding
	logger         *slog.Logger
}

// NewSink builds the document-database sink.
func NewSink(client *Client, bindings domain.SinkBindingDirectory, defaultBinding domain.SinkBinding, logger *slog.Logger) *Sink {
	return &Sink{
		client:         client,
		bindings:       bindings,
		defaultBinding: defaultBinding,
		logger:         logger.With("component", "notion_sink"),
	}
}

func (s *Sink) Name() string { return "notion" }

func (s *Sink) Deliver(ctx context.Context, record *domain.ResolvedMessage, raw *domain.MessageEvent) error {
	binding := s.defaultBinding
	if b, ok := s.bindings.BindingForProject(record.ProjectID); ok {
		binding = b
		s.logger.DebugContext(ctx, "Using project-specific sink binding",
			"project", record.ProjectID, "database_id", binding.DatabaseID)
	}
	return s.client.CreatePage(ctx, binding, record)
}
