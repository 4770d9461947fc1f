package filelog

import (
	"context"

	"github.com/camerodev/wabridge/internal/bridge_service/domain"
)

// Sink is the local append-log sink: it stores the raw event, not the
// resolved record, so the archive keeps everything the provider sent.
type Sink struct {
	store *Store
}

// NewSink wraps a Store as a delivery sink.
func NewSink(store *Store) *Sink {
	return &Sink{store: store}
}

func (s *Sink) Name() string { return "file" }

func (s *Sink) Deliver(ctx context.Context, record *domain.ResolvedMessage, raw *domain.MessageEvent) error {
	return s.store.AppendRaw(raw)
}
