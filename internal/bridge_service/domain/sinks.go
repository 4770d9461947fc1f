package domain

import "context"

// Sink is an external system that durably stores a resolved record.
// Deliver errors are isolated by the fanout: a failing sink never stops
// the others from being attempted.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, record *ResolvedMessage, raw *MessageEvent) error
}

// MessageRecordRepository persists resolved records in the relational sink.
type MessageRecordRepository interface {
	Create(ctx context.Context, record *ResolvedMessage) error
}
