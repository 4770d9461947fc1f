package domain

import "context"

// BlockedContact is one entry of the block-list file (name:chatID).
type BlockedContact struct {
	Name   string `json:"name"`
	ChatID string `json:"chat_id"`
}

// BlocklistRepository provides the contacts subject to scheduled
// block/unblock sweeps.
type BlocklistRepository interface {
	All(ctx context.Context) ([]BlockedContact, error)
}

// ContactBlocker is the slice of the messaging session the scheduler
// needs.
type ContactBlocker interface {
	Block(ctx context.Context, contactID string) error
	Unblock(ctx context.Context, contactID string) error
}
