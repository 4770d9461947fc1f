// Package natssession implements SessionProvider over NATS. The actual
// WhatsApp session (login, QR pairing, socket) runs in a separate process
// that answers contact lookups on a request/reply subject and acts on
// block/unblock commands.
package natssession

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/camerodev/wabridge/internal/bridge_service/domain"
	"github.com/camerodev/wabridge/internal/platform/messagebroker"
)

const (
	contactLookupSubject = "wa.contacts.lookup"
	blockSubject         = "wa.contacts.block"
	unblockSubject       = "wa.contacts.unblock"
)

type contactLookupRequest struct {
	ContactID string `json:"contact_id"`
}

type contactCommand struct {
	ContactID string `json:"contact_id"`
}

// Provider is the NATS-backed session collaborator.
type Provider struct {
	nats   *messagebroker.NATSClient
	logger *slog.Logger
}

// NewProvider wraps the shared NATS client.
func NewProvider(nats *messagebroker.NATSClient, logger *slog.Logger) *Provider {
	return &Provider{
		nats:   nats,
		logger: logger.With("component", "nats_session"),
	}
}

// ContactByID asks the session process for a contact's profile names.
func (p *Provider) ContactByID(ctx context.Context, contactID string) (domain.ContactProfile, error) {
	reqData, err := json.Marshal(contactLookupRequest{ContactID: contactID})
	if err != nil {
		return domain.ContactProfile{}, fmt.Errorf("marshal contact lookup: %w", err)
	}

	replyData, err := p.nats.Request(ctx, contactLookupSubject, reqData)
	if err != nil {
		return domain.ContactProfile{}, fmt.Errorf("%w: %s", domain.ErrContactLookupFailed, err)
	}

	var profile domain.ContactProfile
	if err := json.Unmarshal(replyData, &profile); err != nil {
		return domain.ContactProfile{}, fmt.Errorf("decode contact profile: %w", err)
	}
	return profile, nil
}

// Block publishes a block command for the contact.
func (p *Provider) Block(ctx context.Context, contactID string) error {
	return p.publishCommand(ctx, blockSubject, contactID)
}

// Unblock publishes an unblock command for the contact.
func (p *Provider) Unblock(ctx context.Context, contactID string) error {
	return p.publishCommand(ctx, unblockSubject, contactID)
}

func (p *Provider) publishCommand(ctx context.Context, subject, contactID string) error {
	data, err := json.Marshal(contactCommand{ContactID: contactID})
	if err != nil {
		return fmt.Errorf("marshal contact command: %w", err)
	}
	if err := p.nats.Publish(ctx, subject, data); err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "Contact command published", "subject", subject, "contact_id", contactID)
	return nil
}
