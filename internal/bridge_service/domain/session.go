package domain

import "context"

// ContactProfile carries the profile name fields the session transport
// knows for a contact.
type ContactProfile struct {
	Pushname string `json:"pushname"`
	Name     string `json:"name"`
}

// BestName prefers the self-set push name over the saved address-book name.
func (p ContactProfile) BestName() string {
	if p.Pushname != "" {
		return p.Pushname
	}
	return p.Name
}

// SessionProvider is the messaging-session collaborator. The actual
// transport (login, QR pairing, socket handling) lives in a separate
// process; this interface is all the pipeline sees of it.
type SessionProvider interface {
	// ContactByID looks up profile name fields for a chat id.
	ContactByID(ctx context.Context, contactID string) (ContactProfile, error)
	// Block and Unblock act on a contact by chat id.
	Block(ctx context.Context, contactID string) error
	Unblock(ctx context.Context, contactID string) error
}
