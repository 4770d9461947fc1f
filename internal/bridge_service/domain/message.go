package domain

import (
	"time"

	"github.com/google/uuid"
)

// Direction indicates whether a message entered or left the local account.
type Direction int

const (
	Inbound Direction = iota
	Outbound
)

// String renders the direction the way both sinks store it.
func (d Direction) String() string {
	if d == Outbound {
		return TypeOutbound
	}
	return TypeInbound
}

// Sentinel strings rendered at the sink boundary. Resolution itself works
// with ResolvedName so "no data" is never confused with a real name.
const (
	TypeInbound  = "Entrada"
	TypeOutbound = "Salida"

	SentinelUnknown        = "Desconocido"
	SentinelUnknownContact = "Contacto Desconocido"
	SentinelUnregistered   = "Contacto no Registrado"
	SentinelUnknownMember  = "Miembro Desconocido"
	SentinelUnknownGroup   = "Grupo Desconocido"
	SentinelNoProject      = "N/A"
	SentinelNoPhone        = "N/A"
	SentinelEmptyBody      = "(Sin contenido)"
)

// ChatInfo identifies the conversation a message belongs to.
type ChatInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsGroup bool   `json:"is_group"`
}

// MessageEvent is the explicit boundary representation of one raw message
// event emitted by the session transport. It is decoded once from the wire
// payload; nothing downstream touches provider-native structures.
type MessageEvent struct {
	MessageID   string   `json:"message_id"`
	FromMe      bool     `json:"from_me"`
	IsStatus    bool     `json:"is_status"`
	IsBroadcast bool     `json:"is_broadcast"`
	Chat        ChatInfo `json:"chat"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	// Author is the per-member sender id of a group message; empty for
	// direct chats and for the occasional group event that lacks it.
	Author string `json:"author,omitempty"`
	// ProfileName is the push name of the authoring party, when the
	// transport had it at hand.
	ProfileName string `json:"profile_name,omitempty"`
	Timestamp   int64  `json:"timestamp"`
	Body        string `json:"body"`
}

// SentAt converts the event's unix timestamp, falling back to now for
// events that carry none.
func (e *MessageEvent) SentAt() time.Time {
	if e.Timestamp == 0 {
		return time.Now().UTC()
	}
	return time.Unix(e.Timestamp, 0).UTC()
}

// ResolvedName is the outcome of a contact name lookup. Known is false when
// every source in the fallback chain came up empty; the sink-facing
// sentinel is chosen only when the record is built.
type ResolvedName struct {
	Name  string
	Known bool
}

// ResolvedMessage is the fully enriched representation of one message
// event, ready for sink delivery.
type ResolvedMessage struct {
	ID             uuid.UUID `json:"id"`
	Direction      Direction `json:"-"`
	Type           string    `json:"type"`
	SentAt         time.Time `json:"sent_at"`
	Body           string    `json:"body"`
	SenderName     string    `json:"sender_name"`
	SenderPhone    string    `json:"sender_phone"`
	RecipientName  string    `json:"recipient_name"`
	RecipientPhone string    `json:"recipient_phone"`
	// GroupName is empty for direct conversations.
	GroupName string `json:"group_name,omitempty"`
	// ProjectID is never empty; SentinelNoProject stands in when no
	// mapping applies and no default project is configured.
	ProjectID string `json:"project_id"`
	// MessageID is the provider's id, empty when the provider sent none.
	MessageID string `json:"message_id,omitempty"`
}

// ISOTimestamp renders the send time the way the document sink stores it.
func (m *ResolvedMessage) ISOTimestamp() string {
	return m.SentAt.UTC().Format(time.RFC3339)
}
