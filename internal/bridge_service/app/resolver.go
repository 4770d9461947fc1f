package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/camerodev/wabridge/internal/bridge_service/domain"
)

// Resolver turns classified raw events into sink-ready records: it works
// out sender and recipient identity through the directory fallback chains,
// auto-registers contacts it learned a name for, and assigns the project.
type Resolver struct {
	contacts       domain.ContactDirectory
	groups         domain.GroupProjectDirectory
	session        domain.SessionProvider
	ownName        string
	ownNumber      string
	defaultProject string
	logger         *slog.Logger
}

// NewResolver creates a Resolver. ownName/ownNumber identify the local
// account; defaultProject may be empty, in which case unmapped messages
// carry the "N/A" sentinel.
func NewResolver(
	contacts domain.ContactDirectory,
	groups domain.GroupProjectDirectory,
	session domain.SessionProvider,
	ownName string,
	ownNumber string,
	defaultProject string,
	logger *slog.Logger,
) *Resolver {
	return &Resolver{
		contacts:       contacts,
		groups:         groups,
		session:        session,
		ownName:        ownName,
		ownNumber:      ownNumber,
		defaultProject: defaultProject,
		logger:         logger.With("component", "resolver"),
	}
}

// Resolve produces the enriched record for one event. A failed contact
// lookup against the session transport aborts resolution; the caller logs
// it and gives up on this event only.
func (r *Resolver) Resolve(ctx context.Context, ev *domain.MessageEvent, dir domain.Direction) (*domain.ResolvedMessage, error) {
	rec := &domain.ResolvedMessage{
		ID:        uuid.New(),
		Direction: dir,
		Type:      dir.String(),
		SentAt:    ev.SentAt(),
		Body:      ev.Body,
		MessageID: ev.MessageID,
	}

	groupName := ""
	if ev.Chat.IsGroup {
		groupName = ev.Chat.Name
		if groupName == "" {
			groupName = domain.SentinelUnknownGroup
		}
		rec.GroupName = groupName
	}

	switch dir {
	case domain.Outbound:
		rec.SenderName = r.renderOwnName()
		rec.SenderPhone = r.ownNumber

		if ev.Chat.IsGroup {
			// In a group the recipient is the group itself.
			rec.RecipientName = groupName
			rec.RecipientPhone = ev.To
		} else {
			rec.RecipientPhone = ev.To
			name, err := r.resolveCounterpart(ctx, ev.To, ev.ProfileName)
			if err != nil {
				return nil, err
			}
			if !name.Known && ev.Chat.Name != "" {
				name = domain.ResolvedName{Name: ev.Chat.Name, Known: true}
			}
			rec.RecipientName = render(name, domain.SentinelUnknownContact)
		}

	default: // Inbound
		rec.RecipientName = r.renderOwnName()
		rec.RecipientPhone = r.ownNumber

		if ev.Chat.IsGroup {
			if ev.Author == "" {
				// Some group events arrive without a per-member author
				// id; the chat's "from" stands in for the phone and no
				// contact lookup is attempted.
				rec.SenderPhone = ev.From
				rec.SenderName = domain.SentinelUnknownMember
			} else {
				rec.SenderPhone = ev.Author
				name, err := r.resolveCounterpart(ctx, ev.Author, ev.ProfileName)
				if err != nil {
					return nil, err
				}
				rec.SenderName = render(name, domain.SentinelUnknownMember)
			}
		} else {
			rec.SenderPhone = ev.From
			name, err := r.resolveCounterpart(ctx, ev.From, ev.ProfileName)
			if err != nil {
				return nil, err
			}
			rec.SenderName = render(name, domain.SentinelUnknownContact)
		}
	}

	rec.ProjectID = r.resolveProject(groupName, dir)

	r.logger.InfoContext(ctx, "Message resolved",
		"type", rec.Type,
		"sender", rec.SenderName,
		"recipient", rec.RecipientName,
		"group", rec.GroupName,
		"project", rec.ProjectID,
		"message_id", rec.MessageID,
	)
	return rec, nil
}

// resolveCounterpart resolves a display name for the other party of a
// conversation: directory first, then the profile name the event carried,
// then a session lookup. Whenever a name is learned from a profile, the
// contact is registered and the name re-resolved from the directory, so
// the next event finds it without any lookup.
func (r *Resolver) resolveCounterpart(ctx context.Context, number, profileName string) (domain.ResolvedName, error) {
	if name := r.contacts.FindByNumber(number); name.Known {
		return name, nil
	}

	prof := strings.TrimSpace(profileName)
	if prof == "" {
		profile, err := r.session.ContactByID(ctx, number)
		if err != nil {
			return domain.ResolvedName{}, err
		}
		prof = strings.TrimSpace(profile.BestName())
	}
	if prof == "" {
		return domain.ResolvedName{}, nil
	}

	if err := r.contacts.Register(ctx, prof, number); err != nil {
		// Registration failing is not fatal for this event; the learned
		// name is still usable.
		r.logger.ErrorContext(ctx, "Failed to register contact", "error", err, "number", number)
		return domain.ResolvedName{Name: prof, Known: true}, nil
	}
	contactsRegisteredCounter.Inc()

	if name := r.contacts.FindByNumber(number); name.Known {
		return name, nil
	}
	return domain.ResolvedName{Name: prof, Known: true}, nil
}

// resolveProject applies the precedence rules: group mapping beats the
// configured default project, which beats the "N/A" sentinel. Outbound
// direct messages carry no project.
func (r *Resolver) resolveProject(groupName string, dir domain.Direction) string {
	if groupName != "" {
		if project, ok := r.groups.ProjectForGroup(groupName); ok {
			return project
		}
		if r.defaultProject != "" {
			return r.defaultProject
		}
		return domain.SentinelNoProject
	}
	if dir == domain.Inbound && r.defaultProject != "" {
		return r.defaultProject
	}
	return domain.SentinelNoProject
}

func (r *Resolver) renderOwnName() string {
	if r.ownName != "" {
		return r.ownName
	}
	return domain.SentinelUnknown
}

func render(name domain.ResolvedName, sentinel string) string {
	if name.Known && name.Name != "" {
		return name.Name
	}
	return sentinel
}
