package domain

import "context"

// ContactEntry is one name/number pair of the contact directory.
// Uniqueness is not enforced; on lookup the first matching entry wins.
type ContactEntry struct {
	DisplayName string `json:"display_name"`
	Number      string `json:"number"`
}

// GroupProjectEntry maps a group display name to a project identifier.
type GroupProjectEntry struct {
	GroupName string `json:"group_name"`
	ProjectID string `json:"project_id"`
}

// SinkBinding routes a project to a dedicated document-database
// destination with its own credential.
type SinkBinding struct {
	ProjectID  string `json:"project_id"`
	APIKey     string `json:"-"`
	DatabaseID string `json:"database_id"`
}

// ContactDirectory is the synchronized in-memory contact table loaded from
// the flat contact file.
type ContactDirectory interface {
	// FindByNumber resolves a display name for a chat id or phone number.
	// Matching is digits-only bidirectional suffix overlap, so entries
	// stored without a country code still match prefixed numbers.
	FindByNumber(number string) ResolvedName
	// Register appends a new (name, number) pair and reloads the table.
	// Registering a number that is already stored is a no-op.
	Register(ctx context.Context, name, number string) error
	// Reload re-reads the backing file.
	Reload() error
	Len() int
}

// GroupProjectDirectory resolves project identifiers for group names.
// Read-only after load.
type GroupProjectDirectory interface {
	// ProjectForGroup performs a case-insensitive exact match.
	ProjectForGroup(groupName string) (string, bool)
}

// SinkBindingDirectory resolves per-project document-sink bindings.
// Read-only after load.
type SinkBindingDirectory interface {
	// BindingForProject performs a case-insensitive lookup.
	BindingForProject(projectID string) (SinkBinding, bool)
}
