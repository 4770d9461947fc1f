package flatfile

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/camerodev/wabridge/internal/bridge_service/domain"
)

// GroupProjectDirectory maps group display names to project identifiers.
// Loaded once at startup; immutable thereafter, so lookups need no lock.
type GroupProjectDirectory struct {
	byGroup map[string]domain.GroupProjectEntry
}

// NewGroupProjectDirectory loads the group:project file. A missing file
// yields an empty directory.
func NewGroupProjectDirectory(path string, logger *slog.Logger) (*GroupProjectDirectory, error) {
	d := &GroupProjectDirectory{byGroup: make(map[string]domain.GroupProjectEntry)}

	records, err := readRecords(path, 2)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Group-project file not found", "path", path)
			return d, nil
		}
		return nil, err
	}
	for _, rec := range records {
		entry := domain.GroupProjectEntry{GroupName: rec[0], ProjectID: rec[1]}
		key := strings.ToLower(entry.GroupName)
		if _, exists := d.byGroup[key]; exists {
			continue // first entry wins
		}
		d.byGroup[key] = entry
	}
	logger.Info("Group-project directory loaded", "path", path, "mappings", len(d.byGroup))
	return d, nil
}

// ProjectForGroup performs a case-insensitive exact match on the group name.
func (d *GroupProjectDirectory) ProjectForGroup(groupName string) (string, bool) {
	entry, ok := d.byGroup[strings.ToLower(groupName)]
	if !ok {
		return "", false
	}
	return entry.ProjectID, true
}
