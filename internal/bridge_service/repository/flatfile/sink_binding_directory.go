package flatfile

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/camerodev/wabridge/internal/bridge_service/domain"
)

// SinkBindingDirectory maps project identifiers to dedicated document-sink
// destinations (project:apiKey:databaseID). Immutable after load; projects
// without a binding fall back to the globally configured destination.
type SinkBindingDirectory struct {
	byProject map[string]domain.SinkBinding
}

// NewSinkBindingDirectory loads the optional project sink map. An empty
// path or missing file yields an empty directory, meaning every project
// uses the default binding.
func NewSinkBindingDirectory(path string, logger *slog.Logger) (*SinkBindingDirectory, error) {
	d := &SinkBindingDirectory{byProject: make(map[string]domain.SinkBinding)}
	if path == "" {
		return d, nil
	}

	records, err := readRecords(path, 3)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Project sink map not found", "path", path)
			return d, nil
		}
		return nil, err
	}
	for _, rec := range records {
		binding := domain.SinkBinding{ProjectID: rec[0], APIKey: rec[1], DatabaseID: rec[2]}
		key := strings.ToLower(binding.ProjectID)
		if _, exists := d.byProject[key]; exists {
			continue
		}
		d.byProject[key] = binding
	}
	logger.Info("Project sink bindings loaded", "path", path, "bindings", len(d.byProject))
	return d, nil
}

// BindingForProject performs a case-insensitive lookup.
func (d *SinkBindingDirectory) BindingForProject(projectID string) (domain.SinkBinding, bool) {
	binding, ok := d.byProject[strings.ToLower(projectID)]
	return binding, ok
}
