package flatfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/camerodev/wabridge/internal/blocklist_service/domain"
)

// BlocklistRepository reads the block-list file (name:chatID per line) on
// every sweep, so edits to the file take effect without a restart.
type BlocklistRepository struct {
	path   string
	logger *slog.Logger
}

// NewBlocklistRepository creates the file-backed block list.
func NewBlocklistRepository(path string, logger *slog.Logger) *BlocklistRepository {
	return &BlocklistRepository{
		path:   path,
		logger: logger.With("component", "blocklist_repository"),
	}
}

// All returns the current block-list entries. A missing file yields an
// empty list.
func (r *BlocklistRepository) All(ctx context.Context) ([]domain.BlockedContact, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.WarnContext(ctx, "Block-list file not found", "path", r.path)
			return nil, nil
		}
		return nil, fmt.Errorf("open block list %s: %w", r.path, err)
	}
	defer f.Close()

	var contacts []domain.BlockedContact
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) < 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		chatID := strings.TrimSpace(parts[1])
		if name == "" || chatID == "" {
			continue
		}
		contacts = append(contacts, domain.BlockedContact{Name: name, ChatID: chatID})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read block list %s: %w", r.path, err)
	}
	return contacts, nil
}
