package flatfile

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camerodev/wabridge/internal/blocklist_service/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBlocklistRepository_All(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contactosbloquear.txt")
	content := "Proveedor Uno:5551234@c.us\n\nsin-chat-id\nProveedor Dos:5559876@c.us\n  : 5550000@c.us\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo := NewBlocklistRepository(path, testLogger())
	contacts, err := repo.All(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.BlockedContact{
		{Name: "Proveedor Uno", ChatID: "5551234@c.us"},
		{Name: "Proveedor Dos", ChatID: "5559876@c.us"},
	}, contacts)
}

func TestBlocklistRepository_MissingFile(t *testing.T) {
	repo := NewBlocklistRepository(filepath.Join(t.TempDir(), "nope.txt"), testLogger())
	contacts, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestBlocklistRepository_RereadsOnEachCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contactosbloquear.txt")
	require.NoError(t, os.WriteFile(path, []byte("Uno:1@c.us\n"), 0o644))

	repo := NewBlocklistRepository(path, testLogger())
	contacts, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 1)

	// Edits take effect without recreating the repository.
	require.NoError(t, os.WriteFile(path, []byte("Uno:1@c.us\nDos:2@c.us\n"), 0o644))
	contacts, err = repo.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
}
