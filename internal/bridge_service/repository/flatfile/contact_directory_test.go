package flatfile

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeContactFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contactos.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestContactDirectory_FindByNumber(t *testing.T) {
	path := writeContactFile(t,
		"Juan Perez:5551234",
		"Maria Lopez:5215559876",
	)
	dir, err := NewContactDirectory(path, testLogger())
	require.NoError(t, err)
	require.Equal(t, 2, dir.Len())

	t.Run("ExactNumber", func(t *testing.T) {
		name := dir.FindByNumber("5551234")
		assert.True(t, name.Known)
		assert.Equal(t, "Juan Perez", name.Name)
	})

	t.Run("IncomingHasCountryCode", func(t *testing.T) {
		// Stored without country code, incoming with it.
		name := dir.FindByNumber("5215551234@c.us")
		assert.True(t, name.Known)
		assert.Equal(t, "Juan Perez", name.Name)
	})

	t.Run("StoredHasCountryCode", func(t *testing.T) {
		// Stored with country code, incoming without it.
		name := dir.FindByNumber("5559876@c.us")
		assert.True(t, name.Known)
		assert.Equal(t, "Maria Lopez", name.Name)
	})

	t.Run("ChatServerSuffixStripped", func(t *testing.T) {
		name := dir.FindByNumber("5551234@g.us")
		assert.True(t, name.Known)
		assert.Equal(t, "Juan Perez", name.Name)
	})

	t.Run("Unknown", func(t *testing.T) {
		name := dir.FindByNumber("5550000")
		assert.False(t, name.Known)
		assert.Empty(t, name.Name)
	})

	t.Run("EmptyNumber", func(t *testing.T) {
		assert.False(t, dir.FindByNumber("").Known)
		assert.False(t, dir.FindByNumber("@c.us").Known)
	})
}

func TestContactDirectory_FirstMatchWins(t *testing.T) {
	path := writeContactFile(t,
		"Primera:5551234",
		"Segunda:5551234",
	)
	dir, err := NewContactDirectory(path, testLogger())
	require.NoError(t, err)

	name := dir.FindByNumber("5551234")
	assert.Equal(t, "Primera", name.Name)
}

func TestContactDirectory_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("AppendsAndReloads", func(t *testing.T) {
		path := writeContactFile(t, "Juan Perez:5551234")
		dir, err := NewContactDirectory(path, testLogger())
		require.NoError(t, err)

		require.NoError(t, dir.Register(ctx, "Ana", "5559999@g.us"))
		assert.Equal(t, 2, dir.Len())

		name := dir.FindByNumber("5559999")
		assert.True(t, name.Known)
		assert.Equal(t, "Ana", name.Name)

		// The server suffix is stripped before persisting.
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Ana:5559999\n")
		assert.NotContains(t, string(data), "@g.us")
	})

	t.Run("Idempotent", func(t *testing.T) {
		path := writeContactFile(t, "Juan Perez:5551234")
		dir, err := NewContactDirectory(path, testLogger())
		require.NoError(t, err)

		require.NoError(t, dir.Register(ctx, "Ana", "5559999"))
		require.NoError(t, dir.Register(ctx, "Ana", "5559999"))
		require.NoError(t, dir.Register(ctx, "Ana Maria", "5559999"))
		assert.Equal(t, 2, dir.Len())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(data), ":5559999"))
	})

	t.Run("RejectsEmpty", func(t *testing.T) {
		path := writeContactFile(t, "Juan Perez:5551234")
		dir, err := NewContactDirectory(path, testLogger())
		require.NoError(t, err)

		assert.Error(t, dir.Register(ctx, "", "5550000"))
		assert.Error(t, dir.Register(ctx, "Nombre", ""))
	})
}

func TestContactDirectory_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contactos.txt")
	dir, err := NewContactDirectory(path, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, dir.Len())

	// First registration creates the file.
	require.NoError(t, dir.Register(context.Background(), "Ana", "5559999"))
	assert.Equal(t, 1, dir.Len())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestContactDirectory_SkipsMalformedLines(t *testing.T) {
	path := writeContactFile(t,
		"Juan Perez:5551234",
		"sin-numero",
		"",
		"  :5550001",
	)
	dir, err := NewContactDirectory(path, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, dir.Len())
}
