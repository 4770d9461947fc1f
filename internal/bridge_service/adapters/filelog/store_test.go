package filelog

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// 2025-01-06 is a Monday, so the layout exercises both naming tables.
var fixedDate = time.Date(2025, 1, 6, 10, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	base := filepath.Join(t.TempDir(), "data")
	store, err := NewStore(base, testLogger())
	require.NoError(t, err)
	store.now = func() time.Time { return fixedDate }
	return store, base
}

func TestStore_DailyDir(t *testing.T) {
	store, base := newTestStore(t)

	dir, err := store.DailyDir(fixedDate)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "2025_01_Enero", "06-01-2025_Lunes"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Creating the same day again is a no-op.
	again, err := store.DailyDir(fixedDate)
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestStore_DailyDir_Sunday(t *testing.T) {
	store, base := newTestStore(t)

	sunday := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	dir, err := store.DailyDir(sunday)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "2025_03_Marzo", "16-03-2025_Domingo"), dir)
}

func TestStore_MessageLogPath(t *testing.T) {
	store, base := newTestStore(t)

	path, err := store.MessageLogPath(fixedDate)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "2025_01_Enero", "06-01-2025_Lunes", "mensajes-06-01-2025.log"), path)
}

func TestStore_AppendRaw(t *testing.T) {
	store, _ := newTestStore(t)

	event := map[string]any{"id": "ABC123", "body": "hola"}
	require.NoError(t, store.AppendRaw(event))
	require.NoError(t, store.AppendRaw(event))

	path, err := store.MessageLogPath(fixedDate)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, `"id": "ABC123"`)
	assert.Equal(t, 2, strings.Count(content, "\n---\n"))
}

func TestStore_AppendProcessingError(t *testing.T) {
	store, _ := newTestStore(t)

	event := map[string]any{"id": "ABC123"}
	require.NoError(t, store.AppendProcessingError(errors.New("lookup timed out"), event))

	dir, err := store.DailyDir(fixedDate)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "error_messages.log"))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "lookup timed out")
	assert.Contains(t, content, "--- MESSAGE OBJECT ---")
	assert.Contains(t, content, `"id": "ABC123"`)
}

func TestDailyLogWriter(t *testing.T) {
	store, _ := newTestStore(t)

	w := NewDailyLogWriter(store)
	n, err := w.Write([]byte("linea de log\n"))
	require.NoError(t, err)
	assert.Equal(t, 13, n)

	path, err := store.AppLogPath(fixedDate)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "linea de log\n", string(data))
}
