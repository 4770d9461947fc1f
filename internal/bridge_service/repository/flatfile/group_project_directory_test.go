package flatfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupProjectDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grupoproyecto.txt")
	content := "Team A:ProjectX\nObra Centro:Alpha\nsin-proyecto\n\nTeam A:Duplicado\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	dir, err := NewGroupProjectDirectory(path, testLogger())
	require.NoError(t, err)

	t.Run("ExactMatch", func(t *testing.T) {
		project, ok := dir.ProjectForGroup("Team A")
		assert.True(t, ok)
		assert.Equal(t, "ProjectX", project)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		project, ok := dir.ProjectForGroup("tEaM a")
		assert.True(t, ok)
		assert.Equal(t, "ProjectX", project)
	})

	t.Run("FirstEntryWins", func(t *testing.T) {
		project, _ := dir.ProjectForGroup("Team A")
		assert.Equal(t, "ProjectX", project)
	})

	t.Run("Miss", func(t *testing.T) {
		_, ok := dir.ProjectForGroup("Otro Grupo")
		assert.False(t, ok)
	})
}

func TestGroupProjectDirectory_MissingFile(t *testing.T) {
	dir, err := NewGroupProjectDirectory(filepath.Join(t.TempDir(), "nope.txt"), testLogger())
	require.NoError(t, err)
	_, ok := dir.ProjectForGroup("Team A")
	assert.False(t, ok)
}

func TestSinkBindingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proyectos.txt")
	content := "ProjectX:secret_x:dbid-x\nAlpha:secret_a:dbid-a\nmalformed:only-two\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	dir, err := NewSinkBindingDirectory(path, testLogger())
	require.NoError(t, err)

	t.Run("Lookup", func(t *testing.T) {
		binding, ok := dir.BindingForProject("projectx")
		assert.True(t, ok)
		assert.Equal(t, "secret_x", binding.APIKey)
		assert.Equal(t, "dbid-x", binding.DatabaseID)
	})

	t.Run("MalformedSkipped", func(t *testing.T) {
		_, ok := dir.BindingForProject("malformed")
		assert.False(t, ok)
	})

	t.Run("Miss", func(t *testing.T) {
		_, ok := dir.BindingForProject("Beta")
		assert.False(t, ok)
	})
}

func TestSinkBindingDirectory_EmptyPath(t *testing.T) {
	dir, err := NewSinkBindingDirectory("", testLogger())
	require.NoError(t, err)
	_, ok := dir.BindingForProject("ProjectX")
	assert.False(t, ok)
}
