package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskedEnv(t *testing.T) {
	environ := []string{
		"PATH=/usr/bin",
		"FASTBLUR_WORKERS=4",
		"FASTBLUR_API_KEY=hunter2",
		"FASTBLUR_PORT=8080",
		"FASTBLUR_EMPTY=",
		"FASTBLUR_SERVER_URL=http://host/?a=b",
	}

	assert.Equal(t, []string{
		"FASTBLUR_API_KEY: ********",
		"FASTBLUR_EMPTY: ",
		"FASTBLUR_PORT: 8080",
		"FASTBLUR_SERVER_URL: http://host/?a=b",
		"FASTBLUR_WORKERS: 4",
	}, maskedEnv(environ, "FASTBLUR_"))
}

func TestDirAccess(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		assert.Equal(t, "missing, will be created", dirAccess(filepath.Join(t.TempDir(), "out")))
	})

	t.Run("regular file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		assert.Equal(t, "not a directory", dirAccess(path))
	})

	t.Run("writable leaves nothing behind", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Chmod(dir, 0o755))
		assert.Equal(t, "drwxr-xr-x writable", dirAccess(dir))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("read-only", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root can write to read-only directories")
		}
		dir := t.TempDir()
		require.NoError(t, os.Chmod(dir, 0o555))
		t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })
		assert.Equal(t, "dr-xr-xr-x not writable", dirAccess(dir))
	})
}
