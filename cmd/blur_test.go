package cmd

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rm-hull/fastblur/fastblur"
	"github.com/rm-hull/fastblur/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, "dir/photo-blur.png", defaultOutput("dir/photo.png"))
	assert.Equal(t, "photo-blur.png", defaultOutput("photo"))
}

func TestBlurCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "spot.png")
	data := spotPNG(t)
	require.NoError(t, os.WriteFile(input, data, 0o644))

	opts := fastblur.Options{Mode: fastblur.Box, Intensity: fastblur.Double}
	want, err := fastblur.Blur(data, 2, opts)
	require.NoError(t, err)

	t.Run("writes next to the input by default", func(t *testing.T) {
		require.NoError(t, blurTo(&bytes.Buffer{}, input, "", 2, opts))

		got, err := os.ReadFile(filepath.Join(dir, "spot-blur.png"))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("explicit output path", func(t *testing.T) {
		output := filepath.Join(dir, "custom.png")
		require.NoError(t, blurTo(&bytes.Buffer{}, input, output, 2, opts))
		assert.FileExists(t, output)
	})

	t.Run("dash writes to stdout", func(t *testing.T) {
		var stdout bytes.Buffer
		require.NoError(t, blurTo(&stdout, input, "-", 2, opts))
		assert.Equal(t, want, stdout.Bytes())
	})

	t.Run("missing input", func(t *testing.T) {
		err := blurTo(&bytes.Buffer{}, filepath.Join(dir, "nope.png"), "", 2, opts)
		assert.ErrorIs(t, err, fastblur.ErrPathNotFound)
	})
}

func TestRemoteCommand(t *testing.T) {
	server := httptest.NewServer(newTestRouter(t, ServerOptions{}))
	defer server.Close()

	dir := t.TempDir()
	input := filepath.Join(dir, "spot.png")
	data := spotPNG(t)
	require.NoError(t, os.WriteFile(input, data, 0o644))

	params := internal.BlurParams{Radius: 4, Mode: fastblur.Gaussian, Intensity: fastblur.Single}
	client := internal.NewBlurClient(server.URL)

	t.Run("round trip through the API", func(t *testing.T) {
		var stdout bytes.Buffer
		require.NoError(t, remoteTo(&stdout, client, input, "-", params))

		want, err := fastblur.Blur(data, 4, fastblur.Options{Mode: fastblur.Gaussian})
		require.NoError(t, err)
		assert.Equal(t, want, stdout.Bytes())
	})

	t.Run("server errors are reported", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.png")
		require.NoError(t, os.WriteFile(bad, []byte("not a png"), 0o644))

		err := remoteTo(&bytes.Buffer{}, client, bad, "-", params)
		assert.ErrorContains(t, err, "422")
		assert.ErrorContains(t, err, "FormatError")
	})

	t.Run("missing input never reaches the server", func(t *testing.T) {
		err := remoteTo(&bytes.Buffer{}, client, filepath.Join(dir, "nope.png"), "-", params)
		assert.ErrorIs(t, err, fastblur.ErrPathNotFound)
	})
}

func TestBatchCommand(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	require.NoError(t, os.Mkdir(in, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(in, "a.png"), spotPNG(t), 0o644))

	opts := internal.BatchOptions{InDir: in, OutDir: filepath.Join(root, "out"), Workers: 2, Radius: 1}
	require.NoError(t, Batch(opts))
	assert.FileExists(t, filepath.Join(root, "out", "a.png"))

	require.NoError(t, os.WriteFile(filepath.Join(in, "b.png"), []byte("junk"), 0o644))
	err := Batch(opts)
	assert.ErrorContains(t, err, "1 files failed")
	assert.ErrorIs(t, err, fastblur.ErrFormat)
}
