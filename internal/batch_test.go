package internal

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rm-hull/fastblur/fastblur"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSpot(t *testing.T, path string) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 9, 9))
	img.SetGray(4, 4, color.Gray{Y: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return buf.Bytes()
}

func newBatchDirs(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	in := filepath.Join(root, "in")
	require.NoError(t, os.Mkdir(in, 0o755))
	return in, filepath.Join(root, "out")
}

func TestRunBatch(t *testing.T) {
	in, out := newBatchDirs(t)
	a := writeSpot(t, filepath.Join(in, "a.png"))
	writeSpot(t, filepath.Join(in, "b.PNG"))
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("skip me"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.png"), []byte("not a png"), 0o644))

	opts := BatchOptions{InDir: in, OutDir: out, Workers: 3, Radius: 1, Blur: fastblur.Options{Mode: fastblur.Gaussian}}
	errs, err := RunBatch(opts)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], fastblur.ErrFormat)
	assert.Contains(t, errs[0].Error(), "broken.png")

	want, err := fastblur.Blur(a, 1, opts.Blur)
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(out, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.FileExists(t, filepath.Join(out, "b.PNG"))
	assert.NoFileExists(t, filepath.Join(out, "notes.txt"))
	assert.NoFileExists(t, filepath.Join(out, "broken.png"))

	leftovers, err := filepath.Glob(filepath.Join(out, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestRunBatchSkipsExistingOutput(t *testing.T) {
	in, out := newBatchDirs(t)
	writeSpot(t, filepath.Join(in, "a.png"))
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "a.png"), []byte("keep"), 0o644))

	opts := BatchOptions{InDir: in, OutDir: out, Workers: 1, Radius: 2}
	errs, err := RunBatch(opts)
	require.NoError(t, err)
	assert.Empty(t, errs)

	got, err := os.ReadFile(filepath.Join(out, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "keep", string(got))

	opts.Overwrite = true
	errs, err = RunBatch(opts)
	require.NoError(t, err)
	assert.Empty(t, errs)

	got, err = os.ReadFile(filepath.Join(out, "a.png"))
	require.NoError(t, err)
	assert.NotEqual(t, "keep", string(got))
}

func TestNewBatchProcessorRejectsBadSetup(t *testing.T) {
	in, out := newBatchDirs(t)

	_, err := NewBatchProcessor(BatchOptions{InDir: in, OutDir: out, Workers: 0})
	assert.EqualError(t, err, "pool size must be at least 1")

	_, err = NewBatchProcessor(BatchOptions{InDir: filepath.Join(in, "missing"), OutDir: out, Workers: 1})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewBatchProcessor(BatchOptions{InDir: in, OutDir: in, Workers: 1})
	assert.EqualError(t, err, "input and output directories must differ")
}

func TestProcessorMaxJobs(t *testing.T) {
	in, out := newBatchDirs(t)
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		writeSpot(t, filepath.Join(in, name))
	}

	p, err := NewBatchProcessor(BatchOptions{InDir: in, OutDir: out, Workers: 2, Radius: 1})
	require.NoError(t, err)
	p.maxJobs = 2

	p.StartWorkers()
	p.DispatchJobs()
	assert.Empty(t, p.Wait())

	assert.FileExists(t, filepath.Join(out, "a.png"))
	assert.FileExists(t, filepath.Join(out, "b.png"))
	assert.NoFileExists(t, filepath.Join(out, "c.png"))
}

func TestNewScheduler(t *testing.T) {
	in, out := newBatchDirs(t)
	writeSpot(t, filepath.Join(in, "a.png"))

	t.Run("runs the sweep before returning", func(t *testing.T) {
		sched, err := NewScheduler(BatchOptions{InDir: in, OutDir: out, Workers: 1, Radius: 1}, time.Hour)
		require.NoError(t, err)
		t.Cleanup(func() { _ = sched.Shutdown() })

		assert.FileExists(t, filepath.Join(out, "a.png"))
		assert.Len(t, sched.Jobs(), 1)
	})

	t.Run("fails when the sweep cannot start", func(t *testing.T) {
		_, err := NewScheduler(BatchOptions{InDir: in, OutDir: out, Workers: 0}, time.Hour)
		assert.ErrorContains(t, err, "initial run of job failed")
	})

	t.Run("rejects non-positive interval", func(t *testing.T) {
		_, err := NewScheduler(BatchOptions{InDir: in, OutDir: out, Workers: 1}, 0)
		assert.Error(t, err)
	})
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "out.png")

	require.NoError(t, WriteFileAtomic(filename, []byte("first")))
	require.NoError(t, WriteFileAtomic(filename, []byte("second")))

	got, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	err = WriteFileAtomic(filepath.Join(dir, "missing", "out.png"), []byte("x"))
	assert.ErrorContains(t, err, "failed to create temporary file")
}
