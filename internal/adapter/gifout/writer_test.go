package gifout

import (
	"image"
	"image/color"
	"image/gif"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
)

func testWriter() *Writer {
	return NewWriter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func solidFrames(n, w, h int) []image.Image {
	frames := make([]image.Image, n)
	for i := range frames {
		frames[i] = imaging.New(w, h, color.RGBA{R: uint8(40 * i), G: 0x80, B: 0xff, A: 0xff})
	}
	return frames
}

func decode(t *testing.T, path string) *gif.GIF {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	g, err := gif.DecodeAll(f)
	require.NoError(t, err)
	return g
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capacity_line.gif")

	err := testWriter().Write(path, solidFrames(5, 40, 30), 250*time.Millisecond)
	require.NoError(t, err)

	g := decode(t, path)
	require.Len(t, g.Image, 5)
	assert.Equal(t, []int{25, 25, 25, 25, 25}, g.Delay)
	assert.Equal(t, 0, g.LoopCount, "loops forever")
	assert.Equal(t, image.Rect(0, 0, 40, 30), g.Image[0].Bounds())
}

func TestWrite_MinimumDelay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fast.gif")

	require.NoError(t, testWriter().Write(path, solidFrames(2, 8, 8), time.Millisecond))
	assert.Equal(t, []int{1, 1}, decode(t, path).Delay)
}

func TestWrite_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "combined.gif")
	w := testWriter()

	require.NoError(t, w.Write(path, solidFrames(3, 8, 8), 100*time.Millisecond))
	require.NoError(t, w.Write(path, solidFrames(2, 8, 8), 100*time.Millisecond))
	assert.Len(t, decode(t, path).Image, 2)
}

func TestWrite_FileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	path := filepath.Join(t.TempDir(), "capacity_map.gif")

	require.NoError(t, testWriter().Write(path, solidFrames(2, 8, 8), 100*time.Millisecond))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWrite_NoTempLeftBehind(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, testWriter().Write(filepath.Join(dir, "a.gif"), solidFrames(2, 8, 8), 100*time.Millisecond))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.gif", entries[0].Name())
}

func TestWrite_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   func(t *testing.T) string
		frames []image.Image
	}{
		{
			name:   "missing directory",
			path:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing", "a.gif") },
			frames: solidFrames(2, 8, 8),
		},
		{
			name:   "no frames",
			path:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "a.gif") },
			frames: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			err := testWriter().Write(path, tt.frames, 100*time.Millisecond)
			require.ErrorIs(t, err, domain.ErrOutputWriteFailed)

			_, statErr := os.Stat(path)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}
