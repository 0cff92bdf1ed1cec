// Package gifout encodes rendered frames as looping animated GIFs.
package gifout

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
)

// Writer persists animations to disk.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a GIF writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger}
}

// Write encodes frames as an animated GIF that loops forever and places it
// at path. The file only appears once it is complete.
func (w *Writer) Write(path string, frames []image.Image, delay time.Duration) error {
	if len(frames) == 0 {
		return fmt.Errorf("%w: %s: no frames", domain.ErrOutputWriteFailed, path)
	}

	anim := encode(frames, delay)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".gif-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrOutputWriteFailed, path, err)
	}
	if err := gif.EncodeAll(tmp, anim); err != nil {
		return cleanup(tmp, path, err)
	}
	// CreateTemp opens 0600; published animations are world-readable.
	if err := tmp.Chmod(0o644); err != nil {
		return cleanup(tmp, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %s: %w", domain.ErrOutputWriteFailed, path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %s: %w", domain.ErrOutputWriteFailed, path, err)
	}

	w.logger.Info("animation written", "path", path, "frames", len(frames), "delay", delay)
	return nil
}

func cleanup(tmp *os.File, path string, cause error) error {
	err := errors.Join(cause, tmp.Close(), os.Remove(tmp.Name()))
	return fmt.Errorf("%w: %s: %w", domain.ErrOutputWriteFailed, path, err)
}

// encode quantizes every frame onto the Plan 9 palette with Floyd-Steinberg
// dithering. Delay is expressed in hundredths of a second, at least 1.
func encode(frames []image.Image, delay time.Duration) *gif.GIF {
	cs := int(delay / (10 * time.Millisecond))
	if cs < 1 {
		cs = 1
	}

	anim := &gif.GIF{
		Image:     make([]*image.Paletted, len(frames)),
		Delay:     make([]int, len(frames)),
		LoopCount: 0,
	}
	for i, f := range frames {
		b := f.Bounds()
		pm := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
		draw.FloydSteinberg.Draw(pm, pm.Bounds(), f, b.Min)
		anim.Image[i] = pm
		anim.Delay[i] = cs
	}
	return anim
}
