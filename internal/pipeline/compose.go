package pipeline

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
)

// Compose pairs two animations frame by frame, placing a[i] left of b[i] on a
// white canvas as tall as the taller of the two.
func Compose(a, b []image.Image) ([]image.Image, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d vs %d frames", domain.ErrFrameCountMismatch, len(a), len(b))
	}

	out := make([]image.Image, len(a))
	for i := range a {
		out[i] = composeFrame(a[i], b[i])
	}
	return out, nil
}

func composeFrame(left, right image.Image) image.Image {
	lb, rb := left.Bounds(), right.Bounds()
	canvas := imaging.New(lb.Dx()+rb.Dx(), max(lb.Dy(), rb.Dy()), color.White)
	canvas = imaging.Paste(canvas, left, image.Pt(0, 0))
	return imaging.Paste(canvas, right, image.Pt(lb.Dx(), 0))
}
