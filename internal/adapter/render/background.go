package render

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// LoadBackground reads a basemap image (PNG, JPEG, GIF, TIFF or BMP) for the
// map renderer. The image is stretched over the map extent as is, so it should
// already be in plate carrée projection.
func LoadBackground(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load map background: %w", err)
	}
	return img, nil
}
