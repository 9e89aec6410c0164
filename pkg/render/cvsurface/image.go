package cvsurface

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// LoadImage decodes an image file with OpenCV.
func LoadImage(path string) (image.Image, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("decode %s: unreadable image", path)
	}
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
