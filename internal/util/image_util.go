// Package util contains helpers shared by the converters
package util

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
)

// DecodeImage decodes the raster image at filePath and returns it together
// with the name of the detected format
func DecodeImage(filePath string) (image.Image, string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	return DecodeImageReader(file)
}

// DecodeImageReader decodes a raster image from r
func DecodeImageReader(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, "", fmt.Errorf("image has no pixels (%dx%d)", bounds.Dx(), bounds.Dy())
	}
	return img, format, nil
}

// ToRGB flattens img onto an opaque white background. The result has the
// same dimensions with its origin at (0,0); every pixel has full alpha, so
// palette, grayscale and transparent inputs all end up as three-channel color.
func ToRGB(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgb := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgb, rgb.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(rgb, rgb.Bounds(), img, bounds.Min, draw.Over)
	return rgb
}

// IsRGB reports whether img already stores opaque three-channel color
func IsRGB(img image.Image) bool {
	switch m := img.(type) {
	case *image.YCbCr:
		return true
	case *image.RGBA:
		return m.Opaque()
	case *image.NRGBA:
		return m.Opaque()
	case *image.RGBA64:
		return m.Opaque()
	case *image.NRGBA64:
		return m.Opaque()
	}
	return false
}
