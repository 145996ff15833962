package converter

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"file2pdf/internal/model"
	"file2pdf/internal/util"
)

// ImageConverter implements the Converter interface for raster images
type ImageConverter struct {
	logger *zap.Logger
}

// NewImageConverter creates a new image converter
func NewImageConverter(logger *zap.Logger) *ImageConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageConverter{logger: logger}
}

// Category implements Converter
func (c *ImageConverter) Category() model.Category {
	return model.CategoryImage
}

// Render converts an image into a single-page PDF. The page matches the
// image's pixel size so the picture is kept at native resolution.
func (c *ImageConverter) Render(_ context.Context, inputPath, outputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return newError(ErrFileNotFound, inputPath, err)
	}
	img, format, err := util.DecodeImageReader(file)
	file.Close()
	if err != nil {
		return newError(ErrDecode, inputPath, err)
	}

	if !util.IsRGB(img) {
		c.logger.Debug("normalizing image to RGB",
			zap.String("input", inputPath),
			zap.String("format", format))
	}
	rgb := util.ToRGB(img)

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, rgb); err != nil {
		return newError(ErrRender, inputPath, fmt.Errorf("failed to encode image: %w", err))
	}

	created := modTime(inputPath)
	pdf := newImagePDF(rgb.Bounds(), created)
	options := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("page", options, &encoded)
	width, height := float64(rgb.Bounds().Dx()), float64(rgb.Bounds().Dy())
	pdf.ImageOptions("page", 0, 0, width, height, false, options, 0, "")
	if pdf.Err() {
		return newError(ErrRender, inputPath, pdf.Error())
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return newError(ErrRender, inputPath, fmt.Errorf("failed to create output file: %w", err))
	}
	if err := pdf.Output(out); err != nil {
		out.Close()
		return newError(ErrRender, inputPath, fmt.Errorf("failed to write PDF: %w", err))
	}
	if err := out.Close(); err != nil {
		return newError(ErrRender, inputPath, fmt.Errorf("failed to close output file: %w", err))
	}
	return nil
}

func newImagePDF(bounds image.Rectangle, created time.Time) *gofpdf.Fpdf {
	size := gofpdf.SizeType{Wd: float64(bounds.Dx()), Ht: float64(bounds.Dy())}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           size,
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	if !created.IsZero() {
		pdf.SetCreationDate(created)
	}
	pdf.AddPageFormat("P", size)
	return pdf
}
