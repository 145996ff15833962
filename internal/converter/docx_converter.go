package converter

import (
	"context"

	"go.uber.org/zap"

	"file2pdf/internal/model"
	"file2pdf/internal/office"
)

// DOCXConverter implements the Converter interface for Word documents by
// handing the whole file to an external office converter
type DOCXConverter struct {
	office office.Converter
	logger *zap.Logger
}

// NewDOCXConverter creates a new DOCX converter backed by documents
func NewDOCXConverter(documents office.Converter, logger *zap.Logger) *DOCXConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DOCXConverter{office: documents, logger: logger}
}

// Category implements Converter
func (c *DOCXConverter) Category() model.Category {
	return model.CategoryExternalDocument
}

// Render delegates to the office converter. Its error is passed on as an
// external conversion error without inspection.
func (c *DOCXConverter) Render(ctx context.Context, inputPath, outputPath string) error {
	if c.office == nil {
		return newError(ErrExternalConversion, inputPath, office.ErrUnavailable)
	}
	if err := c.office.Convert(ctx, inputPath, outputPath); err != nil {
		return newError(ErrExternalConversion, inputPath, err)
	}
	c.logger.Debug("document converted externally", zap.String("input", inputPath))
	return nil
}
