package converter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"file2pdf/internal/layout"
	"file2pdf/internal/model"
)

// Vertical gap emitted after every source line, in points
const textLineSpacing = 12.0

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextConverter implements the Converter interface for plain text and
// Markdown files. Markdown is rendered as plain text.
type TextConverter struct {
	logger *zap.Logger
}

// NewTextConverter creates a new text converter
func NewTextConverter(logger *zap.Logger) *TextConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextConverter{logger: logger}
}

// Category implements Converter
func (c *TextConverter) Category() model.Category {
	return model.CategoryText
}

// Render lays out the lines of a UTF-8 text file on A4 pages
func (c *TextConverter) Render(_ context.Context, inputPath, outputPath string) error {
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return newError(ErrFileNotFound, inputPath, err)
	}

	flow, err := TextFlow(content)
	if err != nil {
		return newError(ErrEncoding, inputPath, err)
	}

	c.logger.Debug("text laid out",
		zap.String("input", inputPath),
		zap.Int("blocks", flow.Len()))

	opts := layout.Options{Title: filepath.Base(inputPath), CreatedAt: modTime(inputPath)}
	if err := layout.WriteFile(flow, outputPath, opts); err != nil {
		return newError(ErrRender, inputPath, err)
	}
	return nil
}

// TextFlow turns UTF-8 text into a flow: every non-blank line becomes a
// paragraph and every line, blank or not, is followed by a spacer.
func TextFlow(content []byte) (*layout.Flow, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("input is not valid UTF-8")
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	flow := &layout.Flow{}
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) != "" {
			flow.Paragraph(line)
		}
		flow.Spacer(textLineSpacing)
	}
	return flow, nil
}
