package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"file2pdf/internal/model"
	"file2pdf/internal/office"
)

var errNotRegular = errors.New("not a regular file")

// Converter renders one input file into a PDF at outputPath
type Converter interface {
	Render(ctx context.Context, inputPath, outputPath string) error

	// Category returns the format family this converter handles
	Category() model.Category
}

// ConverterManager resolves an input file to a converter and runs it.
// This is the "context" in the strategy pattern.
type ConverterManager struct {
	registry   *model.Registry
	converters map[model.Category]Converter
	logger     *zap.Logger
}

// NewConverterManager creates a manager over registry with the given converters
func NewConverterManager(registry *model.Registry, logger *zap.Logger, converters ...Converter) *ConverterManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &ConverterManager{
		registry:   registry,
		converters: make(map[model.Category]Converter),
		logger:     logger,
	}
	for _, c := range converters {
		m.RegisterConverter(c)
	}
	return m
}

// RegisterConverter installs converter for its category, replacing any
// previous one
func (m *ConverterManager) RegisterConverter(converter Converter) {
	m.converters[converter.Category()] = converter
}

// Registry returns the format registry used for dispatch
func (m *ConverterManager) Registry() *model.Registry {
	return m.registry
}

// Convert converts inputPath to PDF. An empty outputPath is derived from the
// input by swapping its extension for .pdf in the same directory.
func (m *ConverterManager) Convert(ctx context.Context, inputPath, outputPath string) (model.Result, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return model.Result{}, newError(ErrFileNotFound, inputPath, err)
	}
	if !info.Mode().IsRegular() {
		return model.Result{}, newError(ErrFileNotFound, inputPath, errNotRegular)
	}

	if outputPath == "" {
		outputPath = model.OutputPath(inputPath, "")
	}

	category, err := m.registry.CategoryFor(filepath.Ext(inputPath))
	if err != nil {
		return model.Result{}, newError(ErrUnsupportedFormat, inputPath, fmt.Errorf("extension %q", filepath.Ext(inputPath)))
	}

	converter, ok := m.converters[category]
	if !ok {
		return model.Result{}, newError(ErrUnsupportedFormat, inputPath, fmt.Errorf("no converter registered for %s", category))
	}

	m.logger.Debug("converting",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.Stringer("category", category))

	// Strategies write to a staging file beside the output. Only a
	// successful render replaces outputPath, so a failure never touches
	// an existing file there.
	staging := stagingPath(outputPath)
	defer os.Remove(staging)

	if err := converter.Render(ctx, inputPath, staging); err != nil {
		if Kind(err) == nil {
			err = newError(ErrRender, inputPath, err)
		}
		return model.Result{}, err
	}
	if err := os.Rename(staging, outputPath); err != nil {
		return model.Result{}, newError(ErrRender, inputPath, fmt.Errorf("failed to move PDF into place: %w", err))
	}

	return model.Result{Input: inputPath, Output: outputPath, Category: category}, nil
}

// stagingPath returns a hidden, unique sibling of outputPath
func stagingPath(outputPath string) string {
	dir, base := filepath.Split(outputPath)
	return filepath.Join(dir, "."+base+"."+uuid.NewString()+".part")
}

// checkReadable reports an input that exists but cannot be opened as
// ErrFileNotFound, so only parse failures surface as ErrDecode
func checkReadable(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return newError(ErrFileNotFound, path, err)
	}
	return file.Close()
}

// modTime returns the input's modification time, used as the PDF creation
// date so that converting unchanged input yields identical output
func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime().UTC().Truncate(time.Second)
}

// CreateDefaultManager creates a converter manager with the default set of
// converters. documents performs the .docx conversion.
func CreateDefaultManager(documents office.Converter, logger *zap.Logger) *ConverterManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return NewConverterManager(model.DefaultRegistry(), logger,
		NewImageConverter(logger),
		NewTextConverter(logger),
		NewSpreadsheetConverter(logger),
		NewDOCXConverter(documents, logger),
	)
}
