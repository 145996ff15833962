package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"file2pdf/internal/model"
)

// DefaultOutputDir is the folder created inside the source folder when a
// batch has no explicit destination
const DefaultOutputDir = "converted_pdfs"

// BatchConvert converts every supported file directly inside folder. A file
// that fails is recorded in the result and the batch moves on; only problems
// with the folders themselves (or a cancelled ctx) are returned as errors.
func (m *ConverterManager) BatchConvert(ctx context.Context, folder, outputFolder string) (model.BatchResult, error) {
	var result model.BatchResult

	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("not a directory")
		}
		return result, newError(ErrFileNotFound, folder, err)
	}

	if outputFolder == "" {
		outputFolder = filepath.Join(folder, DefaultOutputDir)
	}
	if err := os.MkdirAll(outputFolder, 0o755); err != nil {
		return result, fmt.Errorf("failed to create output folder: %w", err)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return result, fmt.Errorf("failed to list %s: %w", folder, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !entry.Type().IsRegular() || !m.registry.Supports(filepath.Ext(entry.Name())) {
			continue
		}

		input := filepath.Join(folder, entry.Name())
		output := model.OutputPath(input, outputFolder)

		converted, err := m.Convert(ctx, input, output)
		if err != nil {
			m.logger.Warn("conversion failed",
				zap.String("input", entry.Name()),
				zap.Error(err))
			result.Failed = append(result.Failed, model.Failure{Input: input, Err: err})
			continue
		}
		m.logger.Info("converted",
			zap.String("input", entry.Name()),
			zap.String("output", filepath.Base(converted.Output)))
		result.Succeeded = append(result.Succeeded, converted)
	}

	return result, nil
}
