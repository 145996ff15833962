package converter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"file2pdf/internal/layout"
	"file2pdf/internal/model"
)

const (
	cellDelimiter = " | "
	sheetSpacing  = 20.0
)

// Sheet is the textual content of one worksheet, rows in stored order
type Sheet struct {
	Name string
	Rows [][]string
}

// SpreadsheetConverter implements the Converter interface for Excel workbooks
type SpreadsheetConverter struct {
	logger *zap.Logger
}

// NewSpreadsheetConverter creates a new spreadsheet converter
func NewSpreadsheetConverter(logger *zap.Logger) *SpreadsheetConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpreadsheetConverter{logger: logger}
}

// Category implements Converter
func (c *SpreadsheetConverter) Category() model.Category {
	return model.CategoryTabular
}

// Render writes every sheet of the workbook as a heading followed by one
// " | "-delimited line per non-blank row
func (c *SpreadsheetConverter) Render(_ context.Context, inputPath, outputPath string) error {
	if err := checkReadable(inputPath); err != nil {
		return err
	}
	sheets, err := ReadWorkbook(inputPath)
	if err != nil {
		return newError(ErrDecode, inputPath, err)
	}

	flow := SheetFlow(sheets)
	c.logger.Debug("workbook laid out",
		zap.String("input", inputPath),
		zap.Int("sheets", len(sheets)),
		zap.Int("blocks", flow.Len()))

	opts := layout.Options{Title: filepath.Base(inputPath), CreatedAt: modTime(inputPath)}
	if err := layout.WriteFile(flow, outputPath, opts); err != nil {
		return newError(ErrRender, inputPath, err)
	}
	return nil
}

// SheetFlow lays out sheets in order. Rows without a single non-blank cell
// are left out, but every sheet still gets its heading.
func SheetFlow(sheets []Sheet) *layout.Flow {
	flow := &layout.Flow{}
	for _, sheet := range sheets {
		flow.Heading("Sheet: " + sheet.Name)
		for _, row := range sheet.Rows {
			if blankRow(row) {
				continue
			}
			flow.Paragraph(strings.Join(row, cellDelimiter))
		}
		flow.Spacer(sheetSpacing)
	}
	return flow
}

// ReadWorkbook loads the sheets of an .xlsx or .xls file. Every row is
// padded with empty cells to the widest row of its sheet.
func ReadWorkbook(path string) ([]Sheet, error) {
	var (
		sheets []Sheet
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls":
		sheets, err = readXLS(path)
	default:
		sheets, err = readXLSX(path)
	}
	if err != nil {
		return nil, err
	}
	for i := range sheets {
		padRows(sheets[i].Rows)
	}
	return sheets, nil
}

func readXLSX(path string) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

func readXLS(path string) (sheets []Sheet, err error) {
	// The BIFF reader panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			sheets = nil
			err = fmt.Errorf("failed to parse workbook: %v", r)
		}
	}()

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if wb == nil {
		return nil, fmt.Errorf("failed to open workbook: empty workbook")
	}

	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		sheet := Sheet{Name: ws.Name}
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := xlsRow(ws, r)
			if row == nil {
				sheet.Rows = append(sheet.Rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for col := 0; col < row.LastCol(); col++ {
				cells = append(cells, row.Col(col))
			}
			sheet.Rows = append(sheet.Rows, cells)
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// xlsRow returns row i, or nil when the sheet stores nothing for it.
// WorkSheet.Row dereferences missing rows.
func xlsRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func padRows(rows [][]string) {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
}
