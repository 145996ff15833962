package util

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/xuri/excelize/v2"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// TestSheet describes a worksheet written by CreateTestWorkbook
type TestSheet struct {
	Name string
	Rows [][]interface{}
}

// CreateTestImage writes a width x height image with a translucent
// gradient to path, encoded as format (png, jpeg, gif, bmp or tiff)
func CreateTestImage(path, format string, width, height int) error {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 255 / width), G: uint8(y * 255 / height), B: 128, A: 200})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch format {
	case "png":
		return png.Encode(file, img)
	case "jpeg":
		return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	case "gif":
		return gif.Encode(file, img, nil)
	case "bmp":
		return bmp.Encode(file, img)
	case "tiff":
		return tiff.Encode(file, img, nil)
	}
	return fmt.Errorf("unknown image format %q", format)
}

// CreateTestWorkbook writes an .xlsx file with the given sheets in order.
// Rows start at A1; nil cells are left empty.
func CreateTestWorkbook(path string, sheets []TestSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return err
		}
		for r, row := range sheet.Rows {
			for c, value := range row {
				if value == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
					return err
				}
			}
		}
	}
	return f.SaveAs(path)
}
