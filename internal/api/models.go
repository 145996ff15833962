package api

import "file2pdf/internal/model"

// DetectResponse represents the response for format detection
type DetectResponse struct {
	Filename     string `json:"filename"`
	Extension    string `json:"extension"`
	Category     string `json:"category,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}

// ConversionResponse represents the response for document conversion
type ConversionResponse struct {
	Success      bool   `json:"success"`
	OriginalName string `json:"originalName,omitempty"`
	ResultName   string `json:"resultName,omitempty"`
	Category     string `json:"category,omitempty"`
	Size         int64  `json:"size,omitempty"`
	Error        string `json:"error,omitempty"`
	// If the file was streamed back, this will be empty
	Location string `json:"location,omitempty"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// FormatsResponse lists the supported extensions per category
type FormatsResponse struct {
	Output  string              `json:"output"`
	Formats map[string][]string `json:"formats"`
}

// CategoryInfo maps model.Category to display names
var CategoryInfo = map[model.Category]string{
	model.CategoryImage:            "Raster Image",
	model.CategoryText:             "Plain Text / Markdown",
	model.CategoryTabular:          "Excel Spreadsheet",
	model.CategoryExternalDocument: "Microsoft Word Document",
}
