package api

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"file2pdf/internal/converter"
	"file2pdf/internal/model"
)

const (
	// multipart parts above this size are spooled to disk
	maxFormMemory = 10 << 20

	// BatchArchiveName is the download name of batch results
	BatchArchiveName = "converted_files.zip"
)

// Server represents the API server
type Server struct {
	converterMgr   *converter.ConverterManager
	outputDir      string
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewServer creates a new API server
func NewServer(converterMgr *converter.ConverterManager, outputDir string, maxUploadBytes int64, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	// Create the output directory if it doesn't exist
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			logger.Warn("cannot create output directory", zap.String("dir", outputDir), zap.Error(err))
		}
	}

	return &Server{
		converterMgr:   converterMgr,
		outputDir:      outputDir,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// DetectFormatHandler reports which category a file name maps to. The
// name comes from the "filename" query parameter or an uploaded "file".
func (s *Server) DetectFormatHandler(w http.ResponseWriter, r *http.Request) {
	var filename string
	switch r.Method {
	case http.MethodGet:
		filename = r.URL.Query().Get("filename")
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			s.parseError(w, err)
			return
		}
		defer r.MultipartForm.RemoveAll()
		_, header, err := r.FormFile("file")
		if err != nil {
			responseWithError(w, http.StatusBadRequest, "No file uploaded", nil)
			return
		}
		filename = header.Filename
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if filename == "" {
		responseWithError(w, http.StatusBadRequest, "No file name given", nil)
		return
	}

	ext := filepath.Ext(filename)
	response := DetectResponse{Filename: filename, Extension: strings.ToLower(ext)}
	category, err := s.converterMgr.Registry().CategoryFor(ext)
	if err != nil {
		response.Error = err.Error()
	} else {
		response.Success = true
		response.Category = category.String()
		response.CategoryName = CategoryInfo[category]
	}

	writeJSON(w, http.StatusOK, response)
}

// FormatsHandler lists the supported extensions
func (s *Server) FormatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	registry := s.converterMgr.Registry()
	response := FormatsResponse{Output: model.OutputExtension, Formats: make(map[string][]string)}
	for _, category := range model.Categories {
		response.Formats[category.String()] = registry.Extensions(category)
	}
	writeJSON(w, http.StatusOK, response)
}

// ConvertToPDFHandler handles requests to convert a single uploaded file
func (s *Server) ConvertToPDFHandler(w http.ResponseWriter, r *http.Request) {
	// Only support POST method
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		s.parseError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		if _, ok := r.MultipartForm.Value["file"]; ok {
			responseWithError(w, http.StatusBadRequest, "No file selected", nil)
			return
		}
		responseWithError(w, http.StatusBadRequest, "No file uploaded", nil)
		return
	}
	header := headers[0]
	if header.Filename == "" {
		responseWithError(w, http.StatusBadRequest, "No file selected", nil)
		return
	}

	workDir, err := os.MkdirTemp("", "file2pdf-"+uuid.NewString()+"-")
	if err != nil {
		responseWithError(w, http.StatusInternalServerError, "Failed to create workspace", err)
		return
	}
	defer os.RemoveAll(workDir)

	filename := secureFilename(header.Filename)
	inputPath := filepath.Join(workDir, filename)
	if err := saveUpload(header, inputPath); err != nil {
		responseWithError(w, http.StatusInternalServerError, "Failed to save upload", err)
		return
	}

	result, err := s.converterMgr.Convert(r.Context(), inputPath, "")
	if err != nil {
		s.logger.Warn("conversion failed", zap.String("file", filename), zap.Error(err))
		responseWithError(w, statusFor(err), "Failed to convert document to PDF", err)
		return
	}

	pdfData, err := os.ReadFile(result.Output)
	if err != nil {
		responseWithError(w, http.StatusInternalServerError, "Failed to read converted PDF", err)
		return
	}
	pdfFileName := filepath.Base(result.Output)

	// Check if we should save to disk or stream back
	if r.FormValue("save") == "true" && s.outputDir != "" {
		outputPath := filepath.Join(s.outputDir, pdfFileName)
		if err := os.WriteFile(outputPath, pdfData, 0o644); err != nil {
			responseWithError(w, http.StatusInternalServerError, "Failed to save PDF file", err)
			return
		}
		writeJSON(w, http.StatusOK, ConversionResponse{
			Success:      true,
			OriginalName: header.Filename,
			ResultName:   pdfFileName,
			Category:     result.Category.String(),
			Size:         int64(len(pdfData)),
			Location:     outputPath,
		})
		return
	}

	// Stream the PDF back to the client
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdfFileName))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfData)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfData); err != nil {
		// We can't return an error to the client at this point
		s.logger.Warn("error writing response", zap.Error(err))
	}
}

// BatchConvertHandler converts every uploaded "files" part and returns the
// PDFs as one ZIP archive. Files that fail are left out of the archive.
func (s *Server) BatchConvertHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		s.parseError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		if _, ok := r.MultipartForm.Value["files"]; ok {
			responseWithError(w, http.StatusBadRequest, "No files selected", nil)
			return
		}
		responseWithError(w, http.StatusBadRequest, "No files uploaded", nil)
		return
	}

	workDir, err := os.MkdirTemp("", "file2pdf-batch-"+uuid.NewString()+"-")
	if err != nil {
		responseWithError(w, http.StatusInternalServerError, "Failed to create workspace", err)
		return
	}
	defer os.RemoveAll(workDir)

	inputDir := filepath.Join(workDir, "input")
	outputDir := filepath.Join(workDir, "output")
	if err := os.Mkdir(inputDir, 0o755); err != nil {
		responseWithError(w, http.StatusInternalServerError, "Failed to create workspace", err)
		return
	}

	used := make(map[string]bool)
	saved := 0
	for _, header := range headers {
		if header.Filename == "" {
			continue
		}
		name := uniqueName(secureFilename(header.Filename), used)
		if err := saveUpload(header, filepath.Join(inputDir, name)); err != nil {
			responseWithError(w, http.StatusInternalServerError, "Failed to save upload", err)
			return
		}
		saved++
	}
	if saved == 0 {
		responseWithError(w, http.StatusBadRequest, "No files selected", nil)
		return
	}

	result, err := s.converterMgr.BatchConvert(r.Context(), inputDir, outputDir)
	if err != nil {
		responseWithError(w, http.StatusInternalServerError, "Batch conversion failed", err)
		return
	}
	skipped := saved - result.Total()
	for _, failure := range result.Failed {
		s.logger.Warn("batch item failed",
			zap.String("file", filepath.Base(failure.Input)),
			zap.Error(failure.Err))
	}
	if len(result.Succeeded) == 0 {
		responseWithError(w, http.StatusBadRequest, "No files could be converted", nil)
		return
	}

	var archive bytes.Buffer
	if err := writeArchive(&archive, result.Succeeded); err != nil {
		responseWithError(w, http.StatusInternalServerError, "Failed to build archive", err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", BatchArchiveName))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Length", strconv.Itoa(archive.Len()))
	w.Header().Set("X-Conversion-Failures", strconv.Itoa(len(result.Failed)))
	w.Header().Set("X-Conversion-Skipped", strconv.Itoa(skipped))
	w.WriteHeader(http.StatusOK)
	if _, err := archive.WriteTo(w); err != nil {
		s.logger.Warn("error writing response", zap.Error(err))
	}
}

// writeArchive stores every converted PDF under its base name
func writeArchive(w io.Writer, results []model.Result) error {
	zw := zip.NewWriter(w)
	for _, result := range results {
		data, err := os.ReadFile(result.Output)
		if err != nil {
			return err
		}
		entry, err := zw.Create(filepath.Base(result.Output))
		if err != nil {
			return err
		}
		if _, err := entry.Write(data); err != nil {
			return err
		}
	}
	return zw.Close()
}

func saveUpload(header *multipart.FileHeader, path string) error {
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// secureFilename reduces an uploaded name to a safe base name made of
// ASCII letters, digits, '.', '-' and '_'
func secureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base("/" + name)
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if folded, _, err := transform.String(fold, name); err == nil {
		name = folded
	}

	var b strings.Builder
	for _, field := range strings.Fields(name) {
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		for _, r := range field {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_') {
				b.WriteRune(r)
			}
		}
	}

	safe := strings.Trim(b.String(), "._")
	if safe == "" {
		return "upload"
	}
	return safe
}

// uniqueName keeps converted names from colliding: two uploads that share a
// stem would otherwise produce the same PDF
func uniqueName(name string, used map[string]bool) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := stem
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		candidate = fmt.Sprintf("%s-%d", stem, i)
	}
	used[strings.ToLower(candidate)] = true
	return candidate + ext
}

// statusFor maps a conversion error kind to an HTTP status
func statusFor(err error) int {
	switch converter.Kind(err) {
	case converter.ErrUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case converter.ErrDecode, converter.ErrEncoding:
		return http.StatusUnprocessableEntity
	case converter.ErrFileNotFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) parseError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		responseWithError(w, http.StatusRequestEntityTooLarge, "Upload too large", err)
		return
	}
	responseWithError(w, http.StatusBadRequest, "Failed to parse form", err)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Helper function to return an error response in JSON format
func responseWithError(w http.ResponseWriter, status int, message string, err error) {
	errMsg := message
	if err != nil {
		errMsg = fmt.Sprintf("%s: %v", message, err)
	}
	writeJSON(w, status, ErrorResponse{Success: false, Error: errMsg})
}
