package converter

import (
	"errors"
	"fmt"

	"file2pdf/internal/model"
)

// Error kinds returned by conversions. Use errors.Is to classify.
var (
	ErrFileNotFound       = errors.New("file not found")
	ErrUnsupportedFormat  = model.ErrUnsupportedFormat
	ErrDecode             = errors.New("decode error")
	ErrEncoding           = errors.New("encoding error")
	ErrRender             = errors.New("render error")
	ErrExternalConversion = errors.New("external conversion error")
)

// ConversionError ties an error kind to the input it concerns
type ConversionError struct {
	Kind error
	Path string
	Err  error
}

// Error implements the error interface
func (e *ConversionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As
func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, path string, err error) error {
	return &ConversionError{Kind: kind, Path: path, Err: err}
}

// Kind returns the error kind carried by err, or nil if err is not a
// conversion error
func Kind(err error) error {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	for _, kind := range []error{
		ErrFileNotFound,
		ErrUnsupportedFormat,
		ErrDecode,
		ErrEncoding,
		ErrRender,
		ErrExternalConversion,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
