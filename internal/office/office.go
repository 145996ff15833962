// Package office converts word-processor documents to PDF by driving an
// external office suite.
package office

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBinary is the LibreOffice command looked up on PATH
const DefaultBinary = "soffice"

// ErrUnavailable is returned when the converter binary cannot be found
var ErrUnavailable = errors.New("office converter not available")

// Converter turns a whole document into a PDF at out
type Converter interface {
	Convert(ctx context.Context, in, out string) error
}

// Func adapts a function to the Converter interface
type Func func(ctx context.Context, in, out string) error

// Convert calls f
func (f Func) Convert(ctx context.Context, in, out string) error {
	return f(ctx, in, out)
}

// executor abstracts command execution for testing
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stderr *bytes.Buffer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, name string, args []string, stderr *bytes.Buffer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = stderr
	return cmd.Run()
}

// LibreOffice converts documents with a headless LibreOffice process
type LibreOffice struct {
	binary  string
	timeout time.Duration
	exec    executor
	logger  *zap.Logger
}

// Option configures a LibreOffice converter
type Option func(*LibreOffice)

// WithBinary overrides the soffice executable
func WithBinary(binary string) Option {
	return func(l *LibreOffice) {
		if binary != "" {
			l.binary = binary
		}
	}
}

// WithTimeout bounds every conversion; zero disables the limit
func WithTimeout(timeout time.Duration) Option {
	return func(l *LibreOffice) {
		l.timeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(l *LibreOffice) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLibreOffice creates a LibreOffice-backed converter
func NewLibreOffice(opts ...Option) *LibreOffice {
	l := &LibreOffice{
		binary: DefaultBinary,
		exec:   osExecutor{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Available reports whether the binary can be found
func (l *LibreOffice) Available() bool {
	_, err := l.exec.LookPath(l.binary)
	return err == nil
}

// Convert runs soffice on in and moves the produced PDF to out. soffice
// always names its output after the input, so conversion happens in a
// scratch directory first.
func (l *LibreOffice) Convert(ctx context.Context, in, out string) error {
	bin, err := l.exec.LookPath(l.binary)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, l.binary, err)
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	scratch, err := os.MkdirTemp("", "file2pdf-office-*")
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	args := []string{
		"--headless",
		"--norestore",
		"-env:UserInstallation=file://" + filepath.ToSlash(filepath.Join(scratch, "profile")),
		"--convert-to", "pdf",
		"--outdir", scratch,
		in,
	}

	l.logger.Debug("running office converter",
		zap.String("binary", bin),
		zap.Strings("args", args))

	var stderr bytes.Buffer
	if err := l.exec.Run(ctx, bin, args, &stderr); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", l.binary, ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("%s failed: %w", l.binary, err)
		}
		return fmt.Errorf("%s failed: %w: %s", l.binary, err, msg)
	}

	base := filepath.Base(in)
	produced := filepath.Join(scratch, strings.TrimSuffix(base, filepath.Ext(base))+".pdf")
	if err := moveFile(produced, out); err != nil {
		return fmt.Errorf("%s produced no output: %w", l.binary, err)
	}
	return nil
}

// moveFile renames src to dst, copying when they live on different devices
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
