package office

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor records calls and optionally writes the PDF soffice would
type fakeExecutor struct {
	lookErr error
	runErr  error
	stderr  string
	produce bool
	block   bool

	gotName string
	gotArgs []string
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if f.lookErr != nil {
		return "", f.lookErr
	}
	return "/usr/bin/" + file, nil
}

func (f *fakeExecutor) Run(ctx context.Context, name string, args []string, stderr *bytes.Buffer) error {
	f.gotName = name
	f.gotArgs = args
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	stderr.WriteString(f.stderr)
	if f.runErr != nil {
		return f.runErr
	}
	if f.produce {
		outdir := ""
		for i, a := range args {
			if a == "--outdir" && i+1 < len(args) {
				outdir = args[i+1]
			}
		}
		in := args[len(args)-1]
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		return os.WriteFile(filepath.Join(outdir, base+".pdf"), []byte("%PDF-1.4 fake"), 0o644)
	}
	return nil
}

func newTestConverter(exec *fakeExecutor, opts ...Option) *LibreOffice {
	l := NewLibreOffice(opts...)
	l.exec = exec
	return l
}

func TestLibreOfficeConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "letter.docx")
	out := filepath.Join(dir, "result.pdf")
	require.NoError(t, os.WriteFile(in, []byte("docx"), 0o644))

	exec := &fakeExecutor{produce: true}
	l := newTestConverter(exec, WithBinary("libreoffice"))

	require.NoError(t, l.Convert(context.Background(), in, out))

	assert.Equal(t, "/usr/bin/libreoffice", exec.gotName)
	assert.Contains(t, exec.gotArgs, "--headless")
	assert.Contains(t, exec.gotArgs, "--convert-to")
	assert.Equal(t, in, exec.gotArgs[len(exec.gotArgs)-1])

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))
}

func TestLibreOfficeUnavailable(t *testing.T) {
	l := newTestConverter(&fakeExecutor{lookErr: errors.New("not found")})

	assert.False(t, l.Available())
	err := l.Convert(context.Background(), "a.docx", "a.pdf")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLibreOfficeFailureIncludesStderr(t *testing.T) {
	l := newTestConverter(&fakeExecutor{runErr: errors.New("exit status 1"), stderr: "source file could not be loaded\n"})

	err := l.Convert(context.Background(), "broken.docx", filepath.Join(t.TempDir(), "broken.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 1")
	assert.Contains(t, err.Error(), "source file could not be loaded")
}

func TestLibreOfficeMissingOutput(t *testing.T) {
	l := newTestConverter(&fakeExecutor{})

	err := l.Convert(context.Background(), "empty.docx", filepath.Join(t.TempDir(), "empty.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produced no output")
}

func TestLibreOfficeTimeout(t *testing.T) {
	l := newTestConverter(&fakeExecutor{block: true}, WithTimeout(20*time.Millisecond))

	err := l.Convert(context.Background(), "slow.docx", filepath.Join(t.TempDir(), "slow.pdf"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFuncAdapter(t *testing.T) {
	var called bool
	var c Converter = Func(func(ctx context.Context, in, out string) error {
		called = true
		assert.Equal(t, "in.docx", in)
		assert.Equal(t, "out.pdf", out)
		return nil
	})

	require.NoError(t, c.Convert(context.Background(), "in.docx", "out.pdf"))
	assert.True(t, called)
}
