package converter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"file2pdf/internal/layout"
)

func TestTextFlow(t *testing.T) {
	p := func(text string) layout.Block { return layout.Block{Kind: layout.KindParagraph, Text: text} }
	s := layout.Block{Kind: layout.KindSpacer, Height: textLineSpacing}

	tests := []struct {
		name     string
		input    string
		expected []layout.Block
	}{
		{
			name:     "blank line preserved as spacing",
			input:    "a\n\nb",
			expected: []layout.Block{p("a"), s, s, p("b"), s},
		},
		{
			name:     "trailing newline",
			input:    "only\n",
			expected: []layout.Block{p("only"), s, s},
		},
		{
			name:     "whitespace line counts as blank",
			input:    "x\n   \t\ny",
			expected: []layout.Block{p("x"), s, s, p("y"), s},
		},
		{
			name:     "CRLF line endings",
			input:    "one\r\ntwo",
			expected: []layout.Block{p("one"), s, p("two"), s},
		},
		{
			name:     "byte order mark dropped",
			input:    "\xef\xbb\xbfhello",
			expected: []layout.Block{p("hello"), s},
		},
		{
			name:     "markup is literal",
			input:    "<b>bold</b> & <i>",
			expected: []layout.Block{p("<b>bold</b> & <i>"), s},
		},
		{
			name:     "empty file",
			input:    "",
			expected: []layout.Block{s},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow, err := TextFlow([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, flow.Blocks)
		})
	}
}

func TestTextFlowRejectsInvalidUTF8(t *testing.T) {
	_, err := TextFlow([]byte("ok\xff\xfe"))
	assert.Error(t, err)
}

func TestTextConverterRender(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "notes.md")
	out := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(in, []byte("# Title\n\nSome notes, café.\n"), 0o644))

	c := NewTextConverter(nil)
	require.NoError(t, c.Render(context.Background(), in, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestTextConverterInvalidEncoding(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "latin1.txt")
	require.NoError(t, os.WriteFile(in, []byte("caf\xe9"), 0o644))

	err := NewTextConverter(nil).Render(context.Background(), in, filepath.Join(dir, "latin1.pdf"))
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestTextConverterWriteFailure(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(in, []byte("a"), 0o644))

	err := NewTextConverter(nil).Render(context.Background(), in, filepath.Join(dir, "missing", "a.pdf"))
	assert.ErrorIs(t, err, ErrRender)
}

func TestStrategiesReportUnreadableInput(t *testing.T) {
	dir := t.TempDir()
	strategies := map[string]Converter{
		"gone.txt":  NewTextConverter(nil),
		"gone.png":  NewImageConverter(nil),
		"gone.xlsx": NewSpreadsheetConverter(nil),
	}
	for name, strategy := range strategies {
		t.Run(name, func(t *testing.T) {
			err := strategy.Render(context.Background(), filepath.Join(dir, name), filepath.Join(dir, name+".pdf"))
			assert.ErrorIs(t, err, ErrFileNotFound)
			assert.NotErrorIs(t, err, ErrDecode)
		})
	}
}
