package converter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"file2pdf/internal/model"
	"file2pdf/internal/office"
	"file2pdf/internal/util"
)

// fakeOffice writes a stub PDF, or fails for inputs named in failFor
func fakeOffice(failFor ...string) office.Converter {
	return office.Func(func(_ context.Context, in, out string) error {
		for _, name := range failFor {
			if filepath.Base(in) == name {
				return errors.New("document could not be loaded")
			}
		}
		return os.WriteFile(out, []byte("%PDF-1.4 external"), 0o644)
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestConvertMissingFileIsFileNotFound(t *testing.T) {
	manager := CreateDefaultManager(fakeOffice(), nil)
	dir := t.TempDir()

	for _, name := range []string{"missing.txt", "missing.png", "missing.exe", "missing", "missing.docx"} {
		t.Run(name, func(t *testing.T) {
			_, err := manager.Convert(context.Background(), filepath.Join(dir, name), "")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFileNotFound)
			assert.Equal(t, ErrFileNotFound, Kind(err))
		})
	}
}

func TestConvertDirectoryIsFileNotFound(t *testing.T) {
	manager := CreateDefaultManager(fakeOffice(), nil)
	dir := filepath.Join(t.TempDir(), "folder.txt")
	require.NoError(t, os.Mkdir(dir, 0o755))

	_, err := manager.Convert(context.Background(), dir, "")
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, err, errNotRegular)
}

func TestConvertUnsupportedFormat(t *testing.T) {
	manager := CreateDefaultManager(fakeOffice(), nil)
	in := filepath.Join(t.TempDir(), "setup.exe")
	writeFile(t, in, "MZ")

	_, err := manager.Convert(context.Background(), in, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), ".exe")
}

func TestConvertDerivesOutputPath(t *testing.T) {
	manager := CreateDefaultManager(fakeOffice(), nil)
	dir := t.TempDir()
	in := filepath.Join(dir, "report.TXT")
	writeFile(t, in, "hello")

	result, err := manager.Convert(context.Background(), in, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "report.pdf"), result.Output)
	assert.Equal(t, in, result.Input)
	assert.Equal(t, model.CategoryText, result.Category)
	assert.FileExists(t, result.Output)
}

func TestConvertExplicitOutputPath(t *testing.T) {
	manager := CreateDefaultManager(fakeOffice(), nil)
	dir := t.TempDir()
	in := filepath.Join(dir, "letter.docx")
	out := filepath.Join(dir, "elsewhere.pdf")
	writeFile(t, in, "docx bytes")

	result, err := manager.Convert(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, out, result.Output)
	assert.Equal(t, model.CategoryExternalDocument, result.Category)
}

func TestConvertDispatchesEveryCategory(t *testing.T) {
	manager := CreateDefaultManager(fakeOffice(), nil)
	dir := t.TempDir()

	img := filepath.Join(dir, "a.png")
	require.NoError(t, util.CreateTestImage(img, "png", 4, 4))
	txt := filepath.Join(dir, "b.md")
	writeFile(t, txt, "# heading")
	book := filepath.Join(dir, "c.xlsx")
	require.NoError(t, util.CreateTestWorkbook(book, []util.TestSheet{{Name: "S", Rows: [][]interface{}{{"x"}}}}))
	doc := filepath.Join(dir, "d.docx")
	writeFile(t, doc, "docx")

	expected := map[string]model.Category{
		img:  model.CategoryImage,
		txt:  model.CategoryText,
		book: model.CategoryTabular,
		doc:  model.CategoryExternalDocument,
	}
	for in, category := range expected {
		result, err := manager.Convert(context.Background(), in, "")
		require.NoError(t, err, in)
		assert.Equal(t, category, result.Category)
		assert.FileExists(t, result.Output)
	}
}

func TestConvertRemovesPartialOutput(t *testing.T) {
	partial := office.Func(func(_ context.Context, in, out string) error {
		if err := os.WriteFile(out, []byte("%PDF-1.4 trunc"), 0o644); err != nil {
			return err
		}
		return errors.New("crashed halfway")
	})
	manager := CreateDefaultManager(partial, nil)
	dir := t.TempDir()
	in := filepath.Join(dir, "letter.docx")
	writeFile(t, in, "docx")

	_, err := manager.Convert(context.Background(), in, "")
	assert.ErrorIs(t, err, ErrExternalConversion)
	assert.NoFileExists(t, filepath.Join(dir, "letter.pdf"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "letter.docx", entries[0].Name())
}

func TestConvertFailureKeepsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "notes.txt")
	out := filepath.Join(dir, "keep.pdf")
	require.NoError(t, os.WriteFile(in, []byte{0xFF, 0xFE}, 0o644))
	writeFile(t, out, "%PDF-1.4 earlier result")

	_, err := CreateDefaultManager(fakeOffice(), nil).Convert(context.Background(), in, out)
	assert.ErrorIs(t, err, ErrEncoding)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 earlier result", string(data))
}

func TestConvertPartialWriteKeepsExistingOutput(t *testing.T) {
	partial := office.Func(func(_ context.Context, in, out string) error {
		if err := os.WriteFile(out, []byte("%PDF-1.4 trunc"), 0o644); err != nil {
			return err
		}
		return errors.New("crashed halfway")
	})
	dir := t.TempDir()
	in := filepath.Join(dir, "letter.docx")
	out := filepath.Join(dir, "letter.pdf")
	writeFile(t, in, "docx")
	writeFile(t, out, "%PDF-1.4 previous")

	_, err := CreateDefaultManager(partial, nil).Convert(context.Background(), in, out)
	assert.ErrorIs(t, err, ErrExternalConversion)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 previous", string(data))
}

type plainErrorConverter struct{}

func (plainErrorConverter) Render(context.Context, string, string) error {
	return errors.New("disk full")
}

func (plainErrorConverter) Category() model.Category { return model.CategoryText }

func TestConvertWrapsUntypedErrors(t *testing.T) {
	manager := NewConverterManager(model.DefaultRegistry(), nil, plainErrorConverter{})
	in := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, in, "a")

	_, err := manager.Convert(context.Background(), in, "")
	assert.ErrorIs(t, err, ErrRender)
	assert.Contains(t, err.Error(), "disk full")
}

func TestConvertWithoutConverterForCategory(t *testing.T) {
	manager := NewConverterManager(model.DefaultRegistry(), nil)
	in := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, in, "a")

	_, err := manager.Convert(context.Background(), in, "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestConvertIsIdempotent(t *testing.T) {
	manager := CreateDefaultManager(fakeOffice(), nil)
	dir := t.TempDir()
	in := filepath.Join(dir, "poem.txt")
	out := filepath.Join(dir, "poem.pdf")
	writeFile(t, in, "roses\n\nviolets")

	_, err := manager.Convert(context.Background(), in, out)
	require.NoError(t, err)
	first, err := os.ReadFile(out)
	require.NoError(t, err)

	_, err = manager.Convert(context.Background(), in, out)
	require.NoError(t, err)
	second, err := os.ReadFile(out)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestConversionErrorMessage(t *testing.T) {
	err := newError(ErrDecode, "x.png", errors.New("bad header"))
	assert.Equal(t, "decode error: x.png: bad header", err.Error())
	assert.Equal(t, "file not found: y", newError(ErrFileNotFound, "y", nil).Error())
	assert.Nil(t, Kind(errors.New("other")))
	assert.Equal(t, ErrRender, Kind(errors.Join(ErrRender)))
}
