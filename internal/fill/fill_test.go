package fill

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fillwise/fillwise/internal/config"
	"github.com/fillwise/fillwise/internal/pdfform"
	"github.com/fillwise/fillwise/internal/pdftest"
)

func newTestFiller(t *testing.T, target string) *Filler {
	t.Helper()
	f, err := New(target, false, config.DefaultTimestampFormat)
	require.NoError(t, err)
	f.now = func() time.Time {
		return time.Date(2024, 8, 20, 15, 30, 0, 0, time.UTC)
	}
	return f
}

func TestNew_NoForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.pdf")
	pdftest.WritePlainPDF(t, path)

	_, err := New(path, false, config.DefaultTimestampFormat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no fillable form")
}

func TestNew_MissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "gone.pdf"), false, config.DefaultTimestampFormat)
	assert.Error(t, err)
}

func TestFill(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "claim.pdf")
	pdftest.WriteFormPDF(t, target)

	f := newTestFiller(t, target)
	outPath, err := f.Fill(map[string]string{
		"first_name": "Jane",
		"email":      "jane.doe@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "claim_filled_20240820_153000.pdf"), outPath)

	values, err := pdfform.Fields(outPath)
	require.NoError(t, err)
	assert.Equal(t, "Jane", values["first_name"])
	assert.Equal(t, "jane.doe@example.com", values["email"])

	// The source stays untouched.
	original, err := pdfform.Fields(target)
	require.NoError(t, err)
	assert.Equal(t, "Ann", original["first_name"])
}

func TestFill_SanitizesValues(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "claim.pdf")
	pdftest.WriteFormPDF(t, target)

	f := newTestFiller(t, target)
	outPath, err := f.Fill(map[string]string{"first_name": "Ja\x00ne\x07"})
	require.NoError(t, err)

	values, err := pdfform.Fields(outPath)
	require.NoError(t, err)
	assert.Equal(t, "Jane", values["first_name"])
}

func TestFill_NoValues(t *testing.T) {
	target := filepath.Join(t.TempDir(), "claim.pdf")
	pdftest.WriteFormPDF(t, target)

	f := newTestFiller(t, target)
	_, err := f.Fill(nil)
	assert.Error(t, err)
}

func TestFill_NoPartialOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "claim.pdf")
	pdftest.WriteFormPDF(t, target)

	f := newTestFiller(t, target)
	// Corrupt the source after construction so the write fails.
	require.NoError(t, os.WriteFile(target, []byte("broken"), 0o644))

	_, err := f.Fill(map[string]string{"first_name": "Jane"})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "claim.pdf", entries[0].Name())
}

func TestPreview(t *testing.T) {
	target := filepath.Join(t.TempDir(), "claim.pdf")
	pdftest.WriteFormPDF(t, target)

	f := newTestFiller(t, target)
	previews, err := f.Preview(map[string]string{"email": "a@b.com"})
	require.NoError(t, err)
	require.Len(t, previews, 2)

	byName := make(map[string]FieldPreview)
	for _, p := range previews {
		byName[p.Name] = p
	}

	assert.True(t, byName["email"].WillFill)
	assert.Equal(t, "a@b.com", byName["email"].New)
	assert.False(t, byName["first_name"].WillFill)
	assert.Equal(t, "Ann", byName["first_name"].Current)
}

func TestVerify(t *testing.T) {
	target := filepath.Join(t.TempDir(), "claim.pdf")
	pdftest.WriteFormPDF(t, target)

	f := newTestFiller(t, target)
	filled, empty, completion, err := f.Verify(target)
	require.NoError(t, err)

	assert.Equal(t, 1, filled)
	assert.Equal(t, 1, empty)
	assert.InDelta(t, 50.0, completion, 0.01)
}
