package pdftext

import (
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fillwise/fillwise/internal/pdftest"
)

func TestPageCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.pdf")
	pdftest.WritePlainPDF(t, path)

	count, err := NewReader(0).PageCount(path)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPageTexts_PageWithoutContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.pdf")
	pdftest.WritePlainPDF(t, path)

	pages, err := NewReader(0).PageTexts(path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "", pages[0])
}

func TestPageTexts_MissingFile(t *testing.T) {
	_, err := NewReader(0).PageTexts(filepath.Join(t.TempDir(), "gone.pdf"))
	assert.Error(t, err)
}

func TestPageTexts_Directory(t *testing.T) {
	_, err := NewReader(0).PageTexts(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestTruncateToRuneBoundary(t *testing.T) {
	tests := []struct {
		name string
		s    string
		n    int
		want string
	}{
		{"under limit", "hello", 10, "hello"},
		{"exact limit", "hello", 5, "hello"},
		{"ascii cut", "hello", 3, "hel"},
		{"cut lands mid-rune", "aé", 2, "a"},
		{"cut on rune boundary", "aé", 3, "aé"},
		{"multibyte only", "你好", 4, "你"},
		{"zero", "hello", 0, ""},
		{"negative", "hello", -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateToRuneBoundary(tt.s, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestPageTexts_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := NewReader(0).PageTexts(path)
	assert.Error(t, err)
}
