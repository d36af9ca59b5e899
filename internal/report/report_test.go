package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fillwise/fillwise/internal/analyze"
	"github.com/fillwise/fillwise/internal/extract"
)

func TestBuild(t *testing.T) {
	result := extract.NewResult()
	result.Emails = append(result.Emails, "a@b.com")

	b := NewBuilder("/tmp/corpus").SetExtraction(result)
	b.now = func() time.Time {
		return time.Date(2024, 8, 20, 12, 0, 0, 0, time.UTC)
	}

	r := b.Build()
	assert.Equal(t, "/tmp/corpus", r.CorpusDir)
	assert.Equal(t, time.Date(2024, 8, 20, 12, 0, 0, 0, time.UTC), r.GeneratedAt)
	assert.Equal(t, []any{"a@b.com"}, toAny(r.Extraction["emails"]))

	_, err := uuid.Parse(r.RunID)
	assert.NoError(t, err)
}

func TestBuild_FreshRunIDs(t *testing.T) {
	b := NewBuilder("/tmp/corpus")
	assert.NotEqual(t, b.Build().RunID, b.Build().RunID)
}

func TestBuild_EmptyCollections(t *testing.T) {
	r := NewBuilder("dir").Build()
	assert.NotNil(t, r.PDFs)
	assert.NotNil(t, r.Warnings)
	assert.Nil(t, r.Extraction)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	result := extract.NewResult()
	result.Dates = append(result.Dates, "2024-08-20")

	b := NewBuilder("corpus").
		SetExtraction(result).
		AddAnalysis(&analyze.PDFAnalysis{File: "claim.pdf", Fillable: true})

	written, err := b.WriteFile(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, written.RunID, decoded.RunID)
	require.Len(t, decoded.PDFs, 1)
	assert.Equal(t, "claim.pdf", decoded.PDFs[0].File)
}

// toAny normalizes slices for comparison across concrete types.
func toAny(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out
	default:
		return nil
	}
}
