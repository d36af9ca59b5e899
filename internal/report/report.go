// Package report assembles the hand-off artifact of an extraction run:
// the structured extraction output plus per-PDF analyses, serialized as
// one JSON document.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/fillwise/fillwise/internal/analyze"
	"github.com/fillwise/fillwise/internal/extract"
)

// Report is the serialized run artifact.
type Report struct {
	RunID       string                 `json:"run_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	CorpusDir   string                 `json:"corpus_dir"`
	Extraction  map[string]any         `json:"extraction"`
	PDFs        []*analyze.PDFAnalysis `json:"pdfs"`
	Warnings    []extract.Warning      `json:"warnings"`
}

// Builder accumulates the pieces of a report.
type Builder struct {
	corpusDir string
	result    *extract.Result
	pdfs      []*analyze.PDFAnalysis
	now       func() time.Time
}

// NewBuilder creates a builder for a run over the given corpus.
func NewBuilder(corpusDir string) *Builder {
	return &Builder{corpusDir: corpusDir, now: time.Now}
}

// SetExtraction attaches the extraction result.
func (b *Builder) SetExtraction(result *extract.Result) *Builder {
	b.result = result
	return b
}

// AddAnalysis attaches one PDF analysis.
func (b *Builder) AddAnalysis(analysis *analyze.PDFAnalysis) *Builder {
	b.pdfs = append(b.pdfs, analysis)
	return b
}

// Build assembles the report with a fresh run ID.
func (b *Builder) Build() *Report {
	r := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: b.now().UTC(),
		CorpusDir:   b.corpusDir,
		PDFs:        b.pdfs,
		Warnings:    []extract.Warning{},
	}
	if b.result != nil {
		r.Extraction = b.result.Structured()
		r.Warnings = b.result.Warnings
	}
	if r.PDFs == nil {
		r.PDFs = []*analyze.PDFAnalysis{}
	}
	return r
}

// WriteFile builds the report and writes it as indented JSON.
func (b *Builder) WriteFile(path string) (*Report, error) {
	r := b.Build()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	return r, nil
}
