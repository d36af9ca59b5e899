// Package analyze inspects target PDFs before and after filling: form
// structure, text preview, fill completion and field-level differences.
package analyze

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fillwise/fillwise/internal/pdfform"
	"github.com/fillwise/fillwise/internal/pdftext"
	"github.com/fillwise/fillwise/internal/security"
)

// previewLines caps how many non-empty text lines an analysis carries.
const previewLines = 5

// PDFAnalysis summarizes the structure of one PDF.
type PDFAnalysis struct {
	File        string          `json:"file"`
	Path        string          `json:"path"`
	Fillable    bool            `json:"fillable"`
	PageCount   int             `json:"page_count"`
	FieldCount  int             `json:"field_count"`
	Fields      []pdfform.Field `json:"fields"`
	TextPreview []string        `json:"text_preview"`
}

// Analyzer builds PDFAnalysis values.
type Analyzer struct {
	text *pdftext.Reader
}

// NewAnalyzer creates an analyzer with default text extraction limits.
func NewAnalyzer() *Analyzer {
	return &Analyzer{text: pdftext.NewReader(0)}
}

// Analyze reads a PDF's form structure and a short text preview. A PDF
// without a form is a valid analysis with Fillable false, not an error.
func (a *Analyzer) Analyze(path string) (*PDFAnalysis, error) {
	absPath, err := security.ValidatePath(path, true)
	if err != nil {
		return nil, fmt.Errorf("target PDF: %w", err)
	}

	fields, err := pdfform.ListFields(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read form fields: %w", err)
	}

	fillable, err := pdfform.HasAcroForm(absPath)
	if err != nil {
		return nil, err
	}
	// Some producers attach widgets without declaring the AcroForm.
	if !fillable && len(fields) > 0 {
		fillable = true
	}

	analysis := &PDFAnalysis{
		File:       filepath.Base(absPath),
		Path:       absPath,
		Fillable:   fillable,
		FieldCount: len(fields),
		Fields:     fields,
	}

	if pages, err := a.text.PageCount(absPath); err == nil {
		analysis.PageCount = pages
	}
	if text, err := a.text.Text(absPath); err == nil {
		analysis.TextPreview = preview(text)
	}

	return analysis, nil
}

// preview returns the first few non-empty lines of text, trimmed.
func preview(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == previewLines {
			break
		}
	}
	return lines
}
