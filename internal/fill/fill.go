// Package fill applies mapped values to a target PDF's form fields and
// writes a timestamped copy next to the source. The source PDF is never
// modified.
package fill

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fillwise/fillwise/internal/pdfform"
	"github.com/fillwise/fillwise/internal/sanitize"
	"github.com/fillwise/fillwise/internal/security"
)

// FieldPreview shows what a fill would change for one field.
type FieldPreview struct {
	Name     string `json:"name"`
	Current  string `json:"current"`
	New      string `json:"new"`
	WillFill bool   `json:"will_fill"`
}

// Filler fills one target PDF.
type Filler struct {
	target          string
	flatten         bool
	timestampFormat string
	now             func() time.Time
}

// New creates a filler for the target PDF, which must exist and carry
// an interactive form. timestampFormat is a Go time layout used in the
// output file name.
func New(target string, flatten bool, timestampFormat string) (*Filler, error) {
	absTarget, err := security.ValidatePath(target, true)
	if err != nil {
		return nil, fmt.Errorf("target PDF: %w", err)
	}

	has, err := pdfform.HasAcroForm(absTarget)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, fmt.Errorf("target PDF has no fillable form: %s", filepath.Base(absTarget))
	}

	return &Filler{
		target:          absTarget,
		flatten:         flatten,
		timestampFormat: timestampFormat,
		now:             time.Now,
	}, nil
}

// Fill sanitizes the values, writes them into a timestamped copy of the
// target and returns the output path. A partial output file is removed
// on failure.
func (f *Filler) Fill(values map[string]string) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("no values to fill")
	}

	clean := make(map[string]string, len(values))
	for name, value := range values {
		clean[name] = sanitize.String(value)
	}

	outPath := f.outputPath()
	if err := pdfform.WriteFields(f.target, outPath, clean, f.flatten); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("failed to fill %s: %w", filepath.Base(f.target), err)
	}

	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("filled PDF was not written: %w", err)
	}

	return outPath, nil
}

// Preview reports, without writing anything, what Fill would do to each
// form field of the target.
func (f *Filler) Preview(values map[string]string) ([]FieldPreview, error) {
	current, err := pdfform.Fields(f.target)
	if err != nil {
		return nil, fmt.Errorf("failed to read form fields: %w", err)
	}

	fields, err := pdfform.ListFields(f.target)
	if err != nil {
		return nil, err
	}

	previews := make([]FieldPreview, 0, len(fields))
	for _, field := range fields {
		newValue, willFill := values[field.Name]
		if willFill {
			newValue = sanitize.String(newValue)
		}
		previews = append(previews, FieldPreview{
			Name:     field.Name,
			Current:  current[field.Name],
			New:      newValue,
			WillFill: willFill,
		})
	}
	return previews, nil
}

// Verify reads back a filled PDF and reports filled and empty counts
// with a completion percentage.
func (f *Filler) Verify(path string) (filled, empty int, completion float64, err error) {
	values, err := pdfform.Fields(path)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to verify %s: %w", filepath.Base(path), err)
	}

	for _, value := range values {
		if value == "" {
			empty++
		} else {
			filled++
		}
	}
	if total := filled + empty; total > 0 {
		completion = float64(filled) / float64(total) * 100
	}
	return filled, empty, completion, nil
}

// outputPath derives the timestamped output name next to the target,
// for example claim.pdf -> claim_filled_20240820_153000.pdf.
func (f *Filler) outputPath() string {
	dir := filepath.Dir(f.target)
	base := filepath.Base(f.target)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	name := fmt.Sprintf("%s_filled_%s%s", stem, f.now().Format(f.timestampFormat), ext)
	return filepath.Join(dir, sanitize.Filename(name))
}
