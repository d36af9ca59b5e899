// Package extract walks a document corpus and turns unstructured text
// into typed candidate values: dates, emails, phone numbers, amounts,
// identifiers, potential names and labeled key/value pairs.
package extract

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fillwise/fillwise/internal/patterns"
	"github.com/fillwise/fillwise/internal/pdftext"
	"github.com/fillwise/fillwise/internal/sanitize"
	"github.com/fillwise/fillwise/internal/security"
)

// textExtensions are the plain-text-like file types read directly.
var textExtensions = map[string]bool{
	".txt":   true,
	".email": true,
}

// formIndicators are filename tokens marking a PDF as a blank form.
// Blank forms are templates to be filled, not sources to extract from.
var formIndicators = []string{"form", "template", "blank", "fillable", "editable"}

// Extractor walks a corpus root and extracts structured data from every
// readable document. One bad file degrades coverage, never the rest of
// the run.
type Extractor struct {
	root     string
	compiled *patterns.Compiled
	pdf      *pdftext.Reader
	logger   *log.Logger
}

// New creates an extractor for the corpus rooted at dir. The directory
// must exist; compiled holds the pattern set for this run.
func New(dir string, compiled *patterns.Compiled) (*Extractor, error) {
	root, err := security.ValidateDir(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid corpus root: %w", err)
	}

	return &Extractor{
		root:     root,
		compiled: compiled,
		pdf:      pdftext.NewReader(0),
		logger:   log.New(os.Stderr, "extract: ", log.LstdFlags),
	}, nil
}

// SetLogger replaces the warning logger. Useful for tests.
func (e *Extractor) SetLogger(logger *log.Logger) {
	e.logger = logger
}

// Root returns the validated corpus root.
func (e *Extractor) Root() string {
	return e.root
}

// ExtractAll traverses every regular file under the corpus root and
// returns the aggregated result. Per-file read and parse failures are
// recorded as warnings and skipped; only an inaccessible root fails
// the run.
func (e *Extractor) ExtractAll() (*Result, error) {
	result := NewResult()

	err := filepath.WalkDir(e.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == e.root {
				return walkErr
			}
			e.warn(result, path, walkErr.Error())
			return nil
		}
		if d.IsDir() {
			return nil
		}

		switch ext := strings.ToLower(filepath.Ext(path)); {
		case textExtensions[ext]:
			e.processTextFile(path, result)
		case ext == ".pdf":
			e.processPDF(path, result)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to traverse corpus: %w", err)
	}

	result.finalize()
	return result, nil
}

// processTextFile reads a plain-text document with permissive decoding
// and runs the extraction pipeline over it.
func (e *Extractor) processTextFile(path string, result *Result) {
	data, err := os.ReadFile(path)
	if err != nil {
		e.warn(result, path, fmt.Sprintf("could not read file: %v", err))
		return
	}

	// Malformed byte sequences are dropped rather than failing the file.
	text := strings.ToValidUTF8(string(data), "")

	result.RawText = append(result.RawText, sanitize.String(text))
	e.extractFromText(text, result)
}

// processPDF extracts the text layer of a PDF page by page. PDFs whose
// filename marks them as blank forms contribute nothing.
func (e *Extractor) processPDF(path string, result *Result) {
	if isBlankForm(path) {
		return
	}

	pages, err := e.pdf.PageTexts(path)
	if err != nil {
		e.warn(result, path, fmt.Sprintf("could not extract text: %v", err))
		return
	}

	text := strings.Join(pages, "\n")
	result.RawText = append(result.RawText, sanitize.String(text))
	e.extractFromText(text, result)
}

// isBlankForm reports whether the filename carries a form-indicator
// token such as "form" or "template".
func isBlankForm(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, indicator := range formIndicators {
		if strings.Contains(name, indicator) {
			return true
		}
	}
	return false
}

func (e *Extractor) warn(result *Result, path, reason string) {
	e.logger.Printf("warning: skipping %s: %s", filepath.Base(path), sanitize.ErrorMessage(reason))
	result.addWarning(path, reason)
}
