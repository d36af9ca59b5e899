// Package pdftext extracts the text layer of PDF documents, page by page.
package pdftext

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Reader extracts text content from PDF files.
type Reader struct {
	maxTextSize int
}

// NewReader creates a PDF text reader. Extracted text is capped at
// maxTextSize bytes across all pages; zero applies a 10MB default.
func NewReader(maxTextSize int) *Reader {
	if maxTextSize <= 0 {
		maxTextSize = 10 * 1024 * 1024
	}
	return &Reader{maxTextSize: maxTextSize}
}

// PageTexts returns the text of every page in the document, one string
// per page, in page order. Pages whose text cannot be decoded contribute
// an empty string rather than failing the document.
func (r *Reader) PageTexts(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, pdfReader.NumPage())
	total := 0

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			// One unreadable page should not lose the rest.
			pages = append(pages, "")
			continue
		}

		if total+len(content) > r.maxTextSize {
			capped := truncateToRuneBoundary(content, r.maxTextSize-total)
			pages = append(pages, capped)
			total += len(capped)
			continue
		}

		pages = append(pages, content)
		total += len(content)
	}

	return pages, nil
}

// truncateToRuneBoundary cuts s to at most n bytes, stepping back so
// the cut never splits a multibyte rune.
func truncateToRuneBoundary(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if n >= len(s) {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Text returns the full text of the document with pages joined by
// newlines.
func (r *Reader) Text(path string) (string, error) {
	pages, err := r.PageTexts(path)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n"), nil
}

// PageCount returns the number of pages in the document.
func (r *Reader) PageCount(path string) (int, error) {
	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()
	return pdfReader.NumPage(), nil
}
