// Package pdftest builds small but structurally valid PDF files for
// tests, with correct cross-reference offsets.
package pdftest

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// BuildPDF assembles a PDF from numbered object bodies. Object 1 must
// be the document catalog.
func BuildPDF(objects []string) []byte {
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects)+1)
	for i, body := range objects {
		offsets[i+1] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefOffset := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefOffset)

	return []byte(b.String())
}

// WriteFormPDF writes a one-page PDF with two text fields: first_name
// (pre-filled with "Ann") and email (empty).
func WriteFormPDF(t *testing.T, path string) {
	t.Helper()
	objects := []string{
		`<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [4 0 R 5 0 R] >> >>`,
		`<< /Type /Pages /Kids [3 0 R] /Count 1 >>`,
		`<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Annots [4 0 R 5 0 R] >>`,
		`<< /Type /Annot /Subtype /Widget /FT /Tx /T (first_name) /V (Ann) /Rect [100 700 300 720] >>`,
		`<< /Type /Annot /Subtype /Widget /FT /Tx /T (email) /Rect [100 660 300 680] >>`,
	}
	require.NoError(t, os.WriteFile(path, BuildPDF(objects), 0o644))
}

// WritePlainPDF writes a one-page PDF without any form.
func WritePlainPDF(t *testing.T, path string) {
	t.Helper()
	objects := []string{
		`<< /Type /Catalog /Pages 2 0 R >>`,
		`<< /Type /Pages /Kids [3 0 R] /Count 1 >>`,
		`<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>`,
	}
	require.NoError(t, os.WriteFile(path, BuildPDF(objects), 0o644))
}
