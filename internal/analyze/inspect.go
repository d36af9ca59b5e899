package analyze

import (
	"fmt"
	"sort"

	"github.com/fillwise/fillwise/internal/pdfform"
	"github.com/fillwise/fillwise/internal/security"
)

// FillStats reports how completely a form has been filled.
type FillStats struct {
	Total       int      `json:"total_fields"`
	Filled      int      `json:"filled_fields"`
	Empty       int      `json:"empty_fields"`
	Completion  float64  `json:"completion_percent"`
	EmptyFields []string `json:"empty_field_names"`
}

// FieldDiff records one field whose value differs between two PDFs.
// A field present in only one document diffs against the empty string.
type FieldDiff struct {
	Name   string `json:"name"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Inspector examines filled PDFs.
type Inspector struct{}

// NewInspector creates an inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect reads a PDF's form values and reports fill completion.
func (in *Inspector) Inspect(path string) (*FillStats, error) {
	absPath, err := security.ValidatePath(path, true)
	if err != nil {
		return nil, fmt.Errorf("inspect target: %w", err)
	}

	values, err := pdfform.Fields(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read form fields: %w", err)
	}

	stats := &FillStats{Total: len(values), EmptyFields: []string{}}
	for name, value := range values {
		if value == "" {
			stats.Empty++
			stats.EmptyFields = append(stats.EmptyFields, name)
		} else {
			stats.Filled++
		}
	}
	sort.Strings(stats.EmptyFields)

	if stats.Total > 0 {
		stats.Completion = float64(stats.Filled) / float64(stats.Total) * 100
	}
	return stats, nil
}

// Compare returns the fields whose values differ between two PDFs,
// sorted by field name. Identical forms compare to an empty slice.
func (in *Inspector) Compare(beforePath, afterPath string) ([]FieldDiff, error) {
	before, err := pdfform.Fields(beforePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", beforePath, err)
	}
	after, err := pdfform.Fields(afterPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", afterPath, err)
	}

	names := make(map[string]struct{}, len(before)+len(after))
	for name := range before {
		names[name] = struct{}{}
	}
	for name := range after {
		names[name] = struct{}{}
	}

	var diffs []FieldDiff
	for name := range names {
		if before[name] != after[name] {
			diffs = append(diffs, FieldDiff{Name: name, Before: before[name], After: after[name]})
		}
	}
	sort.Slice(diffs, func(i, j int) bool { return diffs[i].Name < diffs[j].Name })

	return diffs, nil
}

// ValidateRequired returns the required field names that are empty or
// missing in the PDF, sorted. An empty slice means all requirements met.
func (in *Inspector) ValidateRequired(path string, required []string) ([]string, error) {
	values, err := pdfform.Fields(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form fields: %w", err)
	}

	var missing []string
	for _, name := range required {
		if values[name] == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)

	return missing, nil
}
