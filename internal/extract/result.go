package extract

// Warning records a document that could not be processed. Warnings
// accompany every result so callers can judge coverage confidence.
type Warning struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Table is reserved for structured tabular data from PDFs and
// spreadsheets. No extractor currently produces tables.
type Table map[string][]string

// Result aggregates everything extracted from a document corpus. The
// set-valued fields are deduplicated when the run finalizes; value
// lists under KeyValuePairs keep insertion order and duplicates.
type Result struct {
	Dates          []string            `json:"dates"`
	Emails         []string            `json:"emails"`
	PhoneNumbers   []string            `json:"phone_numbers"`
	Amounts        []string            `json:"amounts"`
	Numbers        []string            `json:"numbers"`
	PotentialNames []string            `json:"potential_names"`
	KeyValuePairs  map[string][]string `json:"key_value_pairs"`
	RawText        []string            `json:"raw_text"`
	Tables         []Table             `json:"tables"`
	Warnings       []Warning           `json:"warnings"`

	custom map[string]any
}

// NewResult returns an empty result with all collections initialized,
// so an extraction over an empty corpus still serializes with empty
// sets rather than nulls.
func NewResult() *Result {
	return &Result{
		Dates:          []string{},
		Emails:         []string{},
		PhoneNumbers:   []string{},
		Amounts:        []string{},
		Numbers:        []string{},
		PotentialNames: []string{},
		KeyValuePairs:  map[string][]string{},
		RawText:        []string{},
		Tables:         []Table{},
		Warnings:       []Warning{},
	}
}

// AddCustomData merges an arbitrary entry into the structured output
// namespace. Custom entries do not participate in deduplication.
func (r *Result) AddCustomData(key string, value any) {
	if r.custom == nil {
		r.custom = make(map[string]any)
	}
	r.custom[key] = value
}

// addWarning records a skipped document.
func (r *Result) addWarning(path, reason string) {
	r.Warnings = append(r.Warnings, Warning{Path: path, Reason: reason})
}

// finalize removes exact duplicates from every set-valued field,
// keeping first-seen order.
func (r *Result) finalize() {
	r.Dates = dedupe(r.Dates)
	r.Emails = dedupe(r.Emails)
	r.PhoneNumbers = dedupe(r.PhoneNumbers)
	r.Amounts = dedupe(r.Amounts)
	r.Numbers = dedupe(r.Numbers)
	r.PotentialNames = dedupe(r.PotentialNames)
}

// Structured returns the stable serializable shape handed to downstream
// consumers. Raw text is capped to the first five entries; custom
// entries are merged into the top-level namespace.
func (r *Result) Structured() map[string]any {
	snippets := r.RawText
	if len(snippets) > 5 {
		snippets = snippets[:5]
	}

	out := map[string]any{
		"potential_names":   r.PotentialNames,
		"emails":            r.Emails,
		"phone_numbers":     r.PhoneNumbers,
		"dates":             r.Dates,
		"amounts":           r.Amounts,
		"numbers":           r.Numbers,
		"key_value_pairs":   r.KeyValuePairs,
		"tables":            r.Tables,
		"raw_text_snippets": snippets,
	}

	for key, value := range r.custom {
		out[key] = value
	}

	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
