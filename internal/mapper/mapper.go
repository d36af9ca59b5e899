// Package mapper proposes assignments from PDF form field names to
// extracted candidate values. Matching is deliberately loose: an exact
// key match wins, then any concept label appearing as a substring of
// the field name. Looseness trades precision for recall; suggestions
// are meant to be reviewed, not trusted blindly.
package mapper

import (
	"sort"
	"strings"
)

// SynonymTable maps a canonical field concept, such as "first_name", to
// the alternate keys the extracted data might carry its value under.
// The table is lookup only and never mutated.
type SynonymTable map[string][]string

// Mapper suggests field-to-value assignments using a synonym table.
type Mapper struct {
	table SynonymTable
}

// New creates a mapper over the given synonym table. A nil table means
// only exact key matches are suggested.
func New(table SynonymTable) *Mapper {
	return &Mapper{table: table}
}

// SuggestMappings proposes a value for each form field name that can be
// matched against the available data. Matching per field, in order:
//
//  1. A key in available equal to the lowercased field name.
//  2. A concept label contained in the field name (underscores and
//     spaces treated alike), resolved to the value stored under the
//     concept key or the first variant key present in available.
//
// Variants never participate in the containment test; they are lookup
// keys into the data only. Fields with no match are absent from the
// result. Concepts are tried in sorted order so ties resolve
// deterministically.
func (m *Mapper) SuggestMappings(fieldNames []string, available map[string]string) map[string]string {
	lowered := make(map[string]string, len(available))
	for key, value := range available {
		lowered[strings.ToLower(key)] = value
	}

	concepts := make([]string, 0, len(m.table))
	for concept := range m.table {
		concepts = append(concepts, concept)
	}
	sort.Strings(concepts)

	result := make(map[string]string)
	for _, field := range fieldNames {
		fieldKey := strings.ToLower(strings.TrimSpace(field))

		if value, ok := lowered[fieldKey]; ok {
			result[field] = value
			continue
		}

		if value, ok := m.synonymMatch(fieldKey, concepts, lowered); ok {
			result[field] = value
		}
	}
	return result
}

// synonymMatch finds the first concept whose label is contained in the
// field name and that has a value present in the available data.
func (m *Mapper) synonymMatch(fieldKey string, concepts []string, available map[string]string) (string, bool) {
	normalizedField := normalize(fieldKey)

	for _, concept := range concepts {
		if !strings.Contains(normalizedField, normalize(concept)) {
			continue
		}

		if value, ok := conceptValue(concept, m.table[concept], available); ok {
			return value, true
		}
	}
	return "", false
}

// conceptValue resolves a concept to a value: the concept key itself
// first, then the first variant key present in the available data.
func conceptValue(concept string, variants []string, available map[string]string) (string, bool) {
	if value, ok := available[concept]; ok {
		return value, true
	}
	for _, variant := range variants {
		if value, ok := available[strings.ToLower(variant)]; ok {
			return value, true
		}
	}
	return "", false
}

// normalize lowercases and folds underscores into spaces, so the
// variant "first_name" matches the field label "First Name".
func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", " ")
}
