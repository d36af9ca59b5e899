package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fillwise/fillwise/internal/config"
)

func defaultMapper() *Mapper {
	return New(config.DefaultSettings().SynonymTable())
}

func TestSuggestMappings_ExactMatch(t *testing.T) {
	m := defaultMapper()

	got := m.SuggestMappings([]string{"email"}, map[string]string{"email": "a@b.com"})
	assert.Equal(t, map[string]string{"email": "a@b.com"}, got)
}

func TestSuggestMappings_SynonymMatch(t *testing.T) {
	m := defaultMapper()

	got := m.SuggestMappings(
		[]string{"First Name", "Email Address"},
		map[string]string{"first_name": "Ann", "email": "a@b.com"},
	)

	assert.Equal(t, map[string]string{
		"First Name":    "Ann",
		"Email Address": "a@b.com",
	}, got)
}

func TestSuggestMappings_UnmatchedFieldAbsent(t *testing.T) {
	m := defaultMapper()

	got := m.SuggestMappings([]string{"favorite_color"}, map[string]string{"email": "a@b.com"})
	assert.NotContains(t, got, "favorite_color")
	assert.Empty(t, got)
}

func TestSuggestMappings_SubstringIsLoose(t *testing.T) {
	m := defaultMapper()

	// "phone" inside "applicant_phone_number" is enough.
	got := m.SuggestMappings(
		[]string{"applicant_phone_number"},
		map[string]string{"phone": "555-123-4567"},
	)
	assert.Equal(t, "555-123-4567", got["applicant_phone_number"])
}

func TestSuggestMappings_VariantKeyInData(t *testing.T) {
	m := defaultMapper()

	// Data keyed by a variant rather than the canonical concept still
	// resolves when the concept label appears in the field name.
	got := m.SuggestMappings(
		[]string{"Last Name"},
		map[string]string{"lastname": "Doe"},
	)
	assert.Equal(t, "Doe", got["Last Name"])
}

func TestSuggestMappings_VariantsDoNotDriveMatching(t *testing.T) {
	m := defaultMapper()

	// "surname" is a variant of last_name, but only the concept label
	// participates in the containment test, so the field stays unmapped.
	got := m.SuggestMappings(
		[]string{"Surname"},
		map[string]string{"lastname": "Doe"},
	)
	assert.NotContains(t, got, "Surname")
}

func TestSuggestMappings_PresentEmptyValueMapped(t *testing.T) {
	m := defaultMapper()

	// An exact key with an empty value is still a match; only fields
	// with no corresponding key are absent.
	got := m.SuggestMappings([]string{"email"}, map[string]string{"email": ""})
	assert.Equal(t, map[string]string{"email": ""}, got)
}

func TestSuggestMappings_NilTable(t *testing.T) {
	m := New(nil)

	got := m.SuggestMappings(
		[]string{"first_name", "First Name"},
		map[string]string{"first_name": "Ann"},
	)

	// Only the exact key matches without a synonym table.
	assert.Equal(t, map[string]string{"first_name": "Ann"}, got)
}
