package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fillwise/fillwise/internal/extract"
)

func TestCandidateValues(t *testing.T) {
	result := extract.NewResult()
	result.Emails = []string{"jane.doe@example.com", "other@example.com"}
	result.PhoneNumbers = []string{"555-123-4567"}
	result.Dates = []string{"2024-08-20"}
	result.PotentialNames = []string{"Jane Doe"}
	result.KeyValuePairs["Policy Number"] = []string{"ABC1234"}

	values := candidateValues(result)

	assert.Equal(t, "jane.doe@example.com", values["email"])
	assert.Equal(t, "555-123-4567", values["phone"])
	assert.Equal(t, "2024-08-20", values["date"])
	assert.Equal(t, "Jane", values["first_name"])
	assert.Equal(t, "Doe", values["last_name"])
	assert.Equal(t, "ABC1234", values["policy_number"])
}

func TestCandidateValues_SingleWordName(t *testing.T) {
	result := extract.NewResult()
	result.PotentialNames = []string{"Cher"}

	values := candidateValues(result)
	assert.Equal(t, "Cher", values["first_name"])
	assert.NotContains(t, values, "last_name")
}

func TestCandidateValues_LabelsDoNotOverrideConcepts(t *testing.T) {
	result := extract.NewResult()
	result.Emails = []string{"a@b.com"}
	result.KeyValuePairs["Email"] = []string{"ignored@b.com"}

	values := candidateValues(result)
	assert.Equal(t, "a@b.com", values["email"])
}

func TestCandidateValues_Empty(t *testing.T) {
	values := candidateValues(extract.NewResult())
	assert.Empty(t, values)
}
