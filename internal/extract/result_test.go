package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructured_SnippetCap(t *testing.T) {
	r := NewResult()
	for i := 0; i < 8; i++ {
		r.RawText = append(r.RawText, "doc")
	}

	out := r.Structured()
	assert.Len(t, out["raw_text_snippets"], 5)
}

func TestStructured_CustomData(t *testing.T) {
	r := NewResult()
	r.AddCustomData("case_id", "C-42")

	out := r.Structured()
	assert.Equal(t, "C-42", out["case_id"])
	assert.Contains(t, out, "key_value_pairs")
}

func TestFinalize_KeepsFirstSeenOrder(t *testing.T) {
	r := NewResult()
	r.Emails = []string{"b@x.com", "a@x.com", "b@x.com"}
	r.finalize()

	assert.Equal(t, []string{"b@x.com", "a@x.com"}, r.Emails)
}

func TestNameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
		ok    bool
	}{
		{"jane.doe@example.com", "Jane Doe", true},
		{"john_smith@example.com", "John Smith", true},
		{"jdoe@example.com", "", false},
		{"jane.doe2@example.com", "", false},
		{"not-an-email", "", false},
	}
	for _, tt := range tests {
		got, ok := nameFromEmail(tt.email)
		assert.Equal(t, tt.ok, ok, tt.email)
		assert.Equal(t, tt.want, got, tt.email)
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Policy Number", titleCase("policy number"))
	assert.Equal(t, "Date Of Birth", titleCase("DATE OF BIRTH"))
}
