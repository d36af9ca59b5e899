package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSet_Compiles(t *testing.T) {
	compiled, err := Compile(DefaultSet())
	require.NoError(t, err)

	for _, category := range []string{CategoryDates, CategoryEmails, CategoryPhones, CategoryAmounts} {
		assert.NotEmpty(t, compiled.Patterns(category), "category %s should have patterns", category)
	}
}

func TestCompile_InvalidPattern(t *testing.T) {
	set := Set{"dates": {`\d{1,2}/(`}}
	_, err := Compile(set)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dates")
}

func TestCompile_CaseInsensitive(t *testing.T) {
	set := Set{"codes": {`invoice [a-z]+`}}
	compiled, err := Compile(set)
	require.NoError(t, err)

	matches := compiled.FindAll("codes", "INVOICE ABC and Invoice xyz")
	assert.Len(t, matches, 2)
}

func TestFindAll_DateForms(t *testing.T) {
	compiled, err := Compile(DefaultSet())
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"slashed", "due 12/31/2024 end", "12/31/2024"},
		{"dashed", "on 3-15-24 only", "3-15-24"},
		{"named month", "paid January 5, 2024 by card", "January 5, 2024"},
		{"iso", "Date: 2024-08-20", "2024-08-20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, compiled.FindAll(CategoryDates, tt.text), tt.want)
		})
	}
}

func TestFindAll_AmountsCaptureExcludesSymbol(t *testing.T) {
	compiled, err := Compile(DefaultSet())
	require.NoError(t, err)

	matches := compiled.FindAll(CategoryAmounts, "Total: $2,150.00 and $ 75")
	assert.Contains(t, matches, "2,150.00")
	assert.Contains(t, matches, "75")
	for _, m := range matches {
		assert.NotContains(t, m, "$")
	}
}

func TestFindAll_PhoneForms(t *testing.T) {
	compiled, err := Compile(DefaultSet())
	require.NoError(t, err)

	matches := compiled.FindAll(CategoryPhones, "call 555-123-4567 or (555) 987.6543 or 5551234567")
	assert.Contains(t, matches, "555-123-4567")
	assert.Contains(t, matches, "(555) 987.6543")
	assert.Contains(t, matches, "5551234567")
}

func TestFindAll_UnknownCategory(t *testing.T) {
	compiled, err := Compile(DefaultSet())
	require.NoError(t, err)
	assert.Empty(t, compiled.FindAll("nope", "text 123"))
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Set{"x": {"1", "2"}, "y": {"3"}}
	b := Set{"y": {"3"}, "x": {"1", "2"}}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	c := Set{"x": {"1"}, "y": {"3"}}
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestCache_ReusesCompilation(t *testing.T) {
	cache := NewCache()

	first, err := cache.Compile(DefaultSet())
	require.NoError(t, err)
	second, err := cache.Compile(DefaultSet())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Len())

	custom := DefaultSet()
	custom["ids"] = []string{`\bID-\d+\b`}
	third, err := cache.Compile(custom)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, 2, cache.Len())
}

func TestCache_ErrorNotCached(t *testing.T) {
	cache := NewCache()
	_, err := cache.Compile(Set{"bad": {"("}})
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestSet_Clone(t *testing.T) {
	orig := DefaultSet()
	clone := orig.Clone()

	clone[CategoryDates][0] = "changed"
	clone["extra"] = []string{"x"}

	assert.NotEqual(t, orig[CategoryDates][0], clone[CategoryDates][0])
	assert.NotContains(t, orig, "extra")
}
