package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/fillwise/fillwise/internal/patterns"
	"github.com/fillwise/fillwise/internal/sanitize"
)

// namePattern matches two or more consecutive capitalized words, the
// capitalized-sequence name heuristic. Deliberately case-sensitive.
var namePattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)\b`)

// calendarWords disqualify a capitalized sequence from being a name;
// "January 5" and "Monday Morning" are near-certain date text.
var calendarWords = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// keyValuePatterns match "Label: value", "Label - value" (hyphen, en or
// em dash) and "Label = value" lines. A label is letters and spaces
// starting with a letter; a value excludes newlines and colons.
var keyValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Za-z][A-Za-z\s]{2,30}):\s*([^\n:]{1,100})`),
	regexp.MustCompile(`([A-Za-z][A-Za-z\s]{2,30})\s*[-–—]\s*([^\n:]{1,100})`),
	regexp.MustCompile(`([A-Za-z][A-Za-z\s]{2,30})\s*=\s*([^\n:]{1,100})`),
}

// numberPatterns match standalone values that tend to be identifiers:
// long digit runs, letter-prefixed codes, SSN-shaped numbers and
// general alphanumeric codes.
var numberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{4,20})\b`),
	regexp.MustCompile(`\b([A-Z]{1,3}\d{3,15})\b`),
	regexp.MustCompile(`\b(\d{3}-\d{2}-\d{4})\b`),
	regexp.MustCompile(`\b([A-Z0-9]{6,20})\b`),
}

// extractFromText runs the full per-text pipeline against one
// document's text, accumulating findings into the result. The category
// order is fixed; categories target disjoint result fields.
func (e *Extractor) extractFromText(text string, result *Result) {
	e.extractDates(text, result)
	e.extractNames(text, result)
	e.extractEmails(text, result)
	e.extractPhoneNumbers(text, result)
	e.extractKeyValuePairs(text, result)
	e.extractStandaloneNumbers(text, result)
	e.extractAmounts(text, result)
}

func (e *Extractor) extractDates(text string, result *Result) {
	result.Dates = append(result.Dates, e.compiled.FindAll(patterns.CategoryDates, text)...)
}

// extractNames applies two independent heuristics: capitalized word
// sequences, and names reconstructed from email local parts.
func (e *Extractor) extractNames(text string, result *Result) {
	for _, match := range namePattern.FindAllString(text, -1) {
		if containsCalendarWord(match) {
			continue
		}
		result.PotentialNames = append(result.PotentialNames, sanitize.String(match))
	}

	for _, email := range e.compiled.FindAll(patterns.CategoryEmails, text) {
		if name, ok := nameFromEmail(email); ok {
			result.PotentialNames = append(result.PotentialNames, name)
		}
	}
}

func (e *Extractor) extractEmails(text string, result *Result) {
	for _, email := range e.compiled.FindAll(patterns.CategoryEmails, text) {
		result.Emails = append(result.Emails, sanitize.String(email))
	}
}

// Phone matches contain only digits and punctuation, so they are
// stored as matched.
func (e *Extractor) extractPhoneNumbers(text string, result *Result) {
	result.PhoneNumbers = append(result.PhoneNumbers, e.compiled.FindAll(patterns.CategoryPhones, text)...)
}

func (e *Extractor) extractKeyValuePairs(text string, result *Result) {
	for _, re := range keyValuePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			label := titleCase(strings.TrimSpace(m[1]))
			value := strings.TrimSpace(m[2])

			// An empty value, or one ending with a colon, usually
			// means two adjacent label lines were misparsed.
			if value == "" || strings.HasSuffix(value, ":") {
				continue
			}

			result.KeyValuePairs[label] = append(result.KeyValuePairs[label], sanitize.String(value))
		}
	}
}

func (e *Extractor) extractStandaloneNumbers(text string, result *Result) {
	for _, re := range numberPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			result.Numbers = append(result.Numbers, m[1])
		}
	}
}

func (e *Extractor) extractAmounts(text string, result *Result) {
	result.Amounts = append(result.Amounts, e.compiled.FindAll(patterns.CategoryAmounts, text)...)
}

func containsCalendarWord(match string) bool {
	lower := strings.ToLower(match)
	for _, word := range calendarWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// nameFromEmail derives a candidate full name from an email local part
// split on "." or "_". Every segment must be purely alphabetic; an
// address like jane.doe2@example.com contributes nothing.
func nameFromEmail(email string) (string, bool) {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return "", false
	}

	var sep string
	switch {
	case strings.Contains(local, "."):
		sep = "."
	case strings.Contains(local, "_"):
		sep = "_"
	default:
		return "", false
	}

	segments := strings.Split(local, sep)
	capitalized := make([]string, len(segments))
	for i, seg := range segments {
		if !isAlphabetic(seg) {
			return "", false
		}
		capitalized[i] = capitalizeWord(seg)
	}

	return strings.Join(capitalized, " "), true
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// capitalizeWord uppercases the first letter and lowercases the rest.
func capitalizeWord(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// titleCase capitalizes the first letter of every word, preserving the
// original whitespace between words.
func titleCase(s string) string {
	runes := []rune(s)
	startOfWord := true
	for i, r := range runes {
		if unicode.IsSpace(r) {
			startOfWord = true
			continue
		}
		if startOfWord {
			runes[i] = unicode.ToUpper(r)
			startOfWord = false
		} else {
			runes[i] = unicode.ToLower(r)
		}
	}
	return string(runes)
}
