// Package patterns holds the named regular expression sets used by the
// extraction engine and compiles them case-insensitively with caching.
package patterns

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"
)

// Category names recognized by the default set. Custom categories may be
// added through configuration.
const (
	CategoryDates   = "dates"
	CategoryEmails  = "emails"
	CategoryPhones  = "phones"
	CategoryAmounts = "amounts"
)

// Set maps a category name to an ordered list of pattern strings.
// Patterns within a category are tried in order and their matches unioned.
type Set map[string][]string

// DefaultSet returns the built-in extraction patterns.
func DefaultSet() Set {
	return Set{
		CategoryDates: {
			`\b\d{1,2}/\d{1,2}/\d{2,4}\b`,
			`\b\d{1,2}-\d{1,2}-\d{2,4}\b`,
			`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{1,2},? \d{4}\b`,
			`\b\d{4}-\d{2}-\d{2}\b`,
		},
		CategoryEmails: {
			`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`,
		},
		CategoryPhones: {
			`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`,
			`\(\d{3}\)\s*\d{3}[-.]?\d{4}`,
			`\b\d{10}\b`,
		},
		CategoryAmounts: {
			`\$\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`,
		},
	}
}

// Clone returns a deep copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for category, list := range s {
		cp := make([]string, len(list))
		copy(cp, list)
		out[category] = cp
	}
	return out
}

// Fingerprint returns a deterministic content hash of the set, used as
// the compilation cache key.
func (s Set) Fingerprint() string {
	// json.Marshal sorts map keys, so identical sets always serialize
	// identically.
	data, err := json.Marshal(s)
	if err != nil {
		// A map of strings to string slices cannot fail to marshal.
		panic(fmt.Sprintf("patterns: fingerprint: %v", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Compiled is the case-insensitive compiled form of a Set. It is derived
// once and never mutated, so it is safe to share across extraction runs.
type Compiled struct {
	categories map[string][]*regexp.Regexp
}

// Compile compiles every pattern in the set case-insensitively. An
// invalid pattern fails immediately with an error naming the category.
func Compile(set Set) (*Compiled, error) {
	compiled := &Compiled{categories: make(map[string][]*regexp.Regexp, len(set))}

	for category, list := range set {
		regexps := make([]*regexp.Regexp, 0, len(list))
		for _, pattern := range list {
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern in category %q: %q: %w", category, pattern, err)
			}
			regexps = append(regexps, re)
		}
		compiled.categories[category] = regexps
	}

	return compiled, nil
}

// Categories returns the compiled category names.
func (c *Compiled) Categories() []string {
	names := make([]string, 0, len(c.categories))
	for name := range c.categories {
		names = append(names, name)
	}
	return names
}

// Patterns returns the compiled expressions for a category, or nil when
// the category is unknown.
func (c *Compiled) Patterns(category string) []*regexp.Regexp {
	return c.categories[category]
}

// FindAll returns the union of all matches of every pattern in the
// category against text, in pattern order. When a pattern declares a
// capture group the first group is taken instead of the full match, which
// lets the amounts patterns exclude the currency symbol.
func (c *Compiled) FindAll(category, text string) []string {
	var results []string
	for _, re := range c.categories[category] {
		if re.NumSubexp() > 0 {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				results = append(results, m[1])
			}
			continue
		}
		results = append(results, re.FindAllString(text, -1)...)
	}
	return results
}

// Cache memoizes pattern compilation keyed by set content. It is safe
// for concurrent use: entries are populated idempotently and never
// invalidated, so runs may share one cache for the process lifetime.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Compiled
}

// NewCache returns an empty compilation cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Compiled)}
}

// Compile returns the compiled form of the set, reusing a previous
// compilation when an identical set was seen before.
func (c *Cache) Compile(set Set) (*Compiled, error) {
	key := set.Fingerprint()

	c.mu.Lock()
	defer c.mu.Unlock()

	if compiled, ok := c.entries[key]; ok {
		return compiled, nil
	}

	compiled, err := Compile(set)
	if err != nil {
		return nil, err
	}
	c.entries[key] = compiled
	return compiled, nil
}

// Len reports the number of cached compilations.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
