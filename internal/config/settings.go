package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/fillwise/fillwise/internal/patterns"
	"github.com/fillwise/fillwise/internal/security"
)

// DefaultTimestampFormat is the Go time layout used for filled PDF names.
const DefaultTimestampFormat = "20060102_150405"

// Settings is the extraction and mapping configuration document. It is
// assembled by deep-merging a user-supplied YAML or JSON document over
// the built-in defaults; user values win at every nesting level and
// unspecified branches keep the default subtree.
type Settings struct {
	doc   map[string]any
	cache *patterns.Cache
}

// settingsSchema validates the shape of a user settings document before
// it is merged. Unknown top-level sections are allowed and ignored.
var settingsSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"extraction_patterns": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"field_mappings": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"common_variations": map[string]any{
					"type": "object",
					"additionalProperties": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
			},
		},
		"pdf_settings": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"flatten_forms":    map[string]any{"type": "boolean"},
				"max_field_length": map[string]any{"type": "integer", "minimum": 1},
				"timestamp_format": map[string]any{"type": "string"},
			},
		},
		"logging": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"level": map[string]any{"type": "string"},
			},
		},
	},
}

// defaultDocument returns the built-in settings tree.
func defaultDocument() map[string]any {
	pats := make(map[string]any)
	for category, list := range patterns.DefaultSet() {
		entries := make([]any, len(list))
		for i, p := range list {
			entries[i] = p
		}
		pats[category] = entries
	}

	variations := map[string]any{
		"first_name":     []any{"first_name", "firstname", "fname", "given_name"},
		"last_name":      []any{"last_name", "lastname", "lname", "surname", "family_name"},
		"middle_initial": []any{"middle_initial", "mi"},
		"email":          []any{"email", "email_address", "e-mail", "mail"},
		"phone":          []any{"phone", "telephone", "tel", "phone_number", "mobile"},
		"date_of_birth":  []any{"dob", "birthdate", "birth_date", "date_of_birth"},
		"id":             []any{"id", "id_number", "reference_number", "identifier"},
		"date":           []any{"date", "event_date", "transaction_date"},
	}

	return map[string]any{
		"extraction_patterns": pats,
		"field_mappings": map[string]any{
			"common_variations": variations,
		},
		"pdf_settings": map[string]any{
			"flatten_forms":    false,
			"max_field_length": 1000,
			"timestamp_format": DefaultTimestampFormat,
		},
		"logging": map[string]any{
			"level": DefaultLogLevel,
		},
	}
}

// DefaultSettings returns settings containing only the built-in defaults.
func DefaultSettings() *Settings {
	return &Settings{
		doc:   defaultDocument(),
		cache: patterns.NewCache(),
	}
}

// LoadSettings reads a YAML or JSON settings document, validates it, and
// merges it over the defaults. Malformed documents, unsupported formats
// and invalid patterns all fail here, before any extraction begins.
func LoadSettings(path string) (*Settings, error) {
	absPath, err := security.ValidatePath(path, true)
	if err != nil {
		return nil, fmt.Errorf("settings file: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var userDoc map[string]any
	switch ext := strings.ToLower(filepath.Ext(absPath)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &userDoc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML settings: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &userDoc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON settings: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported settings format: %s (use .yaml, .yml or .json)", ext)
	}

	if err := validateSettingsDocument(userDoc); err != nil {
		return nil, fmt.Errorf("invalid settings document: %w", err)
	}

	s := &Settings{
		doc:   deepMerge(defaultDocument(), userDoc),
		cache: patterns.NewCache(),
	}

	// Compile now so that a broken pattern surfaces as a configuration
	// error rather than failing mid-run.
	if _, err := s.CompiledPatterns(); err != nil {
		return nil, err
	}

	return s, nil
}

// validateSettingsDocument checks the user document against the embedded
// JSON Schema. The document is round-tripped through JSON so YAML input
// is validated identically.
func validateSettingsDocument(doc map[string]any) error {
	schemaBytes, err := json.Marshal(settingsSchema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("settings.json", bytes.NewReader(schemaBytes)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("settings.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	var v any
	if err := json.Unmarshal(docBytes, &v); err != nil {
		return fmt.Errorf("unmarshal settings: %w", err)
	}

	return schema.Validate(v)
}

// deepMerge recursively merges custom over base. Nested maps merge key
// by key; any other value in custom replaces the base value.
func deepMerge(base, custom map[string]any) map[string]any {
	for key, value := range custom {
		baseMap, baseOK := base[key].(map[string]any)
		customMap, customOK := value.(map[string]any)
		if baseOK && customOK {
			base[key] = deepMerge(baseMap, customMap)
			continue
		}
		base[key] = value
	}
	return base
}

// Get returns the value at a dot-separated key path, or nil when absent.
func (s *Settings) Get(key string) any {
	var value any = s.doc
	for _, part := range strings.Split(key, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			return nil
		}
		value, ok = m[part]
		if !ok {
			return nil
		}
	}
	return value
}

// ExtractionPatterns returns the effective pattern set.
func (s *Settings) ExtractionPatterns() patterns.Set {
	set := patterns.Set{}
	raw, _ := s.Get("extraction_patterns").(map[string]any)
	for category, value := range raw {
		set[category] = toStringSlice(value)
	}
	return set
}

// CompiledPatterns compiles the effective pattern set through the
// settings-owned cache, so repeated runs reuse the compilation.
func (s *Settings) CompiledPatterns() (*patterns.Compiled, error) {
	return s.cache.Compile(s.ExtractionPatterns())
}

// SynonymTable returns the canonical concept to accepted variants table.
func (s *Settings) SynonymTable() map[string][]string {
	table := make(map[string][]string)
	raw, _ := s.Get("field_mappings.common_variations").(map[string]any)
	for concept, value := range raw {
		table[concept] = toStringSlice(value)
	}
	return table
}

// FlattenForms reports whether filled PDFs should have their fields
// locked after filling.
func (s *Settings) FlattenForms() bool {
	v, _ := s.Get("pdf_settings.flatten_forms").(bool)
	return v
}

// TimestampFormat returns the Go time layout for filled PDF names.
func (s *Settings) TimestampFormat() string {
	if v, ok := s.Get("pdf_settings.timestamp_format").(string); ok && v != "" {
		return v
	}
	return DefaultTimestampFormat
}

// LogLevel returns the configured log level.
func (s *Settings) LogLevel() string {
	if v, ok := s.Get("logging.level").(string); ok && v != "" {
		return v
	}
	return DefaultLogLevel
}

func toStringSlice(value any) []string {
	items, ok := value.([]any)
	if !ok {
		// A JSON round trip never produces []string, but direct
		// construction in tests might.
		if direct, ok := value.([]string); ok {
			return direct
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
