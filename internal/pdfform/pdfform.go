// Package pdfform reads and writes AcroForm form fields using pdfcpu.
// It is the only package that touches the PDF form structures; callers
// work with plain field name to value maps.
package pdfform

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// FieldType classifies an AcroForm field.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeRadio     FieldType = "radio"
	FieldTypeSelect    FieldType = "select"
	FieldTypeButton    FieldType = "button"
	FieldTypeSignature FieldType = "signature"
	FieldTypeUnknown   FieldType = "unknown"
)

// Field describes a single form field.
type Field struct {
	Name      string    `json:"name"`
	Type      FieldType `json:"type"`
	Value     string    `json:"value,omitempty"`
	Required  bool      `json:"required"`
	ReadOnly  bool      `json:"read_only"`
	MaxLength int       `json:"max_length,omitempty"`
}

// Fields returns a map of field name to current value for every form
// field in the document. Fields nested under Kids get dot-qualified
// names. A PDF without an AcroForm yields an empty map, not an error.
func Fields(path string) (map[string]string, error) {
	fields, err := ListFields(path)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Name] = f.Value
	}
	return values, nil
}

// ListFields returns every form field in the document with its type and
// current value.
func ListFields(path string) ([]Field, error) {
	ctx, f, err := readContext(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fieldsArray, _, err := acroFormFields(ctx)
	if err != nil {
		return nil, err
	}
	if fieldsArray == nil {
		return nil, nil
	}

	var fields []Field
	err = walkFields(ctx, fieldsArray, "", func(name string, dict types.Dict) error {
		fields = append(fields, buildField(ctx, name, dict))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return fields, nil
}

// HasAcroForm reports whether the document declares an interactive form.
func HasAcroForm(path string) (bool, error) {
	ctx, f, err := readContext(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	rootDict, err := ctx.Catalog()
	if err != nil {
		return false, fmt.Errorf("failed to get catalog: %w", err)
	}

	_, found := rootDict.Find("AcroForm")
	return found, nil
}

// WriteFields fills the named form fields with the given values and
// writes the result to outPath. Unknown field names are ignored; text
// fields receive string values and checkboxes are switched on for
// "Yes", "On" or "true". When flatten is set every field is marked
// read-only so the filled values cannot be edited.
func WriteFields(inPath, outPath string, values map[string]string, flatten bool) error {
	ctx, f, err := readContext(inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	fieldsArray, acroDict, err := acroFormFields(ctx)
	if err != nil {
		return err
	}
	if fieldsArray == nil {
		return fmt.Errorf("document has no fillable form fields: %s", inPath)
	}

	err = walkFields(ctx, fieldsArray, "", func(name string, dict types.Dict) error {
		value, ok := values[name]
		if ok {
			applyValue(ctx, dict, value)
		}
		if flatten {
			setReadOnly(ctx, dict)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Stale appearance streams were dropped above; have viewers
	// regenerate them from the new values.
	acroDict["NeedAppearances"] = types.Boolean(true)

	if err := api.WriteContextFile(ctx, outPath); err != nil {
		return fmt.Errorf("failed to write filled PDF: %w", err)
	}

	return nil
}

// readContext opens a PDF and builds a pdfcpu context with relaxed
// validation, matching how malformed real-world forms are handled.
func readContext(path string) (*model.Context, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open PDF file: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	return ctx, f, nil
}

// acroFormFields returns the AcroForm Fields array and the AcroForm
// dictionary, or nil when the document has no interactive form.
func acroFormFields(ctx *model.Context) (types.Array, types.Dict, error) {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return nil, nil, nil
	}

	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return nil, nil, nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return nil, acroFormDict, nil
	}

	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	return fieldsArray, acroFormDict, nil
}

// walkFields visits every terminal field in the array, recursing into
// Kids hierarchies. Names of nested fields are qualified with dots, as
// viewers report them.
func walkFields(ctx *model.Context, fields types.Array, prefix string, visit func(name string, dict types.Dict) error) error {
	for i, fieldRef := range fields {
		fieldDict, err := ctx.DereferenceDict(fieldRef)
		if err != nil || fieldDict == nil {
			continue
		}

		name := prefix
		if nameObj, found := fieldDict.Find("T"); found {
			if partial, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil && partial != "" {
				if name == "" {
					name = partial
				} else {
					name = name + "." + partial
				}
			}
		}
		if name == "" {
			name = fmt.Sprintf("field_%d", i)
		}

		if kidsObj, found := fieldDict.Find("Kids"); found {
			kidsArray, err := ctx.DereferenceArray(kidsObj)
			if err == nil && len(kidsArray) > 0 && hasNamedKid(ctx, kidsArray) {
				if err := walkFields(ctx, kidsArray, name, visit); err != nil {
					return err
				}
				continue
			}
			// Kids without names are widget annotations of this field.
		}

		if err := visit(name, fieldDict); err != nil {
			return err
		}
	}
	return nil
}

// hasNamedKid reports whether any kid carries its own partial name,
// which distinguishes a field hierarchy from plain widget annotations.
func hasNamedKid(ctx *model.Context, kids types.Array) bool {
	for _, kidRef := range kids {
		kidDict, err := ctx.DereferenceDict(kidRef)
		if err != nil || kidDict == nil {
			continue
		}
		if _, found := kidDict.Find("T"); found {
			return true
		}
	}
	return false
}

// buildField assembles a Field from a field dictionary.
func buildField(ctx *model.Context, name string, fieldDict types.Dict) Field {
	field := Field{
		Name: name,
		Type: fieldType(ctx, fieldDict),
	}

	if valueObj, found := fieldDict.Find("V"); found {
		field.Value = fieldValue(ctx, valueObj, field.Type)
	}

	if flagsObj, found := fieldDict.Find("Ff"); found {
		if flags, err := ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
			flagValue := *flags
			field.ReadOnly = (flagValue & 1) != 0
			field.Required = (flagValue & 2) != 0
		}
	}

	if maxLenObj, found := fieldDict.Find("MaxLen"); found {
		if maxLen, err := ctx.DereferenceInteger(maxLenObj); err == nil && maxLen != nil {
			field.MaxLength = int(*maxLen)
		}
	}

	return field
}

// fieldType determines the field type from the FT entry, consulting the
// parent when the type is inherited.
func fieldType(ctx *model.Context, fieldDict types.Dict) FieldType {
	ftObj, found := fieldDict.Find("FT")
	if !found {
		if parentObj, found := fieldDict.Find("Parent"); found {
			if parentDict, err := ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
				return fieldType(ctx, parentDict)
			}
		}
		return FieldTypeUnknown
	}

	ftName, err := ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return FieldTypeUnknown
	}

	switch ftName {
	case "Btn":
		if flagsObj, found := fieldDict.Find("Ff"); found {
			if flags, err := ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
				flagValue := *flags
				if (flagValue & (1 << 15)) != 0 {
					return FieldTypeRadio
				}
				if (flagValue & (1 << 16)) != 0 {
					return FieldTypeButton
				}
			}
		}
		return FieldTypeCheckbox
	case "Tx":
		return FieldTypeText
	case "Ch":
		return FieldTypeSelect
	case "Sig":
		return FieldTypeSignature
	default:
		return FieldTypeUnknown
	}
}

// fieldValue renders the current value of a field as a string.
func fieldValue(ctx *model.Context, valueObj types.Object, ft FieldType) string {
	switch ft {
	case FieldTypeCheckbox:
		if name, err := ctx.DereferenceName(valueObj, model.V10, nil); err == nil {
			if name == "Yes" || name == "On" {
				return "Yes"
			}
			return ""
		}
	case FieldTypeRadio:
		if name, err := ctx.DereferenceName(valueObj, model.V10, nil); err == nil {
			return string(name)
		}
	}
	if val, err := ctx.DereferenceStringOrHexLiteral(valueObj, model.V10, nil); err == nil {
		return val
	}
	if name, err := ctx.DereferenceName(valueObj, model.V10, nil); err == nil {
		return string(name)
	}
	return ""
}

// applyValue sets the field value and removes the stale appearance
// stream so viewers render the new value.
func applyValue(ctx *model.Context, fieldDict types.Dict, value string) {
	switch fieldType(ctx, fieldDict) {
	case FieldTypeCheckbox:
		if value == "Yes" || value == "On" || value == "true" {
			fieldDict["V"] = types.Name("Yes")
			fieldDict["AS"] = types.Name("Yes")
		} else {
			fieldDict["V"] = types.Name("Off")
			fieldDict["AS"] = types.Name("Off")
		}
	case FieldTypeRadio:
		fieldDict["V"] = types.Name(value)
	default:
		fieldDict["V"] = types.StringLiteral(value)
	}
	delete(fieldDict, "AP")
}

// setReadOnly sets bit 1 of the field flags.
func setReadOnly(ctx *model.Context, fieldDict types.Dict) {
	var flagValue types.Integer
	if flagsObj, found := fieldDict.Find("Ff"); found {
		if flags, err := ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
			flagValue = *flags
		}
	}
	fieldDict["Ff"] = types.Integer(flagValue | 1)
}
