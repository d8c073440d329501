package tracker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://github.com/nibzard/streak-go/schema/state.json"

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Validator checks decoded documents against the state schema for a fixed
// calendar length. It deep-validates every day entry.
type Validator struct {
	n          int
	schema     *jsonschema.Schema
	compileErr error
}

// NewValidator compiles the state schema for n days. If compilation fails the
// validator still works using minimal structural checks.
func NewValidator(n int) *Validator {
	v := &Validator{n: n}
	v.schema, v.compileErr = compileSchema(n)
	return v
}

// Schema returns the JSON Schema document for n days.
func Schema(n int) map[string]any {
	return map[string]any{
		"$schema":  "https://json-schema.org/draft/2020-12/schema",
		"$id":      schemaURL,
		"title":    "streak tracker state",
		"type":     "object",
		"required": []string{"days"},
		"properties": map[string]any{
			"start": map[string]any{"type": "string", "format": "date"},
			"days": map[string]any{
				"type":     "array",
				"minItems": n,
				"maxItems": n,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"date", "done"},
					"properties": map[string]any{
						"date": map[string]any{"type": "string", "format": "date"},
						"done": map[string]any{"type": "boolean"},
						"note": map[string]any{"type": "string"},
					},
				},
			},
			"stats": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"bestStreak": map[string]any{"type": "integer", "minimum": 0},
				},
			},
			"darkMode":     map[string]any{"type": "boolean"},
			"highContrast": map[string]any{"type": "boolean"},
		},
	}
}

func compileSchema(n int) (*jsonschema.Schema, error) {
	data, err := json.Marshal(Schema(n))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// Validate validates a decoded document. Values that are not plain JSON
// (structs, typed slices) are normalized through a JSON round trip first.
func (v *Validator) Validate(doc any) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	normalized, err := normalizeJSON(doc)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &FieldError{Err: err})
		return result
	}

	if v.schema != nil {
		result.UsedSchema = true
		if err := v.schema.Validate(normalized); err != nil {
			result.Valid = false
			appendSchemaErrors(result, err)
		}
		return result
	}

	if v.compileErr != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("JSON Schema validation not available (%v), using minimal checks", v.compileErr))
	}
	validateMinimal(normalized, v.n, result)
	return result
}

// normalizeJSON converts doc into the generic shape encoding/json produces,
// including nested values built by hand in Go.
func normalizeJSON(doc any) (any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("not a JSON document: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("not a JSON document: %w", err)
	}
	return out, nil
}

// validateMinimal performs the structural checks without JSON Schema.
func validateMinimal(doc any, n int, result *ValidationResult) {
	obj, ok := doc.(map[string]any)
	if !ok {
		result.Valid = false
		result.Errors = append(result.Errors, &FieldError{Err: errors.New("expected a JSON object")})
		return
	}
	rawDays, ok := obj["days"]
	if !ok {
		result.Valid = false
		result.Errors = append(result.Errors, &FieldError{Path: "days", Err: errors.New("missing required field")})
		return
	}
	days, ok := rawDays.([]any)
	if !ok {
		result.Valid = false
		result.Errors = append(result.Errors, &FieldError{Path: "days", Err: errors.New("expected an array")})
		return
	}
	if len(days) != n {
		result.Valid = false
		result.Errors = append(result.Errors, &FieldError{
			Path: "days",
			Err:  fmt.Errorf("expected %d entries, got %d", n, len(days)),
		})
		return
	}
	for i, raw := range days {
		path := fmt.Sprintf("days[%d]", i)
		day, ok := raw.(map[string]any)
		if !ok {
			result.Valid = false
			result.Errors = append(result.Errors, &FieldError{Path: path, Err: errors.New("expected an object")})
			continue
		}
		if _, ok := day["done"].(bool); !ok {
			result.Valid = false
			result.Errors = append(result.Errors, &FieldError{Path: path + ".done", Err: errors.New("expected a boolean")})
		}
		if _, ok := day["date"].(string); !ok {
			result.Valid = false
			result.Errors = append(result.Errors, &FieldError{Path: path + ".date", Err: errors.New("expected a string")})
		}
		if note, present := day["note"]; present {
			if _, ok := note.(string); !ok {
				result.Valid = false
				result.Errors = append(result.Errors, &FieldError{Path: path + ".note", Err: errors.New("expected a string")})
			}
		}
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &FieldError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath converts "/days/3/done" into "days[3].done".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
