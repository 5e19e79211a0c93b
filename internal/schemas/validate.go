// Package schemas compiles the embedded JSON Schemas for catalog records and
// quiz answers and validates documents against them.
package schemas

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jonathan/distro-catalog/schemas"
)

// FieldError is one schema violation. Field is a dotted path, "(root)" for
// the document itself.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document, ordered by field.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	lines := make([]string, 0, len(ve.Errors)+1)
	lines = append(lines, "validation failed:")
	for i, fe := range ve.Errors {
		lines = append(lines, fmt.Sprintf("  %d. %s: %s", i+1, fe.Field, fe.Message))
	}
	return strings.Join(lines, "\n")
}

// SchemaLoadError means a schema could not be read or compiled.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Validator checks documents against one compiled schema. It is safe for
// concurrent use.
type Validator struct {
	name   string
	schema *gojsonschema.Schema
}

var (
	cacheMu sync.Mutex
	cache   = make(map[string]*Validator)
)

// Compile builds a Validator from raw schema JSON.
func Compile(name string, data []byte) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema failed to compile", Cause: err}
	}
	return &Validator{name: name, schema: schema}, nil
}

// ForSchema returns the Validator for an embedded schema file such as
// "distro.schema.json", compiling it on first use.
func ForSchema(name string) (*Validator, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if v := cache[name]; v != nil {
		return v, nil
	}
	data, err := schemafiles.Files.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "embedded schema not found", Cause: err}
	}
	v, err := Compile(name, data)
	if err != nil {
		return nil, err
	}
	cache[name] = v
	return v, nil
}

// MustForSchema is ForSchema for schemas shipped with the binary; it panics
// when one does not compile.
func MustForSchema(name string) *Validator {
	v, err := ForSchema(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Name returns the schema file name.
func (v *Validator) Name() string {
	return v.name
}

// ValidateBytes validates a JSON document. A document that parses but does
// not conform yields a *ValidationError; malformed JSON yields a plain error.
func (v *Validator) ValidateBytes(doc []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	sort.SliceStable(ve.Errors, func(i, j int) bool {
		return ve.Errors[i].Field < ve.Errors[j].Field
	})
	return ve
}
