// Package schemas provides JSON Schema validation for candidate records
// before they are stored or exported.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// CandidateSchemaName identifies the embedded candidate schema in errors
const CandidateSchemaName = "candidate.schema.json"

//go:embed candidate.schema.json
var candidateSchema string

var (
	compileOnce sync.Once
	compiled    *gojsonschema.Schema
	compileErr  error
)

// CandidateSchema returns the raw candidate schema document
func CandidateSchema() string {
	return candidateSchema
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

func candidate() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(candidateSchema))
		if compileErr != nil {
			compileErr = &SchemaLoadError{Path: CandidateSchemaName, Message: "invalid schema", Cause: compileErr}
		}
	})
	return compiled, compileErr
}

// ValidateCandidate checks a Go value (normally *intake.CandidateRecord)
// against the candidate schema.
func ValidateCandidate(record any) error {
	schema, err := candidate()
	if err != nil {
		return err
	}
	return check(schema, gojsonschema.NewGoLoader(record))
}

// ValidateCandidateJSON checks raw JSON against the candidate schema
func ValidateCandidateJSON(data []byte) error {
	schema, err := candidate()
	if err != nil {
		return err
	}
	return check(schema, gojsonschema.NewBytesLoader(data))
}

func check(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader) error {
	result, err := schema.Validate(doc)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	return toError(result)
}

func toError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	// Build structured error
	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
