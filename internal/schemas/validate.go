// Package schemas validates the pipeline's JSON artifacts against their
// schemas. Validation is advisory: the CLI reports violations as warnings so
// a drifting model output shape is visible without blocking a run.
package schemas

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// ValidationError represents a schema validation failure with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself.
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateRegistryFile validates an organization registry artifact on disk.
func ValidateRegistryFile(jsonPath string) error {
	return validateFile("organization_registry.schema.json", jsonPath)
}

// ValidateLeadListFile validates a qualified-leads artifact on disk.
func ValidateLeadListFile(jsonPath string) error {
	return validateFile("qualified_leads.schema.json", jsonPath)
}

func validateFile(schemaName, jsonPath string) error {
	document, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to read artifact %s: %w", jsonPath, err)
	}
	return validate(schemaName, string(document))
}

// ValidateRegistryJSON validates in-memory registry JSON, for checking an
// artifact before it is written.
func ValidateRegistryJSON(document string) error {
	return validate("organization_registry.schema.json", document)
}

// ValidateLeadListJSON validates in-memory lead-list JSON.
func ValidateLeadListJSON(document string) error {
	return validate("qualified_leads.schema.json", document)
}

func validate(schemaName, document string) error {
	schemaContent, err := schemaFiles.ReadFile(schemaName)
	if err != nil {
		return &SchemaLoadError{Name: schemaName, Message: "not embedded", Cause: err}
	}

	schemaLoader := gojsonschema.NewStringLoader(string(schemaContent))
	documentLoader := gojsonschema.NewStringLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{Name: schemaName, Message: "validation failed during load", Cause: err}
	}

	if result.Valid() {
		return nil
	}

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
