// Package schemas provides JSON Schema validation of dossier inputs and manifests.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jonathan/dossier-builder/schemas"
)

// Embedded schema files.
const (
	DossierSchema  = "dossier.schema.json"
	ManifestSchema = "manifest.schema.json"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
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

// Messages returns one "field: message" line per error.
func (ve *ValidationError) Messages() []string {
	out := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		out[i] = err.Field + ": " + err.Message
	}
	return out
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

// compiled holds the embedded schemas, compiled on first use.
var compiled = sync.OnceValues(func() (map[string]*gojsonschema.Schema, error) {
	manifestData, err := schemafiles.FS.ReadFile(ManifestSchema)
	if err != nil {
		return nil, &SchemaLoadError{Path: ManifestSchema, Message: "failed to read embedded schema", Cause: err}
	}
	dossierData, err := schemafiles.FS.ReadFile(DossierSchema)
	if err != nil {
		return nil, &SchemaLoadError{Path: DossierSchema, Message: "failed to read embedded schema", Cause: err}
	}

	manifest, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(manifestData))
	if err != nil {
		return nil, &SchemaLoadError{Path: ManifestSchema, Message: "failed to compile schema", Cause: err}
	}

	sl := gojsonschema.NewSchemaLoader()
	if err := sl.AddSchemas(gojsonschema.NewBytesLoader(manifestData)); err != nil {
		return nil, &SchemaLoadError{Path: ManifestSchema, Message: "failed to register schema", Cause: err}
	}
	dossier, err := sl.Compile(gojsonschema.NewBytesLoader(dossierData))
	if err != nil {
		return nil, &SchemaLoadError{Path: DossierSchema, Message: "failed to compile schema", Cause: err}
	}

	return map[string]*gojsonschema.Schema{
		DossierSchema:  dossier,
		ManifestSchema: manifest,
	}, nil
})

// ValidateDossier validates raw dossier input JSON.
func ValidateDossier(data []byte) error {
	return validateEmbedded(DossierSchema, data)
}

// ValidateManifest validates a stored or caller-supplied manifest.
func ValidateManifest(data []byte) error {
	return validateEmbedded(ManifestSchema, data)
}

func validateEmbedded(name string, data []byte) error {
	schemas, err := compiled()
	if err != nil {
		return err
	}
	result, err := schemas[name].Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: fmt.Sprintf("invalid JSON: %v", err)}}}
	}
	return toValidationError(result)
}

// ValidateJSON validates a JSON file against a JSON Schema file on disk,
// such as a stricter local variant of the dossier schema.
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaAbsPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}
	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}

	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}
	if _, err := os.Stat(jsonAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", jsonAbsPath)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewReferenceLoader("file://"+schemaAbsPath),
		gojsonschema.NewReferenceLoader("file://"+jsonAbsPath),
	)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaAbsPath,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) error {
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
