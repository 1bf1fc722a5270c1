package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDossier_Valid(t *testing.T) {
	err := ValidateDossier([]byte(`{
		"edition": "2021",
		"profile": {"name": "Anna Svensson", "foreignLicenses": [{"country": "Norge", "date": "2019-01-01"}]},
		"records": [{"title": "Medicine", "startDate": "2023-01-01"}],
		"presets": {"serviceCompletion": {"enabled": true, "date": "2025-01-01"}},
		"prior_manifest": {"edition": "2021", "items": [{"id": "pl-r1", "origin": "derived"}], "user_reordered": true},
		"order": ["pl-r1"]
	}`))
	assert.NoError(t, err)
}

func TestValidateDossier_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		field string
	}{
		{"missing edition", `{"records": []}`, "(root)"},
		{"unknown edition", `{"edition": "1999"}`, "edition"},
		{"record not an object", `{"edition": "2021", "records": ["x"]}`, "records.0"},
		{"preset without flag", `{"edition": "2021", "presets": {"sta3": {"date": "2025-01-01"}}}`, "presets.sta3"},
		{"bad preset date", `{"edition": "2021", "presets": {"sta3": {"enabled": true, "date": "today"}}}`, "presets.sta3.date"},
		{"prior manifest item without id", `{"edition": "2021", "prior_manifest": {"items": [{}]}}`, "prior_manifest.items.0"},
		{"too many licenses", `{"edition": "2021", "profile": {"foreignLicenses": [{}, {}, {}, {}]}}`, "profile.foreignLicenses"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDossier([]byte(tt.json))
			require.Error(t, err)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "error should be ValidationError type")
			fields := make([]string, 0, len(validationErr.Errors))
			for _, fe := range validationErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidateDossier_MalformedJSON(t *testing.T) {
	err := ValidateDossier([]byte(`{ invalid json }`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestValidateManifest(t *testing.T) {
	assert.NoError(t, ValidateManifest([]byte(`{"items": [{"id": "a", "category": {"name": "Kurser", "annex_number": 10}, "sequence_number": 1}]}`)))

	err := ValidateManifest([]byte(`{"items": [{"id": "a", "origin": "imported"}]}`))
	require.Error(t, err)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "items.0.origin", validationErr.Errors[0].Field)
}

func TestValidateJSON_Files(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	validPath := filepath.Join(dir, "valid.json")
	invalidPath := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type": "object", "required": ["name"]}`), 0644))
	require.NoError(t, os.WriteFile(validPath, []byte(`{"name": "x"}`), 0644))
	require.NoError(t, os.WriteFile(invalidPath, []byte(`{"age": 3}`), 0644))

	assert.NoError(t, ValidateJSON(schemaPath, validPath))

	err := ValidateJSON(schemaPath, invalidPath)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
}

func TestValidateJSON_NonExistentFiles(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type": "object"}`), 0644))

	err := ValidateJSON(filepath.Join(dir, "missing_schema.json"), schemaPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(schemaPath, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidationError_Messages(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "edition", Message: "is required"},
			{Field: "records.0", Message: "Invalid type"},
		},
	}
	assert.Equal(t, []string{"edition: is required", "records.0: Invalid type"}, err.Messages())
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "2. records.0: Invalid type")
}

func TestSchemaLoadError(t *testing.T) {
	cause := errors.New("boom")
	err := &SchemaLoadError{Path: "x.json", Message: "bad", Cause: cause}
	assert.Equal(t, "failed to load schema x.json: bad: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}
