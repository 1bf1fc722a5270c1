package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/dossier-builder/internal/observability"
	"github.com/jonathan/dossier-builder/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a dossier or manifest file against its JSON schema",
	RunE:  runValidate,
}

var (
	validateInput    string
	validateManifest bool
	validateSchema   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to JSON file (required)")
	validateCmd.Flags().BoolVar(&validateManifest, "manifest", false, "Validate a manifest instead of a dossier")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Validate against this JSON Schema file instead of the built-in schema")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var err error
	if validateSchema != "" {
		err = schemas.ValidateJSON(validateSchema, validateInput)
	} else {
		var content []byte
		content, err = os.ReadFile(validateInput)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", validateInput, err)
		}
		validate := schemas.ValidateDossier
		if validateManifest {
			validate = schemas.ValidateManifest
		}
		err = validate(content)
	}

	var validationErr *schemas.ValidationError
	switch {
	case err == nil:
		observability.NewPrinter(cmd.OutOrStdout()).PrintValidation(validateInput, nil)
		return nil
	case errors.As(err, &validationErr):
		messages := validationErr.Messages()
		observability.NewPrinter(cmd.OutOrStdout()).PrintValidation(validateInput, messages)
		// Return error to indicate violations were found (exit code 1)
		return fmt.Errorf("validation found %d error(s)", len(messages))
	default:
		return fmt.Errorf("failed to validate %s: %w", validateInput, err)
	}
}
