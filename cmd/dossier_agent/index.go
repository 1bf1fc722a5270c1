package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/dossier-builder/internal/observability"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Print the attachment numbers of each annex category",
	Long:  "Builds the manifest and prints the compressed attachment number ranges per category, as written on the application cover.",
	RunE:  runIndex,
}

var (
	indexDossier dossierFlags
	indexJSON    bool
)

func init() {
	registerDossierFlags(&indexDossier, indexCmd.Flags())
	indexCmd.Flags().BoolVar(&indexJSON, "json", false, "Print the index as JSON")

	if err := indexCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	_, res, err := build(indexDossier)
	if err != nil {
		return err
	}
	if indexJSON {
		jsonBytes, err := json.MarshalIndent(res.CrossReferences, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal index to JSON: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
		return nil
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintCrossReferences(res.Edition.CategoryNames(), res.CrossReferences)
	return nil
}
