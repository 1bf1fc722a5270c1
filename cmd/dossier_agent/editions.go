package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/dossier-builder/internal/documents"
	"github.com/jonathan/dossier-builder/internal/observability"
	"github.com/jonathan/dossier-builder/internal/taxonomy"
)

var editionsCmd = &cobra.Command{
	Use:   "editions",
	Short: "List the supported regulation editions and their certificate forms",
	RunE:  runEditions,
}

func init() {
	rootCmd.AddCommand(editionsCmd)
}

func runEditions(cmd *cobra.Command, _ []string) error {
	docs, err := documents.Load()
	if err != nil {
		return fmt.Errorf("failed to load document layouts: %w", err)
	}

	var rows []observability.EditionRow
	for _, key := range taxonomy.Keys() {
		edition, err := taxonomy.Load(key)
		if err != nil {
			return err
		}
		rows = append(rows, observability.EditionRow{
			Key:       edition.Key,
			Title:     edition.Title,
			Cover:     edition.CoverDocument,
			Documents: docs.Types(key),
		})
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintEditions(rows)
	return nil
}
