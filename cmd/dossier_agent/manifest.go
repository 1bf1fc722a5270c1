package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/dossier-builder/internal/observability"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Build the numbered attachment manifest of a dossier",
	Long: `Classifies the dossier's training records into annex categories, orders and
numbers them. A prior manifest keeps earlier numbering and user ordering;
--order applies an explicit order.`,
	RunE: runManifest,
}

var (
	manifestDossier dossierFlags
	manifestJSON    bool
	manifestOutput  string
)

func init() {
	registerDossierFlags(&manifestDossier, manifestCmd.Flags())
	manifestCmd.Flags().BoolVar(&manifestJSON, "json", false, "Print the manifest as JSON instead of a table")
	manifestCmd.Flags().StringVarP(&manifestOutput, "out", "o", "", "Write the manifest JSON to this file")

	if err := manifestCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(manifestCmd)
}

func runManifest(cmd *cobra.Command, _ []string) error {
	_, res, err := build(manifestDossier)
	if err != nil {
		return err
	}

	jsonBytes, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest to JSON: %w", err)
	}
	if manifestOutput != "" {
		if err := writeOutput(manifestOutput, jsonBytes); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if manifestJSON {
		_, _ = fmt.Fprintln(out, string(jsonBytes))
		return nil
	}
	observability.NewPrinter(out).PrintManifest(res.Manifest)
	if res.Unclassified > 0 {
		_, _ = fmt.Fprintf(out, "%d record(s) matched no annex category\n", res.Unclassified)
	}
	if manifestOutput != "" {
		_, _ = fmt.Fprintf(out, "Output: %s\n", manifestOutput)
	}
	return nil
}
