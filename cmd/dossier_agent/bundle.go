package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/dossier-builder/internal/dossier"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Fill every certificate of a dossier",
	Long: `Renders the cover, when the edition has one, and every attachment that has a
certificate document. Files are named after their attachment number.`,
	RunE: runBundle,
}

var (
	bundleDossier dossierFlags
	bundleOutDir  string
)

func init() {
	registerDossierFlags(&bundleDossier, bundleCmd.Flags())
	bundleCmd.Flags().StringVarP(&bundleOutDir, "out-dir", "o", "", "Directory for the rendered PDF files (required)")
	for _, name := range []string{"in", "out-dir"} {
		if err := bundleCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	rootCmd.AddCommand(bundleCmd)
}

func runBundle(cmd *cobra.Command, _ []string) error {
	svc, res, err := build(bundleDossier)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	cover, err := svc.RenderCover(cmd.Context(), res)
	var notFound *dossier.NotFoundError
	switch {
	case errors.As(err, &notFound):
		logger.Sugar().Debugf("edition %s has no cover document", res.Edition.Key)
	case err != nil:
		return fmt.Errorf("failed to render cover: %w", err)
	default:
		path := filepath.Join(bundleOutDir, "00_cover.pdf")
		if err := writeOutput(path, cover.PDF); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Rendered cover: %s\n", path)
	}

	bundle, err := svc.RenderBundle(cmd.Context(), res)
	if err != nil {
		return err
	}
	for _, rendered := range bundle {
		path := filepath.Join(bundleOutDir, bundleFileName(res, rendered))
		if err := writeOutput(path, rendered.PDF); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Rendered %s: %s\n", rendered.AttachmentID, path)
	}
	_, _ = fmt.Fprintf(out, "%d certificate(s) written to %s\n", len(bundle), bundleOutDir)
	return nil
}

// bundleFileName names a certificate after its attachment number so a
// directory listing follows manifest order.
func bundleFileName(res *dossier.Result, rendered *dossier.Rendered) string {
	item, ok := res.Manifest.Find(rendered.AttachmentID)
	if !ok {
		return fmt.Sprintf("%s_%s.pdf", rendered.DocumentType, rendered.AttachmentID)
	}
	return fmt.Sprintf("%02d_%s.pdf", item.SequenceNumber, rendered.DocumentType)
}
