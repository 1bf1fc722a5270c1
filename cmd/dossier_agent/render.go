package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Fill the certificate form of one attachment",
	Long:  "Builds the manifest, then fills the certificate document of the named attachment with the applicant profile, the training record and its attachment number.",
	RunE:  runRender,
}

var renderCoverCmd = &cobra.Command{
	Use:   "render-cover",
	Short: "Fill the application cover with the attachment index",
	RunE:  runRenderCover,
}

var (
	renderDossier    dossierFlags
	renderAttachment string
	renderOutput     string

	renderCoverDossier dossierFlags
	renderCoverOutput  string
)

func init() {
	registerDossierFlags(&renderDossier, renderCmd.Flags())
	renderCmd.Flags().StringVarP(&renderAttachment, "attachment", "a", "", "Attachment ID from the manifest (required)")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Path to output PDF file (required)")
	for _, name := range []string{"in", "attachment", "out"} {
		if err := renderCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	registerDossierFlags(&renderCoverDossier, renderCoverCmd.Flags())
	renderCoverCmd.Flags().StringVarP(&renderCoverOutput, "out", "o", "", "Path to output PDF file (required)")
	for _, name := range []string{"in", "out"} {
		if err := renderCoverCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	rootCmd.AddCommand(renderCmd, renderCoverCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	svc, res, err := build(renderDossier)
	if err != nil {
		return err
	}
	rendered, err := svc.RenderAttachment(cmd.Context(), res, renderAttachment)
	if err != nil {
		return fmt.Errorf("failed to render attachment %s: %w", renderAttachment, err)
	}
	if err := writeOutput(renderOutput, rendered.PDF); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s (%s): %s\n", rendered.AttachmentID, rendered.DocumentType, renderOutput)
	return nil
}

func runRenderCover(cmd *cobra.Command, _ []string) error {
	svc, res, err := build(renderCoverDossier)
	if err != nil {
		return err
	}
	rendered, err := svc.RenderCover(cmd.Context(), res)
	if err != nil {
		return fmt.Errorf("failed to render cover: %w", err)
	}
	if err := writeOutput(renderCoverOutput, rendered.PDF); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rendered cover (%s): %s\n", rendered.DocumentType, renderCoverOutput)
	return nil
}
