package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonathan/dossier-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		runes := []rune(line)
		if len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintManifest renders the numbered attachment list as a table.
func (p *Printer) PrintManifest(m types.Manifest) {
	tw := table.NewWriter()
	tw.SetOutputMirror(p.out)
	tw.AppendHeader(table.Row{"#", "Annex", "Category", "Label", "Date", "Origin"})
	for _, item := range m.Items {
		annex := item.Category.Annex
		if annex == "" {
			annex = fmt.Sprintf("%d%s", item.Category.AnnexNumber, item.Category.AnnexSubLetter)
		}
		tw.AppendRow(table.Row{item.SequenceNumber, annex, item.Category.Name, item.Label, item.Date, item.Origin})
	}
	if m.UserReordered {
		tw.AppendFooter(table.Row{"", "", "", "order set by user"})
	}
	tw.Render()
}

// EditionRow is one line of the edition listing.
type EditionRow struct {
	Key       string
	Title     string
	Cover     string
	Documents []string
}

// PrintEditions lists the supported editions with their certificate documents.
func (p *Printer) PrintEditions(rows []EditionRow) {
	tw := table.NewWriter()
	tw.SetOutputMirror(p.out)
	tw.AppendHeader(table.Row{"Edition", "Title", "Cover", "Documents"})
	for _, r := range rows {
		cover := r.Cover
		if cover == "" {
			cover = "-"
		}
		tw.AppendRow(table.Row{r.Key, r.Title, cover, strings.Join(r.Documents, "\n")})
		tw.AppendSeparator()
	}
	tw.Render()
}

// PrintCrossReferences renders the attachment numbers per category in the
// given category order. Categories without attachments are skipped.
func (p *Printer) PrintCrossReferences(categories []string, refs map[string]string) {
	var sb strings.Builder
	width := 0
	for _, name := range categories {
		if refs[name] != "" {
			width = max(width, len([]rune(name)))
		}
	}
	for _, name := range categories {
		if refs[name] == "" {
			continue
		}
		pad := strings.Repeat(" ", width-len([]rune(name)))
		fmt.Fprintf(&sb, "%s%s  %s\n", name, pad, refs[name])
	}
	if sb.Len() == 0 {
		sb.WriteString("(no attachments)")
	}
	p.printBox("ATTACHMENT INDEX", strings.TrimRight(sb.String(), "\n"))
}

// PrintValidation outputs the result of validating a dossier file.
func (p *Printer) PrintValidation(path string, errs []string) {
	if len(errs) == 0 {
		p.printBox("VALIDATION", fmt.Sprintf("%s: ok", path))
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d error(s)\n", path, len(errs))
	for _, e := range errs {
		fmt.Fprintf(&sb, "  • %s\n", e)
	}
	p.printBox("VALIDATION", strings.TrimRight(sb.String(), "\n"))
}
