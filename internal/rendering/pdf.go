package rendering

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// DefaultFont and DefaultFontSize match the standard certificate forms.
const (
	DefaultFont     = "Helvetica"
	DefaultFontSize = 11
)

// Placement is one line of text at absolute page coordinates, in points from
// the bottom-left corner of the page.
type Placement struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
	Size int     `json:"size,omitempty"`
}

// Page holds the placements for one zero-based template page.
type Page struct {
	Index      int         `json:"index"`
	Placements []Placement `json:"placements"`
}

// Overlayer stamps pages of placements onto a template and returns the finished document.
type Overlayer interface {
	Overlay(documentType string, template []byte, pages []Page) ([]byte, error)
}

var disableConfigDir sync.Once

// PDFOverlay stamps text onto PDF templates with pdfcpu.
type PDFOverlay struct {
	Font  string
	Color string
}

// NewPDFOverlay returns an overlay drawing black Helvetica.
func NewPDFOverlay() *PDFOverlay {
	disableConfigDir.Do(api.DisableConfigDir)
	return &PDFOverlay{Font: DefaultFont, Color: "#000000"}
}

func (o *PDFOverlay) config() *model.Configuration {
	return model.NewDefaultConfiguration()
}

// StripWidgets removes every page's /Annots and the catalog's /AcroForm so that
// stamped text is not hidden behind interactive form widgets.
func (o *PDFOverlay) StripWidgets(documentType string, template []byte) ([]byte, int, error) {
	ctx, err := api.ReadContext(bytes.NewReader(template), o.config())
	if err != nil {
		return nil, 0, &TemplateLoadError{DocumentType: documentType, Message: "failed to parse template", Cause: err}
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, 0, &TemplateLoadError{DocumentType: documentType, Message: "invalid template", Cause: err}
	}

	ctx.RootDict.Delete("AcroForm")
	for i := 1; i <= ctx.PageCount; i++ {
		d, _, _, err := ctx.PageDict(i, false)
		if err != nil {
			return nil, 0, &TemplateLoadError{DocumentType: documentType, Message: fmt.Sprintf("failed to read page %d", i), Cause: err}
		}
		if d != nil {
			d.Delete("Annots")
		}
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, 0, &RenderError{DocumentType: documentType, Message: "failed to write stripped template", Cause: err}
	}
	return buf.Bytes(), ctx.PageCount, nil
}

// Overlay strips widgets from template and stamps every placement. Placements on
// pages past the end of the template land on its last page.
func (o *PDFOverlay) Overlay(documentType string, template []byte, pages []Page) ([]byte, error) {
	stripped, pageCount, err := o.StripWidgets(documentType, template)
	if err != nil {
		return nil, err
	}
	if pageCount == 0 {
		return nil, &TemplateLoadError{DocumentType: documentType, Message: "template has no pages"}
	}

	stamps := make(map[int][]*model.Watermark)
	for _, page := range pages {
		pageNr := min(page.Index+1, pageCount)
		for _, p := range page.Placements {
			if p.Text == "" {
				continue
			}
			wm, err := api.TextWatermark(p.Text, o.describe(p), true, false, types.POINTS)
			if err != nil {
				return nil, &RenderError{DocumentType: documentType, Message: fmt.Sprintf("failed to place %q", p.Text), Cause: err}
			}
			stamps[pageNr] = append(stamps[pageNr], wm)
		}
	}
	if len(stamps) == 0 {
		return stripped, nil
	}

	var out bytes.Buffer
	if err := api.AddWatermarksSliceMap(bytes.NewReader(stripped), &out, stamps, o.config()); err != nil {
		return nil, &RenderError{DocumentType: documentType, Message: "failed to stamp text", Cause: err}
	}
	return out.Bytes(), nil
}

func (o *PDFOverlay) describe(p Placement) string {
	size := p.Size
	if size <= 0 {
		size = DefaultFontSize
	}
	return fmt.Sprintf("fontname:%s, points:%d, position:bl, offset:%.2f %.2f, scalefactor:1 abs, rotation:0, fillcolor:%s, opacity:1",
		o.Font, size, p.X, p.Y, o.Color)
}
