// Package layout positions resolved field values on the pages of a fixed-layout document.
package layout

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/dossier-builder/internal/milestones"
	"github.com/jonathan/dossier-builder/internal/rendering"
)

// Kind selects how a field value is placed.
type Kind string

const (
	// KindText places the value on a single line.
	KindText Kind = "text"
	// KindWrap word-wraps the value within MaxWidth, moving down by LineHeight.
	KindWrap Kind = "wrap"
	// KindCodes prints a milestone code list with at most MaxItemsPerLine codes per line.
	KindCodes Kind = "codes"
	// KindMark draws an "X" when the value is truthy.
	KindMark Kind = "mark"
	// KindRows places each newline-separated entry on its own row, LineHeight
	// apart. Empty entries keep their row. With MaxWidth set, a wide entry wraps
	// onto the rows below it.
	KindRows Kind = "rows"
)

// Defaults used when a layout leaves them unset.
const (
	DefaultLineHeight     = 14
	DefaultCodeLineHeight = 13
)

// FieldLayout is the position of one field on a document type.
type FieldLayout struct {
	Page            int     `yaml:"page" json:"page"`
	X               float64 `yaml:"x" json:"x"`
	Y               float64 `yaml:"y" json:"y"`
	Kind            Kind    `yaml:"kind,omitempty" json:"kind,omitempty"`
	MaxWidth        float64 `yaml:"max_width,omitempty" json:"max_width,omitempty"`
	LineHeight      float64 `yaml:"line_height,omitempty" json:"line_height,omitempty"`
	MaxItemsPerLine int     `yaml:"max_items_per_line,omitempty" json:"max_items_per_line,omitempty"`
	// RaiseOnWrap moves the first line of a multi-line code list up by one line
	// so the list stays inside its box.
	RaiseOnWrap bool `yaml:"raise_on_wrap,omitempty" json:"raise_on_wrap,omitempty"`
	Size        int  `yaml:"size,omitempty" json:"size,omitempty"`
}

func (f FieldLayout) kind() Kind {
	switch {
	case f.Kind != "":
		return f.Kind
	case f.MaxWidth > 0:
		return KindWrap
	default:
		return KindText
	}
}

// DocumentLayout maps field names to their positions on one document type.
type DocumentLayout map[string]FieldLayout

// Engine renders field values into page placements.
type Engine struct {
	measurer Measurer
	fontSize int
}

// NewEngine creates an engine measuring text with m at the default font size.
func NewEngine(m Measurer) *Engine {
	if m == nil {
		m = HelveticaMeasurer{}
	}
	return &Engine{measurer: m, fontSize: rendering.DefaultFontSize}
}

// Render places every non-empty value of values according to layout. Fields
// without a layout entry are ignored, and values that normalize to the empty
// string produce no placement. The result holds one Page per page index up to
// the highest page the layout uses, in page order. A field with a negative
// page or an unknown kind is a RenderError naming documentType and the field.
func (e *Engine) Render(documentType string, layout DocumentLayout, values map[string]string) ([]rendering.Page, error) {
	names := make([]string, 0, len(layout))
	lastPage := 0
	for name, f := range layout {
		if f.Page < 0 {
			return nil, &rendering.RenderError{DocumentType: documentType, Field: name, Message: fmt.Sprintf("page %d out of range", f.Page)}
		}
		switch f.kind() {
		case KindText, KindWrap, KindCodes, KindMark, KindRows:
		default:
			return nil, &rendering.RenderError{DocumentType: documentType, Field: name, Message: fmt.Sprintf("unknown field kind %q", f.Kind)}
		}
		lastPage = max(lastPage, f.Page)
		names = append(names, name)
	}
	slices.Sort(names)

	pages := make([]rendering.Page, lastPage+1)
	for i := range pages {
		pages[i].Index = i
	}
	for _, name := range names {
		f := layout[name]
		placed := e.place(f, values[name])
		pages[f.Page].Placements = append(pages[f.Page].Placements, placed...)
	}
	return pages, nil
}

func (e *Engine) place(f FieldLayout, value string) []rendering.Placement {
	size := f.Size
	if size <= 0 {
		size = e.fontSize
	}

	var lines []string
	lineHeight := f.LineHeight
	y := f.Y

	switch f.kind() {
	case KindMark:
		if truthy(value) {
			lines = []string{"X"}
		}
	case KindCodes:
		if lineHeight <= 0 {
			lineHeight = DefaultCodeLineHeight
		}
		lines = milestones.GroupAndSort(milestones.Split(value), f.MaxItemsPerLine)
		if f.RaiseOnWrap && len(lines) > 1 {
			y += lineHeight
		}
	case KindWrap:
		if lineHeight <= 0 {
			lineHeight = DefaultLineHeight
		}
		lines = Wrap(rendering.NormalizeText(value), f.MaxWidth, size, e.measurer)
	case KindRows:
		if lineHeight <= 0 {
			lineHeight = DefaultLineHeight
		}
		if strings.TrimSpace(value) == "" {
			break
		}
		for _, entry := range strings.Split(value, "\n") {
			entry = rendering.NormalizeText(entry)
			if entry == "" || f.MaxWidth <= 0 {
				lines = append(lines, entry)
				continue
			}
			lines = append(lines, Wrap(entry, f.MaxWidth, size, e.measurer)...)
		}
	default:
		if text := rendering.NormalizeText(value); text != "" {
			lines = []string{text}
		}
	}

	out := make([]rendering.Placement, 0, len(lines))
	for i, line := range lines {
		line = rendering.NormalizeText(line)
		if line == "" {
			continue
		}
		out = append(out, rendering.Placement{
			X:    f.X,
			Y:    y - float64(i)*lineHeight,
			Text: line,
			Size: size,
		})
	}
	return out
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "no", "nej", "off":
		return false
	default:
		return true
	}
}
