// Package documents holds the coordinate tables and field chains of every
// certificate document type.
package documents

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/dossier-builder/internal/fields"
	"github.com/jonathan/dossier-builder/internal/layout"
)

//go:embed layouts/*.yaml
var layoutFS embed.FS

// Source names the field chains may refer to.
const (
	SourceProfile  = "profile"
	SourceActivity = "activity"
	SourceDerived  = "derived"
	SourceCrossRef = "crossref"
)

var knownSources = []string{SourceProfile, SourceActivity, SourceDerived, SourceCrossRef}

// Document is one certificate form: where its template lives, where each field
// goes and how each field value is resolved.
type Document struct {
	Type     string                `yaml:"type"`
	Edition  string                `yaml:"edition"`
	Title    string                `yaml:"title"`
	Template string                `yaml:"template"`
	Layout   layout.DocumentLayout `yaml:"layout"`
	Fields   fields.ChainSet       `yaml:"fields"`
}

// Parse decodes and checks one document definition.
func Parse(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, &LayoutError{Message: "failed to parse layout YAML", Cause: err}
	}
	if err := d.check(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Document) check() error {
	if d.Type == "" {
		return &LayoutError{Message: "document type is empty"}
	}
	if d.Template == "" {
		return &LayoutError{DocumentType: d.Type, Message: "template path is empty"}
	}
	if len(d.Layout) == 0 {
		return &LayoutError{DocumentType: d.Type, Message: "layout has no fields"}
	}

	for name, f := range d.Layout {
		if f.Page < 0 {
			return &LayoutError{DocumentType: d.Type, Field: name, Message: "negative page index"}
		}
		switch f.Kind {
		case "", layout.KindText, layout.KindMark, layout.KindCodes, layout.KindRows:
		case layout.KindWrap:
			if f.MaxWidth <= 0 {
				return &LayoutError{DocumentType: d.Type, Field: name, Message: "wrap field needs max_width"}
			}
		default:
			return &LayoutError{DocumentType: d.Type, Field: name, Message: fmt.Sprintf("unknown field kind %q", f.Kind)}
		}
		if _, ok := d.Fields.Chains[name]; !ok {
			return &LayoutError{DocumentType: d.Type, Field: name, Message: "field has no resolution chain"}
		}
	}

	if err := d.checkChains(d.Fields.Chains); err != nil {
		return err
	}
	for _, o := range d.Fields.Overrides {
		if len(o.When) == 0 {
			return &LayoutError{DocumentType: d.Type, Message: fmt.Sprintf("override %q has no condition", o.Name)}
		}
		for _, cond := range o.When {
			if !slices.Contains(knownSources, cond.Source) {
				return &LayoutError{DocumentType: d.Type, Message: fmt.Sprintf("override %q uses unknown source %q", o.Name, cond.Source)}
			}
		}
		if err := d.checkChains(o.Chains); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) checkChains(chains fields.Chains) error {
	for name, chain := range chains {
		if _, ok := d.Layout[name]; !ok {
			return &LayoutError{DocumentType: d.Type, Field: name, Message: "chain for field missing from layout"}
		}
		for _, c := range chain {
			if !slices.Contains(knownSources, c.Source) {
				return &LayoutError{DocumentType: d.Type, Field: name, Message: fmt.Sprintf("unknown source %q", c.Source)}
			}
		}
	}
	return nil
}

// Pages returns the number of template pages the layout writes to.
func (d *Document) Pages() int {
	last := 0
	for _, f := range d.Layout {
		last = max(last, f.Page)
	}
	return last + 1
}

// Registry is the set of known document types.
type Registry struct {
	docs map[string]*Document
}

// Load parses every embedded document definition.
func Load() (*Registry, error) {
	entries, err := fs.ReadDir(layoutFS, "layouts")
	if err != nil {
		return nil, &LayoutError{Message: "failed to list layouts", Cause: err}
	}
	r := &Registry{docs: make(map[string]*Document, len(entries))}
	for _, entry := range entries {
		data, err := layoutFS.ReadFile(path.Join("layouts", entry.Name()))
		if err != nil {
			return nil, &LayoutError{DocumentType: entry.Name(), Message: "failed to read layout", Cause: err}
		}
		d, err := Parse(data)
		if err != nil {
			return nil, err
		}
		if want := strings.TrimSuffix(entry.Name(), ".yaml"); d.Type != want {
			return nil, &LayoutError{DocumentType: d.Type, Message: fmt.Sprintf("declared in %s", entry.Name())}
		}
		r.docs[d.Type] = d
	}
	return r, nil
}

// Get looks up a document type.
func (r *Registry) Get(documentType string) (*Document, error) {
	d, ok := r.docs[documentType]
	if !ok {
		return nil, &LayoutError{DocumentType: documentType, Message: "unknown document type"}
	}
	return d, nil
}

// Types lists the known document types, optionally restricted to one edition.
func (r *Registry) Types(edition string) []string {
	types := make([]string, 0, len(r.docs))
	for key, d := range r.docs {
		if edition == "" || d.Edition == edition {
			types = append(types, key)
		}
	}
	slices.Sort(types)
	return types
}
