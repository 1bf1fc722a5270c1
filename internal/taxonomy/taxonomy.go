// Package taxonomy loads the annex taxonomy, classification rules and preset
// table of each regulation edition.
package taxonomy

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/dossier-builder/internal/types"
)

//go:embed editions/*.yaml
var editionFS embed.FS

// Date policies for presets.
const (
	DateToday = "today"
	DateNone  = "none"
)

// Category is an annex category plus how its item labels are formed.
type Category struct {
	types.AnnexCategory `yaml:",inline"`
	// LabelTemplate forms item labels; "{title}" is replaced by the record title.
	LabelTemplate string `yaml:"label_template,omitempty"`
}

// Label renders the item label for a record title. Without a title, templates
// that need one fall back to the category name.
func (c Category) Label(title string) string {
	title = strings.TrimSpace(title)
	switch {
	case c.LabelTemplate == "":
		if title != "" {
			return title
		}
		return c.Name
	case strings.Contains(c.LabelTemplate, "{title}"):
		if title == "" {
			return c.Name
		}
		return strings.ReplaceAll(c.LabelTemplate, "{title}", title)
	default:
		return c.LabelTemplate
	}
}

// Rule classifies records of one kind. It matches when any tag contains one of
// TagsContain or the record text contains one of TextContains; a rule with no
// needles matches every record of its kind.
type Rule struct {
	Kind         types.RecordKind `yaml:"kind"`
	TagsContain  []string         `yaml:"tags_contain,omitempty"`
	TextContains []string         `yaml:"text_contains,omitempty"`
	Category     string           `yaml:"category"`
}

// Matches reports whether the rule applies to a record with the given
// lowercased tags and text.
func (r Rule) Matches(kind types.RecordKind, tags []string, text string) bool {
	if r.Kind != kind {
		return false
	}
	if len(r.TagsContain) == 0 && len(r.TextContains) == 0 {
		return true
	}
	for _, needle := range r.TagsContain {
		for _, tag := range tags {
			if strings.Contains(tag, needle) {
				return true
			}
		}
	}
	for _, needle := range r.TextContains {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

// SavedRule maps saved sub-certificate keys to a category by prefix.
type SavedRule struct {
	KeyPrefix string `yaml:"key_prefix"`
	Category  string `yaml:"category"`
}

// Preset is a boilerplate attachment the user can toggle on.
type Preset struct {
	Key        string `yaml:"key"`
	Category   string `yaml:"category"`
	Label      string `yaml:"label"`
	DatePolicy string `yaml:"date_policy,omitempty"`
}

// Edition is the complete configuration of one regulation edition.
type Edition struct {
	Key               string      `yaml:"key"`
	Title             string      `yaml:"title"`
	CoverDocument     string      `yaml:"cover_document,omitempty"`
	Categories        []Category  `yaml:"categories"`
	Rules             []Rule      `yaml:"rules"`
	SavedCertificates []SavedRule `yaml:"saved_certificates,omitempty"`
	Presets           []Preset    `yaml:"presets,omitempty"`

	byName map[string]Category
}

// Parse decodes and checks an edition table.
func Parse(data []byte) (*Edition, error) {
	var e Edition
	if err := yaml.Unmarshal(data, &e); err != nil {
		return nil, &LoadError{Message: "failed to parse edition YAML", Cause: err}
	}
	if e.Key == "" {
		return nil, &LoadError{Message: "edition key is empty"}
	}

	e.byName = make(map[string]Category, len(e.Categories))
	for _, c := range e.Categories {
		if c.Name == "" {
			return nil, &LoadError{Edition: e.Key, Message: "category without name"}
		}
		if _, dup := e.byName[c.Name]; dup {
			return nil, &LoadError{Edition: e.Key, Message: fmt.Sprintf("duplicate category %q", c.Name)}
		}
		e.byName[c.Name] = c
	}

	for _, r := range e.Rules {
		if _, ok := e.byName[r.Category]; !ok {
			return nil, &LoadError{Edition: e.Key, Message: fmt.Sprintf("rule references unknown category %q", r.Category)}
		}
	}
	for _, s := range e.SavedCertificates {
		if _, ok := e.byName[s.Category]; !ok {
			return nil, &LoadError{Edition: e.Key, Message: fmt.Sprintf("saved certificate rule references unknown category %q", s.Category)}
		}
	}
	seen := make(map[string]bool, len(e.Presets))
	for _, p := range e.Presets {
		if _, ok := e.byName[p.Category]; !ok {
			return nil, &LoadError{Edition: e.Key, Message: fmt.Sprintf("preset %q references unknown category %q", p.Key, p.Category)}
		}
		if seen[p.Key] {
			return nil, &LoadError{Edition: e.Key, Message: fmt.Sprintf("duplicate preset %q", p.Key)}
		}
		seen[p.Key] = true
	}
	return &e, nil
}

// Load returns the embedded edition with the given key.
func Load(key string) (*Edition, error) {
	data, err := editionFS.ReadFile(path.Join("editions", key+".yaml"))
	if err != nil {
		return nil, &LoadError{Edition: key, Message: "unknown edition", Cause: err}
	}
	return Parse(data)
}

// Keys lists the embedded edition keys in sorted order.
func Keys() []string {
	entries, err := fs.ReadDir(editionFS, "editions")
	if err != nil {
		return nil
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		keys = append(keys, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	slices.Sort(keys)
	return keys
}

// Category looks up a category by name.
func (e *Edition) Category(name string) (Category, bool) {
	c, ok := e.byName[name]
	return c, ok
}

// CategoryNames lists category names in table order.
func (e *Edition) CategoryNames() []string {
	names := make([]string, len(e.Categories))
	for i, c := range e.Categories {
		names[i] = c.Name
	}
	return names
}

// Preset looks up a preset by key.
func (e *Edition) Preset(key string) (Preset, bool) {
	for _, p := range e.Presets {
		if p.Key == key {
			return p, true
		}
	}
	return Preset{}, false
}

// SavedCategory returns the category for a saved certificate key.
func (e *Edition) SavedCategory(key string) (Category, bool) {
	lower := strings.ToLower(key)
	for _, s := range e.SavedCertificates {
		if strings.HasPrefix(lower, strings.ToLower(s.KeyPrefix)) {
			return e.Category(s.Category)
		}
	}
	return Category{}, false
}
