// Package classify maps training records to annex categories of an edition.
package classify

import (
	"strings"

	"github.com/jonathan/dossier-builder/internal/milestones"
	"github.com/jonathan/dossier-builder/internal/taxonomy"
	"github.com/jonathan/dossier-builder/internal/types"
)

// Classification is the category, stable id, label and date of one record.
type Classification struct {
	ID       string
	Category types.AnnexCategory
	Label    string
	Date     string
	Origin   types.Origin
}

// Item converts the classification into an unnumbered attachment item.
func (c *Classification) Item() types.AttachmentItem {
	return types.AttachmentItem{
		ID:       c.ID,
		Category: c.Category,
		Label:    c.Label,
		Date:     c.Date,
		Origin:   c.Origin,
	}
}

// Classifier classifies records against one edition's rules.
type Classifier struct {
	edition *taxonomy.Edition
}

// New creates a classifier for edition.
func New(edition *taxonomy.Edition) *Classifier {
	return &Classifier{edition: edition}
}

// Edition returns the edition the classifier uses.
func (c *Classifier) Edition() *taxonomy.Edition {
	return c.edition
}

// Classify returns the classification of rec, or nil when the record carries
// no usable classification signal. It never mutates rec.
func (c *Classifier) Classify(rec types.TrainingRecord) *Classification {
	switch r := rec.(type) {
	case *types.RotationRecord:
		return c.rotation(r)
	case *types.CourseRecord:
		return c.course(r)
	case *types.SavedSubCertificate:
		return c.saved(r)
	case *types.PresetEntry:
		return c.preset(r)
	default:
		return nil
	}
}

func (c *Classifier) rotation(r *types.RotationRecord) *Classification {
	if r == nil || (r.ID == "" && r.Title == "" && r.StartDate == "" && r.EndDate == "") {
		return nil
	}
	cat, ok := c.match(types.KindRotation, r.Tags, r.Title, r.Site, r.Description)
	if !ok {
		return nil
	}
	id := r.ID
	if id == "" {
		id = strings.Join([]string{r.StartDate, r.EndDate, r.Title}, "-")
	}
	return &Classification{
		ID:       "pl-" + id,
		Category: cat.AnnexCategory,
		Label:    cat.Label(r.Title),
		Date:     isoDate(r.EndDate, r.StartDate),
		Origin:   types.OriginDerived,
	}
}

func (c *Classifier) course(r *types.CourseRecord) *Classification {
	if r == nil || (r.ShowOnTimeline != nil && !*r.ShowOnTimeline) {
		return nil
	}
	date := isoDate(r.CertificateDate, r.EndDate, r.StartDate)
	if strings.TrimSpace(r.Title) == "" && date == "" {
		return nil
	}
	cat, ok := c.match(types.KindCourse, r.Tags, r.Title, r.Site, r.Description)
	if !ok {
		return nil
	}
	id := r.ID
	if id == "" {
		id = date + "-" + r.Title
	}
	return &Classification{
		ID:       "cr-" + id,
		Category: cat.AnnexCategory,
		Label:    cat.Label(r.Title),
		Date:     date,
		Origin:   types.OriginDerived,
	}
}

func (c *Classifier) saved(r *types.SavedSubCertificate) *Classification {
	if r == nil || r.Key == "" {
		return nil
	}
	cat, ok := c.edition.SavedCategory(r.Key)
	if !ok {
		return nil
	}
	title := r.Label
	if title == "" {
		title = strings.Join(milestones.Normalize(r.Goals), ", ")
	}
	return &Classification{
		ID:       "saved-" + r.Key,
		Category: cat.AnnexCategory,
		Label:    cat.Label(title),
		Date:     isoDate(r.Date),
		Origin:   types.OriginSaved,
	}
}

func (c *Classifier) preset(r *types.PresetEntry) *Classification {
	if r == nil {
		return nil
	}
	p, ok := c.edition.Preset(r.PresetKey)
	if !ok {
		return nil
	}
	cat, ok := c.edition.Category(p.Category)
	if !ok {
		return nil
	}
	label := r.FixedLabel
	if label == "" {
		label = p.Label
	}
	return &Classification{
		ID:       "preset-" + p.Key,
		Category: cat.AnnexCategory,
		Label:    label,
		Date:     isoDate(r.Date),
		Origin:   types.OriginPreset,
	}
}

// match runs the edition rules in order over lowercased tags and text.
func (c *Classifier) match(kind types.RecordKind, tags []string, text ...string) (taxonomy.Category, bool) {
	lowerTags := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			lowerTags = append(lowerTags, t)
		}
	}
	joined := strings.ToLower(strings.Join(text, " "))

	for _, rule := range c.edition.Rules {
		if rule.Matches(kind, lowerTags, joined) {
			return c.edition.Category(rule.Category)
		}
	}
	return taxonomy.Category{}, false
}

// isoDate returns the first non-empty candidate cut to its YYYY-MM-DD prefix.
func isoDate(candidates ...string) string {
	for _, d := range candidates {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if len(d) > 10 {
			d = d[:10]
		}
		return d
	}
	return ""
}
