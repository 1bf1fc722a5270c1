package types

// Origin records where an attachment item came from.
type Origin string

const (
	OriginDerived Origin = "derived"
	OriginPreset  Origin = "preset"
	OriginSaved   Origin = "saved"
)

// AnnexCategory is one row of an edition taxonomy.
type AnnexCategory struct {
	Name              string `json:"name" yaml:"name"`
	AnnexNumber       int    `json:"annex_number" yaml:"annex_number"`
	AnnexSubLetter    string `json:"annex_sub_letter,omitempty" yaml:"annex_sub_letter,omitempty"`
	SortGroupOverride int    `json:"sort_group_override,omitempty" yaml:"sort_group_override,omitempty"`
	Annex             string `json:"annex,omitempty" yaml:"annex,omitempty"`
	Document          string `json:"document,omitempty" yaml:"document,omitempty"`
}

// AttachmentItem is one numbered entry of a manifest.
type AttachmentItem struct {
	ID             string        `json:"id"`
	Category       AnnexCategory `json:"category"`
	Label          string        `json:"label"`
	Date           string        `json:"date,omitempty"`
	Origin         Origin        `json:"origin"`
	SequenceNumber int           `json:"sequence_number"`
}

// Manifest is the ordered list of attachments of a dossier.
type Manifest struct {
	Edition       string           `json:"edition"`
	Items         []AttachmentItem `json:"items"`
	UserReordered bool             `json:"user_reordered"`
}

// Find returns the item with the given id.
func (m Manifest) Find(id string) (AttachmentItem, bool) {
	for _, item := range m.Items {
		if item.ID == id {
			return item, true
		}
	}
	return AttachmentItem{}, false
}

// IDs returns item ids in manifest order.
func (m Manifest) IDs() []string {
	ids := make([]string, len(m.Items))
	for i, item := range m.Items {
		ids[i] = item.ID
	}
	return ids
}
