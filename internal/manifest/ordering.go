// Package manifest builds, orders and numbers the attachment list of a dossier.
package manifest

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jonathan/dossier-builder/internal/types"
)

// Ordering implements the default attachment order: annex number, annex sub
// letter (absent first), sort group, date (missing last), label in Swedish
// collation, and finally id. An Ordering is not safe for concurrent use.
type Ordering struct {
	col *collate.Collator
}

// NewOrdering creates an ordering with a Swedish collator.
func NewOrdering() *Ordering {
	return &Ordering{col: collate.New(language.Swedish)}
}

// Compare returns a negative number when a sorts before b, a positive number
// when b sorts before a, and zero only for items equal under every key.
func (o *Ordering) Compare(a, b types.AttachmentItem) int {
	if c := cmp.Compare(a.Category.AnnexNumber, b.Category.AnnexNumber); c != 0 {
		return c
	}
	if c := compareSubLetter(a.Category.AnnexSubLetter, b.Category.AnnexSubLetter); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Category.SortGroupOverride, b.Category.SortGroupOverride); c != 0 {
		return c
	}
	if c := compareDate(a.Date, b.Date); c != 0 {
		return c
	}
	if c := o.col.CompareString(a.Label, b.Label); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// Sort returns a sorted copy of items.
func (o *Ordering) Sort(items []types.AttachmentItem) []types.AttachmentItem {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, o.Compare)
	return sorted
}

// IsSorted reports whether items are already in default order.
func (o *Ordering) IsSorted(items []types.AttachmentItem) bool {
	return slices.IsSortedFunc(items, o.Compare)
}

func compareSubLetter(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func compareDate(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	default:
		return strings.Compare(a, b)
	}
}
