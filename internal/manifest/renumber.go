package manifest

import (
	"github.com/jonathan/dossier-builder/internal/numbering"
	"github.com/jonathan/dossier-builder/internal/types"
)

// Renumber returns a copy of items with sequence numbers 1..N in list order.
func Renumber(items []types.AttachmentItem) []types.AttachmentItem {
	out := make([]types.AttachmentItem, len(items))
	for i, item := range items {
		item.SequenceNumber = i + 1
		out[i] = item
	}
	return out
}

// CrossReferences collapses the sequence numbers of each named category into
// range notation. Categories without items map to "".
func CrossReferences(items []types.AttachmentItem, categories []string) map[string]string {
	nums := make(map[string][]int, len(categories))
	for _, item := range items {
		nums[item.Category.Name] = append(nums[item.Category.Name], item.SequenceNumber)
	}
	refs := make(map[string]string, len(categories))
	for _, name := range categories {
		refs[name] = numbering.Collapse(nums[name])
	}
	return refs
}
