package manifest

import (
	"slices"
	"time"

	"github.com/jonathan/dossier-builder/internal/classify"
	"github.com/jonathan/dossier-builder/internal/taxonomy"
	"github.com/jonathan/dossier-builder/internal/types"
)

// Builder merges classified records, presets and saved certificates into a manifest.
type Builder struct {
	classifier *classify.Classifier
	now        func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the clock used for preset default dates.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder creates a builder over classifier.
func NewBuilder(classifier *classify.Classifier, opts ...Option) *Builder {
	b := &Builder{classifier: classifier, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build classifies records, expands the active presets and orders the result.
// Without a prior manifest, or when the prior manifest was never reordered by
// the user, items follow the default ordering. Otherwise the prior order of
// surviving items is kept, vanished items are dropped and new items are
// slotted in without disturbing the kept block. Inputs are never mutated and
// the returned items are not yet numbered.
func (b *Builder) Build(records []types.TrainingRecord, presets types.PresetToggles, prior *types.Manifest) types.Manifest {
	edition := b.classifier.Edition()
	ord := NewOrdering()

	candidates := b.candidates(records, presets)

	if prior == nil || !prior.UserReordered || (prior.Edition != "" && prior.Edition != edition.Key) {
		return types.Manifest{Edition: edition.Key, Items: ord.Sort(candidates)}
	}
	return types.Manifest{Edition: edition.Key, Items: merge(ord, prior.Items, candidates), UserReordered: true}
}

func (b *Builder) candidates(records []types.TrainingRecord, presets types.PresetToggles) []types.AttachmentItem {
	var items []types.AttachmentItem
	seen := make(map[string]bool)
	add := func(c *classify.Classification) {
		if c == nil || seen[c.ID] {
			return
		}
		seen[c.ID] = true
		items = append(items, c.Item())
	}

	for _, rec := range records {
		if saved, ok := rec.(*types.SavedSubCertificate); ok && (saved == nil || !saved.Visible) {
			continue
		}
		add(b.classifier.Classify(rec))
	}
	for _, entry := range b.presetEntries(presets) {
		add(b.classifier.Classify(entry))
	}
	return items
}

// presetEntries expands active toggles in preset table order.
func (b *Builder) presetEntries(presets types.PresetToggles) []*types.PresetEntry {
	var entries []*types.PresetEntry
	for _, p := range b.classifier.Edition().Presets {
		toggle, ok := presets[p.Key]
		if !ok || !toggle.Enabled {
			continue
		}
		entries = append(entries, &types.PresetEntry{
			PresetKey:  p.Key,
			FixedLabel: p.Label,
			Date:       b.presetDate(p, toggle),
			Signer:     toggle.Signer,
		})
	}
	return entries
}

func (b *Builder) presetDate(p taxonomy.Preset, toggle types.PresetToggle) string {
	if toggle.Date != "" {
		return toggle.Date
	}
	if p.DatePolicy == taxonomy.DateToday {
		return b.now().Format(time.DateOnly)
	}
	return ""
}

// merge keeps prior order for surviving ids and slots new items in. New items
// are sorted among themselves; each goes directly after the last kept item that
// the default order places at or before it, never before an earlier new item.
func merge(ord *Ordering, prior, candidates []types.AttachmentItem) []types.AttachmentItem {
	byID := make(map[string]types.AttachmentItem, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	var kept []types.AttachmentItem
	inPrior := make(map[string]bool, len(prior))
	for _, p := range prior {
		if c, ok := byID[p.ID]; ok && !inPrior[p.ID] {
			kept = append(kept, c)
		}
		inPrior[p.ID] = true
	}

	var fresh []types.AttachmentItem
	for _, c := range candidates {
		if !inPrior[c.ID] {
			fresh = append(fresh, c)
		}
	}
	fresh = ord.Sort(fresh)

	// gaps[i] lists the new items placed before kept[i]; the last gap trails.
	gaps := make([][]types.AttachmentItem, len(kept)+1)
	floor := 0
	for _, f := range fresh {
		gap := 0
		for i := len(kept) - 1; i >= 0; i-- {
			if ord.Compare(kept[i], f) <= 0 {
				gap = i + 1
				break
			}
		}
		gap = max(gap, floor)
		floor = gap
		gaps[gap] = append(gaps[gap], f)
	}

	out := make([]types.AttachmentItem, 0, len(kept)+len(fresh))
	for i := range kept {
		out = append(out, gaps[i]...)
		out = append(out, kept[i])
	}
	return append(out, gaps[len(kept)]...)
}

// Reorder applies an explicit caller order. Unknown ids are ignored and items
// the order does not mention keep their relative order after the named ones.
// UserReordered becomes true once the order differs from the default order
// and stays true until ResetOrder. The returned items are renumbered.
func Reorder(m types.Manifest, order []string) types.Manifest {
	byID := make(map[string]types.AttachmentItem, len(m.Items))
	for _, item := range m.Items {
		byID[item.ID] = item
	}

	items := make([]types.AttachmentItem, 0, len(m.Items))
	placed := make(map[string]bool, len(m.Items))
	for _, id := range order {
		item, ok := byID[id]
		if !ok || placed[id] {
			continue
		}
		placed[id] = true
		items = append(items, item)
	}
	for _, item := range m.Items {
		if !placed[item.ID] {
			items = append(items, item)
		}
	}

	reordered := m.UserReordered || !NewOrdering().IsSorted(items)
	return types.Manifest{Edition: m.Edition, Items: Renumber(items), UserReordered: reordered}
}

// Move relocates the item at index from to index to, as a drag gesture would.
func Move(m types.Manifest, from, to int) types.Manifest {
	if from < 0 || from >= len(m.Items) || to < 0 || to >= len(m.Items) || from == to {
		return Reorder(m, m.IDs())
	}
	ids := m.IDs()
	id := ids[from]
	ids = slices.Delete(ids, from, from+1)
	ids = slices.Insert(ids, to, id)
	return Reorder(m, ids)
}

// ResetOrder restores the default order and clears UserReordered.
func ResetOrder(m types.Manifest) types.Manifest {
	return types.Manifest{Edition: m.Edition, Items: Renumber(NewOrdering().Sort(m.Items))}
}
