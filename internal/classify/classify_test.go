package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/dossier-builder/internal/taxonomy"
	"github.com/jonathan/dossier-builder/internal/types"
)

func classifier(t *testing.T, edition string) *Classifier {
	t.Helper()
	e, err := taxonomy.Load(edition)
	require.NoError(t, err)
	return New(e)
}

func boolPtr(b bool) *bool { return &b }

func TestClassify_RotationDefaultsToClinical(t *testing.T) {
	c := classifier(t, "2021")
	got := c.Classify(&types.RotationRecord{ID: "r1", Title: "Medicine", StartDate: "2023-01-01", EndDate: "2023-06-30T00:00:00Z"})

	require.NotNil(t, got)
	assert.Equal(t, "pl-r1", got.ID)
	assert.Equal(t, "Kliniska tjänstgöringar under handledning", got.Category.Name)
	assert.Equal(t, 9, got.Category.AnnexNumber)
	assert.Equal(t, "Klinisk tjänstgöring: Medicine", got.Label)
	assert.Equal(t, "2023-06-30", got.Date)
	assert.Equal(t, types.OriginDerived, got.Origin)
}

func TestClassify_RotationHeuristics(t *testing.T) {
	c := classifier(t, "2021")
	cases := []struct {
		name     string
		rec      *types.RotationRecord
		category string
	}{
		{"auskultation tag", &types.RotationRecord{ID: "a", Tags: []string{"Auskultation"}}, "Auskultationer"},
		{"auskultation text", &types.RotationRecord{ID: "b", Site: "Auskultation på hudkliniken"}, "Auskultationer"},
		{"quality work", &types.RotationRecord{ID: "c", Tags: []string{"Kvalitetsarbete"}}, "Utvecklingsarbete"},
		{"science", &types.RotationRecord{ID: "d", Tags: []string{"Vetenskapligt arbete"}}, "Vetenskapligt arbete"},
	}
	for _, tc := range cases {
		got := c.Classify(tc.rec)
		require.NotNil(t, got, tc.name)
		assert.Equal(t, tc.category, got.Category.Name, tc.name)
	}
}

func TestClassify_RotationWithoutSignals(t *testing.T) {
	c := classifier(t, "2021")
	assert.Nil(t, c.Classify(&types.RotationRecord{}))
}

func TestClassify_BTRotationWithoutMatchingRule(t *testing.T) {
	c := classifier(t, "2021-bt")
	assert.Nil(t, c.Classify(&types.RotationRecord{ID: "r1", Title: "Medicin"}))

	got := c.Classify(&types.RotationRecord{ID: "r2", Title: "Vikariat", Tags: []string{"Före legitimation"}})
	require.NotNil(t, got)
	assert.Equal(t, "Tjänstgöring före legitimation: Vikariat", got.Label)
}

func TestClassify_CourseDatePriority(t *testing.T) {
	c := classifier(t, "2021")
	got := c.Classify(&types.CourseRecord{ID: "k1", Title: "ECG course", StartDate: "2024-01-01", EndDate: "2024-01-03", CertificateDate: "2024-02-01"})

	require.NotNil(t, got)
	assert.Equal(t, "cr-k1", got.ID)
	assert.Equal(t, "Kurser", got.Category.Name)
	assert.Equal(t, "Kurs: ECG course", got.Label)
	assert.Equal(t, "2024-02-01", got.Date)

	noCert := c.Classify(&types.CourseRecord{ID: "k2", Title: "X", StartDate: "2024-01-01", EndDate: "2024-01-03"})
	assert.Equal(t, "2024-01-03", noCert.Date)
}

func TestClassify_CourseHiddenFromTimeline(t *testing.T) {
	c := classifier(t, "2021")
	assert.Nil(t, c.Classify(&types.CourseRecord{ID: "k1", Title: "Dold", ShowOnTimeline: boolPtr(false)}))
	assert.NotNil(t, c.Classify(&types.CourseRecord{ID: "k1", Title: "Synlig", ShowOnTimeline: boolPtr(true)}))
}

func TestClassify_CourseWithoutTitleOrDate(t *testing.T) {
	c := classifier(t, "2021")
	assert.Nil(t, c.Classify(&types.CourseRecord{ID: "k1"}))
}

func TestClassify_CourseFallbackID(t *testing.T) {
	c := classifier(t, "2021")
	got := c.Classify(&types.CourseRecord{Title: "Etik", CertificateDate: "2024-03-01"})
	require.NotNil(t, got)
	assert.Equal(t, "cr-2024-03-01-Etik", got.ID)
}

func TestClassify_Preset(t *testing.T) {
	c := classifier(t, "2021")
	got := c.Classify(&types.PresetEntry{PresetKey: "serviceCompletion", Date: "2025-01-15"})

	require.NotNil(t, got)
	assert.Equal(t, "preset-serviceCompletion", got.ID)
	assert.Equal(t, 0, got.Category.AnnexNumber)
	assert.Equal(t, "Intyg om fullgjord specialiseringstjänstgöring", got.Label)
	assert.Equal(t, types.OriginPreset, got.Origin)

	assert.Nil(t, c.Classify(&types.PresetEntry{PresetKey: "nope"}))
}

func TestClassify_SavedCertificate(t *testing.T) {
	c := classifier(t, "2021-bt")
	got := c.Classify(&types.SavedSubCertificate{Key: "bt-goals-1", Goals: []string{"BT3", "BT1"}, Visible: true})

	require.NotNil(t, got)
	assert.Equal(t, "saved-bt-goals-1", got.ID)
	assert.Equal(t, "Delmål i bastjänstgöringen: bt1, bt3", got.Label)
	assert.Equal(t, types.OriginSaved, got.Origin)

	assert.Nil(t, c.Classify(&types.SavedSubCertificate{Key: "unknown"}))
}

func TestClassify_Idempotent(t *testing.T) {
	c := classifier(t, "2021")
	records := []types.TrainingRecord{
		&types.RotationRecord{ID: "r1", Title: "Medicine", Tags: []string{"ausk"}},
		&types.CourseRecord{ID: "k1", Title: "ECG"},
		&types.PresetEntry{PresetKey: "sta3"},
		&types.SavedSubCertificate{Key: "x"},
	}
	for _, r := range records {
		assert.Equal(t, c.Classify(r), c.Classify(r))
	}
}

func TestClassify_DoesNotMutate(t *testing.T) {
	c := classifier(t, "2021")
	rec := &types.RotationRecord{ID: "r1", Title: " Medicine ", Tags: []string{" AUSK "}}
	c.Classify(rec)
	assert.Equal(t, []string{" AUSK "}, rec.Tags)
	assert.Equal(t, " Medicine ", rec.Title)
}

func TestClassify_NilAndUnknown(t *testing.T) {
	c := classifier(t, "2021")
	assert.Nil(t, c.Classify(nil))
	var rot *types.RotationRecord
	assert.Nil(t, c.Classify(rot))
}

func TestClassification_Item(t *testing.T) {
	cl := &Classification{ID: "pl-1", Label: "L", Date: "2024-01-01", Origin: types.OriginDerived}
	item := cl.Item()
	assert.Equal(t, "pl-1", item.ID)
	assert.Equal(t, 0, item.SequenceNumber)
}
