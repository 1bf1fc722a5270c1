package documents

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/dossier-builder/internal/fields"
	"github.com/jonathan/dossier-builder/internal/layout"
	"github.com/jonathan/dossier-builder/internal/taxonomy"
)

func TestLoad_AllEmbeddedLayoutsParse(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2015-auskultation", "2015-kurs", "2015-kvalitet", "2015-placering", "2015-skriftligt",
	}, reg.Types("2015"))
	assert.Equal(t, []string{"2021-bt-bilaga-1", "2021-bt-bilaga-2", "2021-bt-bilaga-3", "2021-bt-bilaga-4"}, reg.Types("2021-bt"))
	assert.Len(t, reg.Types(""), 14)
}

func TestLoad_EveryCategoryDocumentExists(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	for _, key := range taxonomy.Keys() {
		e, err := taxonomy.Load(key)
		require.NoError(t, err)
		for _, c := range e.Categories {
			if c.Document == "" {
				continue
			}
			d, err := reg.Get(c.Document)
			require.NoError(t, err, "category %s", c.Name)
			assert.Equal(t, key, d.Edition, "category %s", c.Name)
		}
		if e.CoverDocument != "" {
			_, err := reg.Get(e.CoverDocument)
			assert.NoError(t, err)
		}
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	_, err = reg.Get("1999-bilaga-1")
	var le *LayoutError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "1999-bilaga-1", le.DocumentType)
	assert.Equal(t, "layout error: 1999-bilaga-1: unknown document type", err.Error())
}

func TestDocument_CoverPages(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	cover, err := reg.Get("2021-bt-bilaga-1")
	require.NoError(t, err)
	assert.Equal(t, 2, cover.Pages())
	assert.Equal(t, SourceCrossRef, cover.Fields.Chains["bilagor_fullgjord"][0].Source)
	assert.Equal(t, "Fullgjord bastjänstgöring", cover.Fields.Chains["bilagor_fullgjord"][0].Path)
	assert.Equal(t, 717.5, cover.Layout["bilagor_delmal"].Y)
}

func TestDocument_CourseSignerOverrides(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)
	doc, err := reg.Get("2021-bilaga-10")
	require.NoError(t, err)

	profile := fields.MapSource{"supervisor": map[string]any{"name": "Eva Ek"}}
	r := fields.NewResolver(fields.DefaultPlaceholders...)

	byDefault := r.ResolveAll(doc.Fields, fields.Sources{
		SourceProfile:  profile,
		SourceActivity: fields.MapSource{"course_leader": map[string]any{"name": "Per Persson"}},
	})
	assert.Equal(t, "Eva Ek", byDefault["namnfortydligande"])

	courseLeader := r.ResolveAll(doc.Fields, fields.Sources{
		SourceProfile: profile,
		SourceActivity: fields.MapSource{
			"course_leader": map[string]any{"name": "Per Persson"},
			"signer":        map[string]any{"type": "KURSLEDARE"},
		},
	})
	assert.Equal(t, "Per Persson", courseLeader["namnfortydligande"])

	other := r.ResolveAll(doc.Fields, fields.Sources{
		SourceProfile: profile,
		SourceActivity: fields.MapSource{
			"signer": map[string]any{"type": "OTHER", "use_other": true, "name": "Kim Berg"},
		},
	})
	assert.Equal(t, "Kim Berg", other["namnfortydligande"])
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]struct {
		yaml string
		want string
	}{
		"bad yaml": {
			yaml: "type: [",
			want: "failed to parse layout YAML",
		},
		"missing type": {
			yaml: "template: a.pdf\nlayout:\n  a: {x: 1, y: 2}\n",
			want: "document type is empty",
		},
		"missing template": {
			yaml: "type: t\nlayout:\n  a: {x: 1, y: 2}\n",
			want: "template path is empty",
		},
		"no chain": {
			yaml: "type: t\ntemplate: a.pdf\nlayout:\n  a: {x: 1, y: 2}\n",
			want: "layout error: t.a: field has no resolution chain",
		},
		"wrap without width": {
			yaml: "type: t\ntemplate: a.pdf\nlayout:\n  a: {x: 1, y: 2, kind: wrap}\nfields:\n  chains:\n    a: [{source: profile, path: x}]\n",
			want: "wrap field needs max_width",
		},
		"unknown kind": {
			yaml: "type: t\ntemplate: a.pdf\nlayout:\n  a: {x: 1, y: 2, kind: barcode}\nfields:\n  chains:\n    a: [{source: profile, path: x}]\n",
			want: `unknown field kind "barcode"`,
		},
		"unknown source": {
			yaml: "type: t\ntemplate: a.pdf\nlayout:\n  a: {x: 1, y: 2}\nfields:\n  chains:\n    a: [{source: weather, path: x}]\n",
			want: `unknown source "weather"`,
		},
		"chain outside layout": {
			yaml: "type: t\ntemplate: a.pdf\nlayout:\n  a: {x: 1, y: 2}\nfields:\n  chains:\n    a: [{source: profile, path: x}]\n    b: [{source: profile, path: y}]\n",
			want: "layout error: t.b: chain for field missing from layout",
		},
		"override without condition": {
			yaml: "type: t\ntemplate: a.pdf\nlayout:\n  a: {x: 1, y: 2}\nfields:\n  chains:\n    a: [{source: profile, path: x}]\n  overrides:\n    - name: o\n      chains:\n        a: [{source: activity, path: y}]\n",
			want: `override "o" has no condition`,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParse_Minimal(t *testing.T) {
	d, err := Parse([]byte(`
type: t
template: a.pdf
layout:
  name: {page: 1, x: 10, y: 20, kind: wrap, max_width: 100}
fields:
  chains:
    name:
      - {source: profile, path: first_name}
`))
	require.NoError(t, err)
	assert.Equal(t, layout.KindWrap, d.Layout["name"].Kind)
	assert.Equal(t, 2, d.Pages())
}
