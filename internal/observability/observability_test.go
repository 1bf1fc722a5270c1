package observability

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/jonathan/dossier-builder/internal/types"
)

func TestPrintManifest(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintManifest(types.Manifest{
		Items: []types.AttachmentItem{
			{ID: "preset-serviceCompletion", SequenceNumber: 1, Label: "Intyg om fullgjord specialiseringstjänstgöring", Category: types.AnnexCategory{Name: "Fullgjord specialiseringstjänstgöring", Annex: "HSLF-FS 2021:8 - Bilaga 6"}, Origin: types.OriginPreset},
			{ID: "pl-r1", SequenceNumber: 2, Label: "Klinisk tjänstgöring: Medicine", Category: types.AnnexCategory{Name: "Kliniska tjänstgöringar under handledning", AnnexNumber: 9}, Date: "2023-06-30", Origin: types.OriginDerived},
		},
		UserReordered: true,
	})
	out := buf.String()

	assert.Contains(t, out, "LABEL")
	assert.Contains(t, out, "HSLF-FS 2021:8 - Bilaga 6")
	assert.Contains(t, out, "Klinisk tjänstgöring: Medicine")
	assert.Contains(t, out, "2023-06-30")
	assert.Contains(t, out, "ORDER SET BY USER")
}

func TestPrintEditions(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintEditions([]EditionRow{
		{Key: "2021", Title: "HSLF-FS 2021:8", Cover: "2021-ansokan", Documents: []string{"2021-bilaga-8", "2021-bilaga-9"}},
		{Key: "2015", Title: "SOSFS 2015:8", Documents: []string{"2015-kurs"}},
	})
	out := buf.String()
	assert.Contains(t, out, "2021-ansokan")
	assert.Contains(t, out, "2021-bilaga-9")
	assert.Contains(t, out, "SOSFS 2015:8")
	assert.Contains(t, out, "-")
}

func TestPrintCrossReferences(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCrossReferences(
		[]string{"Kurser", "Auskultationer"},
		map[string]string{"Kurser": "3-4, 7", "Auskultationer": ""},
	)
	out := buf.String()
	assert.Contains(t, out, "ATTACHMENT INDEX")
	assert.Contains(t, out, "Kurser  3-4, 7")
	assert.NotContains(t, out, "Auskultationer")
}

func TestPrintCrossReferences_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCrossReferences([]string{"Kurser"}, nil)
	assert.Contains(t, buf.String(), "(no attachments)")
}

func TestPrintValidation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.PrintValidation("d.json", nil)
	assert.Contains(t, buf.String(), "d.json: ok")

	buf.Reset()
	p.PrintValidation("d.json", []string{"edition: is required"})
	assert.Contains(t, buf.String(), "1 error(s)")
	assert.Contains(t, buf.String(), "edition: is required")
}

func TestMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.IncrementBuild("2021")
	m.IncrementBuild("2021")
	m.AddUnclassified("2021", 3)
	m.AddUnclassified("2021", 0)
	m.ObserveRender("2021-bilaga-9", 10*time.Millisecond, nil)
	m.ObserveRender("2021-bilaga-9", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ManifestBuilds.WithLabelValues("2021")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.UnclassifiedRecords.WithLabelValues("2021")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentRenders.WithLabelValues("2021-bilaga-9", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentRenders.WithLabelValues("2021-bilaga-9", "error")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementBuild("2021")
		m.AddUnclassified("2021", 1)
		m.ObserveRender("x", time.Second, nil)
	})
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = NewLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger("loud", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
