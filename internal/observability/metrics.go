package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for manifest building and document rendering.
type Metrics struct {
	// Manifest builds by edition
	ManifestBuilds *prometheus.CounterVec

	// Records dropped because they matched no category, by edition
	UnclassifiedRecords *prometheus.CounterVec

	// Rendered documents by document type and outcome
	DocumentRenders *prometheus.CounterVec

	// Render latency by document type, including template loading
	RenderLatency *prometheus.HistogramVec
}

// NewMetrics creates and registers the metrics on reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		ManifestBuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_manifest_builds_total",
			Help: "Total manifest builds by edition",
		}, []string{"edition"}),

		UnclassifiedRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_unclassified_records_total",
			Help: "Training records excluded from a manifest because no category matched",
		}, []string{"edition"}),

		DocumentRenders: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_document_renders_total",
			Help: "Rendered documents by document type and outcome",
		}, []string{"document_type", "outcome"}), // outcome: "ok", "error"

		RenderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dossier_document_render_duration_seconds",
			Help:    "Duration of rendering one document including template loading",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"document_type"}),
	}
}

// IncrementBuild records a manifest build.
func (m *Metrics) IncrementBuild(edition string) {
	if m != nil {
		m.ManifestBuilds.WithLabelValues(edition).Inc()
	}
}

// AddUnclassified records records that were dropped from a manifest.
func (m *Metrics) AddUnclassified(edition string, n int) {
	if m != nil && n > 0 {
		m.UnclassifiedRecords.WithLabelValues(edition).Add(float64(n))
	}
}

// ObserveRender records the outcome and duration of one document render.
func (m *Metrics) ObserveRender(documentType string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.DocumentRenders.WithLabelValues(documentType, outcome).Inc()
	m.RenderLatency.WithLabelValues(documentType).Observe(d.Seconds())
}
