// Package dossier builds attachment manifests for a dossier and renders its
// certificates.
package dossier

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/dossier-builder/internal/classify"
	"github.com/jonathan/dossier-builder/internal/documents"
	"github.com/jonathan/dossier-builder/internal/fields"
	"github.com/jonathan/dossier-builder/internal/layout"
	"github.com/jonathan/dossier-builder/internal/manifest"
	"github.com/jonathan/dossier-builder/internal/observability"
	"github.com/jonathan/dossier-builder/internal/rendering"
	"github.com/jonathan/dossier-builder/internal/taxonomy"
	"github.com/jonathan/dossier-builder/internal/templates"
	"github.com/jonathan/dossier-builder/internal/types"
)

// DefaultConcurrency bounds the number of certificates rendered at once by RenderBundle.
const DefaultConcurrency = 4

// Service builds manifests and renders certificates.
type Service struct {
	documents   *documents.Registry
	templates   templates.Source
	engine      *layout.Engine
	overlay     rendering.Overlayer
	resolver    *fields.Resolver
	logger      *zap.Logger
	metrics     *observability.Metrics
	now         func() time.Time
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock sets the clock used for preset dates and signing dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithConcurrency sets how many certificates RenderBundle renders at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithOverlayer replaces the PDF overlay.
func WithOverlayer(o rendering.Overlayer) Option {
	return func(s *Service) { s.overlay = o }
}

// WithMeasurer replaces the text measurer used for wrapping.
func WithMeasurer(m layout.Measurer) Option {
	return func(s *Service) { s.engine = layout.NewEngine(m) }
}

// New creates a service over the document registry and a template source.
func New(docs *documents.Registry, src templates.Source, opts ...Option) *Service {
	s := &Service{
		documents:   docs,
		templates:   src,
		engine:      layout.NewEngine(layout.HelveticaMeasurer{}),
		overlay:     rendering.NewPDFOverlay(),
		resolver:    fields.NewResolver(fields.DefaultPlaceholders...),
		logger:      zap.NewNop(),
		now:         time.Now,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is a built, numbered manifest together with what is needed to
// render its attachments.
type Result struct {
	Dossier         *types.Dossier
	Edition         *taxonomy.Edition
	Manifest        types.Manifest
	CrossReferences map[string]string
	Unclassified    int

	records map[string]types.TrainingRecord
}

// Rendered is one finished certificate.
type Rendered struct {
	AttachmentID string
	DocumentType string
	Pages        []rendering.Page
	PDF          []byte
}

// Build classifies and orders the dossier's records, applies its explicit
// order if any, and numbers the result.
func (s *Service) Build(d *types.Dossier) (*Result, error) {
	edition, err := taxonomy.Load(d.Edition)
	if err != nil {
		return nil, err
	}
	classifier := classify.New(edition)
	builder := manifest.NewBuilder(classifier, manifest.WithClock(s.now))

	m := builder.Build(d.Records, d.Presets, d.Prior)
	if len(d.Order) > 0 {
		m = manifest.Reorder(m, d.Order)
	} else {
		m.Items = manifest.Renumber(m.Items)
	}

	res := &Result{
		Dossier:         d,
		Edition:         edition,
		Manifest:        m,
		CrossReferences: manifest.CrossReferences(m.Items, edition.CategoryNames()),
		records:         make(map[string]types.TrainingRecord, len(d.Records)),
	}
	for _, rec := range d.Records {
		c := classifier.Classify(rec)
		if c == nil {
			res.Unclassified++
			s.logger.Debug("record matched no category",
				zap.String("edition", edition.Key),
				zap.String("kind", string(rec.RecordKind())),
				zap.String("record_id", rec.RecordID()))
			continue
		}
		if _, ok := res.records[c.ID]; !ok {
			res.records[c.ID] = rec
		}
	}

	s.metrics.IncrementBuild(edition.Key)
	s.metrics.AddUnclassified(edition.Key, res.Unclassified)
	s.logger.Info("manifest built",
		zap.String("edition", edition.Key),
		zap.Int("items", len(m.Items)),
		zap.Int("unclassified", res.Unclassified),
		zap.Int("skipped", d.Skipped),
		zap.Bool("user_reordered", m.UserReordered))
	return res, nil
}

// RenderAttachment renders the certificate of one manifest item.
func (s *Service) RenderAttachment(ctx context.Context, res *Result, attachmentID string) (*Rendered, error) {
	item, ok := res.Manifest.Find(attachmentID)
	if !ok {
		return nil, &NotFoundError{Resource: "attachment", ID: attachmentID}
	}
	if item.Category.Document == "" {
		return nil, &NotFoundError{Resource: "certificate document for category", ID: item.Category.Name}
	}
	sources := fields.Sources{
		documents.SourceProfile:  fields.StructSource(res.Dossier.Profile),
		documents.SourceActivity: s.activity(res, item),
		documents.SourceDerived:  s.derived(res, item),
	}
	return s.render(ctx, item.Category.Document, attachmentID, sources)
}

// RenderCover renders the edition's cover document, whose attachment index
// fields come from the cross-reference ranges.
func (s *Service) RenderCover(ctx context.Context, res *Result) (*Rendered, error) {
	if res.Edition.CoverDocument == "" {
		return nil, &NotFoundError{Resource: "cover document for edition", ID: res.Edition.Key}
	}
	sources := fields.Sources{
		documents.SourceProfile:  fields.StructSource(res.Dossier.Profile),
		documents.SourceDerived:  fields.StringSource{"place_date": placeDate(res.Dossier.Profile, "", s.now)},
		documents.SourceCrossRef: fields.StringSource(res.CrossReferences),
	}
	return s.render(ctx, res.Edition.CoverDocument, "", sources)
}

// RenderBundle renders every attachment that has a certificate document, in
// manifest order. The first failure cancels the remaining renders.
func (s *Service) RenderBundle(ctx context.Context, res *Result) ([]*Rendered, error) {
	var items []types.AttachmentItem
	for _, item := range res.Manifest.Items {
		if item.Category.Document == "" {
			s.logger.Debug("attachment has no certificate document",
				zap.String("attachment_id", item.ID),
				zap.String("category", item.Category.Name))
			continue
		}
		items = append(items, item)
	}

	out := make([]*Rendered, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, item := range items {
		g.Go(func() error {
			r, err := s.RenderAttachment(gctx, res, item.ID)
			if err != nil {
				return fmt.Errorf("failed to render attachment %s: %w", item.ID, err)
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) render(ctx context.Context, documentType, attachmentID string, sources fields.Sources) (rendered *Rendered, err error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRender(documentType, time.Since(start), err)
		if err != nil {
			s.logger.Warn("render failed",
				zap.String("document_type", documentType),
				zap.String("attachment_id", attachmentID),
				zap.Error(err))
		}
	}()

	doc, err := s.documents.Get(documentType)
	if err != nil {
		return nil, err
	}
	values := s.resolver.ResolveAll(doc.Fields, sources)
	pages, err := s.engine.Render(documentType, doc.Layout, values)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.templates.Load(ctx, documentType, doc.Template)
	if err != nil {
		return nil, err
	}
	pdf, err := s.overlay.Overlay(documentType, tmpl, pages)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("document rendered",
		zap.String("document_type", documentType),
		zap.String("attachment_id", attachmentID),
		zap.Int("pages", len(pages)),
		zap.Int("bytes", len(pdf)))
	return &Rendered{AttachmentID: attachmentID, DocumentType: documentType, Pages: pages, PDF: pdf}, nil
}

// activity is the record behind item. Preset items have no record of their
// own and are described by the item itself.
func (s *Service) activity(res *Result, item types.AttachmentItem) fields.MapSource {
	if rec, ok := res.records[item.ID]; ok {
		return fields.StructSource(rec)
	}
	key := strings.TrimPrefix(item.ID, "preset-")
	return fields.StructSource(&types.PresetEntry{
		PresetKey:  key,
		FixedLabel: item.Label,
		Date:       item.Date,
		Signer:     res.Dossier.Presets[key].Signer,
	})
}

func (s *Service) derived(res *Result, item types.AttachmentItem) fields.StringSource {
	src := fields.StringSource{
		"annex_number": strconv.Itoa(item.SequenceNumber),
		"place_date":   placeDate(res.Dossier.Profile, item.Date, s.now),
	}
	maps.Copy(src, serviceTable(serviceRows(res.Dossier.Records)))

	var signer types.Signer
	switch r := res.records[item.ID].(type) {
	case *types.RotationRecord:
		src["period"] = period(r.StartDate, r.EndDate)
		signer = r.Signer
	case *types.CourseRecord:
		src["period"] = period(r.StartDate, r.EndDate)
		signer = r.Signer
	case *types.SavedSubCertificate:
		signer = r.Signer
	}

	switch {
	case strings.EqualFold(signer.Type, types.SignerCourseLeader):
		src["signer_course_leader"] = "true"
	case signer.Type == "" || strings.EqualFold(signer.Type, types.SignerSupervisor):
		src["signer_supervisor"] = "true"
	}
	return src
}

func period(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return "fr.o.m. " + start
	case end != "":
		return "t.o.m. " + end
	default:
		return ""
	}
}

// placeDate is the "Ort och datum" line: the applicant's city and the item
// date, or today when the item has none.
func placeDate(p types.Profile, date string, now func() time.Time) string {
	if len(date) >= 10 {
		date = date[:10]
	} else {
		date = now().Format(time.DateOnly)
	}
	if city := strings.TrimSpace(p.City); city != "" {
		return city + ", " + date
	}
	return date
}
