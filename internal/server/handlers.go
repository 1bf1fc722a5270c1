package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/dossier-builder/internal/db"
	"github.com/jonathan/dossier-builder/internal/dossier"
	"github.com/jonathan/dossier-builder/internal/manifest"
	"github.com/jonathan/dossier-builder/internal/schemas"
	"github.com/jonathan/dossier-builder/internal/types"
)

// MaxBodyBytes caps dossier request bodies.
const MaxBodyBytes = 5 << 20

// CoverAttachmentID is the attachment id under which rendered cover documents are stored.
const CoverAttachmentID = "cover"

// manifestResponse is the stateless build result.
type manifestResponse struct {
	Manifest     types.Manifest    `json:"manifest"`
	Index        map[string]string `json:"index"`
	Unclassified int               `json:"unclassified"`
}

// indexEntry is one row of the attachment index, in taxonomy order.
type indexEntry struct {
	Category    string `json:"category"`
	Annex       string `json:"annex,omitempty"`
	Attachments string `json:"attachments"`
}

func (s *Server) handleBuildManifest(w http.ResponseWriter, r *http.Request) {
	_, d, err := s.readDossier(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := s.service.Build(d)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, manifestResponse{
		Manifest:     res.Manifest,
		Index:        res.CrossReferences,
		Unclassified: res.Unclassified,
	})
}

func (s *Server) handleCreateDossier(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.fail(w, ErrStoreUnavailable)
		return
	}
	body, d, err := s.readDossier(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := s.service.Build(d)
	if err != nil {
		s.fail(w, err)
		return
	}
	encoded, err := json.Marshal(res.Manifest)
	if err != nil {
		s.fail(w, fmt.Errorf("failed to encode manifest: %w", err))
		return
	}

	rec := &db.Dossier{Edition: res.Edition.Key, Input: body, Manifest: encoded}
	if err := s.store.CreateDossier(r.Context(), rec); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Location", "/api/dossiers/"+rec.ID.String())
	s.jsonResponse(w, http.StatusCreated, dossierResponse(rec.ID, res, nil))
}

func (s *Server) handleGetDossier(w http.ResponseWriter, r *http.Request) {
	id, d, err := s.stored(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := s.service.Build(d)
	if err != nil {
		s.fail(w, err)
		return
	}
	docs, err := s.store.ListDocuments(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, dossierResponse(id, res, docs))
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req types.ReorderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&req); err != nil {
		s.fail(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, err)
		return
	}
	id, d, err := s.stored(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	d.Order = req.Order
	s.rebuild(r.Context(), w, id, d)
}

// handleMove moves one item, keeping the rest of the stored order.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req types.MoveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&req); err != nil {
		s.fail(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, err)
		return
	}
	id, d, err := s.stored(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := s.service.Build(d)
	if err != nil {
		s.fail(w, err)
		return
	}
	if n := len(res.Manifest.Items); *req.From >= n || *req.To >= n {
		s.fail(w, &ErrValidation{Field: "from", Message: fmt.Sprintf("positions must be below %d", n)})
		return
	}
	d.Order = manifest.Move(res.Manifest, *req.From, *req.To).IDs()
	s.rebuild(r.Context(), w, id, d)
}

func (s *Server) handleResetOrder(w http.ResponseWriter, r *http.Request) {
	id, d, err := s.stored(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	if d.Prior != nil {
		reset := manifest.ResetOrder(*d.Prior)
		d.Prior = &reset
	}
	s.rebuild(r.Context(), w, id, d)
}

// rebuild builds d, stores the new manifest and writes the dossier.
func (s *Server) rebuild(ctx context.Context, w http.ResponseWriter, id uuid.UUID, d *types.Dossier) {
	res, err := s.service.Build(d)
	if err != nil {
		s.fail(w, err)
		return
	}
	encoded, err := json.Marshal(res.Manifest)
	if err != nil {
		s.fail(w, fmt.Errorf("failed to encode manifest: %w", err))
		return
	}
	ok, err := s.store.UpdateManifest(ctx, id, encoded)
	if err != nil {
		s.fail(w, err)
		return
	}
	if !ok {
		s.fail(w, &dossier.NotFoundError{Resource: "dossier", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, dossierResponse(id, res, nil))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, d, err := s.stored(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := s.service.Build(d)
	if err != nil {
		s.fail(w, err)
		return
	}
	entries := make([]indexEntry, 0, len(res.Edition.Categories))
	for _, cat := range res.Edition.Categories {
		entries = append(entries, indexEntry{
			Category:    cat.Name,
			Annex:       cat.Annex,
			Attachments: res.CrossReferences[cat.Name],
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"edition": res.Edition.Key, "index": entries})
}

func (s *Server) handleRenderDocument(w http.ResponseWriter, r *http.Request) {
	id, d, err := s.stored(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := s.service.Build(d)
	if err != nil {
		s.fail(w, err)
		return
	}
	rendered, err := s.service.RenderAttachment(r.Context(), res, chi.URLParam(r, "attachmentID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writePDF(r.Context(), w, id, rendered.AttachmentID, rendered)
}

func (s *Server) handleRenderCover(w http.ResponseWriter, r *http.Request) {
	id, d, err := s.stored(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := s.service.Build(d)
	if err != nil {
		s.fail(w, err)
		return
	}
	rendered, err := s.service.RenderCover(r.Context(), res)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writePDF(r.Context(), w, id, CoverAttachmentID, rendered)
}

func (s *Server) handleRenderBundle(w http.ResponseWriter, r *http.Request) {
	id, d, err := s.stored(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := s.service.Build(d)
	if err != nil {
		s.fail(w, err)
		return
	}
	bundle, err := s.service.RenderBundle(r.Context(), res)
	if err != nil {
		s.fail(w, err)
		return
	}
	refs := make([]types.DocumentReference, 0, len(bundle))
	for _, rendered := range bundle {
		doc, err := s.save(r.Context(), id, rendered.AttachmentID, rendered)
		if err != nil {
			s.fail(w, err)
			return
		}
		refs = append(refs, documentReference(*doc))
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{"documents": refs})
}

func (s *Server) writePDF(ctx context.Context, w http.ResponseWriter, id uuid.UUID, attachmentID string, rendered *dossier.Rendered) {
	doc, err := s.save(ctx, id, attachmentID, rendered)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", attachmentID+".pdf"))
	w.Header().Set("X-Document-ID", doc.ID.String())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rendered.PDF); err != nil {
		s.logger.Warn("failed to write PDF", zap.Error(err))
	}
}

func (s *Server) save(ctx context.Context, id uuid.UUID, attachmentID string, rendered *dossier.Rendered) (*db.Document, error) {
	doc := &db.Document{
		DossierID:    id,
		AttachmentID: attachmentID,
		DocumentType: rendered.DocumentType,
		PDF:          rendered.PDF,
	}
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// readDossier reads, schema-validates and parses a dossier request body.
func (s *Server) readDossier(w http.ResponseWriter, r *http.Request) ([]byte, *types.Dossier, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if err := schemas.ValidateDossier(body); err != nil {
		return nil, nil, err
	}
	d, err := types.ParseDossier(body)
	if err != nil {
		return nil, nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	return body, d, nil
}

// stored loads the dossier named by the {id} route parameter. Its stored
// manifest becomes the prior manifest, so user ordering survives rebuilds.
func (s *Server) stored(r *http.Request) (uuid.UUID, *types.Dossier, error) {
	if s.store == nil {
		return uuid.Nil, nil, ErrStoreUnavailable
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	rec, err := s.store.GetDossier(r.Context(), id)
	if err != nil {
		return uuid.Nil, nil, err
	}
	if rec == nil {
		return uuid.Nil, nil, &dossier.NotFoundError{Resource: "dossier", ID: id.String()}
	}

	d, err := types.ParseDossier(rec.Input)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to load dossier %s: %w", id, err)
	}
	d.Order = nil
	d.Prior = nil
	if len(rec.Manifest) > 0 {
		var prior types.Manifest
		if err := json.Unmarshal(rec.Manifest, &prior); err != nil {
			return uuid.Nil, nil, fmt.Errorf("failed to load manifest of dossier %s: %w", id, err)
		}
		d.Prior = &prior
	}
	return id, d, nil
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		s.jsonResponse(w, status, map[string]any{"error": "invalid dossier", "details": schemaErr.Messages()})
		return
	}
	s.errorResponse(w, status, err.Error())
}

func dossierResponse(id uuid.UUID, res *dossier.Result, docs []db.Document) types.DossierResponse {
	out := types.DossierResponse{
		ID:       id.String(),
		Edition:  res.Edition.Key,
		Manifest: res.Manifest,
		Index:    res.CrossReferences,
	}
	for _, doc := range docs {
		out.Documents = append(out.Documents, documentReference(doc))
	}
	return out
}

func documentReference(doc db.Document) types.DocumentReference {
	return types.DocumentReference{
		ID:           doc.ID.String(),
		AttachmentID: doc.AttachmentID,
		DocumentType: doc.DocumentType,
	}
}
