package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/dossier-builder/internal/documents"
	"github.com/jonathan/dossier-builder/internal/dossier"
	"github.com/jonathan/dossier-builder/internal/rendering"
	"github.com/jonathan/dossier-builder/internal/schemas"
	"github.com/jonathan/dossier-builder/internal/taxonomy"
	"github.com/jonathan/dossier-builder/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ErrValidation{Field: "id", Message: "invalid"}, http.StatusBadRequest},
		{"schema", &schemas.ValidationError{}, http.StatusBadRequest},
		{"field validation", (&types.ReorderRequest{}).Validate(), http.StatusBadRequest},
		{"unknown edition", &taxonomy.LoadError{Edition: "1999", Message: "unknown edition"}, http.StatusUnprocessableEntity},
		{"not found", &dossier.NotFoundError{Resource: "attachment", ID: "x"}, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("failed: %w", &dossier.NotFoundError{Resource: "attachment", ID: "x"}), http.StatusNotFound},
		{"store unavailable", ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"template", &rendering.TemplateLoadError{DocumentType: "2021-bilaga-9"}, http.StatusBadGateway},
		{"render", &rendering.RenderError{DocumentType: "2021-bilaga-9"}, http.StatusInternalServerError},
		{"layout", &documents.LayoutError{DocumentType: "x"}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
