// Package server provides the HTTP API for building dossier manifests and
// rendering their certificates.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/dossier-builder/internal/dossier"
	"github.com/jonathan/dossier-builder/internal/rendering"
	"github.com/jonathan/dossier-builder/internal/schemas"
	"github.com/jonathan/dossier-builder/internal/taxonomy"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrStoreUnavailable is returned by stored-dossier routes when no database is configured.
var ErrStoreUnavailable = errors.New("dossier storage is not configured")

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		schemaErr     *schemas.ValidationError
		fieldErrs     validator.ValidationErrors
		editionErr    *taxonomy.LoadError
		notFound      *dossier.NotFoundError
		templateErr   *rendering.TemplateLoadError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &schemaErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &editionErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &templateErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
