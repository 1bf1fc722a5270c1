package types

import (
	"github.com/go-playground/validator/v10"
)

// ReorderRequest is an explicit caller-supplied manifest order.
type ReorderRequest struct {
	Order []string `json:"order" validate:"required,min=1,dive,required"`
}

// Validate validates the ReorderRequest using the validator.
func (r *ReorderRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// MoveRequest moves the item at manifest position From to position To.
// Positions are zero-based.
type MoveRequest struct {
	From *int `json:"from" validate:"required,min=0"`
	To   *int `json:"to" validate:"required,min=0"`
}

// Validate validates the MoveRequest using the validator.
func (r *MoveRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// EditionRequest carries the edition key every dossier request must name.
type EditionRequest struct {
	Edition string `json:"edition" validate:"required,oneof=2015 2021 2021-bt"`
}

// Validate validates the EditionRequest using the validator.
func (r *EditionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// DossierResponse is the API view of a stored dossier.
type DossierResponse struct {
	ID        string              `json:"id"`
	Edition   string              `json:"edition"`
	Manifest  Manifest            `json:"manifest"`
	Index     map[string]string   `json:"index,omitempty"`
	Documents []DocumentReference `json:"documents,omitempty"`
}

// DocumentReference points at a stored rendered document.
type DocumentReference struct {
	ID           string `json:"id"`
	AttachmentID string `json:"attachment_id"`
	DocumentType string `json:"document_type"`
}
