package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Dossier is a stored dossier row. Input is the raw request JSON and Manifest
// the last built manifest, which is passed back as the prior manifest on
// every rebuild.
type Dossier struct {
	ID        uuid.UUID       `json:"id"`
	Edition   string          `json:"edition"`
	Input     json.RawMessage `json:"input"`
	Manifest  json.RawMessage `json:"manifest"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Document is a rendered attachment certificate.
type Document struct {
	ID           uuid.UUID `json:"id"`
	DossierID    uuid.UUID `json:"dossier_id"`
	AttachmentID string    `json:"attachment_id"`
	DocumentType string    `json:"document_type"`
	PDF          []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
