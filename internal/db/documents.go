package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SaveDocument stores a rendered document, replacing an earlier render of the
// same attachment.
func (db *DB) SaveDocument(ctx context.Context, doc *Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO documents (id, dossier_id, attachment_id, document_type, pdf)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (dossier_id, attachment_id)
		 DO UPDATE SET document_type = $4, pdf = $5, created_at = NOW()
		 RETURNING id, created_at`,
		doc.ID, doc.DossierID, doc.AttachmentID, doc.DocumentType, doc.PDF,
	).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", doc.AttachmentID, err)
	}
	return nil
}

// ListDocuments returns the documents of a dossier without their PDF bytes.
func (db *DB) ListDocuments(ctx context.Context, dossierID uuid.UUID) ([]Document, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, dossier_id, attachment_id, document_type, created_at
		 FROM documents WHERE dossier_id = $1
		 ORDER BY created_at, attachment_id`,
		dossierID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.DossierID, &d.AttachmentID, &d.DocumentType, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}
