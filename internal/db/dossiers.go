package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateDossier stores a new dossier and fills in its ID and timestamps.
func (db *DB) CreateDossier(ctx context.Context, d *Dossier) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO dossiers (id, edition, input, manifest)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		d.ID, d.Edition, []byte(d.Input), []byte(d.Manifest),
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create dossier: %w", err)
	}
	return nil
}

// GetDossier retrieves a dossier by ID. It returns nil when none exists.
func (db *DB) GetDossier(ctx context.Context, id uuid.UUID) (*Dossier, error) {
	var d Dossier
	var input, manifest []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, edition, input, manifest, created_at, updated_at
		 FROM dossiers WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Edition, &input, &manifest, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dossier: %w", err)
	}
	d.Input = input
	d.Manifest = manifest
	return &d, nil
}

// UpdateManifest replaces the stored manifest of a dossier. It reports false
// when the dossier does not exist.
func (db *DB) UpdateManifest(ctx context.Context, id uuid.UUID, manifest []byte) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE dossiers SET manifest = $1, updated_at = NOW() WHERE id = $2`,
		manifest, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update manifest: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
