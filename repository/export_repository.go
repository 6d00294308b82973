package repository

import (
	"context"

	"ruraldraft-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExportRepository handles database operations for document exports
type ExportRepository struct {
	db *pgxpool.Pool
}

// NewExportRepository creates a new export repository
func NewExportRepository(db *pgxpool.Pool) *ExportRepository {
	return &ExportRepository{db: db}
}

// Create inserts an export record, assigning an ID when none is set
func (r *ExportRepository) Create(ctx context.Context, export *models.DocumentExport) error {
	query := `
		INSERT INTO document_exports (
			id, document_id, filename, mime_type, size, checksum, storage_path
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	if export.ID == uuid.Nil {
		export.ID = uuid.New()
	}

	err := r.db.QueryRow(
		ctx, query,
		export.ID,
		export.DocumentID,
		export.Filename,
		export.MimeType,
		export.Size,
		export.Checksum,
		export.StoragePath,
	).Scan(&export.CreatedAt)

	return err
}

// GetByID retrieves an export by ID
func (r *ExportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DocumentExport, error) {
	export := &models.DocumentExport{}
	query := `
		SELECT id, document_id, filename, mime_type, size, checksum, storage_path, created_at
		FROM document_exports
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&export.ID,
		&export.DocumentID,
		&export.Filename,
		&export.MimeType,
		&export.Size,
		&export.Checksum,
		&export.StoragePath,
		&export.CreatedAt,
	)

	if err != nil {
		return nil, notFound(err)
	}

	return export, nil
}

// ListByDocumentID retrieves all exports of a document
func (r *ExportRepository) ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*models.DocumentExport, error) {
	query := `
		SELECT id, document_id, filename, mime_type, size, checksum, storage_path, created_at
		FROM document_exports
		WHERE document_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exports []*models.DocumentExport
	for rows.Next() {
		export := &models.DocumentExport{}
		err := rows.Scan(
			&export.ID,
			&export.DocumentID,
			&export.Filename,
			&export.MimeType,
			&export.Size,
			&export.Checksum,
			&export.StoragePath,
			&export.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		exports = append(exports, export)
	}

	return exports, rows.Err()
}
