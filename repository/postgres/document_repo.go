package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

const documentColumns = `id, user_id, case_id, name, description, file_path,
	file_url, file_size, mime_type, created_at, updated_at`

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository returns a Postgres-backed implementation of DocumentRepository.
func NewDocumentRepository(pool *pgxpool.Pool) repository.DocumentRepository {
	return &documentRepository{pool: pool}
}

func (r *documentRepository) GetByID(ctx context.Context, id, userID string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND user_id = $2`
	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanDocument(row)
}

func (r *documentRepository) List(ctx context.Context, filter repository.DocumentFilter) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + `
	FROM documents
	WHERE user_id = $1
	  AND ($2 = '' OR case_id = $2)
	ORDER BY created_at DESC
	LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		filter.CaseID,
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if doc == nil {
		return nil, domain.ErrInvalidPayload
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO documents (id, user_id, case_id, name, description, file_path, file_url, file_size, mime_type)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		doc.ID,
		doc.UserID,
		doc.CaseID,
		doc.Name,
		doc.Description,
		doc.FilePath,
		doc.FileURL,
		doc.FileSize,
		doc.MimeType,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}

	return doc, nil
}

func (r *documentRepository) Update(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE documents
	SET name = $3,
		description = $4,
		file_path = $5,
		file_url = $6,
		file_size = $7,
		mime_type = $8,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		doc.ID,
		doc.UserID,
		doc.Name,
		doc.Description,
		doc.FilePath,
		doc.FileURL,
		doc.FileSize,
		doc.MimeType,
	).Scan(&doc.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrDocumentNotFound
		}
		return err
	}

	return nil
}

func (r *documentRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM documents WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document

	if err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.CaseID,
		&doc.Name,
		&doc.Description,
		&doc.FilePath,
		&doc.FileURL,
		&doc.FileSize,
		&doc.MimeType,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}

	return &doc, nil
}
