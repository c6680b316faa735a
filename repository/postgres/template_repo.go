package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

const templateColumns = `id, user_id, name, description, category, content,
	variables, is_public, is_favorite, usage_count, created_at, updated_at`

type templateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository returns a Postgres-backed implementation of TemplateRepository.
func NewTemplateRepository(pool *pgxpool.Pool) repository.TemplateRepository {
	return &templateRepository{pool: pool}
}

func (r *templateRepository) GetByID(ctx context.Context, id, userID string) (*domain.Template, error) {
	query := `SELECT ` + templateColumns + `
	FROM templates
	WHERE id = $1 AND (user_id = $2 OR is_public)`
	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanTemplate(row)
}

func (r *templateRepository) List(ctx context.Context, filter repository.TemplateFilter) ([]domain.Template, error) {
	query := `SELECT ` + templateColumns + `
	FROM templates
	WHERE (user_id = $1 OR ($2 AND is_public))
	  AND ($3 = '' OR category = $3)
	ORDER BY usage_count DESC, created_at DESC
	LIMIT $4 OFFSET $5
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		filter.IncludePublic,
		string(filter.Category),
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTemplates(rows)
}

func (r *templateRepository) Search(ctx context.Context, userID, query string, includePublic bool, limit int) ([]domain.Template, error) {
	const sql = `SELECT ` + templateColumns + `
	FROM templates
	WHERE (user_id = $1 OR ($2 AND is_public))
	  AND (name ILIKE '%' || $3 || '%' OR description ILIKE '%' || $3 || '%')
	ORDER BY usage_count DESC
	LIMIT $4
	`
	rows, err := r.pool.Query(ctx, sql, userID, includePublic, query, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTemplates(rows)
}

func (r *templateRepository) Create(ctx context.Context, tpl *domain.Template) (*domain.Template, error) {
	if tpl == nil {
		return nil, domain.ErrInvalidPayload
	}
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO templates (id, user_id, name, description, category, content, variables, is_public)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		tpl.ID,
		tpl.UserID,
		tpl.Name,
		tpl.Description,
		string(tpl.Category),
		tpl.Content,
		marshalStrings(tpl.Variables),
		tpl.IsPublic,
	).Scan(&tpl.CreatedAt, &tpl.UpdatedAt); err != nil {
		return nil, err
	}

	return tpl, nil
}

func (r *templateRepository) Update(ctx context.Context, tpl *domain.Template) error {
	if tpl == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE templates
	SET name = $3,
		description = $4,
		category = $5,
		content = $6,
		variables = $7,
		is_public = $8,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		tpl.ID,
		tpl.UserID,
		tpl.Name,
		tpl.Description,
		string(tpl.Category),
		tpl.Content,
		marshalStrings(tpl.Variables),
		tpl.IsPublic,
	).Scan(&tpl.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTemplateNotFound
		}
		return err
	}

	return nil
}

func (r *templateRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM templates WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (r *templateRepository) IncrementUsage(ctx context.Context, id, userID string) (int, error) {
	const query = `
	UPDATE templates
	SET usage_count = usage_count + 1, updated_at = NOW()
	WHERE id = $1 AND (user_id = $2 OR is_public)
	RETURNING usage_count
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, id, userID).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrTemplateNotFound
		}
		return 0, err
	}
	return count, nil
}

func (r *templateRepository) ToggleFavorite(ctx context.Context, id, userID string) (*domain.Template, error) {
	query := `
	UPDATE templates
	SET is_favorite = NOT is_favorite, updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + templateColumns

	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanTemplate(row)
}

func scanTemplate(row scanner) (*domain.Template, error) {
	var tpl domain.Template
	var (
		category  string
		variables []byte
	)

	if err := row.Scan(
		&tpl.ID,
		&tpl.UserID,
		&tpl.Name,
		&tpl.Description,
		&category,
		&tpl.Content,
		&variables,
		&tpl.IsPublic,
		&tpl.IsFavorite,
		&tpl.UsageCount,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}

	tpl.Category = domain.TemplateCategory(category)
	if len(variables) > 0 {
		if err := json.Unmarshal(variables, &tpl.Variables); err != nil {
			return nil, err
		}
	}

	return &tpl, nil
}

func collectTemplates(rows pgx.Rows) ([]domain.Template, error) {
	var templates []domain.Template
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *tpl)
	}
	return templates, rows.Err()
}
