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

const caseColumns = `id, user_id, client_id, title, description, case_number,
	status, priority, court, tags, created_at, updated_at`

type caseRepository struct {
	pool *pgxpool.Pool
}

// NewCaseRepository returns a Postgres-backed implementation of CaseRepository.
func NewCaseRepository(pool *pgxpool.Pool) repository.CaseRepository {
	return &caseRepository{pool: pool}
}

func (r *caseRepository) GetByID(ctx context.Context, id, userID string) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1 AND user_id = $2`
	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanCase(row)
}

func (r *caseRepository) List(ctx context.Context, filter repository.CaseFilter) ([]domain.Case, error) {
	query := `SELECT ` + caseColumns + `
	FROM cases
	WHERE user_id = $1
	  AND ($2 = '' OR status = $2)
	  AND ($3 = '' OR client_id = $3)
	ORDER BY created_at DESC
	LIMIT $4 OFFSET $5
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		string(filter.Status),
		filter.ClientID,
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, *c)
	}
	return cases, rows.Err()
}

func (r *caseRepository) Create(ctx context.Context, c *domain.Case) (*domain.Case, error) {
	if c == nil {
		return nil, domain.ErrInvalidPayload
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO cases (id, user_id, client_id, title, description, case_number, status, priority, court, tags)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		c.ID,
		c.UserID,
		c.ClientID,
		c.Title,
		c.Description,
		c.CaseNumber,
		string(c.Status),
		string(c.Priority),
		c.Court,
		marshalStrings(c.Tags),
	).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	return c, nil
}

func (r *caseRepository) Update(ctx context.Context, c *domain.Case) error {
	if c == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE cases
	SET title = $3,
		description = $4,
		case_number = $5,
		status = $6,
		priority = $7,
		court = $8,
		tags = $9,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		c.ID,
		c.UserID,
		c.Title,
		c.Description,
		c.CaseNumber,
		string(c.Status),
		string(c.Priority),
		c.Court,
		marshalStrings(c.Tags),
	).Scan(&c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCaseNotFound
		}
		return err
	}

	return nil
}

func (r *caseRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM cases WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCaseNotFound
	}
	return nil
}

func (r *caseRepository) CountByStatus(ctx context.Context, userID string) (map[domain.CaseStatus]int, error) {
	const query = `
	SELECT status, COUNT(id)
	FROM cases
	WHERE user_id = $1
	GROUP BY status
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.CaseStatus]int, len(domain.AllCaseStatuses))
	for _, status := range domain.AllCaseStatuses {
		counts[status] = 0
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[domain.CaseStatus(status)] = count
	}
	return counts, rows.Err()
}

func scanCase(row scanner) (*domain.Case, error) {
	var c domain.Case
	var (
		status, priority string
		tags             []byte
	)

	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.ClientID,
		&c.Title,
		&c.Description,
		&c.CaseNumber,
		&status,
		&priority,
		&c.Court,
		&tags,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCaseNotFound
		}
		return nil, err
	}

	c.Status = domain.CaseStatus(status)
	c.Priority = domain.TaskPriority(priority)
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &c.Tags); err != nil {
			return nil, err
		}
	}

	return &c, nil
}
