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

const timeEntryColumns = `id, user_id, case_id, date, duration_minutes,
	description, billable, hourly_rate_cents, created_at, updated_at`

type timeEntryRepository struct {
	pool *pgxpool.Pool
}

// NewTimeEntryRepository returns a Postgres-backed implementation of TimeEntryRepository.
func NewTimeEntryRepository(pool *pgxpool.Pool) repository.TimeEntryRepository {
	return &timeEntryRepository{pool: pool}
}

func (r *timeEntryRepository) GetByID(ctx context.Context, id, userID string) (*domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id = $1 AND user_id = $2`
	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanTimeEntry(row)
}

func (r *timeEntryRepository) List(ctx context.Context, filter repository.TimeEntryFilter) ([]domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + `
	FROM time_entries
	WHERE user_id = $1
	  AND ($2 = '' OR case_id = $2)
	  AND ($3::timestamptz IS NULL OR date >= $3)
	  AND ($4::timestamptz IS NULL OR date <= $4)
	  AND (NOT $5 OR billable)
	ORDER BY date DESC
	LIMIT $6 OFFSET $7
	`

	var start, end interface{}
	if filter.Start != nil {
		start = filter.Start.UTC()
	}
	if filter.End != nil {
		end = filter.End.UTC()
	}

	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		filter.CaseID,
		start,
		end,
		filter.BillableOnly,
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func (r *timeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	if entry == nil {
		return nil, domain.ErrInvalidPayload
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO time_entries (id, user_id, case_id, date, duration_minutes, description, billable, hourly_rate_cents)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.UserID,
		entry.CaseID,
		entry.Date.UTC(),
		entry.DurationMinutes,
		entry.Description,
		entry.Billable,
		entry.HourlyRateCents,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *timeEntryRepository) Update(ctx context.Context, entry *domain.TimeEntry) error {
	if entry == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE time_entries
	SET date = $3,
		duration_minutes = $4,
		description = $5,
		billable = $6,
		hourly_rate_cents = $7,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Date.UTC(),
		entry.DurationMinutes,
		entry.Description,
		entry.Billable,
		entry.HourlyRateCents,
	).Scan(&entry.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTimeEntryNotFound
		}
		return err
	}

	return nil
}

func (r *timeEntryRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM time_entries WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTimeEntryNotFound
	}
	return nil
}

func (r *timeEntryRepository) Summary(ctx context.Context, filter repository.TimeEntryFilter) (int64, int64, error) {
	const query = `
	SELECT COALESCE(SUM(duration_minutes), 0),
	       COALESCE(SUM(CASE WHEN billable THEN duration_minutes ELSE 0 END), 0)
	FROM time_entries
	WHERE user_id = $1
	  AND ($2 = '' OR case_id = $2)
	  AND ($3::timestamptz IS NULL OR date >= $3)
	  AND ($4::timestamptz IS NULL OR date <= $4)
	`

	var start, end interface{}
	if filter.Start != nil {
		start = filter.Start.UTC()
	}
	if filter.End != nil {
		end = filter.End.UTC()
	}

	var total, billable int64
	err := r.pool.QueryRow(ctx, query, filter.UserID, filter.CaseID, start, end).Scan(&total, &billable)
	return total, billable, err
}

func scanTimeEntry(row scanner) (*domain.TimeEntry, error) {
	var entry domain.TimeEntry

	if err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.CaseID,
		&entry.Date,
		&entry.DurationMinutes,
		&entry.Description,
		&entry.Billable,
		&entry.HourlyRateCents,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTimeEntryNotFound
		}
		return nil, err
	}

	return &entry, nil
}
