package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

const taskColumns = `id, user_id, title, description, category, priority, status,
	case_id, client_id, assigned_to, due_date, completed_at, completed_by,
	score, alert_level, tags, notes, location, process_number, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id, userID string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = $1
	  AND ($2 = '' OR status = $2)
	  AND ($3 = '' OR case_id = $3)
	  AND ($4 = '' OR client_id = $4)
	  AND ($5 = '' OR assigned_to = $5)
	  AND ($6 = '' OR alert_level = $6)
	ORDER BY due_date ASC NULLS LAST, created_at DESC
	LIMIT $7 OFFSET $8
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		string(filter.Status),
		filter.CaseID,
		filter.ClientID,
		filter.AssignedTo,
		string(filter.AlertLevel),
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) ListOverdue(ctx context.Context, userID string, now time.Time, limit int) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = $1
	  AND status NOT IN ($2, $3)
	  AND due_date IS NOT NULL
	  AND due_date < $4
	ORDER BY due_date ASC
	LIMIT $5
	`
	rows, err := r.pool.Query(ctx, query,
		userID,
		string(domain.TaskDone),
		string(domain.TaskCancelled),
		now.UTC(),
		clampLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, category, priority, status,
		case_id, client_id, assigned_to, due_date, score, alert_level,
		tags, notes, location, process_number)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	RETURNING created_at, updated_at
	`

	var due interface{}
	if task.DueDate != nil {
		due = task.DueDate.UTC()
	}

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Category),
		string(task.Priority),
		string(task.Status),
		task.CaseID,
		task.ClientID,
		task.AssignedTo,
		due,
		task.Score,
		string(task.AlertLevel),
		marshalStrings(task.Tags),
		task.Notes,
		task.Location,
		task.ProcessNumber,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $3,
		description = $4,
		category = $5,
		priority = $6,
		status = $7,
		case_id = $8,
		client_id = $9,
		assigned_to = $10,
		due_date = $11,
		alert_level = $12,
		tags = $13,
		notes = $14,
		location = $15,
		process_number = $16,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	var due interface{}
	if task.DueDate != nil {
		due = task.DueDate.UTC()
	}

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Category),
		string(task.Priority),
		string(task.Status),
		task.CaseID,
		task.ClientID,
		task.AssignedTo,
		due,
		string(task.AlertLevel),
		marshalStrings(task.Tags),
		task.Notes,
		task.Location,
		task.ProcessNumber,
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	return nil
}

func (r *taskRepository) Complete(ctx context.Context, id, userID, completedBy string, at time.Time) (*domain.Task, error) {
	query := `
	UPDATE tasks
	SET status = $3,
		completed_at = COALESCE(completed_at, $4),
		completed_by = CASE WHEN completed_by = '' THEN $5 ELSE completed_by END,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query, id, userID, string(domain.TaskDone), at.UTC(), completedBy)
	return scanTask(row)
}

func (r *taskRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) ProductivityStats(ctx context.Context, userID string) (repository.ProductivityStats, error) {
	const query = `
	SELECT COUNT(id), COALESCE(SUM(score), 0), COALESCE(AVG(score), 0)
	FROM tasks
	WHERE user_id = $1 AND status = $2
	`
	var stats repository.ProductivityStats
	err := r.pool.QueryRow(ctx, query, userID, string(domain.TaskDone)).
		Scan(&stats.TasksCompleted, &stats.TotalScore, &stats.AvgScore)
	return stats, err
}

func (r *taskRepository) CompletionGroups(ctx context.Context, window repository.RankingWindow) ([]domain.CompletionGroup, error) {
	const query = `
	SELECT completed_by, category, COUNT(id), COALESCE(SUM(score), 0)
	FROM tasks
	WHERE status = $1
	  AND completed_by <> ''
	  AND ($2::timestamptz IS NULL OR completed_at >= $2)
	  AND ($3::timestamptz IS NULL OR completed_at <= $3)
	GROUP BY completed_by, category
	`

	var start, end interface{}
	if window.Start != nil {
		start = window.Start.UTC()
	}
	if window.End != nil {
		end = window.End.UTC()
	}

	rows, err := r.pool.Query(ctx, query, string(domain.TaskDone), start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []domain.CompletionGroup
	for rows.Next() {
		var g domain.CompletionGroup
		var category string
		if err := rows.Scan(&g.UserID, &category, &g.Tasks, &g.TotalScore); err != nil {
			return nil, err
		}
		g.Category = domain.TaskCategory(category)
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func scanTask(row scanner) (*domain.Task, error) {
	var task domain.Task
	var (
		category, priority, status, alertLevel string
		due, completedAt                       *time.Time
		tags                                   []byte
	)

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&category,
		&priority,
		&status,
		&task.CaseID,
		&task.ClientID,
		&task.AssignedTo,
		&due,
		&completedAt,
		&task.CompletedBy,
		&task.Score,
		&alertLevel,
		&tags,
		&task.Notes,
		&task.Location,
		&task.ProcessNumber,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Category = domain.TaskCategory(category)
	task.Priority = domain.TaskPriority(priority)
	task.Status = domain.TaskStatus(status)
	task.AlertLevel = domain.AlertLevel(alertLevel)
	task.DueDate = due
	task.CompletedAt = completedAt
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &task.Tags); err != nil {
			return nil, err
		}
	}

	return &task, nil
}

func collectTasks(rows pgx.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}
