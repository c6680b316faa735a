package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrson-dev/crm-ju-ai/repository"
)

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository returns a Postgres-backed implementation of StatsRepository.
func NewStatsRepository(pool *pgxpool.Pool) repository.StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Dashboard(ctx context.Context, userID string, now time.Time) (repository.DashboardStats, error) {
	const query = `
	SELECT
		(SELECT COUNT(id) FROM cases WHERE user_id = $1),
		(SELECT COUNT(id) FROM cases WHERE user_id = $1 AND status NOT IN ('closed', 'archived')),
		(SELECT COUNT(id) FROM clients WHERE user_id = $1),
		(SELECT COUNT(id) FROM documents WHERE user_id = $1 AND created_at >= $2),
		(SELECT COUNT(id) FROM tasks WHERE user_id = $1 AND status IN ('pending', 'in_progress'))
	`

	now = now.UTC()
	since := now.Add(-7 * 24 * time.Hour)

	var stats repository.DashboardStats
	if err := r.pool.QueryRow(ctx, query, userID, since).Scan(
		&stats.TotalCases,
		&stats.ActiveCases,
		&stats.TotalClients,
		&stats.RecentDocuments,
		&stats.PendingTasks,
	); err != nil {
		return repository.DashboardStats{}, err
	}

	stats.CachedAt = now
	return stats, nil
}
