package repository

import (
	"context"
	"time"
)

// DashboardStats holds the counters shown on the office dashboard.
type DashboardStats struct {
	TotalCases      int       `json:"total_cases"`
	ActiveCases     int       `json:"active_cases"`
	TotalClients    int       `json:"total_clients"`
	RecentDocuments int       `json:"recent_documents"`
	PendingTasks    int       `json:"pending_tasks"`
	CachedAt        time.Time `json:"cached_at"`
}

// StatsRepository computes dashboard counters with SQL aggregates.
type StatsRepository interface {
	Dashboard(ctx context.Context, userID string, now time.Time) (DashboardStats, error)
}

// StatsCache is the Redis-backed cache in front of StatsRepository.
type StatsCache interface {
	Get(ctx context.Context, userID string) (*DashboardStats, error)
	Set(ctx context.Context, userID string, stats DashboardStats) error
	Invalidate(ctx context.Context, userID string) (int, error)
}
