package repository

import (
	"context"
	"time"

	"github.com/mrson-dev/crm-ju-ai/domain"
)

// TaskFilter narrows task listings. Zero values mean "no filter".
type TaskFilter struct {
	UserID     string
	Status     domain.TaskStatus
	CaseID     string
	ClientID   string
	AssignedTo string
	AlertLevel domain.AlertLevel
	Limit      int
	Offset     int
}

// RankingWindow bounds which completions count toward the ranking.
// Nil endpoints leave that side of the window open.
type RankingWindow struct {
	Start *time.Time
	End   *time.Time
}

// ProductivityStats summarizes a user's completed tasks.
type ProductivityStats struct {
	TasksCompleted int     `json:"tasks_completed"`
	TotalScore     int     `json:"total_score"`
	AvgScore       float64 `json:"avg_score"`
}

type TaskRepository interface {
	GetByID(ctx context.Context, id, userID string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	ListOverdue(ctx context.Context, userID string, now time.Time, limit int) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Complete(ctx context.Context, id, userID, completedBy string, at time.Time) (*domain.Task, error)
	Delete(ctx context.Context, id, userID string) error
	ProductivityStats(ctx context.Context, userID string) (ProductivityStats, error)
	CompletionGroups(ctx context.Context, window RankingWindow) ([]domain.CompletionGroup, error)
}
