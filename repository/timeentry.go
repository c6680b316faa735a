package repository

import (
	"context"
	"time"

	"github.com/mrson-dev/crm-ju-ai/domain"
)

type TimeEntryFilter struct {
	UserID       string
	CaseID       string
	Start        *time.Time
	End          *time.Time
	BillableOnly bool
	Limit        int
	Offset       int
}

type TimeEntryRepository interface {
	GetByID(ctx context.Context, id, userID string) (*domain.TimeEntry, error)
	List(ctx context.Context, filter TimeEntryFilter) ([]domain.TimeEntry, error)
	Create(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error)
	Update(ctx context.Context, entry *domain.TimeEntry) error
	Delete(ctx context.Context, id, userID string) error
	// Summary aggregates booked minutes in SQL; rate conversion happens in the
	// use case.
	Summary(ctx context.Context, filter TimeEntryFilter) (totalMinutes, billableMinutes int64, err error)
}
