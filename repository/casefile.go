package repository

import (
	"context"

	"github.com/mrson-dev/crm-ju-ai/domain"
)

type CaseFilter struct {
	UserID   string
	Status   domain.CaseStatus
	ClientID string
	Limit    int
	Offset   int
}

type CaseRepository interface {
	GetByID(ctx context.Context, id, userID string) (*domain.Case, error)
	List(ctx context.Context, filter CaseFilter) ([]domain.Case, error)
	Create(ctx context.Context, c *domain.Case) (*domain.Case, error)
	Update(ctx context.Context, c *domain.Case) error
	Delete(ctx context.Context, id, userID string) error
	// CountByStatus returns a count for every case status, zero included.
	CountByStatus(ctx context.Context, userID string) (map[domain.CaseStatus]int, error)
}

type DocumentFilter struct {
	UserID string
	CaseID string
	Limit  int
	Offset int
}

type DocumentRepository interface {
	GetByID(ctx context.Context, id, userID string) (*domain.Document, error)
	List(ctx context.Context, filter DocumentFilter) ([]domain.Document, error)
	Create(ctx context.Context, doc *domain.Document) (*domain.Document, error)
	Update(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, id, userID string) error
}
