package repository

import (
	"context"

	"github.com/mrson-dev/crm-ju-ai/domain"
)

type TemplateFilter struct {
	UserID        string
	Category      domain.TemplateCategory
	IncludePublic bool
	Limit         int
	Offset        int
}

// TemplateRepository stores document templates. Reads resolve against the
// owner's templates plus public ones; writes are owner-only.
type TemplateRepository interface {
	GetByID(ctx context.Context, id, userID string) (*domain.Template, error)
	List(ctx context.Context, filter TemplateFilter) ([]domain.Template, error)
	Search(ctx context.Context, userID, query string, includePublic bool, limit int) ([]domain.Template, error)
	Create(ctx context.Context, tpl *domain.Template) (*domain.Template, error)
	Update(ctx context.Context, tpl *domain.Template) error
	Delete(ctx context.Context, id, userID string) error
	IncrementUsage(ctx context.Context, id, userID string) (int, error)
	ToggleFavorite(ctx context.Context, id, userID string) (*domain.Template, error)
}
