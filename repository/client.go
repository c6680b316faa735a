package repository

import (
	"context"

	"github.com/mrson-dev/crm-ju-ai/domain"
)

type ClientFilter struct {
	UserID     string
	ClientType domain.ClientType
	Limit      int
	Offset     int
}

type ClientRepository interface {
	GetByID(ctx context.Context, id, userID string) (*domain.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]domain.Client, error)
	// Search matches name, email, cpf_cnpj and phone case-insensitively.
	Search(ctx context.Context, userID, query string, limit int) ([]domain.Client, error)
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id, userID string) error
	Count(ctx context.Context, userID string) (int, error)
}
