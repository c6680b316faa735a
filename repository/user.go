package repository

import (
	"context"

	"github.com/mrson-dev/crm-ju-ai/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
}
