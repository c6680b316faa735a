package profile

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/pkg/brdoc"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

// UseCase manages lawyer profiles, including OAB registration validation.
type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{users: users, logger: logger}
}

func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

func (uc *UseCase) UpdateProfile(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil || user.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if user.OAB != "" {
		if !brdoc.ValidOAB(user.OAB) {
			return nil, domain.NewError(domain.ErrCodeInvalid, "invalid oab registration")
		}
		user.OAB = brdoc.NormalizeOAB(user.OAB)
	}
	if user.Phone != "" {
		if !brdoc.ValidPhone(user.Phone) {
			return nil, domain.NewError(domain.ErrCodeInvalid, "invalid phone number")
		}
		user.Phone = brdoc.FormatPhone(user.Phone)
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Status == "" {
		user.Status = "active"
	}

	if err := uc.users.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
