package casefile

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

// UseCase implements legal case management.
type UseCase struct {
	cases   repository.CaseRepository
	clients repository.ClientRepository
	logger  *zap.Logger
}

func New(cases repository.CaseRepository, clients repository.ClientRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{cases: cases, clients: clients, logger: logger}
}

func (uc *UseCase) GetCase(ctx context.Context, id, userID string) (*domain.Case, error) {
	return uc.cases.GetByID(ctx, id, userID)
}

func (uc *UseCase) ListCases(ctx context.Context, filter repository.CaseFilter) ([]domain.Case, error) {
	return uc.cases.List(ctx, filter)
}

// CreateCase verifies the client exists before creating the case.
func (uc *UseCase) CreateCase(ctx context.Context, c *domain.Case) (*domain.Case, error) {
	if c == nil || c.UserID == "" || strings.TrimSpace(c.Title) == "" {
		return nil, domain.ErrInvalidPayload
	}
	if c.ClientID == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "case requires a client")
	}
	if _, err := uc.clients.GetByID(ctx, c.ClientID, c.UserID); err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return nil, domain.NewError(domain.ErrCodeInvalid, "client does not exist")
		}
		return nil, err
	}
	if c.Status == "" {
		c.Status = domain.CaseNew
	}
	if !validStatus(c.Status) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid case status")
	}
	if c.Priority == "" {
		c.Priority = domain.PriorityMedium
	}
	return uc.cases.Create(ctx, c)
}

func (uc *UseCase) UpdateCase(ctx context.Context, c *domain.Case) (*domain.Case, error) {
	if c == nil || c.ID == "" || c.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if c.Status != "" && !validStatus(c.Status) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid case status")
	}
	if err := uc.cases.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *UseCase) DeleteCase(ctx context.Context, id, userID string) error {
	return uc.cases.Delete(ctx, id, userID)
}

// CountByStatus reports the case pipeline with zero-filled buckets.
func (uc *UseCase) CountByStatus(ctx context.Context, userID string) (map[domain.CaseStatus]int, error) {
	return uc.cases.CountByStatus(ctx, userID)
}

func validStatus(s domain.CaseStatus) bool {
	for _, known := range domain.AllCaseStatuses {
		if s == known {
			return true
		}
	}
	return false
}
