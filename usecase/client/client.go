package client

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/pkg/brdoc"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

// UseCase implements client registration with Brazilian document validation.
type UseCase struct {
	clients repository.ClientRepository
	logger  *zap.Logger
}

func New(clients repository.ClientRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{clients: clients, logger: logger}
}

func (uc *UseCase) GetClient(ctx context.Context, id, userID string) (*domain.Client, error) {
	return uc.clients.GetByID(ctx, id, userID)
}

func (uc *UseCase) ListClients(ctx context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	return uc.clients.List(ctx, filter)
}

// SearchClients matches name, email, cpf/cnpj and phone. A blank query is
// rejected rather than returning the full book.
func (uc *UseCase) SearchClients(ctx context.Context, userID, query string, limit int) ([]domain.Client, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "search query is required")
	}
	return uc.clients.Search(ctx, userID, query, limit)
}

func (uc *UseCase) CreateClient(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	if err := uc.validate(client); err != nil {
		return nil, err
	}
	normalize(client)
	return uc.clients.Create(ctx, client)
}

func (uc *UseCase) UpdateClient(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	if client == nil || client.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if err := uc.validate(client); err != nil {
		return nil, err
	}
	normalize(client)
	if err := uc.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (uc *UseCase) DeleteClient(ctx context.Context, id, userID string) error {
	return uc.clients.Delete(ctx, id, userID)
}

func (uc *UseCase) CountClients(ctx context.Context, userID string) (int, error) {
	return uc.clients.Count(ctx, userID)
}

func (uc *UseCase) validate(client *domain.Client) error {
	if client == nil || client.UserID == "" {
		return domain.ErrInvalidPayload
	}
	if strings.TrimSpace(client.Name) == "" {
		return domain.NewError(domain.ErrCodeInvalid, "client name is required")
	}
	if client.CPFCNPJ != "" && !brdoc.ValidCPFCNPJ(client.CPFCNPJ) {
		return domain.NewError(domain.ErrCodeInvalid, "invalid cpf/cnpj")
	}
	if client.Phone != "" && !brdoc.ValidPhone(client.Phone) {
		return domain.NewError(domain.ErrCodeInvalid, "invalid phone number")
	}
	if client.SecondaryPhone != "" && !brdoc.ValidPhone(client.SecondaryPhone) {
		return domain.NewError(domain.ErrCodeInvalid, "invalid secondary phone number")
	}
	if client.IsMinor && (client.Guardian == nil || strings.TrimSpace(client.Guardian.Name) == "") {
		return domain.NewError(domain.ErrCodeInvalid, "minor clients require a guardian")
	}
	if client.Guardian != nil && client.Guardian.CPF != "" && !brdoc.ValidCPF(client.Guardian.CPF) {
		return domain.NewError(domain.ErrCodeInvalid, "invalid guardian cpf")
	}
	return nil
}

func normalize(client *domain.Client) {
	client.Name = strings.TrimSpace(client.Name)
	client.Email = strings.ToLower(strings.TrimSpace(client.Email))
	if client.CPFCNPJ != "" {
		client.CPFCNPJ = brdoc.FormatCPFCNPJ(client.CPFCNPJ)
	}
	if client.Phone != "" {
		client.Phone = brdoc.FormatPhone(client.Phone)
	}
	if client.SecondaryPhone != "" {
		client.SecondaryPhone = brdoc.FormatPhone(client.SecondaryPhone)
	}
	if client.ClientType == "" {
		client.ClientType = domain.ClientIndividual
	}
}
