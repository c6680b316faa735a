package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

type fakeClientRepo struct {
	clients map[string]*domain.Client
	byDoc   map[string]string
	nextID  int
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{
		clients: make(map[string]*domain.Client),
		byDoc:   make(map[string]string),
	}
}

func (f *fakeClientRepo) GetByID(_ context.Context, id, userID string) (*domain.Client, error) {
	client, ok := f.clients[id]
	if !ok || client.UserID != userID {
		return nil, domain.ErrClientNotFound
	}
	copied := *client
	return &copied, nil
}

func (f *fakeClientRepo) List(_ context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	var out []domain.Client
	for _, client := range f.clients {
		if client.UserID == filter.UserID {
			out = append(out, *client)
		}
	}
	return out, nil
}

func (f *fakeClientRepo) Search(_ context.Context, userID, query string, _ int) ([]domain.Client, error) {
	var out []domain.Client
	for _, client := range f.clients {
		if client.UserID == userID && client.Name == query {
			out = append(out, *client)
		}
	}
	return out, nil
}

func (f *fakeClientRepo) Create(_ context.Context, client *domain.Client) (*domain.Client, error) {
	if client.CPFCNPJ != "" {
		if _, exists := f.byDoc[client.CPFCNPJ]; exists {
			return nil, domain.ErrDuplicateDocument
		}
	}
	if client.ID == "" {
		f.nextID++
		client.ID = string(rune('0' + f.nextID))
	}
	copied := *client
	f.clients[client.ID] = &copied
	if client.CPFCNPJ != "" {
		f.byDoc[client.CPFCNPJ] = client.ID
	}
	return client, nil
}

func (f *fakeClientRepo) Update(_ context.Context, client *domain.Client) error {
	stored, ok := f.clients[client.ID]
	if !ok || stored.UserID != client.UserID {
		return domain.ErrClientNotFound
	}
	copied := *client
	f.clients[client.ID] = &copied
	return nil
}

func (f *fakeClientRepo) Delete(_ context.Context, id, userID string) error {
	client, ok := f.clients[id]
	if !ok || client.UserID != userID {
		return domain.ErrClientNotFound
	}
	delete(f.clients, id)
	return nil
}

func (f *fakeClientRepo) Count(_ context.Context, userID string) (int, error) {
	count := 0
	for _, client := range f.clients {
		if client.UserID == userID {
			count++
		}
	}
	return count, nil
}

func TestCreateClientFormatsDocuments(t *testing.T) {
	uc := New(newFakeClientRepo(), nil)

	created, err := uc.CreateClient(context.Background(), &domain.Client{
		UserID:  "u1",
		Name:    "  Maria Souza  ",
		CPFCNPJ: "52998224725",
		Phone:   "11987654321",
		Email:   "Maria@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", created.Name)
	assert.Equal(t, "529.982.247-25", created.CPFCNPJ)
	assert.Equal(t, "(11) 98765-4321", created.Phone)
	assert.Equal(t, "maria@example.com", created.Email)
	assert.Equal(t, domain.ClientIndividual, created.ClientType)
}

func TestCreateClientRejectsInvalidCPF(t *testing.T) {
	uc := New(newFakeClientRepo(), nil)

	_, err := uc.CreateClient(context.Background(), &domain.Client{
		UserID:  "u1",
		Name:    "Maria",
		CPFCNPJ: "52998224726",
	})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestCreateClientAcceptsCNPJ(t *testing.T) {
	uc := New(newFakeClientRepo(), nil)

	created, err := uc.CreateClient(context.Background(), &domain.Client{
		UserID:     "u1",
		Name:       "Empresa Exemplo Ltda",
		CPFCNPJ:    "11222333000181",
		ClientType: domain.ClientCompany,
	})
	require.NoError(t, err)
	assert.Equal(t, "11.222.333/0001-81", created.CPFCNPJ)
}

func TestCreateClientDuplicateDocument(t *testing.T) {
	repo := newFakeClientRepo()
	uc := New(repo, nil)

	_, err := uc.CreateClient(context.Background(), &domain.Client{
		UserID: "u1", Name: "Maria", CPFCNPJ: "529.982.247-25",
	})
	require.NoError(t, err)

	_, err = uc.CreateClient(context.Background(), &domain.Client{
		UserID: "u1", Name: "Outra Maria", CPFCNPJ: "52998224725",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateDocument)
}

func TestCreateClientMinorRequiresGuardian(t *testing.T) {
	uc := New(newFakeClientRepo(), nil)

	_, err := uc.CreateClient(context.Background(), &domain.Client{
		UserID:  "u1",
		Name:    "Joao",
		IsMinor: true,
	})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = uc.CreateClient(context.Background(), &domain.Client{
		UserID:   "u1",
		Name:     "Joao",
		IsMinor:  true,
		Guardian: &domain.Guardian{Name: "Ana", CPF: "111.444.777-35"},
	})
	assert.NoError(t, err)
}

func TestCreateClientInvalidGuardianCPF(t *testing.T) {
	uc := New(newFakeClientRepo(), nil)

	_, err := uc.CreateClient(context.Background(), &domain.Client{
		UserID:   "u1",
		Name:     "Joao",
		IsMinor:  true,
		Guardian: &domain.Guardian{Name: "Ana", CPF: "111.444.777-36"},
	})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestSearchClientsRequiresQuery(t *testing.T) {
	uc := New(newFakeClientRepo(), nil)

	_, err := uc.SearchClients(context.Background(), "u1", "   ", 10)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestCreateClientRequiresName(t *testing.T) {
	uc := New(newFakeClientRepo(), nil)

	_, err := uc.CreateClient(context.Background(), &domain.Client{UserID: "u1", Name: " "})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}
