package casefile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

type fakeCaseRepo struct {
	cases  map[string]*domain.Case
	nextID int
}

func newFakeCaseRepo() *fakeCaseRepo {
	return &fakeCaseRepo{cases: make(map[string]*domain.Case)}
}

func (f *fakeCaseRepo) GetByID(_ context.Context, id, userID string) (*domain.Case, error) {
	c, ok := f.cases[id]
	if !ok || c.UserID != userID {
		return nil, domain.ErrCaseNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCaseRepo) List(_ context.Context, filter repository.CaseFilter) ([]domain.Case, error) {
	var out []domain.Case
	for _, c := range f.cases {
		if c.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCaseRepo) Create(_ context.Context, c *domain.Case) (*domain.Case, error) {
	if c.ID == "" {
		f.nextID++
		c.ID = string(rune('0' + f.nextID))
	}
	copied := *c
	f.cases[c.ID] = &copied
	return c, nil
}

func (f *fakeCaseRepo) Update(_ context.Context, c *domain.Case) error {
	stored, ok := f.cases[c.ID]
	if !ok || stored.UserID != c.UserID {
		return domain.ErrCaseNotFound
	}
	copied := *c
	f.cases[c.ID] = &copied
	return nil
}

func (f *fakeCaseRepo) Delete(_ context.Context, id, userID string) error {
	stored, ok := f.cases[id]
	if !ok || stored.UserID != userID {
		return domain.ErrCaseNotFound
	}
	delete(f.cases, id)
	return nil
}

func (f *fakeCaseRepo) CountByStatus(_ context.Context, userID string) (map[domain.CaseStatus]int, error) {
	counts := make(map[domain.CaseStatus]int, len(domain.AllCaseStatuses))
	for _, status := range domain.AllCaseStatuses {
		counts[status] = 0
	}
	for _, c := range f.cases {
		if c.UserID == userID {
			counts[c.Status]++
		}
	}
	return counts, nil
}

type stubClientRepo struct {
	known map[string]bool
}

func (s *stubClientRepo) GetByID(_ context.Context, id, _ string) (*domain.Client, error) {
	if !s.known[id] {
		return nil, domain.ErrClientNotFound
	}
	return &domain.Client{ID: id}, nil
}

func (s *stubClientRepo) List(context.Context, repository.ClientFilter) ([]domain.Client, error) {
	return nil, nil
}

func (s *stubClientRepo) Search(context.Context, string, string, int) ([]domain.Client, error) {
	return nil, nil
}

func (s *stubClientRepo) Create(_ context.Context, client *domain.Client) (*domain.Client, error) {
	return client, nil
}

func (s *stubClientRepo) Update(context.Context, *domain.Client) error { return nil }

func (s *stubClientRepo) Delete(context.Context, string, string) error { return nil }

func (s *stubClientRepo) Count(context.Context, string) (int, error) { return 0, nil }

func TestCreateCaseDefaultsStatusAndPriority(t *testing.T) {
	uc := New(newFakeCaseRepo(), &stubClientRepo{known: map[string]bool{"client-1": true}}, nil)

	created, err := uc.CreateCase(context.Background(), &domain.Case{
		UserID:   "user-1",
		ClientID: "client-1",
		Title:    "Acao trabalhista",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CaseNew, created.Status)
	assert.Equal(t, domain.PriorityMedium, created.Priority)
}

func TestCreateCaseRejectsUnknownClient(t *testing.T) {
	uc := New(newFakeCaseRepo(), &stubClientRepo{known: map[string]bool{}}, nil)

	_, err := uc.CreateCase(context.Background(), &domain.Case{
		UserID:   "user-1",
		ClientID: "missing",
		Title:    "Acao trabalhista",
	})
	require.Error(t, err)
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeInvalid, domainErr.Code)
}

func TestCreateCaseRejectsInvalidStatus(t *testing.T) {
	uc := New(newFakeCaseRepo(), &stubClientRepo{known: map[string]bool{"client-1": true}}, nil)

	_, err := uc.CreateCase(context.Background(), &domain.Case{
		UserID:   "user-1",
		ClientID: "client-1",
		Title:    "Acao trabalhista",
		Status:   "frozen",
	})
	require.Error(t, err)
}

func TestCountByStatusIncludesEmptyBuckets(t *testing.T) {
	repo := newFakeCaseRepo()
	clients := &stubClientRepo{known: map[string]bool{"client-1": true}}
	uc := New(repo, clients, nil)

	ctx := context.Background()
	_, err := uc.CreateCase(ctx, &domain.Case{
		UserID:   "user-1",
		ClientID: "client-1",
		Title:    "Acao trabalhista",
		Status:   domain.CaseInProgress,
	})
	require.NoError(t, err)

	counts, err := uc.CountByStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts[domain.CaseInProgress])
	assert.Equal(t, len(domain.AllCaseStatuses), len(counts))
	assert.Equal(t, 0, counts[domain.CaseArchived])
}
