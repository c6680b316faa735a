package template

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

type fakeTemplateRepo struct {
	templates map[string]*domain.Template
	nextID    int
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[string]*domain.Template)}
}

func (f *fakeTemplateRepo) GetByID(_ context.Context, id, userID string) (*domain.Template, error) {
	tpl, ok := f.templates[id]
	if !ok || (tpl.UserID != userID && !tpl.IsPublic) {
		return nil, domain.ErrTemplateNotFound
	}
	copied := *tpl
	return &copied, nil
}

func (f *fakeTemplateRepo) List(_ context.Context, filter repository.TemplateFilter) ([]domain.Template, error) {
	var out []domain.Template
	for _, tpl := range f.templates {
		if tpl.UserID == filter.UserID || (filter.IncludePublic && tpl.IsPublic) {
			out = append(out, *tpl)
		}
	}
	return out, nil
}

func (f *fakeTemplateRepo) Search(_ context.Context, userID, _ string, includePublic bool, _ int) ([]domain.Template, error) {
	return f.List(context.Background(), repository.TemplateFilter{UserID: userID, IncludePublic: includePublic})
}

func (f *fakeTemplateRepo) Create(_ context.Context, tpl *domain.Template) (*domain.Template, error) {
	if tpl.ID == "" {
		f.nextID++
		tpl.ID = string(rune('a' + f.nextID))
	}
	copied := *tpl
	f.templates[tpl.ID] = &copied
	return tpl, nil
}

func (f *fakeTemplateRepo) Update(_ context.Context, tpl *domain.Template) error {
	stored, ok := f.templates[tpl.ID]
	if !ok || stored.UserID != tpl.UserID {
		return domain.ErrTemplateNotFound
	}
	copied := *tpl
	copied.UsageCount = stored.UsageCount
	f.templates[tpl.ID] = &copied
	return nil
}

func (f *fakeTemplateRepo) Delete(_ context.Context, id, userID string) error {
	tpl, ok := f.templates[id]
	if !ok || tpl.UserID != userID {
		return domain.ErrTemplateNotFound
	}
	delete(f.templates, id)
	return nil
}

func (f *fakeTemplateRepo) IncrementUsage(_ context.Context, id, userID string) (int, error) {
	tpl, ok := f.templates[id]
	if !ok || (tpl.UserID != userID && !tpl.IsPublic) {
		return 0, domain.ErrTemplateNotFound
	}
	tpl.UsageCount++
	return tpl.UsageCount, nil
}

func (f *fakeTemplateRepo) ToggleFavorite(_ context.Context, id, userID string) (*domain.Template, error) {
	tpl, ok := f.templates[id]
	if !ok || tpl.UserID != userID {
		return nil, domain.ErrTemplateNotFound
	}
	tpl.IsFavorite = !tpl.IsFavorite
	copied := *tpl
	return &copied, nil
}

func TestCreateTemplateExtractsVariables(t *testing.T) {
	repo := newFakeTemplateRepo()
	uc := New(repo, nil)

	created, err := uc.CreateTemplate(context.Background(), &domain.Template{
		UserID:  "u1",
		Name:    "Procuração ad judicia",
		Content: "Outorgante: {{client.name}}, CPF {{client.cpf_cnpj}}",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TemplateOther, created.Category)
	assert.Equal(t, []string{"client.cpf_cnpj", "client.name"}, created.Variables)
	assert.Zero(t, created.UsageCount)
}

func TestCreateTemplateRequiresContent(t *testing.T) {
	uc := New(newFakeTemplateRepo(), nil)

	_, err := uc.CreateTemplate(context.Background(), &domain.Template{
		UserID: "u1", Name: "Vazio", Content: "   ",
	})
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrCodeInvalid, derr.Code)
}

func TestUpdateTemplateReextractsVariablesOnContentChange(t *testing.T) {
	repo := newFakeTemplateRepo()
	uc := New(repo, nil)

	created, err := uc.CreateTemplate(context.Background(), &domain.Template{
		UserID: "u1", Name: "Contrato", Content: "{{client.name}}",
	})
	require.NoError(t, err)

	content := "{{client.name}} e {{other_party.name}}"
	updated, err := uc.UpdateTemplate(context.Background(), created.ID, "u1", TemplatePatch{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, []string{"client.name", "other_party.name"}, updated.Variables)
}

func TestUpdateTemplateKeepsUnsentFields(t *testing.T) {
	repo := newFakeTemplateRepo()
	uc := New(repo, nil)

	created, err := uc.CreateTemplate(context.Background(), &domain.Template{
		UserID:      "u1",
		Name:        "Parecer",
		Description: "Modelo de parecer",
		Category:    domain.TemplateLegalOpinion,
		Content:     "{{case.number}}",
		IsPublic:    true,
	})
	require.NoError(t, err)

	name := "Parecer revisado"
	updated, err := uc.UpdateTemplate(context.Background(), created.ID, "u1", TemplatePatch{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Parecer revisado", updated.Name)
	assert.Equal(t, "Modelo de parecer", updated.Description)
	assert.Equal(t, domain.TemplateLegalOpinion, updated.Category)
	assert.Equal(t, "{{case.number}}", updated.Content)
	assert.True(t, updated.IsPublic)
}

func TestUpdateTemplateOwnerOnly(t *testing.T) {
	repo := newFakeTemplateRepo()
	uc := New(repo, nil)

	created, err := uc.CreateTemplate(context.Background(), &domain.Template{
		UserID: "u1", Name: "Modelo público", Content: "{{x}}", IsPublic: true,
	})
	require.NoError(t, err)

	name := "Tomado"
	_, err = uc.UpdateTemplate(context.Background(), created.ID, "u2", TemplatePatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestRenderFillsAndCountsUsage(t *testing.T) {
	repo := newFakeTemplateRepo()
	uc := New(repo, nil)

	created, err := uc.CreateTemplate(context.Background(), &domain.Template{
		UserID:  "u1",
		Name:    "Declaração",
		Content: "Eu, {{client.name}}, declaro para os devidos fins.",
	})
	require.NoError(t, err)

	rendered, err := uc.Render(context.Background(), created.ID, "u1",
		map[string]string{"client.name": "João Silva"}, "c1", "")
	require.NoError(t, err)

	assert.Equal(t, "Eu, João Silva, declaro para os devidos fins.", rendered.Content)
	assert.Empty(t, rendered.Missing)
	assert.Equal(t, "c1", rendered.ClientID)
	assert.Equal(t, 1, repo.templates[created.ID].UsageCount)
}

func TestRenderReportsMissingValues(t *testing.T) {
	repo := newFakeTemplateRepo()
	uc := New(repo, nil)

	created, err := uc.CreateTemplate(context.Background(), &domain.Template{
		UserID: "u1", Name: "Requerimento", Content: "{{client.name}}, {{case.number}}",
	})
	require.NoError(t, err)

	rendered, err := uc.Render(context.Background(), created.ID, "u1", nil, "", "")
	require.NoError(t, err)
	assert.Contains(t, rendered.Content, "{{client.name}}")
	assert.Equal(t, []string{"case.number", "client.name"}, rendered.Missing)
}

func TestRenderAllowsPublicTemplate(t *testing.T) {
	repo := newFakeTemplateRepo()
	uc := New(repo, nil)

	created, err := uc.CreateTemplate(context.Background(), &domain.Template{
		UserID: "u1", Name: "Modelo do escritório", Content: "{{x}}", IsPublic: true,
	})
	require.NoError(t, err)

	rendered, err := uc.Render(context.Background(), created.ID, "u2",
		map[string]string{"x": "ok"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, "ok", rendered.Content)
}

func TestToggleFavorite(t *testing.T) {
	repo := newFakeTemplateRepo()
	uc := New(repo, nil)

	created, err := uc.CreateTemplate(context.Background(), &domain.Template{
		UserID: "u1", Name: "Ata", Content: "{{meeting.date}}",
	})
	require.NoError(t, err)

	toggled, err := uc.ToggleFavorite(context.Background(), created.ID, "u1")
	require.NoError(t, err)
	assert.True(t, toggled.IsFavorite)

	toggled, err = uc.ToggleFavorite(context.Background(), created.ID, "u1")
	require.NoError(t, err)
	assert.False(t, toggled.IsFavorite)
}
