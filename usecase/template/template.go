package template

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

// UseCase manages reusable document templates and renders documents
// from them.
type UseCase struct {
	templates repository.TemplateRepository
	logger    *zap.Logger
}

func New(templates repository.TemplateRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{templates: templates, logger: logger}
}

func (uc *UseCase) GetTemplate(ctx context.Context, id, userID string) (*domain.Template, error) {
	return uc.templates.GetByID(ctx, id, userID)
}

func (uc *UseCase) ListTemplates(ctx context.Context, filter repository.TemplateFilter) ([]domain.Template, error) {
	return uc.templates.List(ctx, filter)
}

func (uc *UseCase) SearchTemplates(ctx context.Context, userID, query string, includePublic bool, limit int) ([]domain.Template, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "search query is required")
	}
	return uc.templates.Search(ctx, userID, query, includePublic, limit)
}

// CreateTemplate extracts the {{placeholder}} variables from the content
// and stores them alongside the template.
func (uc *UseCase) CreateTemplate(ctx context.Context, tpl *domain.Template) (*domain.Template, error) {
	if tpl == nil || tpl.UserID == "" || strings.TrimSpace(tpl.Name) == "" {
		return nil, domain.ErrInvalidPayload
	}
	if strings.TrimSpace(tpl.Content) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "template content is required")
	}
	if tpl.Category == "" {
		tpl.Category = domain.TemplateOther
	}
	tpl.Variables = domain.ExtractPlaceholders(tpl.Content)
	tpl.UsageCount = 0

	return uc.templates.Create(ctx, tpl)
}

// TemplatePatch carries the editable fields of a partial update. Nil
// fields keep the stored value.
type TemplatePatch struct {
	Name        *string
	Description *string
	Category    *domain.TemplateCategory
	Content     *string
	IsPublic    *bool
}

// UpdateTemplate merges the patch over the stored template. Variables are
// re-extracted whenever the content changes. Only the owner can update.
func (uc *UseCase) UpdateTemplate(ctx context.Context, id, userID string, patch TemplatePatch) (*domain.Template, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "name cannot be empty")
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "template content is required")
	}

	tpl, err := uc.templates.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if tpl.UserID != userID {
		return nil, domain.ErrTemplateNotFound
	}

	if patch.Name != nil {
		tpl.Name = *patch.Name
	}
	if patch.Description != nil {
		tpl.Description = *patch.Description
	}
	if patch.Category != nil {
		tpl.Category = *patch.Category
	}
	if patch.Content != nil {
		tpl.Content = *patch.Content
		tpl.Variables = domain.ExtractPlaceholders(tpl.Content)
	}
	if patch.IsPublic != nil {
		tpl.IsPublic = *patch.IsPublic
	}

	if err := uc.templates.Update(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (uc *UseCase) DeleteTemplate(ctx context.Context, id, userID string) error {
	return uc.templates.Delete(ctx, id, userID)
}

func (uc *UseCase) ToggleFavorite(ctx context.Context, id, userID string) (*domain.Template, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidPayload
	}
	return uc.templates.ToggleFavorite(ctx, id, userID)
}

// RenderedDocument is the outcome of filling a template's placeholders.
type RenderedDocument struct {
	TemplateID string   `json:"template_id"`
	Name       string   `json:"name"`
	Content    string   `json:"content"`
	Missing    []string `json:"missing,omitempty"`
	ClientID   string   `json:"client_id,omitempty"`
	CaseID     string   `json:"case_id,omitempty"`
}

// Render fills the template with the given values and bumps its usage
// counter. Placeholders without a value are reported, not failed.
func (uc *UseCase) Render(ctx context.Context, id, userID string, values map[string]string, clientID, caseID string) (*RenderedDocument, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidPayload
	}

	tpl, err := uc.templates.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	content, missing := domain.RenderTemplate(tpl.Content, values)

	if _, err := uc.templates.IncrementUsage(ctx, id, userID); err != nil {
		uc.logger.Warn("failed to increment template usage",
			zap.String("template_id", id), zap.Error(err))
	}

	return &RenderedDocument{
		TemplateID: tpl.ID,
		Name:       tpl.Name,
		Content:    content,
		Missing:    missing,
		ClientID:   clientID,
		CaseID:     caseID,
	}, nil
}
