package document

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

// UseCase tracks document metadata attached to cases.
type UseCase struct {
	documents repository.DocumentRepository
	cases     repository.CaseRepository
	logger    *zap.Logger
}

func New(documents repository.DocumentRepository, cases repository.CaseRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{documents: documents, cases: cases, logger: logger}
}

func (uc *UseCase) GetDocument(ctx context.Context, id, userID string) (*domain.Document, error) {
	return uc.documents.GetByID(ctx, id, userID)
}

func (uc *UseCase) ListDocuments(ctx context.Context, filter repository.DocumentFilter) ([]domain.Document, error) {
	return uc.documents.List(ctx, filter)
}

// CreateDocument verifies the case exists before recording the metadata.
func (uc *UseCase) CreateDocument(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if doc == nil || doc.UserID == "" || strings.TrimSpace(doc.Name) == "" {
		return nil, domain.ErrInvalidPayload
	}
	if doc.CaseID == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "document requires a case")
	}
	if strings.TrimSpace(doc.FilePath) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "document requires a file path")
	}
	if _, err := uc.cases.GetByID(ctx, doc.CaseID, doc.UserID); err != nil {
		if errors.Is(err, domain.ErrCaseNotFound) {
			return nil, domain.NewError(domain.ErrCodeInvalid, "case does not exist")
		}
		return nil, err
	}
	return uc.documents.Create(ctx, doc)
}

func (uc *UseCase) UpdateDocument(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if doc == nil || doc.ID == "" || doc.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if err := uc.documents.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (uc *UseCase) DeleteDocument(ctx context.Context, id, userID string) error {
	return uc.documents.Delete(ctx, id, userID)
}
