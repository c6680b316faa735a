package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/mrson-dev/crm-ju-ai/api/transport"
	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/pkg/httpcontext"
	"github.com/mrson-dev/crm-ju-ai/repository"
	documentUC "github.com/mrson-dev/crm-ju-ai/usecase/document"
)

type DocumentHandler struct {
	baseHandler
	uc *documentUC.UseCase
}

func NewDocumentHandler(uc *documentUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List documents
// @Tags documents
// @Router /api/v1/documents [get]
func (h *DocumentHandler) GetDocuments(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter := repository.DocumentFilter{
		UserID: userID,
		CaseID: string(ctx.QueryArgs().Peek("case_id")),
		Limit:  parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset: parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	docs, err := h.uc.ListDocuments(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, docs)
}

// @Summary Get a document
// @Tags documents
// @Router /api/v1/documents/{id} [get]
func (h *DocumentHandler) GetDocument(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing document id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	doc, err := h.uc.GetDocument(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, doc)
}

// @Summary Register document metadata
// @Tags documents
// @Router /api/v1/documents [post]
func (h *DocumentHandler) CreateDocument(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	doc, ok := h.parseDocument(ctx, userID)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateDocument(stdCtx, doc)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update document metadata
// @Tags documents
// @Router /api/v1/documents/{id} [put]
func (h *DocumentHandler) UpdateDocument(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	doc, ok := h.parseDocument(ctx, userID)
	if !ok {
		return
	}
	if doc.ID == "" {
		doc.ID = pathParam(ctx, "id")
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateDocument(stdCtx, doc)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete document
// @Tags documents
// @Router /api/v1/documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing document id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteDocument(stdCtx, id, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *DocumentHandler) parseDocument(ctx *fasthttp.RequestCtx, userID string) (*domain.Document, bool) {
	var req transport.DocumentRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}

	return &domain.Document{
		ID:          req.ID,
		UserID:      userID,
		CaseID:      req.CaseID,
		Name:        req.Name,
		Description: req.Description,
		FilePath:    req.FilePath,
		FileURL:     req.FileURL,
		FileSize:    req.FileSize,
		MimeType:    req.MimeType,
	}, true
}
