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
	caseUC "github.com/mrson-dev/crm-ju-ai/usecase/casefile"
)

type CaseHandler struct {
	baseHandler
	uc *caseUC.UseCase
}

func NewCaseHandler(uc *caseUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CaseHandler {
	return &CaseHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List cases
// @Tags cases
// @Router /api/v1/cases [get]
func (h *CaseHandler) GetCases(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter := repository.CaseFilter{
		UserID:   userID,
		Status:   domain.CaseStatus(ctx.QueryArgs().Peek("status")),
		ClientID: string(ctx.QueryArgs().Peek("client_id")),
		Limit:    parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:   parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	cases, err := h.uc.ListCases(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, cases)
}

// @Summary Case counts per status
// @Tags cases
// @Router /api/v1/cases/count-by-status [get]
func (h *CaseHandler) CountByStatus(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	counts, err := h.uc.CountByStatus(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, counts)
}

// @Summary Get a case
// @Tags cases
// @Router /api/v1/cases/{id} [get]
func (h *CaseHandler) GetCase(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing case id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	c, err := h.uc.GetCase(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, c)
}

// @Summary Create case
// @Tags cases
// @Router /api/v1/cases [post]
func (h *CaseHandler) CreateCase(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	c, ok := h.parseCase(ctx, userID)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateCase(stdCtx, c)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update case
// @Tags cases
// @Router /api/v1/cases/{id} [put]
func (h *CaseHandler) UpdateCase(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	c, ok := h.parseCase(ctx, userID)
	if !ok {
		return
	}
	if c.ID == "" {
		c.ID = pathParam(ctx, "id")
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateCase(stdCtx, c)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete case
// @Tags cases
// @Router /api/v1/cases/{id} [delete]
func (h *CaseHandler) DeleteCase(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing case id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteCase(stdCtx, id, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *CaseHandler) parseCase(ctx *fasthttp.RequestCtx, userID string) (*domain.Case, bool) {
	var req transport.CaseRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}

	return &domain.Case{
		ID:          req.ID,
		UserID:      userID,
		ClientID:    req.ClientID,
		Title:       req.Title,
		Description: req.Description,
		CaseNumber:  req.CaseNumber,
		Status:      domain.CaseStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		Court:       req.Court,
		Tags:        req.Tags,
	}, true
}
