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
	templateUC "github.com/mrson-dev/crm-ju-ai/usecase/template"
)

type TemplateHandler struct {
	baseHandler
	uc *templateUC.UseCase
}

func NewTemplateHandler(uc *templateUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List templates
// @Tags templates
// @Router /api/v1/templates [get]
func (h *TemplateHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter := repository.TemplateFilter{
		UserID:        userID,
		Category:      domain.TemplateCategory(ctx.QueryArgs().Peek("category")),
		IncludePublic: includePublicArg(ctx),
		Limit:         parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:        parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	templates, err := h.uc.ListTemplates(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, templates)
}

// @Summary Search templates by name or description
// @Tags templates
// @Router /api/v1/templates/search [get]
func (h *TemplateHandler) Search(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	query := string(ctx.QueryArgs().Peek("q"))
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 20)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	templates, err := h.uc.SearchTemplates(stdCtx, userID, query, includePublicArg(ctx), limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, templates)
}

// @Summary Get a template
// @Tags templates
// @Router /api/v1/templates/{id} [get]
func (h *TemplateHandler) Get(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing template id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tpl, err := h.uc.GetTemplate(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tpl)
}

// @Summary Create template
// @Tags templates
// @Router /api/v1/templates [post]
func (h *TemplateHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.TemplateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	tpl := &domain.Template{
		ID:          req.ID,
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Category:    domain.TemplateCategory(req.Category),
		Content:     req.Content,
		IsPublic:    req.IsPublic,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTemplate(stdCtx, tpl)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update template
// @Tags templates
// @Router /api/v1/templates/{id} [put]
func (h *TemplateHandler) Update(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing template id")
		return
	}

	var req transport.TemplateUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	patch := templateUC.TemplatePatch{
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
		IsPublic:    req.IsPublic,
	}
	if req.Category != nil {
		category := domain.TemplateCategory(*req.Category)
		patch.Category = &category
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTemplate(stdCtx, id, userID, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete template
// @Tags templates
// @Router /api/v1/templates/{id} [delete]
func (h *TemplateHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing template id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTemplate(stdCtx, id, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Toggle template favorite flag
// @Tags templates
// @Router /api/v1/templates/{id}/favorite [post]
func (h *TemplateHandler) ToggleFavorite(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing template id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tpl, err := h.uc.ToggleFavorite(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tpl)
}

// @Summary Render a document from a template
// @Tags templates
// @Router /api/v1/templates/{id}/render [post]
func (h *TemplateHandler) Render(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing template id")
		return
	}

	var req transport.RenderTemplateRequest
	if body := ctx.PostBody(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.respondInvalid(ctx, "invalid payload")
			return
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	rendered, err := h.uc.Render(stdCtx, id, userID, req.Values, req.ClientID, req.CaseID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, rendered)
}

func includePublicArg(ctx *fasthttp.RequestCtx) bool {
	if ctx.QueryArgs().Has("include_public") {
		return ctx.QueryArgs().GetBool("include_public")
	}
	return true
}
