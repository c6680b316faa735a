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
	clientUC "github.com/mrson-dev/crm-ju-ai/usecase/client"
)

type ClientHandler struct {
	baseHandler
	uc *clientUC.UseCase
}

func NewClientHandler(uc *clientUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List clients
// @Tags clients
// @Router /api/v1/clients [get]
func (h *ClientHandler) GetClients(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter := repository.ClientFilter{
		UserID:     userID,
		ClientType: domain.ClientType(ctx.QueryArgs().Peek("client_type")),
		Limit:      parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:     parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	clients, err := h.uc.ListClients(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, clients)
}

// @Summary Search clients by name or document
// @Tags clients
// @Router /api/v1/clients/search [get]
func (h *ClientHandler) SearchClients(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	query := string(ctx.QueryArgs().Peek("q"))
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 20)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	clients, err := h.uc.SearchClients(stdCtx, userID, query, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, clients)
}

// @Summary Count clients
// @Tags clients
// @Router /api/v1/clients/count [get]
func (h *ClientHandler) CountClients(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	count, err := h.uc.CountClients(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]int{"count": count})
}

// @Summary Get a client
// @Tags clients
// @Router /api/v1/clients/{id} [get]
func (h *ClientHandler) GetClient(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing client id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	client, err := h.uc.GetClient(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, client)
}

// @Summary Create client
// @Tags clients
// @Router /api/v1/clients [post]
func (h *ClientHandler) CreateClient(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	client, ok := h.parseClient(ctx, userID)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateClient(stdCtx, client)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update client
// @Tags clients
// @Router /api/v1/clients/{id} [put]
func (h *ClientHandler) UpdateClient(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	client, ok := h.parseClient(ctx, userID)
	if !ok {
		return
	}
	if client.ID == "" {
		client.ID = pathParam(ctx, "id")
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateClient(stdCtx, client)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete client
// @Tags clients
// @Router /api/v1/clients/{id} [delete]
func (h *ClientHandler) DeleteClient(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing client id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteClient(stdCtx, id, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *ClientHandler) parseClient(ctx *fasthttp.RequestCtx, userID string) (*domain.Client, bool) {
	var req transport.ClientRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}

	client := &domain.Client{
		ID:             req.ID,
		UserID:         userID,
		Name:           req.Name,
		CPFCNPJ:        req.CPFCNPJ,
		ClientType:     domain.ClientType(req.ClientType),
		BirthDate:      req.BirthDate,
		Nationality:    req.Nationality,
		BirthPlace:     req.BirthPlace,
		MaritalStatus:  domain.MaritalStatus(req.MaritalStatus),
		Profession:     req.Profession,
		MothersName:    req.MothersName,
		FathersName:    req.FathersName,
		Email:          req.Email,
		Phone:          req.Phone,
		SecondaryPhone: req.SecondaryPhone,
		Documents:      req.Documents,
		Address:        req.Address,
		IsMinor:        req.IsMinor,
		Guardian:       req.Guardian,
		LGPDConsent:    req.LGPDConsent,
		Notes:          req.Notes,
	}
	if req.LGPDConsent {
		now := ctx.Time()
		client.LGPDConsentDate = &now
	}

	return client, true
}
