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
	timesheetUC "github.com/mrson-dev/crm-ju-ai/usecase/timesheet"
)

type TimesheetHandler struct {
	baseHandler
	uc *timesheetUC.UseCase
}

func NewTimesheetHandler(uc *timesheetUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TimesheetHandler {
	return &TimesheetHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List time entries
// @Tags timesheet
// @Router /api/v1/time-entries [get]
func (h *TimesheetHandler) GetEntries(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter, ok := h.parseFilter(ctx, userID)
	if !ok {
		return
	}
	filter.Limit = parseInt(string(ctx.QueryArgs().Peek("limit")), 50)
	filter.Offset = parseInt(string(ctx.QueryArgs().Peek("offset")), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entries, err := h.uc.ListEntries(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}

// @Summary Timesheet summary
// @Tags timesheet
// @Router /api/v1/time-entries/summary [get]
func (h *TimesheetHandler) GetSummary(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter, ok := h.parseFilter(ctx, userID)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summary, err := h.uc.Summary(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, summary)
}

// @Summary Get a time entry
// @Tags timesheet
// @Router /api/v1/time-entries/{id} [get]
func (h *TimesheetHandler) GetEntry(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing entry id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entry, err := h.uc.GetEntry(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entry)
}

// @Summary Book time
// @Tags timesheet
// @Router /api/v1/time-entries [post]
func (h *TimesheetHandler) CreateEntry(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	entry, ok := h.parseEntry(ctx, userID)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateEntry(stdCtx, entry)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update time entry
// @Tags timesheet
// @Router /api/v1/time-entries/{id} [put]
func (h *TimesheetHandler) UpdateEntry(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	entry, ok := h.parseEntry(ctx, userID)
	if !ok {
		return
	}
	if entry.ID == "" {
		entry.ID = pathParam(ctx, "id")
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateEntry(stdCtx, entry)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete time entry
// @Tags timesheet
// @Router /api/v1/time-entries/{id} [delete]
func (h *TimesheetHandler) DeleteEntry(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing entry id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteEntry(stdCtx, id, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *TimesheetHandler) parseFilter(ctx *fasthttp.RequestCtx, userID string) (repository.TimeEntryFilter, bool) {
	start, ok := transport.ParseTime(string(ctx.QueryArgs().Peek("start")))
	if !ok {
		h.respondInvalid(ctx, "invalid start date")
		return repository.TimeEntryFilter{}, false
	}
	end, ok := transport.ParseTime(string(ctx.QueryArgs().Peek("end")))
	if !ok {
		h.respondInvalid(ctx, "invalid end date")
		return repository.TimeEntryFilter{}, false
	}

	return repository.TimeEntryFilter{
		UserID:       userID,
		CaseID:       string(ctx.QueryArgs().Peek("case_id")),
		Start:        start,
		End:          end,
		BillableOnly: ctx.QueryArgs().GetBool("billable"),
	}, true
}

func (h *TimesheetHandler) parseEntry(ctx *fasthttp.RequestCtx, userID string) (*domain.TimeEntry, bool) {
	var req transport.TimeEntryRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}

	date, ok := transport.ParseTime(req.Date)
	if !ok || date == nil {
		h.respondInvalid(ctx, "invalid entry date")
		return nil, false
	}

	return &domain.TimeEntry{
		ID:              req.ID,
		UserID:          userID,
		CaseID:          req.CaseID,
		Date:            *date,
		DurationMinutes: req.DurationMinutes,
		Description:     req.Description,
		Billable:        req.Billable,
		HourlyRateCents: req.HourlyRateCents,
	}, true
}
