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
	taskUC "github.com/mrson-dev/crm-ju-ai/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter := repository.TaskFilter{
		UserID:     userID,
		Status:     domain.TaskStatus(ctx.QueryArgs().Peek("status")),
		CaseID:     string(ctx.QueryArgs().Peek("case_id")),
		ClientID:   string(ctx.QueryArgs().Peek("client_id")),
		AssignedTo: string(ctx.QueryArgs().Peek("assigned_to")),
		AlertLevel: domain.AlertLevel(ctx.QueryArgs().Peek("alert_level")),
		Limit:      parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:     parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Get a task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary List overdue tasks
// @Tags tasks
// @Router /api/v1/tasks/overdue [get]
func (h *TaskHandler) GetOverdue(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 50)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListOverdue(stdCtx, userID, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Productivity stats for the caller
// @Tags tasks
// @Router /api/v1/tasks/stats [get]
func (h *TaskHandler) GetStats(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stats, err := h.uc.Stats(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, stats)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	task, ok := h.parseTask(ctx, userID)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	patch, ok := h.parsePatch(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, id, userID, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Complete task
// @Tags tasks
// @Router /api/v1/tasks/{id}/complete [post]
func (h *TaskHandler) CompleteTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	var req transport.CompleteTaskRequest
	if body := ctx.PostBody(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.respondInvalid(ctx, "invalid payload")
			return
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	completed, err := h.uc.CompleteTask(stdCtx, id, userID, req.CompletedBy)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, completed)
}

// @Summary Complete several tasks
// @Tags tasks
// @Router /api/v1/tasks/batch/complete [post]
func (h *TaskHandler) BatchComplete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.BatchCompleteRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || len(req.TaskIDs) == 0 {
		h.respondInvalid(ctx, "task_ids is required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	results := h.uc.BatchComplete(stdCtx, req.TaskIDs, userID, req.CompletedBy)
	h.respondSuccess(ctx, http.StatusOK, results)
}

// @Summary Change status of several tasks
// @Tags tasks
// @Router /api/v1/tasks/batch/status [post]
func (h *TaskHandler) BatchStatus(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.BatchStatusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || len(req.TaskIDs) == 0 || req.Status == "" {
		h.respondInvalid(ctx, "task_ids and status are required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	results := h.uc.BatchStatus(stdCtx, req.TaskIDs, userID, domain.TaskStatus(req.Status))
	h.respondSuccess(ctx, http.StatusOK, results)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, id, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Productivity ranking
// @Tags taskscore
// @Router /api/v1/taskscore/ranking [get]
func (h *TaskHandler) GetRanking(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	window, ok := h.parseWindow(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ranking, err := h.uc.Ranking(stdCtx, window)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, ranking)
}

// @Summary Caller's ranking entry
// @Tags taskscore
// @Router /api/v1/taskscore/my-score [get]
func (h *TaskHandler) GetMyScore(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	window, ok := h.parseWindow(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entry, err := h.uc.MyScore(stdCtx, userID, window)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entry)
}

func (h *TaskHandler) parseWindow(ctx *fasthttp.RequestCtx) (repository.RankingWindow, bool) {
	start, ok := transport.ParseTime(string(ctx.QueryArgs().Peek("start")))
	if !ok {
		h.respondInvalid(ctx, "invalid start date")
		return repository.RankingWindow{}, false
	}
	end, ok := transport.ParseTime(string(ctx.QueryArgs().Peek("end")))
	if !ok {
		h.respondInvalid(ctx, "invalid end date")
		return repository.RankingWindow{}, false
	}
	return repository.RankingWindow{Start: start, End: end}, true
}

func (h *TaskHandler) parseTask(ctx *fasthttp.RequestCtx, userID string) (*domain.Task, bool) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}

	due, ok := transport.ParseTime(req.DueDate)
	if !ok {
		h.respondInvalid(ctx, "invalid due date")
		return nil, false
	}

	task := &domain.Task{
		ID:            req.ID,
		UserID:        userID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      domain.TaskCategory(req.Category),
		Priority:      domain.TaskPriority(req.Priority),
		Status:        domain.TaskStatus(req.Status),
		CaseID:        req.CaseID,
		ClientID:      req.ClientID,
		AssignedTo:    req.AssignedTo,
		DueDate:       due,
		Tags:          req.Tags,
		Notes:         req.Notes,
		Location:      req.Location,
		ProcessNumber: req.ProcessNumber,
	}

	return task, true
}

func (h *TaskHandler) parsePatch(ctx *fasthttp.RequestCtx) (taskUC.TaskPatch, bool) {
	var req transport.TaskUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return taskUC.TaskPatch{}, false
	}

	patch := taskUC.TaskPatch{
		Title:         req.Title,
		Description:   req.Description,
		CaseID:        req.CaseID,
		ClientID:      req.ClientID,
		AssignedTo:    req.AssignedTo,
		Tags:          req.Tags,
		Notes:         req.Notes,
		Location:      req.Location,
		ProcessNumber: req.ProcessNumber,
	}
	if req.Category != nil {
		category := domain.TaskCategory(*req.Category)
		patch.Category = &category
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}
	if req.DueDate != nil {
		due, ok := transport.ParseTime(*req.DueDate)
		if !ok {
			h.respondInvalid(ctx, "invalid due date")
			return taskUC.TaskPatch{}, false
		}
		if due == nil {
			patch.ClearDueDate = true
		} else {
			patch.DueDate = due
		}
	}

	return patch, true
}
