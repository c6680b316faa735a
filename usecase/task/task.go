package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
	"github.com/mrson-dev/crm-ju-ai/usecase"
)

// UseCase implements task lifecycle, scoring and the productivity ranking.
type UseCase struct {
	tasks  repository.TaskRepository
	buffer usecase.OperationBuffer
	logger *zap.Logger
	now    func() time.Time
}

func New(tasks repository.TaskRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		buffer: buffer,
		logger: logger,
		now:    time.Now,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) GetTask(ctx context.Context, id, userID string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id, userID)
}

// ListOverdue returns open tasks whose due date has already passed.
func (uc *UseCase) ListOverdue(ctx context.Context, userID string, limit int) ([]domain.Task, error) {
	return uc.tasks.ListOverdue(ctx, userID, uc.now().UTC(), limit)
}

// CreateTask validates payload, computes the score and the alert snapshot,
// then persists. The score is fixed for the lifetime of the task.
func (uc *UseCase) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || strings.TrimSpace(task.Title) == "" || task.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if task.Category == "" {
		task.Category = domain.CategoryOther
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	if task.Status == "" {
		task.Status = domain.TaskPending
	}
	if !domain.ValidTaskStatus(task.Status) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid task status")
	}

	task.Score = domain.TaskScore(task.Category, task.Priority)
	task.AlertLevel = domain.ClassifyAlert(task.DueDate, uc.now())

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, task) {
			return task, nil
		}
		return nil, err
	}
	return created, nil
}

// TaskPatch carries the editable fields of a partial update. Nil fields
// keep the stored value; ClearDueDate removes the deadline.
type TaskPatch struct {
	Title         *string
	Description   *string
	Category      *domain.TaskCategory
	Priority      *domain.TaskPriority
	Status        *domain.TaskStatus
	CaseID        *string
	ClientID      *string
	AssignedTo    *string
	DueDate       *time.Time
	ClearDueDate  bool
	Tags          *[]string
	Notes         *string
	Location      *string
	ProcessNumber *string
}

func (p TaskPatch) touchesDueDate() bool {
	return p.DueDate != nil || p.ClearDueDate
}

// UpdateTask loads the stored task and merges the patch over it, so fields
// the caller did not send survive. Score is never recomputed; the alert
// snapshot is refreshed only when the patch carries a due date.
func (uc *UseCase) UpdateTask(ctx context.Context, id, userID string, patch TaskPatch) (*domain.Task, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "title cannot be empty")
	}
	if patch.Status != nil && !domain.ValidTaskStatus(*patch.Status) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid task status")
	}

	task, err := uc.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	applyPatch(task, patch)
	if patch.touchesDueDate() {
		task.AlertLevel = domain.ClassifyAlert(task.DueDate, uc.now())
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, task) {
			return task, nil
		}
		return nil, err
	}
	return task, nil
}

func applyPatch(task *domain.Task, patch TaskPatch) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.CaseID != nil {
		task.CaseID = *patch.CaseID
	}
	if patch.ClientID != nil {
		task.ClientID = *patch.ClientID
	}
	if patch.AssignedTo != nil {
		task.AssignedTo = *patch.AssignedTo
	}
	if patch.ClearDueDate {
		task.DueDate = nil
	} else if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.Tags != nil {
		task.Tags = *patch.Tags
	}
	if patch.Notes != nil {
		task.Notes = *patch.Notes
	}
	if patch.Location != nil {
		task.Location = *patch.Location
	}
	if patch.ProcessNumber != nil {
		task.ProcessNumber = *patch.ProcessNumber
	}
}

// CompleteTask marks a task done. Completing an already completed task is a
// no-op that returns the stored task untouched.
func (uc *UseCase) CompleteTask(ctx context.Context, id, userID, completedBy string) (*domain.Task, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if completedBy == "" {
		completedBy = userID
	}

	completed, err := uc.tasks.Complete(ctx, id, userID, completedBy, uc.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}
		at := uc.now().UTC()
		stub := &domain.Task{ID: id, UserID: userID, CompletedBy: completedBy, CompletedAt: &at}
		if uc.shouldBuffer(ctx, usecase.OperationComplete, stub) {
			return stub, nil
		}
		return nil, err
	}
	return completed, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, id, userID string) error {
	if err := uc.tasks.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		stub := &domain.Task{ID: id, UserID: userID}
		if uc.shouldBuffer(ctx, usecase.OperationDelete, stub) {
			return nil
		}
		return err
	}
	return nil
}

// BatchResult reports the outcome of one item of a batch operation.
type BatchResult struct {
	ID    string       `json:"id"`
	Task  *domain.Task `json:"task,omitempty"`
	Error string       `json:"error,omitempty"`
}

// BatchComplete completes several tasks in one call. Items fail
// independently; one bad id does not abort the rest.
func (uc *UseCase) BatchComplete(ctx context.Context, ids []string, userID, completedBy string) []BatchResult {
	results := make([]BatchResult, 0, len(ids))
	for _, id := range ids {
		result := BatchResult{ID: id}
		task, err := uc.CompleteTask(ctx, id, userID, completedBy)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Task = task
		}
		results = append(results, result)
	}
	return results
}

// BatchStatus moves several tasks to the given status.
func (uc *UseCase) BatchStatus(ctx context.Context, ids []string, userID string, status domain.TaskStatus) []BatchResult {
	results := make([]BatchResult, 0, len(ids))
	for _, id := range ids {
		result := BatchResult{ID: id}
		task, err := uc.setStatus(ctx, id, userID, status)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Task = task
		}
		results = append(results, result)
	}
	return results
}

func (uc *UseCase) setStatus(ctx context.Context, id, userID string, status domain.TaskStatus) (*domain.Task, error) {
	if !domain.ValidTaskStatus(status) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid task status")
	}
	if status == domain.TaskDone {
		return uc.CompleteTask(ctx, id, userID, "")
	}

	task, err := uc.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	task.Status = status
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Stats summarizes the user's completed tasks.
func (uc *UseCase) Stats(ctx context.Context, userID string) (repository.ProductivityStats, error) {
	return uc.tasks.ProductivityStats(ctx, userID)
}

// Ranking computes the office-wide productivity ranking for the window.
func (uc *UseCase) Ranking(ctx context.Context, window repository.RankingWindow) ([]domain.RankingEntry, error) {
	groups, err := uc.tasks.CompletionGroups(ctx, window)
	if err != nil {
		return nil, err
	}
	return domain.BuildRanking(groups), nil
}

// MyScore returns the caller's position in the ranking, or a zero entry
// ranked last when the caller has no completions in the window.
func (uc *UseCase) MyScore(ctx context.Context, userID string, window repository.RankingWindow) (domain.RankingEntry, error) {
	ranking, err := uc.Ranking(ctx, window)
	if err != nil {
		return domain.RankingEntry{}, err
	}
	return domain.OwnScore(ranking, userID), nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation))
	return true
}
