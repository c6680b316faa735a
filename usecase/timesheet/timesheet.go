package timesheet

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
	"github.com/mrson-dev/crm-ju-ai/usecase"
)

// UseCase books hours against cases and aggregates timesheet summaries.
type UseCase struct {
	entries          repository.TimeEntryRepository
	buffer           usecase.OperationBuffer
	defaultRateCents int64
	logger           *zap.Logger
}

func New(entries repository.TimeEntryRepository, buffer usecase.OperationBuffer, defaultRateCents int64, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		entries:          entries,
		buffer:           buffer,
		defaultRateCents: defaultRateCents,
		logger:           logger,
	}
}

func (uc *UseCase) GetEntry(ctx context.Context, id, userID string) (*domain.TimeEntry, error) {
	return uc.entries.GetByID(ctx, id, userID)
}

func (uc *UseCase) ListEntries(ctx context.Context, filter repository.TimeEntryFilter) ([]domain.TimeEntry, error) {
	return uc.entries.List(ctx, filter)
}

// CreateEntry books time. Entries without an explicit rate inherit the
// office default so billing math never divides by zero.
func (uc *UseCase) CreateEntry(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	if entry == nil || entry.UserID == "" || entry.CaseID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if entry.DurationMinutes <= 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "duration must be positive")
	}
	if entry.Date.IsZero() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "entry date is required")
	}
	if entry.HourlyRateCents == 0 {
		entry.HourlyRateCents = uc.defaultRateCents
	}

	created, err := uc.entries.Create(ctx, entry)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, entry) {
			return entry, nil
		}
		return nil, err
	}
	return created, nil
}

func (uc *UseCase) UpdateEntry(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	if entry == nil || entry.ID == "" || entry.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if entry.DurationMinutes <= 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "duration must be positive")
	}

	if err := uc.entries.Update(ctx, entry); err != nil {
		if errors.Is(err, domain.ErrTimeEntryNotFound) {
			return nil, err
		}
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, entry) {
			return entry, nil
		}
		return nil, err
	}
	return entry, nil
}

func (uc *UseCase) DeleteEntry(ctx context.Context, id, userID string) error {
	return uc.entries.Delete(ctx, id, userID)
}

// Summary aggregates booked time over the filter window. The billed amount
// uses the office default rate; per-entry rates only affect invoicing.
func (uc *UseCase) Summary(ctx context.Context, filter repository.TimeEntryFilter) (domain.TimesheetSummary, error) {
	totalMinutes, billableMinutes, err := uc.entries.Summary(ctx, filter)
	if err != nil {
		return domain.TimesheetSummary{}, err
	}

	summary := domain.TimesheetSummary{
		TotalHours:       float64(totalMinutes) / 60,
		BillableHours:    float64(billableMinutes) / 60,
		NonBillableHours: float64(totalMinutes-billableMinutes) / 60,
	}
	summary.TotalAmountCents = billableMinutes * uc.defaultRateCents / 60
	return summary, nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, entry *domain.TimeEntry) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferTimeEntry(ctx, operation, entry); err != nil {
		uc.logger.Error("failed to buffer time entry operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("time entry operation buffered", zap.String("operation", operation))
	return true
}
