package usecase

import (
	"context"

	"github.com/mrson-dev/crm-ju-ai/domain"
)

// Buffer operation names, mirrored by the buffer store.
const (
	OperationCreate   = "create"
	OperationUpdate   = "update"
	OperationComplete = "complete"
	OperationDelete   = "delete"
)

// OperationBuffer abstracts the buffer processor so use cases stay storage-agnostic.
type OperationBuffer interface {
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
	BufferTimeEntry(ctx context.Context, operation string, entry *domain.TimeEntry) error
}
