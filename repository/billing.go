package repository

import (
	"context"

	"github.com/mrson-dev/crm-ju-ai/domain"
)

type FeeFilter struct {
	UserID   string
	ClientID string
	CaseID   string
	Status   domain.FeeStatus
	Limit    int
	Offset   int
}

type FeeRepository interface {
	GetByID(ctx context.Context, id, userID string) (*domain.Fee, error)
	List(ctx context.Context, filter FeeFilter) ([]domain.Fee, error)
	Count(ctx context.Context, filter FeeFilter) (int, error)
	Create(ctx context.Context, fee *domain.Fee) (*domain.Fee, error)
	Update(ctx context.Context, fee *domain.Fee) error
	Delete(ctx context.Context, id, userID string) error
}

type ExpenseFilter struct {
	UserID   string
	Status   domain.ExpenseStatus
	Category domain.ExpenseCategory
	Limit    int
	Offset   int
}

type ExpenseRepository interface {
	GetByID(ctx context.Context, id, userID string) (*domain.Expense, error)
	List(ctx context.Context, filter ExpenseFilter) ([]domain.Expense, error)
	Count(ctx context.Context, filter ExpenseFilter) (int, error)
	Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error)
	Update(ctx context.Context, expense *domain.Expense) error
	Delete(ctx context.Context, id, userID string) error
}

type InvoiceFilter struct {
	UserID   string
	ClientID string
	Status   domain.InvoiceStatus
	Limit    int
	Offset   int
}

type InvoiceRepository interface {
	GetByID(ctx context.Context, id, userID string) (*domain.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, error)
	Count(ctx context.Context, filter InvoiceFilter) (int, error)
	Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)
	Update(ctx context.Context, invoice *domain.Invoice) error
	Delete(ctx context.Context, id, userID string) error
}

type PaymentRepository interface {
	GetByID(ctx context.Context, id, userID string) (*domain.Payment, error)
	ListByFee(ctx context.Context, feeID, userID string, limit int) ([]domain.Payment, error)
	ListByInvoice(ctx context.Context, invoiceID, userID string, limit int) ([]domain.Payment, error)
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
}
