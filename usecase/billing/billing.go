package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

// UseCase implements fees, expenses, invoices and payment registration.
type UseCase struct {
	fees     repository.FeeRepository
	expenses repository.ExpenseRepository
	invoices repository.InvoiceRepository
	payments repository.PaymentRepository
	logger   *zap.Logger
	now      func() time.Time
}

func New(
	fees repository.FeeRepository,
	expenses repository.ExpenseRepository,
	invoices repository.InvoiceRepository,
	payments repository.PaymentRepository,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		fees:     fees,
		expenses: expenses,
		invoices: invoices,
		payments: payments,
		logger:   logger,
		now:      time.Now,
	}
}

func (uc *UseCase) GetFee(ctx context.Context, id, userID string) (*domain.Fee, error) {
	return uc.fees.GetByID(ctx, id, userID)
}

func (uc *UseCase) ListFees(ctx context.Context, filter repository.FeeFilter) ([]domain.Fee, error) {
	return uc.fees.List(ctx, filter)
}

// CreateFee persists a fee, generating the installment plan when the fee
// is split. Installments are spaced 30 days apart starting at the due
// date; cent remainders land on the last installment.
func (uc *UseCase) CreateFee(ctx context.Context, fee *domain.Fee) (*domain.Fee, error) {
	if fee == nil || fee.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if fee.AmountCents <= 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "fee amount must be positive")
	}
	if fee.FeeType == "" {
		fee.FeeType = domain.FeeFixed
	}
	if fee.Installments <= 0 {
		fee.Installments = 1
	}

	fee.Status = domain.FeePending
	fee.PaidCents = 0
	fee.PendingCents = fee.AmountCents
	fee.InstallmentsPaid = 0

	if fee.Installments > 1 {
		start := uc.now().UTC()
		if fee.DueDate != nil {
			start = fee.DueDate.UTC()
		}
		fee.Plan = BuildInstallmentPlan(fee.AmountCents, fee.Installments, start)
	}

	return uc.fees.Create(ctx, fee)
}

func (uc *UseCase) UpdateFee(ctx context.Context, fee *domain.Fee) (*domain.Fee, error) {
	if fee == nil || fee.ID == "" || fee.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if err := uc.fees.Update(ctx, fee); err != nil {
		return nil, err
	}
	return fee, nil
}

func (uc *UseCase) DeleteFee(ctx context.Context, id, userID string) error {
	return uc.fees.Delete(ctx, id, userID)
}

// RegisterFeePayment records money received against a fee and advances the
// fee status: pending -> partial -> paid. Overpayment is rejected.
func (uc *UseCase) RegisterFeePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if payment == nil || payment.UserID == "" || payment.FeeID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if payment.AmountCents <= 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "payment amount must be positive")
	}

	fee, err := uc.fees.GetByID(ctx, payment.FeeID, payment.UserID)
	if err != nil {
		return nil, err
	}
	if fee.Status == domain.FeeCancelled {
		return nil, domain.NewError(domain.ErrCodeConflict, "fee is cancelled")
	}
	if payment.AmountCents > fee.PendingCents {
		return nil, domain.NewError(domain.ErrCodeInvalid, "payment exceeds pending amount")
	}

	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = uc.now().UTC()
	}
	if payment.Method == "" {
		payment.Method = domain.PaymentPix
	}

	created, err := uc.payments.Create(ctx, payment)
	if err != nil {
		return nil, err
	}

	fee.PaidCents += payment.AmountCents
	fee.PendingCents -= payment.AmountCents
	markInstallmentPaid(fee, payment)
	if fee.PendingCents == 0 {
		fee.Status = domain.FeePaid
	} else {
		fee.Status = domain.FeePartial
	}

	if err := uc.fees.Update(ctx, fee); err != nil {
		return nil, err
	}
	return created, nil
}

func (uc *UseCase) ListFeePayments(ctx context.Context, feeID, userID string, limit int) ([]domain.Payment, error) {
	return uc.payments.ListByFee(ctx, feeID, userID, limit)
}

func (uc *UseCase) GetExpense(ctx context.Context, id, userID string) (*domain.Expense, error) {
	return uc.expenses.GetByID(ctx, id, userID)
}

func (uc *UseCase) ListExpenses(ctx context.Context, filter repository.ExpenseFilter) ([]domain.Expense, error) {
	return uc.expenses.List(ctx, filter)
}

func (uc *UseCase) CreateExpense(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if expense == nil || expense.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if expense.AmountCents <= 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "expense amount must be positive")
	}
	if expense.Category == "" {
		expense.Category = domain.ExpenseOther
	}
	if expense.ExpenseDate.IsZero() {
		expense.ExpenseDate = uc.now().UTC()
	}
	expense.Status = domain.ExpensePending
	return uc.expenses.Create(ctx, expense)
}

func (uc *UseCase) UpdateExpense(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if expense == nil || expense.ID == "" || expense.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if err := uc.expenses.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ApproveExpense moves a pending expense to approved.
func (uc *UseCase) ApproveExpense(ctx context.Context, id, userID, approvedBy string) (*domain.Expense, error) {
	expense, err := uc.expenses.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if expense.Status != domain.ExpensePending {
		return nil, domain.NewError(domain.ErrCodeConflict, "only pending expenses can be approved")
	}
	now := uc.now().UTC()
	expense.Status = domain.ExpenseApproved
	expense.ApprovedBy = approvedBy
	expense.ApprovedAt = &now
	if err := uc.expenses.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (uc *UseCase) DeleteExpense(ctx context.Context, id, userID string) error {
	return uc.expenses.Delete(ctx, id, userID)
}

func (uc *UseCase) GetInvoice(ctx context.Context, id, userID string) (*domain.Invoice, error) {
	return uc.invoices.GetByID(ctx, id, userID)
}

func (uc *UseCase) ListInvoices(ctx context.Context, filter repository.InvoiceFilter) ([]domain.Invoice, error) {
	return uc.invoices.List(ctx, filter)
}

// CreateInvoice totals the line items and assigns an invoice number.
func (uc *UseCase) CreateInvoice(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	if invoice == nil || invoice.UserID == "" || invoice.ClientID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if len(invoice.Items) == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invoice requires at least one item")
	}
	for _, item := range invoice.Items {
		if item.Quantity <= 0 || item.UnitPriceCents < 0 {
			return nil, domain.NewError(domain.ErrCodeInvalid, "invalid invoice item")
		}
	}
	if invoice.DueDate.IsZero() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invoice due date is required")
	}

	invoice.TotalCents = InvoiceTotal(invoice.Items)
	invoice.PaidCents = 0
	invoice.Status = domain.InvoiceDraft
	if invoice.InvoiceNumber == "" {
		invoice.InvoiceNumber = buildInvoiceNumber(invoice.UserID, uc.now())
	}

	return uc.invoices.Create(ctx, invoice)
}

// SendInvoice moves a draft invoice to sent.
func (uc *UseCase) SendInvoice(ctx context.Context, id, userID string) (*domain.Invoice, error) {
	invoice, err := uc.invoices.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceDraft {
		return nil, domain.NewError(domain.ErrCodeConflict, "only draft invoices can be sent")
	}
	now := uc.now().UTC()
	invoice.Status = domain.InvoiceSent
	invoice.SentAt = &now
	if err := uc.invoices.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// CancelInvoice cancels any invoice that has not been paid.
func (uc *UseCase) CancelInvoice(ctx context.Context, id, userID, reason string) (*domain.Invoice, error) {
	invoice, err := uc.invoices.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == domain.InvoicePaid {
		return nil, domain.NewError(domain.ErrCodeConflict, "paid invoices cannot be cancelled")
	}
	now := uc.now().UTC()
	invoice.Status = domain.InvoiceCancelled
	invoice.CancelledAt = &now
	invoice.CancellationReason = reason
	if err := uc.invoices.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// RegisterInvoicePayment records money received against an invoice and
// marks it paid once the total is covered.
func (uc *UseCase) RegisterInvoicePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if payment == nil || payment.UserID == "" || payment.InvoiceID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if payment.AmountCents <= 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "payment amount must be positive")
	}

	invoice, err := uc.invoices.GetByID(ctx, payment.InvoiceID, payment.UserID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == domain.InvoiceCancelled {
		return nil, domain.NewError(domain.ErrCodeConflict, "invoice is cancelled")
	}
	if invoice.Status == domain.InvoiceDraft {
		return nil, domain.NewError(domain.ErrCodeConflict, "invoice has not been sent")
	}
	if payment.AmountCents > invoice.TotalCents-invoice.PaidCents {
		return nil, domain.NewError(domain.ErrCodeInvalid, "payment exceeds outstanding amount")
	}

	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = uc.now().UTC()
	}
	if payment.Method == "" {
		payment.Method = domain.PaymentPix
	}

	created, err := uc.payments.Create(ctx, payment)
	if err != nil {
		return nil, err
	}

	invoice.PaidCents += payment.AmountCents
	if invoice.PaidCents == invoice.TotalCents {
		now := uc.now().UTC()
		invoice.Status = domain.InvoicePaid
		invoice.PaidAt = &now
	}
	if err := uc.invoices.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return created, nil
}

func (uc *UseCase) ListInvoicePayments(ctx context.Context, invoiceID, userID string, limit int) ([]domain.Payment, error) {
	return uc.payments.ListByInvoice(ctx, invoiceID, userID, limit)
}

// BuildInstallmentPlan splits total cents across n installments spaced 30
// days apart. Each slice gets the integer quotient; the remainder is added
// to the last installment so the plan always sums to the total.
func BuildInstallmentPlan(totalCents int64, n int, start time.Time) []domain.Installment {
	if n <= 0 {
		return nil
	}
	base := totalCents / int64(n)
	remainder := totalCents - base*int64(n)

	plan := make([]domain.Installment, n)
	for i := 0; i < n; i++ {
		amount := base
		if i == n-1 {
			amount += remainder
		}
		plan[i] = domain.Installment{
			Number:  i + 1,
			Cents:   amount,
			DueDate: start.AddDate(0, 0, 30*i),
			Status:  "pending",
		}
	}
	return plan
}

// InvoiceTotal sums quantity times unit price across the items.
func InvoiceTotal(items []domain.InvoiceItem) int64 {
	var total int64
	for _, item := range items {
		total += int64(item.Quantity) * item.UnitPriceCents
	}
	return total
}

func markInstallmentPaid(fee *domain.Fee, payment *domain.Payment) {
	if payment.InstallmentNumber <= 0 || payment.InstallmentNumber > len(fee.Plan) {
		return
	}
	slot := &fee.Plan[payment.InstallmentNumber-1]
	if slot.Status == "paid" {
		return
	}
	slot.Status = "paid"
	fee.InstallmentsPaid++
}

func buildInvoiceNumber(userID string, now time.Time) string {
	prefix := strings.ToUpper(strings.ReplaceAll(userID, "-", ""))
	if len(prefix) > 6 {
		prefix = prefix[:6]
	}
	return fmt.Sprintf("INV-%s-%s", now.UTC().Format("20060102"), prefix)
}
