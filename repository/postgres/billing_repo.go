package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

const feeColumns = `id, user_id, case_id, client_id, fee_type, amount_cents, paid_cents,
	pending_cents, description, due_date, installments, installments_paid, plan,
	status, created_by, created_at, updated_at`

type feeRepository struct {
	pool *pgxpool.Pool
}

// NewFeeRepository returns a Postgres-backed implementation of FeeRepository.
func NewFeeRepository(pool *pgxpool.Pool) repository.FeeRepository {
	return &feeRepository{pool: pool}
}

func (r *feeRepository) GetByID(ctx context.Context, id, userID string) (*domain.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees WHERE id = $1 AND user_id = $2`
	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanFee(row)
}

func (r *feeRepository) List(ctx context.Context, filter repository.FeeFilter) ([]domain.Fee, error) {
	query := `SELECT ` + feeColumns + `
	FROM fees
	WHERE user_id = $1
	  AND ($2 = '' OR client_id = $2)
	  AND ($3 = '' OR case_id = $3)
	  AND ($4 = '' OR status = $4)
	ORDER BY created_at DESC
	LIMIT $5 OFFSET $6
	`

	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		filter.ClientID,
		filter.CaseID,
		string(filter.Status),
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fees []domain.Fee
	for rows.Next() {
		fee, err := scanFee(rows)
		if err != nil {
			return nil, err
		}
		fees = append(fees, *fee)
	}
	return fees, rows.Err()
}

func (r *feeRepository) Count(ctx context.Context, filter repository.FeeFilter) (int, error) {
	const query = `
	SELECT COUNT(id)
	FROM fees
	WHERE user_id = $1
	  AND ($2 = '' OR client_id = $2)
	  AND ($3 = '' OR case_id = $3)
	  AND ($4 = '' OR status = $4)
	`

	var count int
	err := r.pool.QueryRow(ctx, query,
		filter.UserID, filter.ClientID, filter.CaseID, string(filter.Status),
	).Scan(&count)
	return count, err
}

func (r *feeRepository) Create(ctx context.Context, fee *domain.Fee) (*domain.Fee, error) {
	if fee == nil {
		return nil, domain.ErrInvalidPayload
	}
	if fee.ID == "" {
		fee.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO fees (id, user_id, case_id, client_id, fee_type, amount_cents, paid_cents,
		pending_cents, description, due_date, installments, installments_paid, plan,
		status, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	RETURNING created_at, updated_at
	`

	var dueDate interface{}
	if fee.DueDate != nil {
		dueDate = fee.DueDate.UTC()
	}

	if err := r.pool.QueryRow(ctx, query,
		fee.ID,
		fee.UserID,
		fee.CaseID,
		fee.ClientID,
		string(fee.FeeType),
		fee.AmountCents,
		fee.PaidCents,
		fee.PendingCents,
		fee.Description,
		dueDate,
		fee.Installments,
		fee.InstallmentsPaid,
		marshalJSON(fee.Plan),
		string(fee.Status),
		fee.CreatedBy,
	).Scan(&fee.CreatedAt, &fee.UpdatedAt); err != nil {
		return nil, err
	}

	return fee, nil
}

func (r *feeRepository) Update(ctx context.Context, fee *domain.Fee) error {
	if fee == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE fees
	SET amount_cents = $3,
		paid_cents = $4,
		pending_cents = $5,
		description = $6,
		due_date = $7,
		installments = $8,
		installments_paid = $9,
		plan = $10,
		status = $11,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	var dueDate interface{}
	if fee.DueDate != nil {
		dueDate = fee.DueDate.UTC()
	}

	if err := r.pool.QueryRow(ctx, query,
		fee.ID,
		fee.UserID,
		fee.AmountCents,
		fee.PaidCents,
		fee.PendingCents,
		fee.Description,
		dueDate,
		fee.Installments,
		fee.InstallmentsPaid,
		marshalJSON(fee.Plan),
		string(fee.Status),
	).Scan(&fee.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrFeeNotFound
		}
		return err
	}

	return nil
}

func (r *feeRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM fees WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFeeNotFound
	}
	return nil
}

func scanFee(row scanner) (*domain.Fee, error) {
	var fee domain.Fee
	var (
		feeType, status string
		plan            []byte
	)

	if err := row.Scan(
		&fee.ID,
		&fee.UserID,
		&fee.CaseID,
		&fee.ClientID,
		&feeType,
		&fee.AmountCents,
		&fee.PaidCents,
		&fee.PendingCents,
		&fee.Description,
		&fee.DueDate,
		&fee.Installments,
		&fee.InstallmentsPaid,
		&plan,
		&status,
		&fee.CreatedBy,
		&fee.CreatedAt,
		&fee.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFeeNotFound
		}
		return nil, err
	}

	fee.FeeType = domain.FeeType(feeType)
	fee.Status = domain.FeeStatus(status)
	if len(plan) > 0 {
		_ = json.Unmarshal(plan, &fee.Plan)
	}

	return &fee, nil
}

const expenseColumns = `id, user_id, case_id, client_id, category, amount_cents, description,
	expense_date, reimbursable, receipt_url, status, approved_by, approved_at, notes,
	created_at, updated_at`

type expenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository returns a Postgres-backed implementation of ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) repository.ExpenseRepository {
	return &expenseRepository{pool: pool}
}

func (r *expenseRepository) GetByID(ctx context.Context, id, userID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1 AND user_id = $2`
	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanExpense(row)
}

func (r *expenseRepository) List(ctx context.Context, filter repository.ExpenseFilter) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + `
	FROM expenses
	WHERE user_id = $1
	  AND ($2 = '' OR status = $2)
	  AND ($3 = '' OR category = $3)
	ORDER BY expense_date DESC
	LIMIT $4 OFFSET $5
	`

	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		string(filter.Status),
		string(filter.Category),
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *expense)
	}
	return expenses, rows.Err()
}

func (r *expenseRepository) Count(ctx context.Context, filter repository.ExpenseFilter) (int, error) {
	const query = `
	SELECT COUNT(id)
	FROM expenses
	WHERE user_id = $1
	  AND ($2 = '' OR status = $2)
	  AND ($3 = '' OR category = $3)
	`

	var count int
	err := r.pool.QueryRow(ctx, query,
		filter.UserID, string(filter.Status), string(filter.Category),
	).Scan(&count)
	return count, err
}

func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if expense == nil {
		return nil, domain.ErrInvalidPayload
	}
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO expenses (id, user_id, case_id, client_id, category, amount_cents, description,
		expense_date, reimbursable, receipt_url, status, approved_by, approved_at, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING created_at, updated_at
	`

	var approvedAt interface{}
	if expense.ApprovedAt != nil {
		approvedAt = expense.ApprovedAt.UTC()
	}

	if err := r.pool.QueryRow(ctx, query,
		expense.ID,
		expense.UserID,
		expense.CaseID,
		expense.ClientID,
		string(expense.Category),
		expense.AmountCents,
		expense.Description,
		expense.ExpenseDate.UTC(),
		expense.Reimbursable,
		expense.ReceiptURL,
		string(expense.Status),
		expense.ApprovedBy,
		approvedAt,
		expense.Notes,
	).Scan(&expense.CreatedAt, &expense.UpdatedAt); err != nil {
		return nil, err
	}

	return expense, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	if expense == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE expenses
	SET category = $3,
		amount_cents = $4,
		description = $5,
		expense_date = $6,
		reimbursable = $7,
		receipt_url = $8,
		status = $9,
		approved_by = $10,
		approved_at = $11,
		notes = $12,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	var approvedAt interface{}
	if expense.ApprovedAt != nil {
		approvedAt = expense.ApprovedAt.UTC()
	}

	if err := r.pool.QueryRow(ctx, query,
		expense.ID,
		expense.UserID,
		string(expense.Category),
		expense.AmountCents,
		expense.Description,
		expense.ExpenseDate.UTC(),
		expense.Reimbursable,
		expense.ReceiptURL,
		string(expense.Status),
		expense.ApprovedBy,
		approvedAt,
		expense.Notes,
	).Scan(&expense.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrExpenseNotFound
		}
		return err
	}

	return nil
}

func (r *expenseRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM expenses WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

func scanExpense(row scanner) (*domain.Expense, error) {
	var expense domain.Expense
	var category, status string

	if err := row.Scan(
		&expense.ID,
		&expense.UserID,
		&expense.CaseID,
		&expense.ClientID,
		&category,
		&expense.AmountCents,
		&expense.Description,
		&expense.ExpenseDate,
		&expense.Reimbursable,
		&expense.ReceiptURL,
		&status,
		&expense.ApprovedBy,
		&expense.ApprovedAt,
		&expense.Notes,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	expense.Category = domain.ExpenseCategory(category)
	expense.Status = domain.ExpenseStatus(status)

	return &expense, nil
}

const invoiceColumns = `id, user_id, client_id, case_id, invoice_number, items, total_cents,
	paid_cents, due_date, status, sent_at, paid_at, cancelled_at, cancellation_reason,
	notes, created_at, updated_at`

type invoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository returns a Postgres-backed implementation of InvoiceRepository.
func NewInvoiceRepository(pool *pgxpool.Pool) repository.InvoiceRepository {
	return &invoiceRepository{pool: pool}
}

func (r *invoiceRepository) GetByID(ctx context.Context, id, userID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND user_id = $2`
	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanInvoice(row)
}

func (r *invoiceRepository) List(ctx context.Context, filter repository.InvoiceFilter) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
	FROM invoices
	WHERE user_id = $1
	  AND ($2 = '' OR client_id = $2)
	  AND ($3 = '' OR status = $3)
	ORDER BY created_at DESC
	LIMIT $4 OFFSET $5
	`

	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		filter.ClientID,
		string(filter.Status),
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *invoice)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepository) Count(ctx context.Context, filter repository.InvoiceFilter) (int, error) {
	const query = `
	SELECT COUNT(id)
	FROM invoices
	WHERE user_id = $1
	  AND ($2 = '' OR client_id = $2)
	  AND ($3 = '' OR status = $3)
	`

	var count int
	err := r.pool.QueryRow(ctx, query,
		filter.UserID, filter.ClientID, string(filter.Status),
	).Scan(&count)
	return count, err
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	if invoice == nil {
		return nil, domain.ErrInvalidPayload
	}
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO invoices (id, user_id, client_id, case_id, invoice_number, items, total_cents,
		paid_cents, due_date, status, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		invoice.ID,
		invoice.UserID,
		invoice.ClientID,
		invoice.CaseID,
		invoice.InvoiceNumber,
		marshalJSON(invoice.Items),
		invoice.TotalCents,
		invoice.PaidCents,
		invoice.DueDate.UTC(),
		string(invoice.Status),
		invoice.Notes,
	).Scan(&invoice.CreatedAt, &invoice.UpdatedAt); err != nil {
		return nil, err
	}

	return invoice, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	if invoice == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE invoices
	SET items = $3,
		total_cents = $4,
		paid_cents = $5,
		due_date = $6,
		status = $7,
		sent_at = $8,
		paid_at = $9,
		cancelled_at = $10,
		cancellation_reason = $11,
		notes = $12,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	var sentAt, paidAt, cancelledAt interface{}
	if invoice.SentAt != nil {
		sentAt = invoice.SentAt.UTC()
	}
	if invoice.PaidAt != nil {
		paidAt = invoice.PaidAt.UTC()
	}
	if invoice.CancelledAt != nil {
		cancelledAt = invoice.CancelledAt.UTC()
	}

	if err := r.pool.QueryRow(ctx, query,
		invoice.ID,
		invoice.UserID,
		marshalJSON(invoice.Items),
		invoice.TotalCents,
		invoice.PaidCents,
		invoice.DueDate.UTC(),
		string(invoice.Status),
		sentAt,
		paidAt,
		cancelledAt,
		invoice.CancellationReason,
		invoice.Notes,
	).Scan(&invoice.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrInvoiceNotFound
		}
		return err
	}

	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM invoices WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func scanInvoice(row scanner) (*domain.Invoice, error) {
	var invoice domain.Invoice
	var (
		status string
		items  []byte
	)

	if err := row.Scan(
		&invoice.ID,
		&invoice.UserID,
		&invoice.ClientID,
		&invoice.CaseID,
		&invoice.InvoiceNumber,
		&items,
		&invoice.TotalCents,
		&invoice.PaidCents,
		&invoice.DueDate,
		&status,
		&invoice.SentAt,
		&invoice.PaidAt,
		&invoice.CancelledAt,
		&invoice.CancellationReason,
		&invoice.Notes,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}

	invoice.Status = domain.InvoiceStatus(status)
	if len(items) > 0 {
		_ = json.Unmarshal(items, &invoice.Items)
	}

	return &invoice, nil
}

const paymentColumns = `id, user_id, fee_id, invoice_id, amount_cents, method, payment_date,
	installment_number, notes, created_at, updated_at`

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository returns a Postgres-backed implementation of PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) repository.PaymentRepository {
	return &paymentRepository{pool: pool}
}

func (r *paymentRepository) GetByID(ctx context.Context, id, userID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 AND user_id = $2`
	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanPayment(row)
}

func (r *paymentRepository) ListByFee(ctx context.Context, feeID, userID string, limit int) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + `
	FROM payments
	WHERE fee_id = $1 AND user_id = $2
	ORDER BY payment_date DESC
	LIMIT $3
	`
	return r.list(ctx, query, feeID, userID, clampLimit(limit))
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, invoiceID, userID string, limit int) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + `
	FROM payments
	WHERE invoice_id = $1 AND user_id = $2
	ORDER BY payment_date DESC
	LIMIT $3
	`
	return r.list(ctx, query, invoiceID, userID, clampLimit(limit))
}

func (r *paymentRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *payment)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if payment == nil {
		return nil, domain.ErrInvalidPayload
	}
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO payments (id, user_id, fee_id, invoice_id, amount_cents, method, payment_date,
		installment_number, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		payment.ID,
		payment.UserID,
		payment.FeeID,
		payment.InvoiceID,
		payment.AmountCents,
		string(payment.Method),
		payment.PaymentDate.UTC(),
		payment.InstallmentNumber,
		payment.Notes,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt); err != nil {
		return nil, err
	}

	return payment, nil
}

func scanPayment(row scanner) (*domain.Payment, error) {
	var payment domain.Payment
	var method string

	if err := row.Scan(
		&payment.ID,
		&payment.UserID,
		&payment.FeeID,
		&payment.InvoiceID,
		&payment.AmountCents,
		&method,
		&payment.PaymentDate,
		&payment.InstallmentNumber,
		&payment.Notes,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	payment.Method = domain.PaymentMethod(method)

	return &payment, nil
}
