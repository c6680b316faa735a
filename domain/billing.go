package domain

import "time"

// All monetary amounts are integer cents.

type FeeType string

const (
	FeeFixed       FeeType = "fixed"
	FeeHourly      FeeType = "hourly"
	FeeSuccess     FeeType = "success"
	FeeContingency FeeType = "contingency"
)

type FeeStatus string

const (
	FeePending   FeeStatus = "pending"
	FeePartial   FeeStatus = "partial"
	FeePaid      FeeStatus = "paid"
	FeeCancelled FeeStatus = "cancelled"
)

// Installment is one slice of a fee payment plan.
type Installment struct {
	Number  int       `json:"number"`
	Cents   int64     `json:"cents"`
	DueDate time.Time `json:"due_date"`
	Status  string    `json:"status"`
}

// Fee is an attorney's fee owed by a client.
type Fee struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	CaseID   string `json:"case_id,omitempty"`
	ClientID string `json:"client_id,omitempty"`

	FeeType      FeeType    `json:"fee_type"`
	AmountCents  int64      `json:"amount_cents"`
	PaidCents    int64      `json:"paid_cents"`
	PendingCents int64      `json:"pending_cents"`
	Description  string     `json:"description"`
	DueDate      *time.Time `json:"due_date,omitempty"`

	Installments     int           `json:"installments"`
	InstallmentsPaid int           `json:"installments_paid"`
	Plan             []Installment `json:"plan,omitempty"`

	Status    FeeStatus `json:"status"`
	CreatedBy string    `json:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ExpenseCategory string

const (
	ExpenseCourtCosts ExpenseCategory = "court_costs"
	ExpenseTravel     ExpenseCategory = "travel"
	ExpenseCopies     ExpenseCategory = "copies"
	ExpenseNotary     ExpenseCategory = "notary"
	ExpenseExpert     ExpenseCategory = "expert"
	ExpensePostage    ExpenseCategory = "postage"
	ExpenseOther      ExpenseCategory = "other"
)

type ExpenseStatus string

const (
	ExpensePending    ExpenseStatus = "pending"
	ExpenseApproved   ExpenseStatus = "approved"
	ExpenseReimbursed ExpenseStatus = "reimbursed"
	ExpenseRejected   ExpenseStatus = "rejected"
)

// Expense is an out-of-pocket cost tied to a case or client.
type Expense struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	CaseID   string `json:"case_id,omitempty"`
	ClientID string `json:"client_id,omitempty"`

	Category     ExpenseCategory `json:"category"`
	AmountCents  int64           `json:"amount_cents"`
	Description  string          `json:"description"`
	ExpenseDate  time.Time       `json:"expense_date"`
	Reimbursable bool            `json:"reimbursable"`
	ReceiptURL   string          `json:"receipt_url,omitempty"`

	Status     ExpenseStatus `json:"status"`
	ApprovedBy string        `json:"approved_by,omitempty"`
	ApprovedAt *time.Time    `json:"approved_at,omitempty"`
	Notes      string        `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// InvoiceItem is one billable line of an invoice. UnitPriceCents times
// Quantity contributes to the invoice total.
type InvoiceItem struct {
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	ItemType       string `json:"item_type,omitempty"`
}

// Invoice bills a client for fees and expenses.
type Invoice struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	ClientID string `json:"client_id"`
	CaseID   string `json:"case_id,omitempty"`

	InvoiceNumber string        `json:"invoice_number,omitempty"`
	Items         []InvoiceItem `json:"items"`
	TotalCents    int64         `json:"total_cents"`
	PaidCents     int64         `json:"paid_cents"`
	DueDate       time.Time     `json:"due_date"`

	Status             InvoiceStatus `json:"status"`
	SentAt             *time.Time    `json:"sent_at,omitempty"`
	PaidAt             *time.Time    `json:"paid_at,omitempty"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`
	Notes              string        `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaymentMethod string

const (
	PaymentPix      PaymentMethod = "pix"
	PaymentBoleto   PaymentMethod = "boleto"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCash     PaymentMethod = "cash"
)

// Payment is money received against a fee or invoice.
type Payment struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	FeeID     string `json:"fee_id,omitempty"`
	InvoiceID string `json:"invoice_id,omitempty"`

	AmountCents       int64         `json:"amount_cents"`
	Method            PaymentMethod `json:"method"`
	PaymentDate       time.Time     `json:"payment_date"`
	InstallmentNumber int           `json:"installment_number,omitempty"`
	Notes             string        `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
