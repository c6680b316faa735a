package transport

import (
	"time"

	"github.com/mrson-dev/crm-ju-ai/domain"
)

type AuthLoginRequest struct {
	UserID string `json:"user_id"`
	TTL    int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}

type ProfileUpdateRequest struct {
	Email    string            `json:"email"`
	Name     string            `json:"name"`
	OAB      string            `json:"oab"`
	Phone    string            `json:"phone"`
	Role     string            `json:"role"`
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata"`
}

type ClientRequest struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	CPFCNPJ        string            `json:"cpf_cnpj"`
	ClientType     string            `json:"client_type"`
	BirthDate      string            `json:"birth_date"`
	Nationality    string            `json:"nationality"`
	BirthPlace     string            `json:"birth_place"`
	MaritalStatus  string            `json:"marital_status"`
	Profession     string            `json:"profession"`
	MothersName    string            `json:"mothers_name"`
	FathersName    string            `json:"fathers_name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	SecondaryPhone string            `json:"secondary_phone"`
	Documents      map[string]string `json:"documents"`
	Address        *domain.Address   `json:"address"`
	IsMinor        bool              `json:"is_minor"`
	Guardian       *domain.Guardian  `json:"guardian"`
	LGPDConsent    bool              `json:"lgpd_consent"`
	Notes          string            `json:"notes"`
}

type CaseRequest struct {
	ID          string   `json:"id"`
	ClientID    string   `json:"client_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CaseNumber  string   `json:"case_number"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	Court       string   `json:"court"`
	Tags        []string `json:"tags"`
}

type DocumentRequest struct {
	ID          string `json:"id"`
	CaseID      string `json:"case_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	FilePath    string `json:"file_path"`
	FileURL     string `json:"file_url"`
	FileSize    int64  `json:"file_size"`
	MimeType    string `json:"mime_type"`
}

type TaskRequest struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Priority      string   `json:"priority"`
	Status        string   `json:"status"`
	CaseID        string   `json:"case_id"`
	ClientID      string   `json:"client_id"`
	AssignedTo    string   `json:"assigned_to"`
	DueDate       string   `json:"due_date"`
	Tags          []string `json:"tags"`
	Notes         string   `json:"notes"`
	Location      string   `json:"location"`
	ProcessNumber string   `json:"process_number"`
}

type TemplateRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Content     string `json:"content"`
	IsPublic    bool   `json:"is_public"`
}

// TemplateUpdateRequest is the partial-update payload for templates.
// Absent fields keep the stored value.
type TemplateUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Content     *string `json:"content"`
	IsPublic    *bool   `json:"is_public"`
}

// RenderTemplateRequest fills a template's placeholders. Dotted names
// such as client.name are flattened keys of the values map.
type RenderTemplateRequest struct {
	Values   map[string]string `json:"values"`
	ClientID string            `json:"client_id"`
	CaseID   string            `json:"case_id"`
}

// TaskUpdateRequest is the partial-update payload. Absent fields stay nil
// and keep the stored value; an empty due_date clears the deadline.
type TaskUpdateRequest struct {
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	Category      *string   `json:"category"`
	Priority      *string   `json:"priority"`
	Status        *string   `json:"status"`
	CaseID        *string   `json:"case_id"`
	ClientID      *string   `json:"client_id"`
	AssignedTo    *string   `json:"assigned_to"`
	DueDate       *string   `json:"due_date"`
	Tags          *[]string `json:"tags"`
	Notes         *string   `json:"notes"`
	Location      *string   `json:"location"`
	ProcessNumber *string   `json:"process_number"`
}

type BatchCompleteRequest struct {
	TaskIDs     []string `json:"task_ids"`
	CompletedBy string   `json:"completed_by"`
}

type BatchStatusRequest struct {
	TaskIDs []string `json:"task_ids"`
	Status  string   `json:"status"`
}

type CompleteTaskRequest struct {
	CompletedBy string `json:"completed_by"`
}

type TimeEntryRequest struct {
	ID              string `json:"id"`
	CaseID          string `json:"case_id"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"duration_minutes"`
	Description     string `json:"description"`
	Billable        bool   `json:"billable"`
	HourlyRateCents int64  `json:"hourly_rate_cents"`
}

type FeeRequest struct {
	ID           string `json:"id"`
	CaseID       string `json:"case_id"`
	ClientID     string `json:"client_id"`
	FeeType      string `json:"fee_type"`
	AmountCents  int64  `json:"amount_cents"`
	Description  string `json:"description"`
	DueDate      string `json:"due_date"`
	Installments int    `json:"installments"`
}

type ExpenseRequest struct {
	ID           string `json:"id"`
	CaseID       string `json:"case_id"`
	ClientID     string `json:"client_id"`
	Category     string `json:"category"`
	AmountCents  int64  `json:"amount_cents"`
	Description  string `json:"description"`
	ExpenseDate  string `json:"expense_date"`
	Reimbursable bool   `json:"reimbursable"`
	ReceiptURL   string `json:"receipt_url"`
	Notes        string `json:"notes"`
}

type InvoiceRequest struct {
	ID       string               `json:"id"`
	ClientID string               `json:"client_id"`
	CaseID   string               `json:"case_id"`
	Items    []domain.InvoiceItem `json:"items"`
	DueDate  string               `json:"due_date"`
	Notes    string               `json:"notes"`
}

type PaymentRequest struct {
	AmountCents       int64  `json:"amount_cents"`
	Method            string `json:"method"`
	PaymentDate       string `json:"payment_date"`
	InstallmentNumber int    `json:"installment_number"`
	Notes             string `json:"notes"`
}

type CancelInvoiceRequest struct {
	Reason string `json:"reason"`
}

// ParseTime accepts RFC3339 timestamps as well as bare dates; timestamps
// without a zone are treated as UTC.
func ParseTime(value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return &parsed, true
		}
	}
	return nil, false
}
