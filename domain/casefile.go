package domain

import "time"

// CaseStatus is the lifecycle state of a legal case.
type CaseStatus string

const (
	CaseNew        CaseStatus = "new"
	CaseInProgress CaseStatus = "in_progress"
	CaseWaiting    CaseStatus = "waiting"
	CaseClosed     CaseStatus = "closed"
	CaseArchived   CaseStatus = "archived"
)

// AllCaseStatuses lists every case status, used to zero-fill dashboards.
var AllCaseStatuses = []CaseStatus{CaseNew, CaseInProgress, CaseWaiting, CaseClosed, CaseArchived}

// Case is a legal matter handled for a client.
type Case struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	ClientID string `json:"client_id"`

	Title       string       `json:"title"`
	Description string       `json:"description"`
	CaseNumber  string       `json:"case_number,omitempty"`
	Status      CaseStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Court       string       `json:"court,omitempty"`
	Tags        []string     `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document is file metadata attached to a case. The blob itself lives in
// external object storage; only the path and URL are tracked here.
type Document struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	CaseID string `json:"case_id"`

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	FilePath    string `json:"file_path"`
	FileURL     string `json:"file_url,omitempty"`
	FileSize    int64  `json:"file_size,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
