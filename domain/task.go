package domain

import "time"

// TaskCategory classifies a unit of legal work and drives the base score.
type TaskCategory string

const (
	CategoryHearing          TaskCategory = "hearing"
	CategoryFatalDeadline    TaskCategory = "fatal_deadline"
	CategoryFiling           TaskCategory = "filing"
	CategoryAnalysis         TaskCategory = "analysis"
	CategoryDiligence        TaskCategory = "diligence"
	CategoryOrdinaryDeadline TaskCategory = "ordinary_deadline"
	CategoryMeeting          TaskCategory = "meeting"
	CategoryClientContact    TaskCategory = "client_contact"
	CategoryOther            TaskCategory = "other"
	CategoryAdministrative   TaskCategory = "administrative"
)

// TaskPriority drives the score multiplier.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskCancelled  TaskStatus = "cancelled"
)

// AlertLevel buckets a task by proximity of its due date to "now".
type AlertLevel string

const (
	AlertOverdue   AlertLevel = "overdue"
	AlertFatal     AlertLevel = "fatal"
	AlertCritical  AlertLevel = "critical"
	AlertWarning   AlertLevel = "warning"
	AlertAttention AlertLevel = "attention"
	AlertNormal    AlertLevel = "normal"
)

// Task represents a scored unit of work in the office.
//
// Score is computed once at creation from (category, priority) and is never
// recomputed on update. AlertLevel is a snapshot taken at creation time (or
// when an update supplies a new due date); it does not refresh as time passes.
type Task struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Category    TaskCategory `json:"category"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`

	CaseID     string `json:"case_id,omitempty"`
	ClientID   string `json:"client_id,omitempty"`
	AssignedTo string `json:"assigned_to,omitempty"`

	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy string     `json:"completed_by,omitempty"`

	Score      int        `json:"score"`
	AlertLevel AlertLevel `json:"alert_level"`

	Tags          []string `json:"tags,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Location      string   `json:"location,omitempty"`
	ProcessNumber string   `json:"process_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == TaskDone
}

// IsOpen reports whether the task still counts toward deadlines.
func (t *Task) IsOpen() bool {
	return t != nil && t.Status != TaskDone && t.Status != TaskCancelled
}

// ValidTaskStatus reports whether s is one of the known lifecycle states.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskDone, TaskCancelled:
		return true
	}
	return false
}
