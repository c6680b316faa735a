package domain

import "time"

// TimeEntry is a timesheet record booked against a case.
// Duration is minutes; HourlyRateCents of zero means the office default rate.
type TimeEntry struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	CaseID string `json:"case_id"`

	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	Description     string    `json:"description"`
	Billable        bool      `json:"billable"`
	HourlyRateCents int64     `json:"hourly_rate_cents,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TimesheetSummary aggregates booked hours over a period.
type TimesheetSummary struct {
	TotalHours       float64 `json:"total_hours"`
	BillableHours    float64 `json:"billable_hours"`
	NonBillableHours float64 `json:"non_billable_hours"`
	TotalAmountCents int64   `json:"total_amount_cents"`
}
