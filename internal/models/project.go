package models

import "time"

// Project status labels derived from the evaluation date against the
// project's date range.
const (
	StatusNotStarted      = "Not started"
	StatusInProgressNoEnd = "In progress (no end date)"
	StatusInProgress      = "In progress"
	StatusFinishedOverdue = "Finished/Overdue"
	StatusProjectNotFound = "Not found"
)

// Project represents a proyecto led by exactly one teacher.
type Project struct {
	ID              int64     `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     *string   `db:"description" json:"description,omitempty"`
	StartDate       Date      `db:"start_date" json:"start_date"`
	EndDate         *Date     `db:"end_date" json:"end_date,omitempty"`
	Budget          float64   `db:"budget" json:"budget"`
	Hours           int       `db:"hours" json:"hours"`
	LeadTeacherID   int64     `db:"lead_teacher_id" json:"lead_teacher_id"`
	LeadTeacherName string    `db:"lead_teacher_name" json:"lead_teacher_name,omitempty"`
	Status          string    `db:"-" json:"status,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ProjectFilter captures filtering options for listing projects.
type ProjectFilter struct {
	Search        string
	LeadTeacherID int64
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}

// ProjectStatusAt evaluates the project state machine for a given moment.
// Comparisons are date-only; the time-of-day of now is ignored.
func ProjectStatusAt(start Date, end *Date, now time.Time) string {
	today := Truncate(now).Time
	if today.Before(start.Time) {
		return StatusNotStarted
	}
	if end == nil {
		return StatusInProgressNoEnd
	}
	if today.After(end.Time) {
		return StatusFinishedOverdue
	}
	return StatusInProgress
}
