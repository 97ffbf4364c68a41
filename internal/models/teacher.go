package models

import "time"

// Teacher represents a docente who may lead projects.
type Teacher struct {
	ID              int64     `db:"id" json:"id"`
	DocumentNumber  string    `db:"document_number" json:"document_number"`
	FullName        string    `db:"full_name" json:"full_name"`
	Title           *string   `db:"title" json:"title,omitempty"`
	YearsExperience int       `db:"years_experience" json:"years_experience"`
	Address         *string   `db:"address" json:"address,omitempty"`
	EmploymentType  *string   `db:"employment_type" json:"employment_type,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search         string
	EmploymentType string
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}
