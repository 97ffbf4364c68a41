package models

import "time"

// Audit actions recorded for teacher mutations. Projects are deliberately
// not audited.
const (
	AuditActionUpdated = "UPDATED"
	AuditActionDeleted = "DELETED"
)

// TeacherAudit is an immutable snapshot of a teacher captured at update or
// delete time, written in the same transaction as the mutation.
type TeacherAudit struct {
	ID              int64     `db:"id" json:"id"`
	TeacherID       int64     `db:"teacher_id" json:"teacher_id"`
	DocumentNumber  string    `db:"document_number" json:"document_number"`
	FullName        string    `db:"full_name" json:"full_name"`
	Title           *string   `db:"title" json:"title,omitempty"`
	YearsExperience int       `db:"years_experience" json:"years_experience"`
	Address         *string   `db:"address" json:"address,omitempty"`
	EmploymentType  *string   `db:"employment_type" json:"employment_type,omitempty"`
	Action          string    `db:"action" json:"action"`
	Principal       string    `db:"principal" json:"principal"`
	RecordedAt      time.Time `db:"recorded_at" json:"recorded_at"`
}

// AuditSnapshot builds an audit row from the teacher state being recorded.
func AuditSnapshot(t *Teacher, action, principal string, at time.Time) *TeacherAudit {
	return &TeacherAudit{
		TeacherID:       t.ID,
		DocumentNumber:  t.DocumentNumber,
		FullName:        t.FullName,
		Title:           t.Title,
		YearsExperience: t.YearsExperience,
		Address:         t.Address,
		EmploymentType:  t.EmploymentType,
		Action:          action,
		Principal:       principal,
		RecordedAt:      at,
	}
}
