package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/proyectos-api/internal/models"
)

// AuditRepository manages the append-only teacher_audits table. Rows are
// never updated or deleted by the application.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs an AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// InsertTx appends a snapshot through the caller's executor so the write
// commits atomically with the mutation that produced it.
func (r *AuditRepository) InsertTx(ctx context.Context, exec sqlx.ExtContext, record *models.TeacherAudit) error {
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now().UTC()
	}
	const query = `INSERT INTO teacher_audits (teacher_id, document_number, full_name, title, years_experience, address, employment_type, action, principal, recorded_at)
		VALUES (:teacher_id, :document_number, :full_name, :title, :years_experience, :address, :employment_type, :action, :principal, :recorded_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, record); err != nil {
		return fmt.Errorf("insert teacher audit: %w", err)
	}
	return nil
}

// ListByAction returns audit snapshots for one action ordered newest-first.
func (r *AuditRepository) ListByAction(ctx context.Context, action string) ([]models.TeacherAudit, error) {
	const query = `SELECT id, teacher_id, document_number, full_name, title, years_experience, address, employment_type, action, principal, recorded_at
		FROM teacher_audits WHERE action = $1 ORDER BY id DESC`
	var records []models.TeacherAudit
	if err := r.db.SelectContext(ctx, &records, query, action); err != nil {
		return nil, fmt.Errorf("list teacher audits: %w", err)
	}
	return records, nil
}
