package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/proyectos-api/internal/models"
)

// ErrTeacherReferenced is returned when a delete is blocked by projects
// still led by the teacher.
var ErrTeacherReferenced = errors.New("teacher is referenced by existing projects")

// auditRecorder writes a teacher snapshot inside the mutating transaction.
type auditRecorder interface {
	InsertTx(ctx context.Context, exec sqlx.ExtContext, record *models.TeacherAudit) error
}

// TeacherRepository manages persistence for teachers. Update and Delete run
// inside a transaction that also writes the audit snapshot: either both
// commit or neither does.
type TeacherRepository struct {
	db    *sqlx.DB
	audit auditRecorder
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB, audit auditRecorder) *TeacherRepository {
	return &TeacherRepository{db: db, audit: audit}
}

const teacherColumns = "id, document_number, full_name, title, years_experience, address, employment_type, created_at, updated_at"

// List returns teachers matching filters along with total count.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	base := "FROM teachers WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.EmploymentType != "" {
		conditions = append(conditions, fmt.Sprintf("employment_type = $%d", len(args)+1))
		args = append(args, filter.EmploymentType)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(document_number) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	allowedSorts := map[string]string{
		"full_name":        "full_name",
		"document_number":  "document_number",
		"years_experience": "years_experience",
		"created_at":       "created_at",
		"updated_at":       "updated_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "created_at"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", teacherColumns, base, column, order, size, offset)
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}

	return teachers, total, nil
}

// FindByID fetches a teacher by ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers WHERE id = $1", teacherColumns)
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// ExistsByDocumentNumber checks if another teacher uses the same document number.
func (r *TeacherRepository) ExistsByDocumentNumber(ctx context.Context, documentNumber string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM teachers WHERE document_number = $1"
	args := []interface{}{documentNumber}
	if excludeID != 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check teacher document number: %w", err)
	}
	return true, nil
}

// Create inserts a new teacher record and assigns its generated id.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	now := time.Now().UTC()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now

	const query = `INSERT INTO teachers (document_number, full_name, title, years_experience, address, employment_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.GetContext(ctx, &teacher.ID, query,
		teacher.DocumentNumber, teacher.FullName, teacher.Title, teacher.YearsExperience,
		teacher.Address, teacher.EmploymentType, teacher.CreatedAt, teacher.UpdatedAt); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// Update replaces all mutable fields and records the post-update snapshot in
// the same transaction. Returns sql.ErrNoRows when the id is absent.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher, principal string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin teacher update: %w", err)
	}

	now := time.Now().UTC()
	teacher.UpdatedAt = now

	const query = `UPDATE teachers SET document_number = :document_number, full_name = :full_name, title = :title,
		years_experience = :years_experience, address = :address, employment_type = :employment_type, updated_at = :updated_at
		WHERE id = :id`
	res, err := tx.NamedExecContext(ctx, query, teacher)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("update teacher: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("update teacher rows: %w", err)
	}
	if affected == 0 {
		tx.Rollback() //nolint:errcheck
		return sql.ErrNoRows
	}

	if err := r.audit.InsertTx(ctx, tx, models.AuditSnapshot(teacher, models.AuditActionUpdated, principal, now)); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit teacher update: %w", err)
	}
	return nil
}

// Delete removes a teacher and records the pre-delete snapshot in the same
// transaction. Blocked with ErrTeacherReferenced while projects still
// reference the teacher; returns sql.ErrNoRows when the id is absent.
func (r *TeacherRepository) Delete(ctx context.Context, id int64, principal string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin teacher delete: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM teachers WHERE id = $1 FOR UPDATE", teacherColumns)
	var teacher models.Teacher
	if err := tx.GetContext(ctx, &teacher, query, id); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}

	var refs int
	if err := tx.GetContext(ctx, &refs, "SELECT COUNT(*) FROM projects WHERE lead_teacher_id = $1", id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("count referencing projects: %w", err)
	}
	if refs > 0 {
		tx.Rollback() //nolint:errcheck
		return ErrTeacherReferenced
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM teachers WHERE id = $1", id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete teacher: %w", err)
	}

	if err := r.audit.InsertTx(ctx, tx, models.AuditSnapshot(&teacher, models.AuditActionDeleted, principal, time.Now().UTC())); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit teacher delete: %w", err)
	}
	return nil
}
