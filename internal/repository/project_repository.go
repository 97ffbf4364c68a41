package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/proyectos-api/internal/models"
)

// ProjectRepository manages persistence for projects. Reads join the lead
// teacher's name.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository constructs a ProjectRepository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `p.id, p.name, p.description, p.start_date, p.end_date, p.budget, p.hours,
		p.lead_teacher_id, t.full_name AS lead_teacher_name, p.created_at, p.updated_at`

// List returns projects matching filters along with total count.
func (r *ProjectRepository) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int, error) {
	base := "FROM projects p JOIN teachers t ON t.id = p.lead_teacher_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.LeadTeacherID != 0 {
		conditions = append(conditions, fmt.Sprintf("p.lead_teacher_id = $%d", len(args)+1))
		args = append(args, filter.LeadTeacherID)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(p.name) LIKE $%d OR LOWER(t.full_name) LIKE $%d)", len(args)+1, len(args)+1))
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
		"name":       "p.name",
		"start_date": "p.start_date",
		"budget":     "p.budget",
		"created_at": "p.created_at",
		"updated_at": "p.updated_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "p.created_at"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", projectColumns, base, column, order, size, offset)
	var projects []models.Project
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	return projects, total, nil
}

// FindByID fetches a project by ID including the lead teacher's name.
func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	query := fmt.Sprintf("SELECT %s FROM projects p JOIN teachers t ON t.id = p.lead_teacher_id WHERE p.id = $1", projectColumns)
	var project models.Project
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		return nil, err
	}
	return &project, nil
}

// Create inserts a new project record and assigns its generated id.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	const query = `INSERT INTO projects (name, description, start_date, end_date, budget, hours, lead_teacher_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.GetContext(ctx, &project.ID, query,
		project.Name, project.Description, project.StartDate, project.EndDate,
		project.Budget, project.Hours, project.LeadTeacherID, project.CreatedAt, project.UpdatedAt); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// Update replaces all mutable fields. Returns sql.ErrNoRows when the id is
// absent. Projects are not audited.
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now().UTC()
	const query = `UPDATE projects SET name = :name, description = :description, start_date = :start_date,
		end_date = :end_date, budget = :budget, hours = :hours, lead_teacher_id = :lead_teacher_id, updated_at = :updated_at
		WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, project)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update project rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a project. Returns sql.ErrNoRows when the id is absent.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
