package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/proyectos-api/internal/models"
)

// AnalyticsRepository serves the aggregate reads behind derived metrics.
// All queries read committed state only; nothing is cached.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository constructs an AnalyticsRepository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// AverageBudgetByTeacher returns the mean budget of projects led by the
// teacher, 0 when the teacher leads none.
func (r *AnalyticsRepository) AverageBudgetByTeacher(ctx context.Context, teacherID int64) (float64, error) {
	var avg float64
	if err := r.db.GetContext(ctx, &avg, "SELECT COALESCE(AVG(budget), 0) FROM projects WHERE lead_teacher_id = $1", teacherID); err != nil {
		return 0, fmt.Errorf("average budget: %w", err)
	}
	return avg, nil
}

// ProjectCost fetches budget and hours for a project. Propagates
// sql.ErrNoRows when the project does not exist.
func (r *AnalyticsRepository) ProjectCost(ctx context.Context, projectID int64) (*models.ProjectCost, error) {
	var cost models.ProjectCost
	if err := r.db.GetContext(ctx, &cost, "SELECT budget, hours FROM projects WHERE id = $1", projectID); err != nil {
		return nil, err
	}
	return &cost, nil
}

// CountByEmploymentType counts projects whose lead teacher has the given
// employment type. The match is case-sensitive and exact.
func (r *AnalyticsRepository) CountByEmploymentType(ctx context.Context, employmentType string) (int, error) {
	const query = `SELECT COUNT(*) FROM projects p JOIN teachers t ON t.id = p.lead_teacher_id WHERE t.employment_type = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, employmentType); err != nil {
		return 0, fmt.Errorf("count projects by employment type: %w", err)
	}
	return count, nil
}

// ProjectWindow fetches the date range for a project. Propagates
// sql.ErrNoRows when the project does not exist.
func (r *AnalyticsRepository) ProjectWindow(ctx context.Context, projectID int64) (*models.ProjectWindow, error) {
	var window models.ProjectWindow
	if err := r.db.GetContext(ctx, &window, "SELECT start_date, end_date FROM projects WHERE id = $1", projectID); err != nil {
		return nil, err
	}
	return &window, nil
}
