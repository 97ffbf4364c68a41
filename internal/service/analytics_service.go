package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/edutrack/proyectos-api/internal/models"
	appErrors "github.com/edutrack/proyectos-api/pkg/errors"
)

// analyticsRepository describes the aggregate reads behind derived metrics.
type analyticsRepository interface {
	AverageBudgetByTeacher(ctx context.Context, teacherID int64) (float64, error)
	ProjectCost(ctx context.Context, projectID int64) (*models.ProjectCost, error)
	CountByEmploymentType(ctx context.Context, employmentType string) (int, error)
	ProjectWindow(ctx context.Context, projectID int64) (*models.ProjectWindow, error)
}

// AnalyticsService computes derived metrics on demand from committed state.
// Results are never cached. Missing ids yield zero or sentinel values rather
// than errors; callers that need to distinguish should check existence first.
type AnalyticsService struct {
	repo    analyticsRepository
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(repo analyticsRepository, metrics *MetricsService, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{repo: repo, metrics: metrics, logger: logger, now: time.Now}
}

// AverageBudget returns the mean budget of projects led by the teacher,
// 0 when the teacher leads no projects.
func (s *AnalyticsService) AverageBudget(ctx context.Context, teacherID int64) (float64, error) {
	start := time.Now()
	avg, err := s.repo.AverageBudgetByTeacher(ctx, teacherID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute average budget")
	}
	s.observe("analytics_average_budget", start)
	return avg, nil
}

// CostPerHour returns budget divided by hours rounded to 2 decimal places,
// 0 when hours is 0 or the project does not exist.
func (s *AnalyticsService) CostPerHour(ctx context.Context, projectID int64) (float64, error) {
	start := time.Now()
	cost, err := s.repo.ProjectCost(ctx, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute cost per hour")
	}
	s.observe("analytics_cost_per_hour", start)
	if cost.Hours == 0 {
		return 0, nil
	}
	return math.Round(cost.Budget/float64(cost.Hours)*100) / 100, nil
}

// CountByEmploymentType counts projects whose lead teacher has the given
// employment type, 0 when nothing matches.
func (s *AnalyticsService) CountByEmploymentType(ctx context.Context, employmentType string) (int, error) {
	start := time.Now()
	count, err := s.repo.CountByEmploymentType(ctx, employmentType)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count projects by employment type")
	}
	s.observe("analytics_count_by_employment_type", start)
	return count, nil
}

// ProjectStatus evaluates the project state machine against the current
// date. Returns the "Not found" label for unknown ids.
func (s *AnalyticsService) ProjectStatus(ctx context.Context, projectID int64) (string, error) {
	start := time.Now()
	window, err := s.repo.ProjectWindow(ctx, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StatusProjectNotFound, nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute project status")
	}
	s.observe("analytics_project_status", start)
	return models.ProjectStatusAt(window.StartDate, window.EndDate, s.now()), nil
}

func (s *AnalyticsService) observe(query string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDBQuery(query, time.Since(start))
	}
}
