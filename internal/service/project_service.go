package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edutrack/proyectos-api/internal/models"
	appErrors "github.com/edutrack/proyectos-api/pkg/errors"
)

type projectRepository interface {
	List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int, error)
	FindByID(ctx context.Context, id int64) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id int64) error
}

// teacherFinder resolves lead teacher references during project validation.
type teacherFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
}

// CreateProjectRequest represents payload for creating projects. Dates use
// the YYYY-MM-DD format.
type CreateProjectRequest struct {
	Name          string   `json:"name" validate:"required,max=120"`
	Description   *string  `json:"description" validate:"omitempty,max=400"`
	StartDate     string   `json:"start_date" validate:"required"`
	EndDate       *string  `json:"end_date"`
	Budget        *float64 `json:"budget" validate:"omitempty,gte=0"`
	Hours         *int     `json:"hours" validate:"omitempty,gte=0"`
	LeadTeacherID int64    `json:"lead_teacher_id" validate:"required"`
}

// UpdateProjectRequest represents payload for updating projects. Updates are
// a full replace of all mutable fields.
type UpdateProjectRequest struct {
	Name          string   `json:"name" validate:"required,max=120"`
	Description   *string  `json:"description" validate:"omitempty,max=400"`
	StartDate     string   `json:"start_date" validate:"required"`
	EndDate       *string  `json:"end_date"`
	Budget        *float64 `json:"budget" validate:"omitempty,gte=0"`
	Hours         *int     `json:"hours" validate:"omitempty,gte=0"`
	LeadTeacherID int64    `json:"lead_teacher_id" validate:"required"`
}

// ProjectService orchestrates project operations.
type ProjectService struct {
	repo      projectRepository
	teachers  teacherFinder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewProjectService constructs a ProjectService.
func NewProjectService(repo projectRepository, teachers teacherFinder, validate *validator.Validate, logger *zap.Logger) *ProjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{repo: repo, teachers: teachers, validator: validate, logger: logger, now: time.Now}
}

// List returns projects plus pagination data, each with its current status.
func (s *ProjectService) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, *models.Pagination, error) {
	projects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projects")
	}
	now := s.now()
	for i := range projects {
		projects[i].Status = models.ProjectStatusAt(projects[i].StartDate, projects[i].EndDate, now)
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return projects, pagination, nil
}

// Get returns a project by id with its lead teacher name and current status.
func (s *ProjectService) Get(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}
	project.Status = models.ProjectStatusAt(project.StartDate, project.EndDate, s.now())
	return project, nil
}

// Create registers a new project led by an existing teacher.
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConstraint.Code, appErrors.ErrConstraint.Status, "invalid project payload")
	}

	project, err := s.buildProject(ctx, req.Name, req.Description, req.StartDate, req.EndDate, req.Budget, req.Hours, req.LeadTeacherID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create project")
	}
	return s.Get(ctx, project.ID)
}

// Update replaces an existing project's mutable fields.
func (s *ProjectService) Update(ctx context.Context, id int64, req UpdateProjectRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConstraint.Code, appErrors.ErrConstraint.Status, "invalid project payload")
	}

	project, err := s.buildProject(ctx, req.Name, req.Description, req.StartDate, req.EndDate, req.Budget, req.Hours, req.LeadTeacherID)
	if err != nil {
		return nil, err
	}
	project.ID = id

	if err := s.repo.Update(ctx, project); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update project")
	}
	return s.Get(ctx, id)
}

// Delete removes a project. Project deletions are not audited.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete project")
	}
	return nil
}

func (s *ProjectService) buildProject(ctx context.Context, name string, description *string, startDate string, endDate *string, budget *float64, hours *int, leadTeacherID int64) (*models.Project, error) {
	start, err := models.ParseDate(strings.TrimSpace(startDate))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConstraint.Code, appErrors.ErrConstraint.Status, "invalid start_date")
	}

	var end *models.Date
	if endDate != nil && strings.TrimSpace(*endDate) != "" {
		parsed, err := models.ParseDate(strings.TrimSpace(*endDate))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrConstraint.Code, appErrors.ErrConstraint.Status, "invalid end_date")
		}
		if parsed.Before(start.Time) {
			return nil, appErrors.Clone(appErrors.ErrConstraint, "end_date precedes start_date")
		}
		end = &parsed
	}

	if _, err := s.teachers.FindByID(ctx, leadTeacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lead teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lead teacher")
	}

	project := &models.Project{
		Name:          strings.TrimSpace(name),
		Description:   normalizeOptional(description),
		StartDate:     start,
		EndDate:       end,
		LeadTeacherID: leadTeacherID,
	}
	if budget != nil {
		project.Budget = *budget
	}
	if hours != nil {
		project.Hours = *hours
	}
	return project, nil
}
