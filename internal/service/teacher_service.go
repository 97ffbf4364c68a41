package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edutrack/proyectos-api/internal/models"
	"github.com/edutrack/proyectos-api/internal/repository"
	appErrors "github.com/edutrack/proyectos-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
	ExistsByDocumentNumber(ctx context.Context, documentNumber string, excludeID int64) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher, principal string) error
	Delete(ctx context.Context, id int64, principal string) error
}

// CreateTeacherRequest represents payload for creating teachers.
type CreateTeacherRequest struct {
	DocumentNumber  string  `json:"document_number" validate:"required,max=20"`
	FullName        string  `json:"full_name" validate:"required,max=120"`
	Title           *string `json:"title" validate:"omitempty,max=120"`
	YearsExperience *int    `json:"years_experience" validate:"omitempty,gte=0"`
	Address         *string `json:"address" validate:"omitempty,max=180"`
	EmploymentType  *string `json:"employment_type" validate:"omitempty,max=40"`
}

// UpdateTeacherRequest represents payload for updating teachers. Updates are
// a full replace of all mutable fields.
type UpdateTeacherRequest struct {
	DocumentNumber  string  `json:"document_number" validate:"required,max=20"`
	FullName        string  `json:"full_name" validate:"required,max=120"`
	Title           *string `json:"title" validate:"omitempty,max=120"`
	YearsExperience *int    `json:"years_experience" validate:"omitempty,gte=0"`
	Address         *string `json:"address" validate:"omitempty,max=180"`
	EmploymentType  *string `json:"employment_type" validate:"omitempty,max=40"`
}

// TeacherService orchestrates teacher operations.
type TeacherService struct {
	repo      teacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, validator: validate, logger: logger}
}

// List returns teachers plus pagination data.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
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
	return teachers, pagination, nil
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id int64) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// Create registers a new teacher record.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConstraint.Code, appErrors.ErrConstraint.Status, "invalid teacher payload")
	}
	if err := s.ensureUniqueDocument(ctx, req.DocumentNumber, 0); err != nil {
		return nil, err
	}

	teacher := &models.Teacher{
		DocumentNumber:  strings.TrimSpace(req.DocumentNumber),
		FullName:        strings.TrimSpace(req.FullName),
		YearsExperience: derefOrZero(req.YearsExperience),
	}
	teacher.Title = normalizeOptional(req.Title)
	teacher.Address = normalizeOptional(req.Address)
	teacher.EmploymentType = normalizeOptional(req.EmploymentType)

	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	return teacher, nil
}

// Update replaces an existing teacher's mutable fields. The repository
// records the post-update snapshot atomically with the mutation.
func (s *TeacherService) Update(ctx context.Context, id int64, req UpdateTeacherRequest, principal string) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConstraint.Code, appErrors.ErrConstraint.Status, "invalid teacher payload")
	}

	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	if err := s.ensureUniqueDocument(ctx, req.DocumentNumber, id); err != nil {
		return nil, err
	}

	teacher.DocumentNumber = strings.TrimSpace(req.DocumentNumber)
	teacher.FullName = strings.TrimSpace(req.FullName)
	teacher.Title = normalizeOptional(req.Title)
	teacher.YearsExperience = derefOrZero(req.YearsExperience)
	teacher.Address = normalizeOptional(req.Address)
	teacher.EmploymentType = normalizeOptional(req.EmploymentType)

	if err := s.repo.Update(ctx, teacher, principal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	return teacher, nil
}

// Delete removes a teacher unless projects still reference it. The
// repository records the pre-delete snapshot atomically with the removal.
func (s *TeacherService) Delete(ctx context.Context, id int64, principal string) error {
	if err := s.repo.Delete(ctx, id, principal); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		case errors.Is(err, repository.ErrTeacherReferenced):
			return appErrors.Clone(appErrors.ErrReferential, "teacher leads existing projects")
		default:
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
		}
	}
	return nil
}

func (s *TeacherService) ensureUniqueDocument(ctx context.Context, documentNumber string, excludeID int64) error {
	exists, err := s.repo.ExistsByDocumentNumber(ctx, strings.TrimSpace(documentNumber), excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check document number uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConstraint, "document number already used")
	}
	return nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func derefOrZero(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
