package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/edutrack/proyectos-api/internal/models"
	appErrors "github.com/edutrack/proyectos-api/pkg/errors"
	"github.com/edutrack/proyectos-api/pkg/export"
)

type auditRepository interface {
	ListByAction(ctx context.Context, action string) ([]models.TeacherAudit, error)
}

var auditExportHeaders = []string{
	"id", "teacher_id", "document_number", "full_name", "title",
	"years_experience", "address", "employment_type", "action", "principal", "recorded_at",
}

// AuditService exposes the read and export surface of the audit log.
type AuditService struct {
	repo    auditRepository
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	maxRows int
	logger  *zap.Logger
}

// NewAuditService constructs an AuditService. maxRows caps export size;
// zero means unlimited.
func NewAuditService(repo auditRepository, maxRows int, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		repo:    repo,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		maxRows: maxRows,
		logger:  logger,
	}
}

// ListUpdates returns update snapshots newest-first.
func (s *AuditService) ListUpdates(ctx context.Context) ([]models.TeacherAudit, error) {
	return s.list(ctx, models.AuditActionUpdated)
}

// ListDeletes returns delete snapshots newest-first.
func (s *AuditService) ListDeletes(ctx context.Context) ([]models.TeacherAudit, error) {
	return s.list(ctx, models.AuditActionDeleted)
}

// Export renders the audit history for one kind as CSV or PDF and returns
// the bytes plus their content type.
func (s *AuditService) Export(ctx context.Context, kind, format string) ([]byte, string, error) {
	var action string
	switch strings.ToLower(kind) {
	case "updates":
		action = models.AuditActionUpdated
	case "deletes":
		action = models.AuditActionDeleted
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "kind must be updates or deletes")
	}

	records, err := s.list(ctx, action)
	if err != nil {
		return nil, "", err
	}
	if s.maxRows > 0 && len(records) > s.maxRows {
		records = records[:s.maxRows]
	}

	dataset := buildAuditDataset(records)
	switch strings.ToLower(format) {
	case "", "csv":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return data, "text/csv", nil
	case "pdf":
		data, err := s.pdf.Render(dataset, fmt.Sprintf("teacher audit history (%s)", strings.ToLower(kind)))
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func (s *AuditService) list(ctx context.Context, action string) ([]models.TeacherAudit, error) {
	records, err := s.repo.ListByAction(ctx, action)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit records")
	}
	return records, nil
}

func buildAuditDataset(records []models.TeacherAudit) export.Dataset {
	rows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, map[string]string{
			"id":               strconv.FormatInt(record.ID, 10),
			"teacher_id":       strconv.FormatInt(record.TeacherID, 10),
			"document_number":  record.DocumentNumber,
			"full_name":        record.FullName,
			"title":            derefString(record.Title),
			"years_experience": strconv.Itoa(record.YearsExperience),
			"address":          derefString(record.Address),
			"employment_type":  derefString(record.EmploymentType),
			"action":           record.Action,
			"principal":        record.Principal,
			"recorded_at":      record.RecordedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	return export.Dataset{Headers: auditExportHeaders, Rows: rows}
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
