package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/proyectos-api/internal/models"
	appErrors "github.com/edutrack/proyectos-api/pkg/errors"
)

type auditRepoMock struct {
	records map[string][]models.TeacherAudit
}

func (m *auditRepoMock) ListByAction(_ context.Context, action string) ([]models.TeacherAudit, error) {
	return m.records[action], nil
}

func auditFixture(id int64, fullName string) models.TeacherAudit {
	return models.TeacherAudit{
		ID:             id,
		TeacherID:      3,
		DocumentNumber: "D-3",
		FullName:       fullName,
		Action:         models.AuditActionUpdated,
		Principal:      "admin",
		RecordedAt:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAuditServiceExportCSV(t *testing.T) {
	repo := &auditRepoMock{records: map[string][]models.TeacherAudit{
		models.AuditActionUpdated: {auditFixture(2, "Ana Torres"), auditFixture(1, "Ana T")},
	}}
	svc := NewAuditService(repo, 0, nil)

	data, contentType, err := svc.Export(context.Background(), "updates", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(data)
	assert.True(t, strings.HasPrefix(body, "id,teacher_id,document_number"))
	assert.Contains(t, body, "Ana Torres")
	assert.Contains(t, body, "2025-03-01 12:00:00")
}

func TestAuditServiceExportPDF(t *testing.T) {
	repo := &auditRepoMock{records: map[string][]models.TeacherAudit{
		models.AuditActionUpdated: {auditFixture(1, "Ana Torres")},
	}}
	svc := NewAuditService(repo, 0, nil)

	data, contentType, err := svc.Export(context.Background(), "updates", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.NotEmpty(t, data)
}

func TestAuditServiceExportCapsRows(t *testing.T) {
	repo := &auditRepoMock{records: map[string][]models.TeacherAudit{
		models.AuditActionUpdated: {auditFixture(3, "Row Three"), auditFixture(2, "Row Two"), auditFixture(1, "Row One")},
	}}
	svc := NewAuditService(repo, 2, nil)

	data, _, err := svc.Export(context.Background(), "updates", "csv")
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, "Row Three")
	assert.Contains(t, body, "Row Two")
	assert.NotContains(t, body, "Row One")
}

func TestAuditServiceExportRejectsBadArguments(t *testing.T) {
	svc := NewAuditService(&auditRepoMock{records: map[string][]models.TeacherAudit{}}, 0, nil)

	_, _, err := svc.Export(context.Background(), "creations", "csv")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)

	_, _, err = svc.Export(context.Background(), "updates", "xml")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestAuditServiceListDeletes(t *testing.T) {
	deleted := auditFixture(4, "Gone Teacher")
	deleted.Action = models.AuditActionDeleted
	repo := &auditRepoMock{records: map[string][]models.TeacherAudit{
		models.AuditActionDeleted: {deleted},
	}}
	svc := NewAuditService(repo, 0, nil)

	records, err := svc.ListDeletes(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.AuditActionDeleted, records[0].Action)
}
