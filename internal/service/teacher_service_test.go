package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/proyectos-api/internal/models"
	"github.com/edutrack/proyectos-api/internal/repository"
	appErrors "github.com/edutrack/proyectos-api/pkg/errors"
)

type recordedAudit struct {
	action    string
	principal string
	snapshot  models.Teacher
}

type teacherRepoMock struct {
	items       map[int64]*models.Teacher
	nextID      int64
	audits      []recordedAudit
	projectRefs map[int64]int
}

func newTeacherRepoMock() *teacherRepoMock {
	return &teacherRepoMock{items: map[int64]*models.Teacher{}, nextID: 1, projectRefs: map[int64]int{}}
}

func (m *teacherRepoMock) List(_ context.Context, _ models.TeacherFilter) ([]models.Teacher, int, error) {
	out := make([]models.Teacher, 0, len(m.items))
	for _, t := range m.items {
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (m *teacherRepoMock) FindByID(_ context.Context, id int64) (*models.Teacher, error) {
	teacher, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *teacher
	return &copied, nil
}

func (m *teacherRepoMock) ExistsByDocumentNumber(_ context.Context, documentNumber string, excludeID int64) (bool, error) {
	for id, t := range m.items {
		if t.DocumentNumber == documentNumber && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *teacherRepoMock) Create(_ context.Context, teacher *models.Teacher) error {
	teacher.ID = m.nextID
	m.nextID++
	copied := *teacher
	m.items[teacher.ID] = &copied
	return nil
}

func (m *teacherRepoMock) Update(_ context.Context, teacher *models.Teacher, principal string) error {
	if _, ok := m.items[teacher.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *teacher
	m.items[teacher.ID] = &copied
	m.audits = append(m.audits, recordedAudit{action: models.AuditActionUpdated, principal: principal, snapshot: copied})
	return nil
}

func (m *teacherRepoMock) Delete(_ context.Context, id int64, principal string) error {
	teacher, ok := m.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	if m.projectRefs[id] > 0 {
		return repository.ErrTeacherReferenced
	}
	m.audits = append(m.audits, recordedAudit{action: models.AuditActionDeleted, principal: principal, snapshot: *teacher})
	delete(m.items, id)
	return nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestTeacherServiceCreateDefaultsYearsExperience(t *testing.T) {
	repo := newTeacherRepoMock()
	svc := NewTeacherService(repo, nil, nil)

	teacher, err := svc.Create(context.Background(), CreateTeacherRequest{
		DocumentNumber: "D-100",
		FullName:       "Ana Torres",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, teacher.YearsExperience)
	assert.Nil(t, teacher.Title)
	assert.NotZero(t, teacher.ID)
}

func TestTeacherServiceCreateDuplicateDocument(t *testing.T) {
	repo := newTeacherRepoMock()
	svc := NewTeacherService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateTeacherRequest{DocumentNumber: "D-100", FullName: "Ana Torres"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateTeacherRequest{DocumentNumber: "D-100", FullName: "Luis Mora"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "CONSTRAINT_VIOLATION", appErr.Code)
}

func TestTeacherServiceCreateNegativeExperience(t *testing.T) {
	repo := newTeacherRepoMock()
	svc := NewTeacherService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateTeacherRequest{
		DocumentNumber:  "D-100",
		FullName:        "Ana Torres",
		YearsExperience: intPtr(-3),
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "CONSTRAINT_VIOLATION", appErr.Code)
	assert.Empty(t, repo.items)
}

func TestTeacherServiceUpdateRecordsAudit(t *testing.T) {
	repo := newTeacherRepoMock()
	svc := NewTeacherService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateTeacherRequest{DocumentNumber: "D-100", FullName: "Ana Torres"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, UpdateTeacherRequest{
		DocumentNumber:  "D-100",
		FullName:        "Ana Torres Vega",
		YearsExperience: intPtr(8),
		Title:           strPtr("MSc"),
	}, "admin")
	require.NoError(t, err)
	assert.Equal(t, "Ana Torres Vega", updated.FullName)

	require.Len(t, repo.audits, 1)
	audit := repo.audits[0]
	assert.Equal(t, models.AuditActionUpdated, audit.action)
	assert.Equal(t, "admin", audit.principal)
	assert.Equal(t, "Ana Torres Vega", audit.snapshot.FullName)
	assert.Equal(t, 8, audit.snapshot.YearsExperience)
}

func TestTeacherServiceUpdateNotFound(t *testing.T) {
	repo := newTeacherRepoMock()
	svc := NewTeacherService(repo, nil, nil)

	_, err := svc.Update(context.Background(), 99, UpdateTeacherRequest{DocumentNumber: "D-9", FullName: "Nobody"}, "admin")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
}

func TestTeacherServiceDeleteBlockedWhileReferenced(t *testing.T) {
	repo := newTeacherRepoMock()
	svc := NewTeacherService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateTeacherRequest{DocumentNumber: "D-100", FullName: "Ana Torres"})
	require.NoError(t, err)
	repo.projectRefs[created.ID] = 2

	err = svc.Delete(context.Background(), created.ID, "admin")
	require.Error(t, err)
	assert.Equal(t, "REFERENTIAL_CONSTRAINT", appErrors.FromError(err).Code)

	_, stillThere := repo.items[created.ID]
	assert.True(t, stillThere)
	assert.Empty(t, repo.audits)
}

func TestTeacherServiceDeleteRecordsPreDeleteSnapshot(t *testing.T) {
	repo := newTeacherRepoMock()
	svc := NewTeacherService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateTeacherRequest{
		DocumentNumber:  "D-100",
		FullName:        "Ana Torres",
		YearsExperience: intPtr(5),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID, "auditor"))

	require.Len(t, repo.audits, 1)
	audit := repo.audits[0]
	assert.Equal(t, models.AuditActionDeleted, audit.action)
	assert.Equal(t, "auditor", audit.principal)
	assert.Equal(t, "Ana Torres", audit.snapshot.FullName)
	assert.Equal(t, 5, audit.snapshot.YearsExperience)
	assert.Empty(t, repo.items)
}
