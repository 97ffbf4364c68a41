package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/proyectos-api/internal/models"
)

func newAuditRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAuditRepositoryInsertTx(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec("INSERT INTO teacher_audits").WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.TeacherAudit{
		TeacherID:      3,
		DocumentNumber: "X1",
		FullName:       "Teacher A",
		Action:         models.AuditActionUpdated,
		Principal:      "admin",
	}
	require.NoError(t, repo.InsertTx(context.Background(), db, record))
	assert.False(t, record.RecordedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryListByActionNewestFirst(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	rows := sqlmock.NewRows([]string{"id", "teacher_id", "document_number", "full_name", "title", "years_experience", "address", "employment_type", "action", "principal", "recorded_at"}).
		AddRow(5, 3, "X1", "Teacher A", nil, 4, nil, nil, "UPDATED", "admin", time.Now()).
		AddRow(2, 3, "X1", "Teacher A", nil, 3, nil, nil, "UPDATED", "admin", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_id, document_number, full_name, title, years_experience, address, employment_type, action, principal, recorded_at")).
		WithArgs(models.AuditActionUpdated).
		WillReturnRows(rows)

	records, err := repo.ListByAction(context.Background(), models.AuditActionUpdated)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Greater(t, records[0].ID, records[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
