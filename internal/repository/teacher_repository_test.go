package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/proyectos-api/internal/models"
)

func newTeacherRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func teacherRows(id int64, documentNumber, fullName string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "document_number", "full_name", "title", "years_experience", "address", "employment_type", "created_at", "updated_at"}).
		AddRow(id, documentNumber, fullName, nil, 5, nil, "full-time", time.Now(), time.Now())
}

func TestTeacherRepositoryList(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db, NewAuditRepository(db))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, document_number, full_name, title, years_experience, address, employment_type, created_at, updated_at FROM teachers WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(teacherRows(1, "X1", "Teacher A"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM teachers WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.TeacherFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db, NewAuditRepository(db))

	mock.ExpectQuery("INSERT INTO teachers").
		WithArgs("X1", "Teacher A", nil, 0, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	teacher := &models.Teacher{DocumentNumber: "X1", FullName: "Teacher A"}
	require.NoError(t, repo.Create(context.Background(), teacher))
	assert.Equal(t, int64(7), teacher.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryUpdateWritesAuditInSameTx(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db, NewAuditRepository(db))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE teachers SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO teacher_audits").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	teacher := &models.Teacher{ID: 3, DocumentNumber: "X1", FullName: "Teacher Renamed", YearsExperience: 4}
	require.NoError(t, repo.Update(context.Background(), teacher, "admin"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryUpdateMissingRollsBack(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db, NewAuditRepository(db))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE teachers SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &models.Teacher{ID: 99, DocumentNumber: "X9", FullName: "Nobody"}, "admin")
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryUpdateAuditFailureAbortsMutation(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db, NewAuditRepository(db))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE teachers SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO teacher_audits").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &models.Teacher{ID: 3, DocumentNumber: "X1", FullName: "Teacher A"}, "admin")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryDeleteBlockedByProjects(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db, NewAuditRepository(db))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, document_number, full_name, title, years_experience, address, employment_type, created_at, updated_at FROM teachers WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(3)).
		WillReturnRows(teacherRows(3, "X1", "Teacher A"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM projects WHERE lead_teacher_id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 3, "admin")
	require.ErrorIs(t, err, ErrTeacherReferenced)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryDeleteWritesAuditInSameTx(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db, NewAuditRepository(db))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, document_number, full_name, title, years_experience, address, employment_type, created_at, updated_at FROM teachers WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(3)).
		WillReturnRows(teacherRows(3, "X1", "Teacher A"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM projects WHERE lead_teacher_id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM teachers WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO teacher_audits").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 3, "admin"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryExistsByDocumentNumber(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db, NewAuditRepository(db))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM teachers WHERE document_number = $1 LIMIT 1")).
		WithArgs("X1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByDocumentNumber(context.Background(), "X1", 0)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
