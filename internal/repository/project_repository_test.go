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

func newProjectRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func projectRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "start_date", "end_date", "budget", "hours", "lead_teacher_id", "lead_teacher_name", "created_at", "updated_at"}).
		AddRow(1, "P", nil, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil, 1000.0, 100, 3, "Teacher A", time.Now(), time.Now())
}

func TestProjectRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newProjectRepoMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	mock.ExpectQuery("INSERT INTO projects").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	project := &models.Project{
		Name:          "P",
		StartDate:     models.NewDate(2025, time.January, 1),
		Budget:        1000,
		Hours:         100,
		LeadTeacherID: 3,
	}
	require.NoError(t, repo.Create(context.Background(), project))
	assert.Equal(t, int64(11), project.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepositoryFindByIDJoinsLeadTeacher(t *testing.T) {
	db, mock, cleanup := newProjectRepoMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	mock.ExpectQuery("SELECT p.id, p.name, p.description, p.start_date, p.end_date, p.budget, p.hours").
		WithArgs(int64(1)).
		WillReturnRows(projectRows())

	project, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Teacher A", project.LeadTeacherName)
	assert.Equal(t, "2025-01-01", project.StartDate.String())
	assert.Nil(t, project.EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newProjectRepoMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	mock.ExpectExec("UPDATE projects SET").WillReturnResult(sqlmock.NewResult(0, 0))

	project := &models.Project{ID: 99, Name: "P", StartDate: models.NewDate(2025, time.January, 1), LeadTeacherID: 3}
	err := repo.Update(context.Background(), project)
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newProjectRepoMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM projects WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 1))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM projects WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Delete(context.Background(), 2), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
