package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/irn-edu/timetable-api/internal/models"
)

func newRunRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRunRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newRunRepoMock(t)
	defer cleanup()
	repo := NewRunRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_runs")).
		WithArgs(sqlmock.AnyArg(), 0.4, 4, 1, 2, int64(37), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	run := &models.ScheduleRun{
		SoftScore:      0.4,
		Sessions:       4,
		Unplaced:       1,
		SoftViolations: 2,
		DurationMs:     37,
	}
	require.NoError(t, repo.Insert(context.Background(), run))
	require.NotEmpty(t, run.ID, "id is generated when absent")
	require.False(t, run.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryList(t *testing.T) {
	db, mock, cleanup := newRunRepoMock(t)
	defer cleanup()
	repo := NewRunRepository(db)

	created := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "soft_score", "sessions", "unplaced", "soft_violations", "duration_ms", "created_at"}).
		AddRow("run-2", 0.5, 5, 0, 1, int64(12), created).
		AddRow("run-1", 0.3, 3, 1, 0, int64(9), created.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, soft_score, sessions, unplaced, soft_violations, duration_ms, created_at\nFROM schedule_runs ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schedule_runs")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	runs, total, err := repo.List(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, 2, total)
	require.Equal(t, "run-2", runs[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryListClampsPaging(t *testing.T) {
	db, mock, cleanup := newRunRepoMock(t)
	defer cleanup()
	repo := NewRunRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("LIMIT 20 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "soft_score", "sessions", "unplaced", "soft_violations", "duration_ms", "created_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schedule_runs")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), -3, 0)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
