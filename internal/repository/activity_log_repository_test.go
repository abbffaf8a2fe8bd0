package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rakshitjain23/taskpilot-api/internal/models"
	"github.com/rakshitjain23/taskpilot-api/internal/utils"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, mock
}

func TestActivityLogRepository_List_OrderAndPaging(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewActivityLogRepository(db)

	now := time.Now()
	taskID := uint64(7)
	oldValue := "TODO"
	newValue := "DONE"

	rows := sqlmock.NewRows([]string{"id", "action", "old_value", "new_value", "user_id", "task_id", "created_at"}).
		AddRow(2, "STATUS_CHANGED", oldValue, newValue, 1, taskID, now).
		AddRow(1, "TASK_CREATED", nil, "Task", 1, taskID, now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT .* FROM "activity_logs" WHERE activity_logs\.task_id = .* ORDER BY activity_logs\.created_at DESC, activity_logs\.id DESC LIMIT .*`).
		WithArgs(taskID, 20).
		WillReturnRows(rows)

	logs, err := repo.List(ActivityLogFilter{
		TaskID: &taskID,
		Page:   utils.NormalizePagination(1, 20),
	})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, models.ActionStatusChanged, logs[0].Action)
	require.Equal(t, models.ActionTaskCreated, logs[1].Action)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityLogRepository_List_ProjectJoinsTasks(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewActivityLogRepository(db)

	projectID := uint64(3)

	rows := sqlmock.NewRows([]string{"id", "action", "old_value", "new_value", "user_id", "task_id", "created_at"}).
		AddRow(1, "TASK_CREATED", nil, "Task", 1, 7, time.Now())

	mock.ExpectQuery(`SELECT .* FROM "activity_logs" JOIN tasks ON tasks\.id = activity_logs\.task_id WHERE tasks\.project_id = .*`).
		WithArgs(projectID, 20).
		WillReturnRows(rows)

	logs, err := repo.List(ActivityLogFilter{
		ProjectID: &projectID,
		Page:      utils.NormalizePagination(1, 20),
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityLogRepository_List_SecondPageOffset(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewActivityLogRepository(db)

	userID := uint64(5)

	mock.ExpectQuery(`SELECT .* FROM "activity_logs" WHERE activity_logs\.user_id = .* LIMIT .* OFFSET .*`).
		WithArgs(userID, 20, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "action", "old_value", "new_value", "user_id", "task_id", "created_at"}))

	logs, err := repo.List(ActivityLogFilter{
		UserID: &userID,
		Page:   utils.NormalizePagination(2, 20),
	})
	require.NoError(t, err)
	require.Empty(t, logs)

	require.NoError(t, mock.ExpectationsWereMet())
}
