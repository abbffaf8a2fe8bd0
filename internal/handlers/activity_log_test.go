package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rakshitjain23/taskpilot-api/internal/database"
	"github.com/rakshitjain23/taskpilot-api/internal/dto"
	"github.com/rakshitjain23/taskpilot-api/internal/middleware"
	"github.com/rakshitjain23/taskpilot-api/internal/models"
	"github.com/rakshitjain23/taskpilot-api/internal/repository"
	"github.com/rakshitjain23/taskpilot-api/internal/security"
	"github.com/rakshitjain23/taskpilot-api/internal/services"
)

type logTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
	token  string
	user   *models.User
}

func setupLogTestEnv(t *testing.T) logTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.ActivityLog{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	logRepo := repository.NewActivityLogRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	logService := services.NewActivityLogService(logRepo, taskRepo)

	jwtManager := security.NewJWTManager("test-secret", time.Hour)
	handler := NewActivityLogHandler(logService)

	user := &models.User{Email: "actor@example.com", FullName: "Actor", HashedPassword: "hashedpassword"}
	require.NoError(t, db.Create(user).Error)
	token, err := jwtManager.GenerateAccessToken(user.ID, user.Email)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := middleware.RequireAuth(jwtManager)
	r.GET("/api/logs", auth, handler.ListLogs)
	r.GET("/api/logs/tasks/:id", auth, handler.ListTaskLogs)
	r.GET("/api/logs/projects/:id", auth, handler.ListProjectLogs)
	r.GET("/api/logs/users/:id", auth, handler.ListUserLogs)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return logTestEnv{db: db, router: r, token: token, user: user}
}

func (env logTestEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env logTestEnv) seedLog(t *testing.T, action models.ActivityAction, userID uint64, taskID *uint64, createdAt time.Time) {
	t.Helper()

	entry := &models.ActivityLog{
		Action:    action,
		UserID:    userID,
		TaskID:    taskID,
		CreatedAt: createdAt,
	}
	require.NoError(t, env.db.Create(entry).Error)
}

func decodeLogs(t *testing.T, w *httptest.ResponseRecorder) []dto.ActivityLogDTO {
	t.Helper()

	var logs []dto.ActivityLogDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	return logs
}

func TestActivityLogHandler_FilterByAction(t *testing.T) {
	env := setupLogTestEnv(t)
	now := time.Now()

	task := &models.Task{Title: "T", Status: models.TaskStatusTodo, ProjectID: 1}
	require.NoError(t, env.db.Create(task).Error)

	env.seedLog(t, models.ActionTaskCreated, env.user.ID, &task.ID, now.Add(-2*time.Hour))
	env.seedLog(t, models.ActionStatusChanged, env.user.ID, &task.ID, now.Add(-time.Hour))
	env.seedLog(t, models.ActionStatusChanged, env.user.ID, &task.ID, now)

	w := env.get(t, "/api/logs?action=STATUS_CHANGED")
	require.Equal(t, http.StatusOK, w.Code)

	logs := decodeLogs(t, w)
	require.Len(t, logs, 2)
	for _, entry := range logs {
		require.Equal(t, models.ActionStatusChanged, entry.Action)
	}
}

func TestActivityLogHandler_InvalidAction(t *testing.T) {
	env := setupLogTestEnv(t)

	w := env.get(t, "/api/logs?action=SOMETHING_ELSE")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityLogHandler_DateRange(t *testing.T) {
	env := setupLogTestEnv(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	env.seedLog(t, models.ActionTaskCreated, env.user.ID, nil, base.Add(-48*time.Hour))
	env.seedLog(t, models.ActionTaskCreated, env.user.ID, nil, base)
	env.seedLog(t, models.ActionTaskCreated, env.user.ID, nil, base.Add(48*time.Hour))

	w := env.get(t, "/api/logs?date_from="+base.Add(-time.Hour).Format(time.RFC3339)+
		"&date_to="+base.Add(time.Hour).Format(time.RFC3339))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeLogs(t, w), 1)

	w = env.get(t, "/api/logs?date_from=yesterday")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityLogHandler_MostRecentFirst(t *testing.T) {
	env := setupLogTestEnv(t)
	now := time.Now()

	env.seedLog(t, models.ActionTaskCreated, env.user.ID, nil, now.Add(-2*time.Hour))
	env.seedLog(t, models.ActionTaskUpdated, env.user.ID, nil, now.Add(-time.Hour))
	env.seedLog(t, models.ActionTaskDeleted, env.user.ID, nil, now)

	w := env.get(t, "/api/logs")
	require.Equal(t, http.StatusOK, w.Code)

	logs := decodeLogs(t, w)
	require.Len(t, logs, 3)
	require.Equal(t, models.ActionTaskDeleted, logs[0].Action)
	require.Equal(t, models.ActionTaskUpdated, logs[1].Action)
	require.Equal(t, models.ActionTaskCreated, logs[2].Action)
}

func TestActivityLogHandler_ProjectScope(t *testing.T) {
	env := setupLogTestEnv(t)
	now := time.Now()

	taskA := &models.Task{Title: "A", Status: models.TaskStatusTodo, ProjectID: 1}
	require.NoError(t, env.db.Create(taskA).Error)
	taskB := &models.Task{Title: "B", Status: models.TaskStatusTodo, ProjectID: 2}
	require.NoError(t, env.db.Create(taskB).Error)

	env.seedLog(t, models.ActionTaskCreated, env.user.ID, &taskA.ID, now.Add(-time.Hour))
	env.seedLog(t, models.ActionTaskCreated, env.user.ID, &taskB.ID, now)

	w := env.get(t, "/api/logs/projects/1")
	require.Equal(t, http.StatusOK, w.Code)

	logs := decodeLogs(t, w)
	require.Len(t, logs, 1)
	require.Equal(t, &taskA.ID, logs[0].TaskID)
}

func TestActivityLogHandler_UserScope(t *testing.T) {
	env := setupLogTestEnv(t)
	now := time.Now()

	other := &models.User{Email: "other@example.com", FullName: "Other", HashedPassword: "hashedpassword"}
	require.NoError(t, env.db.Create(other).Error)

	env.seedLog(t, models.ActionTaskCreated, env.user.ID, nil, now.Add(-time.Hour))
	env.seedLog(t, models.ActionTaskCreated, other.ID, nil, now)

	w := env.get(t, fmt.Sprintf("/api/logs/users/%d", other.ID))
	require.Equal(t, http.StatusOK, w.Code)

	logs := decodeLogs(t, w)
	require.Len(t, logs, 1)
	require.Equal(t, other.ID, logs[0].UserID)
}

func TestActivityLogHandler_UnknownActionNormalized(t *testing.T) {
	env := setupLogTestEnv(t)

	// A row written by an older schema version with a retired action tag.
	env.seedLog(t, models.ActivityAction("LEGACY_ACTION"), env.user.ID, nil, time.Now())

	w := env.get(t, "/api/logs")
	require.Equal(t, http.StatusOK, w.Code)

	logs := decodeLogs(t, w)
	require.Len(t, logs, 1)
	require.Equal(t, models.ActionUnknown, logs[0].Action)
}
