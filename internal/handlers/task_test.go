package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
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

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db         *gorm.DB
	router     *gin.Engine
	jwtManager *security.JWTManager
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Project{},
		&models.Task{},
		&models.Comment{},
		&models.ActivityLog{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	workspaceRepo := repository.NewWorkspaceRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	logRepo := repository.NewActivityLogRepository(suite.db)

	access := services.NewAccessService(workspaceRepo, projectRepo, taskRepo)
	recorder := services.NewActivityRecorder(logRepo, zerolog.Nop())
	taskService := services.NewTaskService(taskRepo, userRepo, access, recorder)
	logService := services.NewActivityLogService(logRepo, taskRepo)

	suite.jwtManager = security.NewJWTManager("test-secret", time.Hour)
	taskHandler := NewTaskHandler(taskService, logService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	auth := middleware.RequireAuth(suite.jwtManager)
	suite.router.POST("/api/workspaces/:id/projects/:project_id/tasks", auth, taskHandler.CreateTask)
	suite.router.GET("/api/workspaces/:id/projects/:project_id/tasks", auth, taskHandler.ListTasks)
	suite.router.GET("/api/tasks/:id", auth, taskHandler.GetTask)
	suite.router.PUT("/api/tasks/:id", auth, taskHandler.UpdateTask)
	suite.router.DELETE("/api/tasks/:id", auth, taskHandler.DeleteTask)
	suite.router.PUT("/api/tasks/:id/status", auth, taskHandler.UpdateTaskStatus)
	suite.router.PUT("/api/tasks/:id/assign/:user_id", auth, taskHandler.AssignTask)
	suite.router.PUT("/api/tasks/:id/unassign", auth, taskHandler.UnassignTask)
	suite.router.GET("/api/tasks/:id/logs", auth, taskHandler.ListTaskLogs)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createTestUser(email string) (*models.User, string) {
	user := &models.User{
		Email:          email,
		FullName:       "Test User",
		HashedPassword: "hashedpassword",
	}
	suite.Require().NoError(suite.db.Create(user).Error)

	token, err := suite.jwtManager.GenerateAccessToken(user.ID, user.Email)
	suite.Require().NoError(err)

	return user, token
}

func (suite *TaskHandlerTestSuite) createTestWorkspace(name string, ownerID uint64) *models.Workspace {
	ws := &models.Workspace{Name: name, OwnerID: ownerID}
	suite.Require().NoError(suite.db.Create(ws).Error)
	return ws
}

func (suite *TaskHandlerTestSuite) createTestProject(name string, workspaceID uint64) *models.Project {
	project := &models.Project{Name: name, WorkspaceID: workspaceID}
	suite.Require().NoError(suite.db.Create(project).Error)
	return project
}

func (suite *TaskHandlerTestSuite) addMember(workspaceID, userID uint64, role models.WorkspaceRole) {
	member := &models.WorkspaceMember{WorkspaceID: workspaceID, UserID: userID, Role: role}
	suite.Require().NoError(suite.db.Create(member).Error)
}

func (suite *TaskHandlerTestSuite) request(method, path, token string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) taskLogs(taskID uint64) []models.ActivityLog {
	var logs []models.ActivityLog
	err := suite.db.Where("task_id = ?", taskID).
		Order("created_at DESC, id DESC").
		Find(&logs).Error
	suite.Require().NoError(err)
	return logs
}

func (suite *TaskHandlerTestSuite) TestCreateTask_RecordsActivity() {
	owner, token := suite.createTestUser("owner@example.com")
	ws := suite.createTestWorkspace("WS", owner.ID)
	project := suite.createTestProject("P", ws.ID)

	w := suite.request(http.MethodPost,
		fmt.Sprintf("/api/workspaces/%d/projects/%d/tasks", ws.ID, project.ID),
		token, map[string]string{"title": "First task"})

	suite.Equal(http.StatusCreated, w.Code)

	var task models.Task
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	suite.Equal(models.TaskStatusTodo, task.Status)

	logs := suite.taskLogs(task.ID)
	suite.Require().Len(logs, 1)
	suite.Equal(models.ActionTaskCreated, logs[0].Action)
	suite.Nil(logs[0].OldValue)
	suite.Require().NotNil(logs[0].NewValue)
	suite.Equal("First task", *logs[0].NewValue)
	suite.Equal(owner.ID, logs[0].UserID)
}

func (suite *TaskHandlerTestSuite) TestStatusChange_RecordsOldAndNew() {
	owner, token := suite.createTestUser("owner@example.com")
	ws := suite.createTestWorkspace("WS", owner.ID)
	project := suite.createTestProject("P", ws.ID)

	w := suite.request(http.MethodPost,
		fmt.Sprintf("/api/workspaces/%d/projects/%d/tasks", ws.ID, project.ID),
		token, map[string]string{"title": "Task"})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var task models.Task
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))

	w = suite.request(http.MethodPut,
		fmt.Sprintf("/api/tasks/%d/status", task.ID),
		token, map[string]string{"status": "IN_PROGRESS"})
	suite.Equal(http.StatusOK, w.Code)

	logs := suite.taskLogs(task.ID)
	suite.Require().Len(logs, 2)
	// Most recent first.
	suite.Equal(models.ActionStatusChanged, logs[0].Action)
	suite.Equal("TODO", *logs[0].OldValue)
	suite.Equal("IN_PROGRESS", *logs[0].NewValue)
	suite.Equal(models.ActionTaskCreated, logs[1].Action)
}

func (suite *TaskHandlerTestSuite) TestStatusChange_InvalidStatus() {
	owner, token := suite.createTestUser("owner@example.com")
	ws := suite.createTestWorkspace("WS", owner.ID)
	project := suite.createTestProject("P", ws.ID)

	task := &models.Task{Title: "Task", Status: models.TaskStatusTodo, ProjectID: project.ID}
	suite.Require().NoError(suite.db.Create(task).Error)

	w := suite.request(http.MethodPut,
		fmt.Sprintf("/api/tasks/%d/status", task.ID),
		token, map[string]string{"status": "ARCHIVED"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Empty(suite.taskLogs(task.ID))
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_EmptyFieldsUnchanged() {
	owner, token := suite.createTestUser("owner@example.com")
	ws := suite.createTestWorkspace("WS", owner.ID)
	project := suite.createTestProject("P", ws.ID)

	task := &models.Task{
		Title:       "Original",
		Description: "Original description",
		Status:      models.TaskStatusTodo,
		ProjectID:   project.ID,
	}
	suite.Require().NoError(suite.db.Create(task).Error)

	w := suite.request(http.MethodPut,
		fmt.Sprintf("/api/tasks/%d", task.ID),
		token, map[string]string{"title": "Renamed"})
	suite.Equal(http.StatusOK, w.Code)

	var updated models.Task
	suite.Require().NoError(suite.db.First(&updated, task.ID).Error)
	suite.Equal("Renamed", updated.Title)
	suite.Equal("Original description", updated.Description)

	logs := suite.taskLogs(task.ID)
	suite.Require().Len(logs, 1)
	suite.Equal(models.ActionTaskUpdated, logs[0].Action)
	suite.Contains(*logs[0].OldValue, "Original")
	suite.Contains(*logs[0].NewValue, "Renamed")
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_LogSurvives() {
	owner, token := suite.createTestUser("owner@example.com")
	ws := suite.createTestWorkspace("WS", owner.ID)
	project := suite.createTestProject("P", ws.ID)

	task := &models.Task{Title: "Doomed", Status: models.TaskStatusTodo, ProjectID: project.ID}
	suite.Require().NoError(suite.db.Create(task).Error)

	w := suite.request(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), token, nil)
	suite.Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	suite.Zero(count)

	logs := suite.taskLogs(task.ID)
	suite.Require().Len(logs, 1)
	suite.Equal(models.ActionTaskDeleted, logs[0].Action)
	suite.Equal("Doomed", *logs[0].OldValue)
	suite.Nil(logs[0].NewValue)
}

func (suite *TaskHandlerTestSuite) TestAssignUnassign_Lifecycle() {
	owner, token := suite.createTestUser("owner@example.com")
	assignee, _ := suite.createTestUser("assignee@example.com")
	ws := suite.createTestWorkspace("WS", owner.ID)
	project := suite.createTestProject("P", ws.ID)

	task := &models.Task{Title: "Task", Status: models.TaskStatusTodo, ProjectID: project.ID}
	suite.Require().NoError(suite.db.Create(task).Error)

	w := suite.request(http.MethodPut,
		fmt.Sprintf("/api/tasks/%d/assign/%d", task.ID, assignee.ID), token, nil)
	suite.Equal(http.StatusOK, w.Code)

	logs := suite.taskLogs(task.ID)
	suite.Require().Len(logs, 1)
	suite.Equal(models.ActionAssigneeUpdated, logs[0].Action)
	suite.Equal("None", *logs[0].OldValue)
	suite.Equal(fmt.Sprintf("%d", assignee.ID), *logs[0].NewValue)

	w = suite.request(http.MethodPut, fmt.Sprintf("/api/tasks/%d/unassign", task.ID), token, nil)
	suite.Equal(http.StatusOK, w.Code)

	logs = suite.taskLogs(task.ID)
	suite.Require().Len(logs, 2)
	suite.Equal(models.ActionAssigneeRemoved, logs[0].Action)
	suite.Equal(fmt.Sprintf("%d", assignee.ID), *logs[0].OldValue)
	suite.Equal("None", *logs[0].NewValue)
}

func (suite *TaskHandlerTestSuite) TestUnassign_AlreadyUnassigned() {
	owner, token := suite.createTestUser("owner@example.com")
	ws := suite.createTestWorkspace("WS", owner.ID)
	project := suite.createTestProject("P", ws.ID)

	task := &models.Task{Title: "Task", Status: models.TaskStatusTodo, ProjectID: project.ID}
	suite.Require().NoError(suite.db.Create(task).Error)

	w := suite.request(http.MethodPut, fmt.Sprintf("/api/tasks/%d/unassign", task.ID), token, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Empty(suite.taskLogs(task.ID))
}

func (suite *TaskHandlerTestSuite) TestAssign_UnknownUser() {
	owner, token := suite.createTestUser("owner@example.com")
	ws := suite.createTestWorkspace("WS", owner.ID)
	project := suite.createTestProject("P", ws.ID)

	task := &models.Task{Title: "Task", Status: models.TaskStatusTodo, ProjectID: project.ID}
	suite.Require().NoError(suite.db.Create(task).Error)

	w := suite.request(http.MethodPut,
		fmt.Sprintf("/api/tasks/%d/assign/99999", task.ID), token, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Empty(suite.taskLogs(task.ID))
}

func (suite *TaskHandlerTestSuite) TestMutations_ForbiddenForPlainMember() {
	owner, _ := suite.createTestUser("owner@example.com")
	member, memberToken := suite.createTestUser("member@example.com")
	ws := suite.createTestWorkspace("WS", owner.ID)
	project := suite.createTestProject("P", ws.ID)
	suite.addMember(ws.ID, member.ID, models.RoleMember)

	task := &models.Task{Title: "Task", Status: models.TaskStatusTodo, ProjectID: project.ID}
	suite.Require().NoError(suite.db.Create(task).Error)

	w := suite.request(http.MethodPut,
		fmt.Sprintf("/api/tasks/%d/status", task.ID),
		memberToken, map[string]string{"status": "DONE"})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), memberToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	// The task is untouched and nothing was recorded.
	var current models.Task
	suite.Require().NoError(suite.db.First(&current, task.ID).Error)
	suite.Equal(models.TaskStatusTodo, current.Status)
	suite.Empty(suite.taskLogs(task.ID))
}

func (suite *TaskHandlerTestSuite) TestMutations_AllowedForAdmin() {
	owner, _ := suite.createTestUser("owner@example.com")
	admin, adminToken := suite.createTestUser("admin@example.com")
	ws := suite.createTestWorkspace("WS", owner.ID)
	project := suite.createTestProject("P", ws.ID)
	suite.addMember(ws.ID, admin.ID, models.RoleAdmin)

	w := suite.request(http.MethodPost,
		fmt.Sprintf("/api/workspaces/%d/projects/%d/tasks", ws.ID, project.ID),
		adminToken, map[string]string{"title": "Admin task"})
	suite.Equal(http.StatusCreated, w.Code)

	var task models.Task
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))

	logs := suite.taskLogs(task.ID)
	suite.Require().Len(logs, 1)
	suite.Equal(admin.ID, logs[0].UserID)
}

func (suite *TaskHandlerTestSuite) TestMutations_ForbiddenForOutsider() {
	owner, _ := suite.createTestUser("owner@example.com")
	_, outsiderToken := suite.createTestUser("outsider@example.com")
	ws := suite.createTestWorkspace("WS", owner.ID)
	project := suite.createTestProject("P", ws.ID)

	task := &models.Task{Title: "Task", Status: models.TaskStatusTodo, ProjectID: project.ID}
	suite.Require().NoError(suite.db.Create(task).Error)

	w := suite.request(http.MethodPut,
		fmt.Sprintf("/api/tasks/%d", task.ID),
		outsiderToken, map[string]string{"title": "Hijacked"})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPost,
		fmt.Sprintf("/api/workspaces/%d/projects/%d/tasks", ws.ID, project.ID),
		outsiderToken, map[string]string{"title": "Sneaky"})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_CrossWorkspaceProject() {
	owner, token := suite.createTestUser("owner@example.com")
	other, _ := suite.createTestUser("other@example.com")
	ws := suite.createTestWorkspace("Mine", owner.ID)
	otherWs := suite.createTestWorkspace("Theirs", other.ID)
	foreignProject := suite.createTestProject("Foreign", otherWs.ID)

	// Addressing a foreign project through an owned workspace reads as absent.
	w := suite.request(http.MethodPost,
		fmt.Sprintf("/api/workspaces/%d/projects/%d/tasks", ws.ID, foreignProject.ID),
		token, map[string]string{"title": "Task"})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Paginated() {
	owner, token := suite.createTestUser("owner@example.com")
	ws := suite.createTestWorkspace("WS", owner.ID)
	project := suite.createTestProject("P", ws.ID)

	for i := 0; i < 25; i++ {
		task := &models.Task{
			Title:     fmt.Sprintf("Task %02d", i),
			Status:    models.TaskStatusTodo,
			ProjectID: project.ID,
		}
		suite.Require().NoError(suite.db.Create(task).Error)
	}

	w := suite.request(http.MethodGet,
		fmt.Sprintf("/api/workspaces/%d/projects/%d/tasks?page=2&page_size=20", ws.ID, project.ID),
		token, nil)
	suite.Equal(http.StatusOK, w.Code)

	var resp dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Tasks, 5)
	suite.Equal(int64(25), resp.Pagination.Total)
	suite.Equal(2, resp.Pagination.Page)
	suite.Equal(20, resp.Pagination.Limit)
}

func (suite *TaskHandlerTestSuite) TestTaskLogs_NotFound() {
	_, token := suite.createTestUser("owner@example.com")

	w := suite.request(http.MethodGet, "/api/tasks/99999/logs", token, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
