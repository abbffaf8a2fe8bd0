package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/rakshitjain23/taskpilot-api/internal/models"
	"github.com/rakshitjain23/taskpilot-api/internal/repository"
	"github.com/rakshitjain23/taskpilot-api/internal/utils"
)

var (
	ErrTitleRequired     = errors.New("title is required")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrAssigneeNotFound  = errors.New("user not found")
	ErrTaskNotAssigned   = errors.New("task is already unassigned")
)

// noAssignee is the textual stand-in recorded when a task has no assignee.
const noAssignee = "None"

// TaskService handles task business logic. Every mutation, once committed,
// is followed by a best-effort audit record through the recorder.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	access   *AccessService
	recorder *ActivityRecorder
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	access *AccessService,
	recorder *ActivityRecorder,
) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		access:   access,
		recorder: recorder,
	}
}

// taskFieldSnapshot is the old/new payload recorded for TASK_UPDATED.
type taskFieldSnapshot struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func snapshotJSON(task *models.Task) *string {
	b, err := json.Marshal(taskFieldSnapshot{
		Title:       task.Title,
		Description: task.Description,
	})
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

func strPtr(s string) *string {
	return &s
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	WorkspaceID uint64
	ProjectID   uint64
	ActorID     uint64
	Title       string
	Description string
}

// CreateTask creates a task in a project and records TASK_CREATED.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	if _, err := s.access.RequireWorkspaceOwnerOrAdmin(input.WorkspaceID, input.ActorID); err != nil {
		return nil, err
	}

	project, err := s.access.RequireProjectInWorkspace(input.ProjectID, input.WorkspaceID)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusTodo,
		ProjectID:   project.ID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.recorder.Record(input.ActorID, &task.ID, models.ActionTaskCreated, nil, strPtr(task.Title))

	return task, nil
}

// ListTasks returns a page of a project's tasks plus the total count.
func (s *TaskService) ListTasks(workspaceID, projectID, actorID uint64, params utils.PaginationParams) ([]models.Task, int64, error) {
	if _, err := s.access.RequireWorkspaceOwnerOrAdmin(workspaceID, actorID); err != nil {
		return nil, 0, err
	}

	project, err := s.access.RequireProjectInWorkspace(projectID, workspaceID)
	if err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.taskRepo.ListByProject(project.ID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task by ID.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// UpdateTaskInput represents a partial task field update. Empty values fall
// back to the existing field value, so a blank string never clears a field.
type UpdateTaskInput struct {
	Title       string
	Description string
}

// UpdateTask applies a partial field update and records TASK_UPDATED with
// before/after snapshots.
func (s *TaskService) UpdateTask(taskID, actorID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.access.RequireTaskWorkspaceOwnerOrAdmin(taskID, actorID)
	if err != nil {
		return nil, err
	}

	oldSnapshot := snapshotJSON(task)

	if input.Title != "" {
		task.Title = input.Title
	}
	if input.Description != "" {
		task.Description = input.Description
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.recorder.Record(actorID, &task.ID, models.ActionTaskUpdated, oldSnapshot, snapshotJSON(task))

	return task, nil
}

// UpdateTaskStatus transitions a task's status and records STATUS_CHANGED.
func (s *TaskService) UpdateTaskStatus(taskID, actorID uint64, status models.TaskStatus) (*models.Task, error) {
	if !status.IsValid() {
		return nil, ErrInvalidTaskStatus
	}

	task, err := s.access.RequireTaskWorkspaceOwnerOrAdmin(taskID, actorID)
	if err != nil {
		return nil, err
	}

	oldStatus := string(task.Status)

	task.Status = status
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	s.recorder.Record(actorID, &task.ID, models.ActionStatusChanged, strPtr(oldStatus), strPtr(string(status)))

	return task, nil
}

// DeleteTask removes a task and records TASK_DELETED.
func (s *TaskService) DeleteTask(taskID, actorID uint64) error {
	task, err := s.access.RequireTaskWorkspaceOwnerOrAdmin(taskID, actorID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.recorder.Record(actorID, &task.ID, models.ActionTaskDeleted, strPtr(task.Title), nil)

	return nil
}

// AssignTask sets a task's assignee and records ASSIGNEE_UPDATED.
func (s *TaskService) AssignTask(taskID, targetUserID, actorID uint64) (*models.Task, error) {
	task, err := s.access.RequireTaskWorkspaceOwnerOrAdmin(taskID, actorID)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	oldAssignee := noAssignee
	if task.AssigneeID != nil {
		oldAssignee = strconv.FormatUint(*task.AssigneeID, 10)
	}

	task.AssigneeID = &targetUserID
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	s.recorder.Record(actorID, &task.ID, models.ActionAssigneeUpdated,
		strPtr(oldAssignee), strPtr(strconv.FormatUint(targetUserID, 10)))

	return task, nil
}

// UnassignTask clears a task's assignee and records ASSIGNEE_REMOVED.
// Unassigning a task that has no assignee is rejected, not a no-op.
func (s *TaskService) UnassignTask(taskID, actorID uint64) (*models.Task, error) {
	task, err := s.access.RequireTaskWorkspaceOwnerOrAdmin(taskID, actorID)
	if err != nil {
		return nil, err
	}

	if task.AssigneeID == nil {
		return nil, ErrTaskNotAssigned
	}

	oldAssignee := strconv.FormatUint(*task.AssigneeID, 10)

	task.AssigneeID = nil
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to unassign task: %w", err)
	}

	s.recorder.Record(actorID, &task.ID, models.ActionAssigneeRemoved,
		strPtr(oldAssignee), strPtr(noAssignee))

	return task, nil
}
