package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rakshitjain23/taskpilot-api/internal/models"
	"github.com/rakshitjain23/taskpilot-api/internal/repository"
)

var (
	ErrWorkspaceNotFound     = errors.New("workspace not found")
	ErrNotWorkspaceOwner     = errors.New("only the workspace owner can perform this action")
	ErrWorkspaceAccessDenied = errors.New("workspace owner or admin role required")
	ErrProjectNotFound       = errors.New("project not found")
	ErrTaskNotFound          = errors.New("task not found")
)

// AccessService resolves whether a principal holds a capability on a
// resource. Every check is a read-only lookup with no side effects, so
// callers may repeat them freely within a request.
type AccessService struct {
	workspaceRepo repository.WorkspaceRepository
	projectRepo   repository.ProjectRepository
	taskRepo      repository.TaskRepository
}

// NewAccessService creates a new AccessService.
func NewAccessService(
	workspaceRepo repository.WorkspaceRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
) *AccessService {
	return &AccessService{
		workspaceRepo: workspaceRepo,
		projectRepo:   projectRepo,
		taskRepo:      taskRepo,
	}
}

// RequireWorkspaceOwner returns the workspace when the user owns it.
func (s *AccessService) RequireWorkspaceOwner(workspaceID, userID uint64) (*models.Workspace, error) {
	ws, err := s.workspaceRepo.FindByID(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}

	if ws.OwnerID != userID {
		return nil, ErrNotWorkspaceOwner
	}

	return ws, nil
}

// RequireWorkspaceOwnerOrAdmin returns the workspace when the user owns it
// or holds an admin membership. Admin delegation is flat: there is no role
// inheritance beyond this single override.
func (s *AccessService) RequireWorkspaceOwnerOrAdmin(workspaceID, userID uint64) (*models.Workspace, error) {
	ws, err := s.workspaceRepo.FindByID(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}

	if ws.OwnerID == userID {
		return ws, nil
	}

	member, err := s.workspaceRepo.FindMember(workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceAccessDenied
		}
		return nil, fmt.Errorf("failed to find workspace member: %w", err)
	}

	if member.Role != models.RoleAdmin {
		return nil, ErrWorkspaceAccessDenied
	}

	return ws, nil
}

// RequireProjectInWorkspace returns the project when it exists inside the
// given workspace. A project ID that is valid elsewhere reads as absent.
func (s *AccessService) RequireProjectInWorkspace(projectID, workspaceID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByIDInWorkspace(projectID, workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// RequireTaskWorkspaceOwnerOrAdmin resolves a task through its project to
// its workspace and applies the owner-or-admin check there.
func (s *AccessService) RequireTaskWorkspaceOwnerOrAdmin(taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	project, err := s.projectRepo.FindByID(task.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if _, err := s.RequireWorkspaceOwnerOrAdmin(project.WorkspaceID, userID); err != nil {
		return nil, err
	}

	return task, nil
}
