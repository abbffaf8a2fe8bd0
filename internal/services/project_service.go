package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rakshitjain23/taskpilot-api/internal/models"
	"github.com/rakshitjain23/taskpilot-api/internal/repository"
)

var ErrInvalidProjectName = errors.New("project name cannot be empty")

// ProjectService provides business logic for projects within a workspace.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	access      *AccessService
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, access *AccessService) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		access:      access,
	}
}

// CreateProjectInput represents parameters to create a project.
type CreateProjectInput struct {
	WorkspaceID uint64
	ActorID     uint64
	Name        string
	Description string
}

// CreateProject creates a project in a workspace the actor owns.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}

	if _, err := s.access.RequireWorkspaceOwner(input.WorkspaceID, input.ActorID); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		WorkspaceID: input.WorkspaceID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns all projects in an owned workspace.
func (s *ProjectService) ListProjects(workspaceID, actorID uint64) ([]models.Project, error) {
	if _, err := s.access.RequireWorkspaceOwner(workspaceID, actorID); err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.ListByWorkspace(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// GetProject returns a single project scoped to an owned workspace.
func (s *ProjectService) GetProject(workspaceID, projectID, actorID uint64) (*models.Project, error) {
	if _, err := s.access.RequireWorkspaceOwner(workspaceID, actorID); err != nil {
		return nil, err
	}

	return s.access.RequireProjectInWorkspace(projectID, workspaceID)
}

// UpdateProjectInput represents a partial project update. Nil fields are
// left untouched.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// UpdateProject applies a partial update to a project.
func (s *ProjectService) UpdateProject(workspaceID, projectID, actorID uint64, input UpdateProjectInput) (*models.Project, error) {
	if _, err := s.access.RequireWorkspaceOwner(workspaceID, actorID); err != nil {
		return nil, err
	}

	project, err := s.access.RequireProjectInWorkspace(projectID, workspaceID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidProjectName
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and its tasks.
func (s *ProjectService) DeleteProject(workspaceID, projectID, actorID uint64) error {
	if _, err := s.access.RequireWorkspaceOwner(workspaceID, actorID); err != nil {
		return err
	}

	project, err := s.access.RequireProjectInWorkspace(projectID, workspaceID)
	if err != nil {
		return err
	}

	if err := s.projectRepo.Delete(project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}
