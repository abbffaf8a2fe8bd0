package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/rakshitjain23/taskpilot-api/internal/models"
	"github.com/rakshitjain23/taskpilot-api/internal/repository"
)

var (
	ErrInvalidWorkspaceName = errors.New("workspace name cannot be empty")
	ErrWorkspaceNameTaken   = errors.New("workspace name already exists")
	ErrAlreadyMember        = errors.New("user already a member")
	ErrCannotRemoveSelf     = errors.New("you cannot remove yourself")
	ErrMemberNotFound       = errors.New("member not found")
	ErrInvalidMemberRole    = errors.New("invalid member role")
)

// WorkspaceService provides business logic for workspaces and their members.
type WorkspaceService struct {
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
	access        *AccessService
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(
	workspaceRepo repository.WorkspaceRepository,
	userRepo repository.UserRepository,
	access *AccessService,
) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		access:        access,
	}
}

// CreateWorkspace creates a workspace owned by the given user. Names are
// unique per owner.
func (s *WorkspaceService) CreateWorkspace(ownerID uint64, name string) (*models.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidWorkspaceName
	}

	if _, err := s.workspaceRepo.FindByOwnerAndName(ownerID, name); err == nil {
		return nil, ErrWorkspaceNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check workspace name: %w", err)
	}

	ws := &models.Workspace{
		Name:    name,
		OwnerID: ownerID,
	}

	if err := s.workspaceRepo.Create(ws); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	return ws, nil
}

// ListWorkspaces returns the workspaces owned by a user.
func (s *WorkspaceService) ListWorkspaces(ownerID uint64) ([]models.Workspace, error) {
	workspaces, err := s.workspaceRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

// GetWorkspace returns a workspace owned by the user.
func (s *WorkspaceService) GetWorkspace(workspaceID, userID uint64) (*models.Workspace, error) {
	return s.access.RequireWorkspaceOwner(workspaceID, userID)
}

// UpdateWorkspace renames an owned workspace.
func (s *WorkspaceService) UpdateWorkspace(workspaceID, userID uint64, name string) (*models.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidWorkspaceName
	}

	ws, err := s.access.RequireWorkspaceOwner(workspaceID, userID)
	if err != nil {
		return nil, err
	}

	ws.Name = name
	if err := s.workspaceRepo.Update(ws); err != nil {
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}

	return ws, nil
}

// DeleteWorkspace removes an owned workspace and everything beneath it.
func (s *WorkspaceService) DeleteWorkspace(workspaceID, userID uint64) error {
	if _, err := s.access.RequireWorkspaceOwner(workspaceID, userID); err != nil {
		return err
	}

	if err := s.workspaceRepo.Delete(workspaceID); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	return nil
}

// AddMemberInput represents parameters to add a workspace member.
type AddMemberInput struct {
	WorkspaceID uint64
	ActorID     uint64
	Email       string
	Role        models.WorkspaceRole
}

// AddMember adds a user, addressed by email, to a workspace.
func (s *WorkspaceService) AddMember(input AddMemberInput) (*models.WorkspaceMember, error) {
	if _, err := s.access.RequireWorkspaceOwnerOrAdmin(input.WorkspaceID, input.ActorID); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleMember
	}
	if !role.IsValid() {
		return nil, ErrInvalidMemberRole
	}

	user, err := s.userRepo.FindByEmail(strings.TrimSpace(strings.ToLower(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.workspaceRepo.FindMember(input.WorkspaceID, user.ID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.WorkspaceMember{
		WorkspaceID: input.WorkspaceID,
		UserID:      user.ID,
		Role:        role,
	}

	if err := s.workspaceRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// ListMembers returns a workspace's members with their user identities.
func (s *WorkspaceService) ListMembers(workspaceID, actorID uint64) ([]repository.WorkspaceMemberUser, error) {
	if _, err := s.access.RequireWorkspaceOwnerOrAdmin(workspaceID, actorID); err != nil {
		return nil, err
	}

	members, err := s.workspaceRepo.ListMembers(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return members, nil
}

// RemoveMember removes a member from a workspace. Removing a member that is
// already gone reports not found, so a repeated removal is not a silent
// no-op.
func (s *WorkspaceService) RemoveMember(workspaceID, actorID, targetUserID uint64) error {
	if _, err := s.access.RequireWorkspaceOwnerOrAdmin(workspaceID, actorID); err != nil {
		return err
	}

	if targetUserID == actorID {
		return ErrCannotRemoveSelf
	}

	deleted, err := s.workspaceRepo.RemoveMember(workspaceID, targetUserID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if deleted == 0 {
		return ErrMemberNotFound
	}

	return nil
}
