package repository

import (
	"gorm.io/gorm"

	"github.com/rakshitjain23/taskpilot-api/internal/models"
)

// GormWorkspaceRepository is a GORM implementation of WorkspaceRepository
type GormWorkspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

// Create creates a new workspace
func (r *GormWorkspaceRepository) Create(ws *models.Workspace) error {
	return r.db.Create(ws).Error
}

// FindByID finds a workspace by ID
func (r *GormWorkspaceRepository) FindByID(id uint64) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.First(&ws, id).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

// FindByOwnerAndName finds an owner's workspace by name
func (r *GormWorkspaceRepository) FindByOwnerAndName(ownerID uint64, name string) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.Where("owner_id = ? AND name = ?", ownerID, name).First(&ws).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

// ListByOwner lists all workspaces owned by a user
func (r *GormWorkspaceRepository) ListByOwner(ownerID uint64) ([]models.Workspace, error) {
	var workspaces []models.Workspace
	if err := r.db.Where("owner_id = ?", ownerID).Find(&workspaces).Error; err != nil {
		return nil, err
	}
	return workspaces, nil
}

// Update updates a workspace
func (r *GormWorkspaceRepository) Update(ws *models.Workspace) error {
	return r.db.Save(ws).Error
}

// Delete deletes a workspace and everything beneath it in a transaction.
// Activity logs are retained: audit records outlive the rows they describe.
func (r *GormWorkspaceRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		projectIDs := tx.Model(&models.Project{}).
			Select("id").
			Where("workspace_id = ?", id)

		taskIDs := tx.Model(&models.Task{}).
			Select("id").
			Where("project_id IN (?)", projectIDs)

		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id IN (?)", projectIDs).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("workspace_id = ?", id).Delete(&models.Project{}).Error; err != nil {
			return err
		}

		if err := tx.Where("workspace_id = ?", id).Delete(&models.WorkspaceMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Workspace{}, id).Error
	})
}

// AddMember adds a member to a workspace
func (r *GormWorkspaceRepository) AddMember(member *models.WorkspaceMember) error {
	return r.db.Create(member).Error
}

// FindMember finds a specific workspace member
func (r *GormWorkspaceRepository) FindMember(workspaceID, userID uint64) (*models.WorkspaceMember, error) {
	var member models.WorkspaceMember
	if err := r.db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// RemoveMember removes a member and reports how many rows were deleted
func (r *GormWorkspaceRepository) RemoveMember(workspaceID, userID uint64) (int64, error) {
	res := r.db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&models.WorkspaceMember{})
	return res.RowsAffected, res.Error
}

// ListMembers lists all members of a workspace joined with user info
func (r *GormWorkspaceRepository) ListMembers(workspaceID uint64) ([]WorkspaceMemberUser, error) {
	var members []WorkspaceMemberUser
	err := r.db.Model(&models.WorkspaceMember{}).
		Select("workspace_members.id AS member_id, workspace_members.role, users.id AS user_id, users.email, users.full_name").
		Joins("JOIN users ON users.id = workspace_members.user_id").
		Where("workspace_members.workspace_id = ?", workspaceID).
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
