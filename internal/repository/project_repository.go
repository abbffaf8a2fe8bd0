package repository

import (
	"gorm.io/gorm"

	"github.com/rakshitjain23/taskpilot-api/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID regardless of workspace
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByIDInWorkspace finds a project scoped to a workspace, so a valid
// project ID addressed through the wrong workspace reads as absent.
func (r *GormProjectRepository) FindByIDInWorkspace(id, workspaceID uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByWorkspace lists all projects in a workspace
func (r *GormProjectRepository) ListByWorkspace(workspaceID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Where("workspace_id = ?", workspaceID).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListByWorkspaces lists all projects across several workspaces
func (r *GormProjectRepository) ListByWorkspaces(workspaceIDs []uint64) ([]models.Project, error) {
	if len(workspaceIDs) == 0 {
		return []models.Project{}, nil
	}

	var projects []models.Project
	if err := r.db.Where("workspace_id IN ?", workspaceIDs).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete deletes a project, its tasks and their comments in a transaction.
// Activity logs referencing the removed tasks are retained.
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).
			Select("id").
			Where("project_id = ?", id)

		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}
