package repository

import (
	"gorm.io/gorm"

	"github.com/rakshitjain23/taskpilot-api/internal/database"
	"github.com/rakshitjain23/taskpilot-api/internal/models"
)

// GormActivityLogRepository is a GORM implementation of ActivityLogRepository
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new ActivityLogRepository
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// Create appends a new activity log row
func (r *GormActivityLogRepository) Create(log *models.ActivityLog) error {
	return r.db.Create(log).Error
}

// List retrieves logs matching the filter, most recent first. The id
// tiebreak keeps insertion order stable when timestamps collide.
func (r *GormActivityLogRepository) List(filter ActivityLogFilter) ([]models.ActivityLog, error) {
	query := r.db.Model(&models.ActivityLog{})

	if filter.ProjectID != nil {
		query = query.
			Joins("JOIN tasks ON tasks.id = activity_logs.task_id").
			Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.Action != nil {
		query = query.Where("activity_logs.action = ?", *filter.Action)
	}
	if filter.UserID != nil {
		query = query.Where("activity_logs.user_id = ?", *filter.UserID)
	}
	if filter.TaskID != nil {
		query = query.Where("activity_logs.task_id = ?", *filter.TaskID)
	}
	if filter.DateFrom != nil {
		query = query.Where("activity_logs.created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("activity_logs.created_at <= ?", *filter.DateTo)
	}

	var logs []models.ActivityLog
	if err := query.
		Order("activity_logs.created_at DESC, activity_logs.id DESC").
		Scopes(database.Paginate(filter.Page)).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}
