package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rakshitjain23/taskpilot-api/internal/models"
	"github.com/rakshitjain23/taskpilot-api/internal/repository"
	"github.com/rakshitjain23/taskpilot-api/internal/utils"
)

// ActivityLogService serves audit record listings. Retrieval is the only
// operation: the records themselves are immutable.
type ActivityLogService struct {
	logRepo  repository.ActivityLogRepository
	taskRepo repository.TaskRepository
}

// NewActivityLogService creates a new ActivityLogService.
func NewActivityLogService(logRepo repository.ActivityLogRepository, taskRepo repository.TaskRepository) *ActivityLogService {
	return &ActivityLogService{
		logRepo:  logRepo,
		taskRepo: taskRepo,
	}
}

// ListLogs returns logs matching the filter, most recent first.
func (s *ActivityLogService) ListLogs(filter repository.ActivityLogFilter) ([]models.ActivityLog, error) {
	logs, err := s.logRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	return logs, nil
}

// ListTaskLogs returns an existing task's logs, most recent first.
func (s *ActivityLogService) ListTaskLogs(taskID uint64, params utils.PaginationParams) ([]models.ActivityLog, error) {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return s.ListLogs(repository.ActivityLogFilter{
		TaskID: &taskID,
		Page:   params,
	})
}

// ListProjectLogs returns logs for all tasks in a project, most recent first.
func (s *ActivityLogService) ListProjectLogs(projectID uint64, params utils.PaginationParams) ([]models.ActivityLog, error) {
	return s.ListLogs(repository.ActivityLogFilter{
		ProjectID: &projectID,
		Page:      params,
	})
}

// ListUserLogs returns the actions performed by a user, most recent first.
func (s *ActivityLogService) ListUserLogs(userID uint64, params utils.PaginationParams) ([]models.ActivityLog, error) {
	return s.ListLogs(repository.ActivityLogFilter{
		UserID: &userID,
		Page:   params,
	})
}
