package dto

import (
	"time"

	"github.com/rakshitjain23/taskpilot-api/internal/models"
)

// ActivityLogDTO represents an audit record in API responses. The stored
// action string is normalized through the closed action set, so rows written
// by older schema versions render as UNKNOWN instead of leaking free-form
// strings.
type ActivityLogDTO struct {
	ID        uint64                `json:"id"`
	Action    models.ActivityAction `json:"action"`
	OldValue  *string               `json:"old_value"`
	NewValue  *string               `json:"new_value"`
	UserID    uint64                `json:"user_id"`
	TaskID    *uint64               `json:"task_id"`
	CreatedAt time.Time             `json:"created_at"`
}

// ToActivityLogDTO converts an ActivityLog model to ActivityLogDTO
func ToActivityLogDTO(log models.ActivityLog) ActivityLogDTO {
	return ActivityLogDTO{
		ID:        log.ID,
		Action:    models.ParseActivityAction(string(log.Action)),
		OldValue:  log.OldValue,
		NewValue:  log.NewValue,
		UserID:    log.UserID,
		TaskID:    log.TaskID,
		CreatedAt: log.CreatedAt,
	}
}

// ToActivityLogDTOs converts a slice of ActivityLog models
func ToActivityLogDTOs(logs []models.ActivityLog) []ActivityLogDTO {
	out := make([]ActivityLogDTO, len(logs))
	for i, log := range logs {
		out[i] = ToActivityLogDTO(log)
	}
	return out
}
