package models

import "time"

// ActivityAction identifies a tracked task state transition.
type ActivityAction string

const (
	ActionTaskCreated     ActivityAction = "TASK_CREATED"
	ActionTaskUpdated     ActivityAction = "TASK_UPDATED"
	ActionStatusChanged   ActivityAction = "STATUS_CHANGED"
	ActionTaskDeleted     ActivityAction = "TASK_DELETED"
	ActionAssigneeUpdated ActivityAction = "ASSIGNEE_UPDATED"
	ActionAssigneeRemoved ActivityAction = "ASSIGNEE_REMOVED"

	// ActionUnknown is the fallback for action values this version does
	// not recognize, so old rows still round-trip through the API.
	ActionUnknown ActivityAction = "UNKNOWN"
)

// ParseActivityAction maps a stored action string onto the closed action set.
func ParseActivityAction(s string) ActivityAction {
	switch ActivityAction(s) {
	case ActionTaskCreated, ActionTaskUpdated, ActionStatusChanged,
		ActionTaskDeleted, ActionAssigneeUpdated, ActionAssigneeRemoved:
		return ActivityAction(s)
	default:
		return ActionUnknown
	}
}

// ActivityLog is an append-only audit record. Rows are never updated or
// deleted after creation; the repository exposes no mutation path.
type ActivityLog struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Action    ActivityAction `gorm:"type:varchar(255);not null;index" json:"action"`
	OldValue  *string        `gorm:"type:text" json:"old_value"`
	NewValue  *string        `gorm:"type:text" json:"new_value"`
	UserID    uint64         `gorm:"not null;index" json:"user_id"`
	TaskID    *uint64        `gorm:"index" json:"task_id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}
