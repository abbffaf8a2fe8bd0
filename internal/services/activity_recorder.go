package services

import (
	"github.com/rs/zerolog"

	"github.com/rakshitjain23/taskpilot-api/internal/models"
	"github.com/rakshitjain23/taskpilot-api/internal/repository"
)

// ActivityRecorder appends audit records for tracked task mutations. It is
// invoked only after the triggering mutation has committed; the insert runs
// in its own transaction and a failed insert never fails the caller. A crash
// between the mutation and Record leaves the mutation durable with no audit
// row, which is the accepted at-most-once guarantee.
type ActivityRecorder struct {
	logRepo repository.ActivityLogRepository
	logger  zerolog.Logger
}

// NewActivityRecorder creates a new ActivityRecorder.
func NewActivityRecorder(logRepo repository.ActivityLogRepository, logger zerolog.Logger) *ActivityRecorder {
	return &ActivityRecorder{
		logRepo: logRepo,
		logger:  logger,
	}
}

// Record appends one audit record for a task mutation. Failures are logged
// and swallowed.
func (r *ActivityRecorder) Record(userID uint64, taskID *uint64, action models.ActivityAction, oldValue, newValue *string) {
	entry := &models.ActivityLog{
		Action:   action,
		OldValue: oldValue,
		NewValue: newValue,
		UserID:   userID,
		TaskID:   taskID,
	}

	if err := r.logRepo.Create(entry); err != nil {
		event := r.logger.Warn().
			Err(err).
			Str("action", string(action)).
			Uint64("user_id", userID)
		if taskID != nil {
			event = event.Uint64("task_id", *taskID)
		}
		event.Msg("failed to write activity log entry")
	}
}
