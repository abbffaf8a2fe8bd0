package models

import "time"

type AIRequestType string

const (
	AIRequestSummary     AIRequestType = "SUMMARY"
	AIRequestDescription AIRequestType = "DESCRIPTION"
	AIRequestChat        AIRequestType = "CHAT"
)

type AIRequestStatus string

const (
	AIRequestPending    AIRequestStatus = "PENDING"
	AIRequestProcessing AIRequestStatus = "PROCESSING"
	AIRequestDone       AIRequestStatus = "DONE"
	AIRequestError      AIRequestStatus = "ERROR"
)

// AIRequest records one call to the AI proxy for a user.
type AIRequest struct {
	ID         uint64          `gorm:"primarykey" json:"id"`
	Type       AIRequestType   `gorm:"type:varchar(20);not null" json:"type"`
	Status     AIRequestStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	UserID     uint64          `gorm:"not null;index" json:"user_id"`
	TaskID     *uint64         `json:"task_id"`
	ProjectID  *uint64         `json:"project_id"`
	ResultText *string         `gorm:"type:text" json:"result_text"`
	CreatedAt  time.Time       `json:"created_at"`
}
