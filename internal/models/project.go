package models

import "time"

type Project struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	WorkspaceID uint64    `gorm:"not null;index" json:"workspace_id"`
	CreatedAt   time.Time `json:"created_at"`
}
