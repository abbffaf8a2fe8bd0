package models

import "time"

type Comment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	CreatedAt time.Time `json:"created_at"`
}
