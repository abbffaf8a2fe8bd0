package models

import "time"

type Workspace struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index:idx_workspaces_owner_name" json:"name"`
	OwnerID   uint64    `gorm:"not null;index:idx_workspaces_owner_name" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}
