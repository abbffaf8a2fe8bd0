package models

import "time"

type User struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"type:varchar(255);not null" json:"-"`
	FullName       string    `gorm:"type:varchar(255);not null" json:"full_name"`
	CreatedAt      time.Time `json:"created_at"`
}
