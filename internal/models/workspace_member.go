package models

import "time"

type WorkspaceRole string

const (
	RoleOwner  WorkspaceRole = "owner"
	RoleAdmin  WorkspaceRole = "admin"
	RoleMember WorkspaceRole = "member"

	// RoleUnknown is the fallback for role values written by older
	// versions of the schema.
	RoleUnknown WorkspaceRole = "unknown"
)

// ParseWorkspaceRole maps a stored role string onto the closed role set.
func ParseWorkspaceRole(s string) WorkspaceRole {
	switch WorkspaceRole(s) {
	case RoleOwner, RoleAdmin, RoleMember:
		return WorkspaceRole(s)
	default:
		return RoleUnknown
	}
}

// IsValid reports whether the role is one of the assignable roles.
func (r WorkspaceRole) IsValid() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleMember
}

type WorkspaceMember struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	WorkspaceID uint64        `gorm:"not null;uniqueIndex:idx_workspace_members_workspace_user" json:"workspace_id"`
	UserID      uint64        `gorm:"not null;uniqueIndex:idx_workspace_members_workspace_user" json:"user_id"`
	Role        WorkspaceRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt   time.Time     `json:"created_at"`
}
