package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/rakshitjain23/taskpilot-api/internal/errors"
	"github.com/rakshitjain23/taskpilot-api/internal/middleware"
	"github.com/rakshitjain23/taskpilot-api/internal/models"
	"github.com/rakshitjain23/taskpilot-api/internal/services"
)

// AddMember adds a user, addressed by email, to a workspace.
func (h *WorkspaceHandler) AddMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type AddMemberRequest struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.workspaceService.AddMember(services.AddMemberInput{
		WorkspaceID: workspaceID,
		ActorID:     userID,
		Email:       req.Email,
		Role:        models.WorkspaceRole(req.Role),
	})
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// ListMembers returns a workspace's members with their user identities.
func (h *WorkspaceHandler) ListMembers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.workspaceService.ListMembers(workspaceID, userID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// RemoveMember removes a member from a workspace.
func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	targetUserID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.workspaceService.RemoveMember(workspaceID, userID, targetUserID); err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}
