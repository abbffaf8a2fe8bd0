package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/rakshitjain23/taskpilot-api/internal/errors"
	"github.com/rakshitjain23/taskpilot-api/internal/middleware"
	"github.com/rakshitjain23/taskpilot-api/internal/services"
)

// WorkspaceHandler coordinates workspace HTTP handlers. All routes are
// owner-scoped except member management, which admits workspace admins.
type WorkspaceHandler struct {
	workspaceService *services.WorkspaceService
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(workspaceService *services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
	}
}

// CreateWorkspace creates a workspace owned by the current user.
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateWorkspaceRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ws, err := h.workspaceService.CreateWorkspace(userID, req.Name)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ws)
}

// ListWorkspaces returns the current user's owned workspaces.
func (h *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	workspaces, err := h.workspaceService.ListWorkspaces(userID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, workspaces)
}

// GetWorkspace returns a single owned workspace.
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ws, err := h.workspaceService.GetWorkspace(workspaceID, userID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ws)
}

// UpdateWorkspace renames an owned workspace.
func (h *WorkspaceHandler) UpdateWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateWorkspaceRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ws, err := h.workspaceService.UpdateWorkspace(workspaceID, userID, req.Name)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ws)
}

// DeleteWorkspace removes an owned workspace and everything beneath it.
func (h *WorkspaceHandler) DeleteWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.workspaceService.DeleteWorkspace(workspaceID, userID); err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Workspace deleted successfully",
	})
}

func respondWorkspaceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidWorkspaceName),
		errors.Is(err, services.ErrInvalidMemberRole),
		errors.Is(err, services.ErrCannotRemoveSelf):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrWorkspaceNameTaken),
		errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrWorkspaceNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotWorkspaceOwner),
		errors.Is(err, services.ErrWorkspaceAccessDenied):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
