package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rakshitjain23/taskpilot-api/internal/dto"
	apierrors "github.com/rakshitjain23/taskpilot-api/internal/errors"
	"github.com/rakshitjain23/taskpilot-api/internal/middleware"
	"github.com/rakshitjain23/taskpilot-api/internal/models"
	"github.com/rakshitjain23/taskpilot-api/internal/repository"
	"github.com/rakshitjain23/taskpilot-api/internal/services"
	"github.com/rakshitjain23/taskpilot-api/internal/utils"
)

// ActivityLogHandler serves audit record listings. Records are read-only
// at this surface; writes happen only through task mutations.
type ActivityLogHandler struct {
	logService *services.ActivityLogService
}

// NewActivityLogHandler creates a new ActivityLogHandler.
func NewActivityLogHandler(logService *services.ActivityLogService) *ActivityLogHandler {
	return &ActivityLogHandler{
		logService: logService,
	}
}

// ListLogs returns logs matching the query filters, most recent first.
// Supported filters: action, user_id, task_id, project_id, date_from,
// date_to (RFC 3339), plus pagination.
func (h *ActivityLogHandler) ListLogs(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	filter := repository.ActivityLogFilter{
		Page: utils.GetPaginationParams(c),
	}

	if raw := c.Query("action"); raw != "" {
		action := models.ParseActivityAction(raw)
		if action == models.ActionUnknown {
			apierrors.BadRequest(c, "Invalid action")
			return
		}
		filter.Action = &action
	}

	var ok bool
	if filter.UserID, ok = parseIDQuery(c, "user_id"); !ok {
		return
	}
	if filter.TaskID, ok = parseIDQuery(c, "task_id"); !ok {
		return
	}
	if filter.ProjectID, ok = parseIDQuery(c, "project_id"); !ok {
		return
	}
	if filter.DateFrom, ok = parseTimeQuery(c, "date_from"); !ok {
		return
	}
	if filter.DateTo, ok = parseTimeQuery(c, "date_to"); !ok {
		return
	}

	logs, err := h.logService.ListLogs(filter)
	if err != nil {
		respondLogError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityLogDTOs(logs))
}

// ListTaskLogs returns an existing task's logs.
func (h *ActivityLogHandler) ListTaskLogs(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	logs, err := h.logService.ListTaskLogs(taskID, utils.GetPaginationParams(c))
	if err != nil {
		respondLogError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityLogDTOs(logs))
}

// ListProjectLogs returns the logs of every task in a project.
func (h *ActivityLogHandler) ListProjectLogs(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	logs, err := h.logService.ListProjectLogs(projectID, utils.GetPaginationParams(c))
	if err != nil {
		respondLogError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityLogDTOs(logs))
}

// ListUserLogs returns the actions performed by a user.
func (h *ActivityLogHandler) ListUserLogs(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	logs, err := h.logService.ListUserLogs(userID, utils.GetPaginationParams(c))
	if err != nil {
		respondLogError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityLogDTOs(logs))
}

// parseIDQuery reads an optional numeric query parameter. A missing value
// reports (nil, true); a malformed one writes a 400 response.
func parseIDQuery(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

// parseTimeQuery reads an optional RFC 3339 timestamp query parameter.
func parseTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name+", expected RFC 3339 timestamp")
		return nil, false
	}
	return &t, true
}

func respondLogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
