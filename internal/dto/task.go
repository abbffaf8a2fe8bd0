package dto

import (
	"github.com/rakshitjain23/taskpilot-api/internal/models"
	"github.com/rakshitjain23/taskpilot-api/internal/utils"
)

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []models.Task            `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}
