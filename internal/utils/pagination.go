package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rakshitjain23/taskpilot-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// NormalizePagination clamps raw page/page_size values to their allowed
// ranges: page below 1 is coerced to 1, page_size outside [1,100] falls back
// to the default of 20.
func NormalizePagination(page, pageSize int) PaginationParams {
	if page < constants.DefaultPage {
		page = constants.DefaultPage
	}
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
}

// GetPaginationParams extracts and validates pagination parameters from the request
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.DefaultPage)))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(constants.DefaultPageSize)))
	return NormalizePagination(page, pageSize)
}
