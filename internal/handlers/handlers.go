package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/rakshitjain23/taskpilot-api/internal/errors"
)

// parseIDParam reads a numeric path parameter. On a malformed value it
// writes a 400 response and reports false.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
