package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/rakshitjain23/taskpilot-api/internal/errors"
	"github.com/rakshitjain23/taskpilot-api/internal/middleware"
	"github.com/rakshitjain23/taskpilot-api/internal/services"
)

// AIHandler proxies chat conversations to the AI provider. A nil service
// means no API key was configured; the endpoint then reports 503.
type AIHandler struct {
	aiService *services.AIService
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{
		aiService: aiService,
	}
}

// Chat forwards a conversation to the provider, grounded in the caller's
// data snapshot, and returns the provider response verbatim.
func (h *AIHandler) Chat(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if h.aiService == nil {
		apierrors.RespondWithError(c, http.StatusServiceUnavailable,
			apierrors.NewAPIError(apierrors.ErrCodeUpstreamError, services.ErrAIServiceNotConfigured.Error()))
		return
	}

	type ChatRequest struct {
		Messages []services.ChatMessage `json:"messages" binding:"required,min=1,dive"`
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.aiService.Chat(c.Request.Context(), userID, req.Messages)
	if err != nil {
		respondAIError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func respondAIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoMessages):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUpstreamFailure):
		apierrors.UpstreamError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
