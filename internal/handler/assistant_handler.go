package handler

import (
	"net/http"

	"kuruma/internal/service"
	"kuruma/pkg/genai"

	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	assistant *service.AssistantService
}

func NewAssistantHandler(assistant *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

type chatRequest struct {
	Message string       `json:"message" binding:"required"`
	History []genai.Turn `json:"history"`
}

// Chat runs one assistant turn. The client carries the history; nothing is
// stored server-side.
func (h *AssistantHandler) Chat(c *gin.Context) {
	if h.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant not configured"})
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message required"})
		return
	}
	if len(req.History) > 40 {
		req.History = req.History[len(req.History)-40:]
	}
	reply, err := h.assistant.Chat(c.Request.Context(), req.History, req.Message)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
