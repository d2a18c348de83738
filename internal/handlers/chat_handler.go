package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trove/internal/assist"
	apperrors "trove/internal/errors"
	"trove/internal/services"
)

// ChatHandler handles assistant chat and spending analysis requests.
type ChatHandler struct {
	assistant    *assist.Assistant
	auditService services.AuditServicer
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(assistant *assist.Assistant, auditService services.AuditServicer) *ChatHandler {
	return &ChatHandler{assistant: assistant, auditService: auditService}
}

// ChatRequest represents the chat request payload.
type ChatRequest struct {
	Message string           `json:"message" binding:"required"`
	Feature string           `json:"feature" binding:"omitempty,oneof=general budget analytics goals"`
	History []assist.Message `json:"history"`
}

// ChatResponse represents the assistant's reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// Chat sends a message to the financial assistant.
// @Summary     Chat with the assistant
// @Description Send a message and recent history to the assistant; the reply is grounded in the user's spending data
// @Tags        assistant
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChatRequest true "Message, feature, and history"
// @Success     200 {object} ChatResponse "Assistant reply"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Assistant unavailable"
// @Router      /assistant/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Feature == "" {
		req.Feature = "general"
	}

	reply, err := h.assistant.Chat(c.Request.Context(), userID, req.Message, req.Feature, req.History)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ASSISTANT_CHAT", "assistant", 0, c.ClientIP(),
		map[string]interface{}{"feature": req.Feature})

	c.JSON(http.StatusOK, ChatResponse{Response: reply})
}

// AnalyzeSpending returns a short written analysis of recent spending.
// @Summary     Analyze spending
// @Description Get a brief analysis of the last 30 days of spending
// @Tags        assistant
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Analysis text"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assistant/analysis [get]
func (h *ChatHandler) AnalyzeSpending(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	analysis, err := h.assistant.AnalyzeSpending(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}
