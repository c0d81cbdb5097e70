package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moricehq/morice-backend/internal/dto"
	"github.com/moricehq/morice-backend/internal/service"
)

// ChatbotHandler обслуживает ассистента.
type ChatbotHandler struct {
	chatbot *service.ChatbotService
}

// NewChatbotHandler создаёт хэндлер.
func NewChatbotHandler(chatbot *service.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{chatbot: chatbot}
}

// Greeting обрабатывает GET /chatbot/greeting.
func (h *ChatbotHandler) Greeting(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ChatMessageResponse{Reply: h.chatbot.Greeting()})
}

// Message обрабатывает POST /chatbot/messages.
func (h *ChatbotHandler) Message(c *gin.Context) {
	var req dto.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ChatMessageResponse{Reply: h.chatbot.Reply(req.Message)})
}
