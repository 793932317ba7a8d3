package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"renovatrack/internal/model"
	"renovatrack/internal/repository"
)

type ChatHandler struct {
	chat repository.ChatRepository
}

func NewChatHandler(chat repository.ChatRepository) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// CreateSession handles POST /api/chat/sessions
func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req struct {
		VisitorName string `json:"visitor_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	s := &model.ChatSession{VisitorName: req.VisitorName}
	if err := h.chat.CreateSession(c.Request.Context(), s); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// PostMessage handles POST /api/chat/sessions/:id/messages
func (h *ChatHandler) PostMessage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Sender string `json:"sender" binding:"required"`
		Body   string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sender := model.ChatSender(req.Sender)
	if sender != model.ChatSenderVisitor && sender != model.ChatSenderAgent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sender"})
		return
	}

	m := &model.ChatMessage{
		SessionID: id,
		Sender:    sender,
		Body:      req.Body,
	}
	if err := h.chat.InsertMessage(c.Request.Context(), m); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// ListMessages handles GET /api/chat/sessions/:id/messages
func (h *ChatHandler) ListMessages(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.chat.FindSession(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	messages, err := h.chat.ListMessages(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
