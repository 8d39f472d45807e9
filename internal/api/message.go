package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/pocketchat/internal/messenger"
	"github.com/lalith-99/pocketchat/internal/middleware"
	"go.uber.org/zap"
)

type MessageHandler struct {
	svc    *messenger.Service
	logger *zap.Logger
}

func NewMessageHandler(svc *messenger.Service, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{svc: svc, logger: logger}
}

type sendMessageRequest struct {
	Text string `json:"text" binding:"required"`
	Type string `json:"type"`
}

type reactionRequest struct {
	Reaction string `json:"reaction" binding:"required"`
}

// Create handles POST /v1/chats/:id/messages
//
// type defaults to "text". The chat must exist (404) and the caller must be
// in it (403); on success the message is also pushed to every connected
// participant through the hub.
func (h *MessageHandler) Create(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.svc.SendMessage(c.Request.Context(), middleware.GetSession(c), c.Param("id"), req.Text, req.Type)
	if err != nil {
		respondError(c, h.logger, "send message", err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// List handles GET /v1/chats/:id/messages
//
// Oldest first. Only participants may read a chat: GetChatMessages itself
// takes no session, so the membership check happens here through
// ChatForParticipant before anything is loaded. Outsiders get 403 and an
// unknown chat 404.
func (h *MessageHandler) List(c *gin.Context) {
	chatID := c.Param("id")
	if _, err := h.svc.ChatForParticipant(c.Request.Context(), middleware.GetSession(c), chatID); err != nil {
		respondError(c, h.logger, "list messages", err)
		return
	}

	msgs, err := h.svc.GetChatMessages(c.Request.Context(), chatID)
	if err != nil {
		respondError(c, h.logger, "list messages", err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// AddReaction handles POST /v1/messages/:id/reactions
//
// Replaces any earlier reaction of the caller on the message. The service
// rejects callers outside the message's chat with ErrNotParticipant (403)
// before writing, so the response body, which is the whole message, only
// reaches participants.
func (h *MessageHandler) AddReaction(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.svc.AddReaction(c.Request.Context(), middleware.GetSession(c), c.Param("id"), req.Reaction)
	if err != nil {
		respondError(c, h.logger, "add reaction", err)
		return
	}
	c.JSON(http.StatusOK, msg)
}
