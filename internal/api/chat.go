package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/pocketchat/internal/messenger"
	"github.com/lalith-99/pocketchat/internal/middleware"
	"go.uber.org/zap"
)

// ChatHandler serves private and group chats of the caller.
type ChatHandler struct {
	svc    *messenger.Service
	logger *zap.Logger
}

func NewChatHandler(svc *messenger.Service, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: logger}
}

type createPrivateChatRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// createGroupRequest is separate from models.Chat so clients cannot set
// the id, creator or admins themselves.
type createGroupRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	Participants []string `json:"participants"`
}

// CreatePrivate handles POST /v1/chats/private
//
// Returns 201 when a chat was created and 200 when the pair already had
// one; both bodies are the chat. The created flag comes from the same
// atomic find-or-create that stores the chat, so of several concurrent
// requests for one pair exactly one answers 201.
func (h *ChatHandler) CreatePrivate(c *gin.Context) {
	var req createPrivateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, created, err := h.svc.CreatePrivateChat(c.Request.Context(), middleware.GetSession(c), req.UserID)
	if err != nil {
		respondError(c, h.logger, "create chat", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, chat)
}

// CreateGroup handles POST /v1/chats/group
func (h *ChatHandler) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.svc.CreateGroup(c.Request.Context(), middleware.GetSession(c), req.Name, req.Description, req.Participants)
	if err != nil {
		respondError(c, h.logger, "create group", err)
		return
	}
	c.JSON(http.StatusCreated, chat)
}

// List handles GET /v1/chats
//
// Most recently active first.
func (h *ChatHandler) List(c *gin.Context) {
	chats, err := h.svc.GetUserChats(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		respondError(c, h.logger, "list chats", err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

// GetByID handles GET /v1/chats/:id
//
// Returns the chat with its title, avatar and status as seen by the caller.
func (h *ChatHandler) GetByID(c *gin.Context) {
	sess := middleware.GetSession(c)
	chatID := c.Param("id")

	if _, err := h.svc.ChatForParticipant(c.Request.Context(), sess, chatID); err != nil {
		respondError(c, h.logger, "get chat", err)
		return
	}

	view, err := h.svc.GetChatInfo(c.Request.Context(), sess, chatID)
	if err != nil {
		respondError(c, h.logger, "get chat", err)
		return
	}
	if view == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		return
	}
	c.JSON(http.StatusOK, view)
}
