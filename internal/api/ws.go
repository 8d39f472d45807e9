package api

import (
	"github.com/gin-gonic/gin"
	"github.com/lalith-99/pocketchat/internal/middleware"
	"github.com/lalith-99/pocketchat/internal/realtime"
)

type WSHandler struct {
	hub *realtime.Hub
}

func NewWSHandler(hub *realtime.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Stream handles GET /v1/ws
//
// Upgrades to a websocket that carries message.created and reaction.added
// events for chats the caller takes part in.
func (h *WSHandler) Stream(c *gin.Context) {
	h.hub.Serve(c.Writer, c.Request, middleware.GetUserID(c))
}
