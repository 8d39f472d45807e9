package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/pocketchat/internal/auth"
	"github.com/lalith-99/pocketchat/internal/messenger"
	"github.com/lalith-99/pocketchat/internal/middleware"
	"github.com/lalith-99/pocketchat/internal/models"
	"go.uber.org/zap"
)

// AuthHandler serves register and login, the only public endpoints, and
// logout. Over HTTP the session is the JWT these endpoints hand out; there
// is no server-side currentUser slot.
type AuthHandler struct {
	svc       *messenger.Service
	jwtSecret string
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewAuthHandler(svc *messenger.Service, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, "register", err)
		return
	}
	h.issue(c, http.StatusCreated, user)
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, "login", err)
		return
	}
	h.issue(c, http.StatusOK, user)
}

func (h *AuthHandler) issue(c *gin.Context, status int, user *models.User) {
	token, err := auth.GenerateToken(user.ID, user.Username, h.jwtSecret, h.tokenTTL)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(status, authResponse{Token: token, User: user})
}

// Logout handles POST /v1/auth/logout
//
// It marks the user offline. The token itself stays valid until it
// expires; clients are expected to discard it.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.GetSession(c)); err != nil {
		respondError(c, h.logger, "logout", err)
		return
	}
	c.Status(http.StatusNoContent)
}
