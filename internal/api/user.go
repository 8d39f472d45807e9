package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/pocketchat/internal/messenger"
	"github.com/lalith-99/pocketchat/internal/middleware"
	"github.com/lalith-99/pocketchat/internal/models"
	"go.uber.org/zap"
)

type UserHandler struct {
	svc    *messenger.Service
	logger *zap.Logger
}

func NewUserHandler(svc *messenger.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// GetMe handles GET /v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.svc.GetUserByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, "get user", err)
		return
	}
	// Valid token, but the account is gone.
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PATCH /v1/users/me/profile
//
// Only the fields present in the body change.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req messenger.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), middleware.GetSession(c), req)
	if err != nil {
		respondError(c, h.logger, "update profile", err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// List handles GET /v1/users?q=
//
// Without q it returns every other user; with q it searches usernames and
// bios case-insensitively.
func (h *UserHandler) List(c *gin.Context) {
	sess := middleware.GetSession(c)

	q, searching := c.GetQuery("q")
	var (
		users []models.User
		err   error
	)
	if searching {
		users, err = h.svc.SearchUsers(c.Request.Context(), sess, q)
	} else {
		users, err = h.svc.GetAllUsers(c.Request.Context(), sess)
	}
	if err != nil {
		respondError(c, h.logger, "list users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetByID handles GET /v1/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.svc.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get user", err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
