package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/pocketchat/internal/messenger"
	"github.com/lalith-99/pocketchat/internal/middleware"
	"github.com/lalith-99/pocketchat/internal/realtime"
	"go.uber.org/zap"
)

// RouterConfig holds what NewRouter needs to build the HTTP surface.
type RouterConfig struct {
	Service   *messenger.Service
	Hub       *realtime.Hub
	JWTSecret string
	TokenTTL  time.Duration
	Logger    *zap.Logger

	// Health reports whether the storage backend is reachable. Nil means
	// always healthy.
	Health func(ctx context.Context) error
}

// NewRouter wires every handler onto a gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(cfg.Logger), gin.Recovery())

	authH := NewAuthHandler(cfg.Service, cfg.JWTSecret, cfg.TokenTTL, cfg.Logger)
	userH := NewUserHandler(cfg.Service, cfg.Logger)
	chatH := NewChatHandler(cfg.Service, cfg.Logger)
	msgH := NewMessageHandler(cfg.Service, cfg.Logger)

	// Public: load balancers hit /health and new users have no token yet.
	r.GET("/v1/health", func(c *gin.Context) {
		if cfg.Health != nil {
			if err := cfg.Health(c.Request.Context()); err != nil {
				cfg.Logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/v1/auth/register", authH.Register)
	r.POST("/v1/auth/login", authH.Login)

	v1 := r.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	v1.POST("/auth/logout", authH.Logout)

	v1.GET("/users/me", userH.GetMe)
	v1.PATCH("/users/me/profile", userH.UpdateProfile)
	v1.GET("/users", userH.List)
	v1.GET("/users/:id", userH.GetByID)

	v1.POST("/chats/private", chatH.CreatePrivate)
	v1.POST("/chats/group", chatH.CreateGroup)
	v1.GET("/chats", chatH.List)
	v1.GET("/chats/:id", chatH.GetByID)
	v1.GET("/chats/:id/messages", msgH.List)
	v1.POST("/chats/:id/messages", msgH.Create)

	v1.POST("/messages/:id/reactions", msgH.AddReaction)

	if cfg.Hub != nil {
		v1.GET("/ws", NewWSHandler(cfg.Hub).Stream)
	}

	return r
}

// requestLogger logs one line per request through zap instead of gin's
// default stdout writer.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("user_id", middleware.GetUserID(c)),
		)
	}
}
