package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/pocketchat/internal/auth"
	"github.com/lalith-99/pocketchat/internal/messenger"
)

// Context keys for values the middleware stores in gin.Context.
//
// Handlers read them through GetSession, GetUserID and GetUsername, so a
// mistyped key cannot silently come back empty.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeySession  = "session"
)

// AuthMiddleware validates the bearer token and stores the caller's
// session in the gin context. Requests without a valid token stop here
// with 401.
//
// Browsers cannot set headers on a websocket handshake, so the token may
// also arrive as the access_token query parameter.
//
// Flow:
//   - The token is taken from the header, or the query parameter when there
//     is no header. A malformed header is rejected even if the query has a
//     token.
//   - ParseToken checks the signature, the HMAC algorithm, the issuer and
//     the expiry. Any failure aborts the chain with 401 and the handler
//     never runs.
//   - On success the claims go into the gin context as a
//     *messenger.Session, which is what every messenger operation takes.
//     Handlers never parse the token again.
//
// The secret is a parameter so the middleware does not import config and
// tests can sign tokens with any value.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing or malformed authorization, expected: Bearer <token>",
			})
			return
		}

		claims, err := auth.ParseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		// The session is rebuilt from the claims on every request. Over HTTP
		// there is no currentUser slot; the token is the session.
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeySession, &messenger.Session{
			UserID:   claims.UserID,
			Username: claims.Username,
		})

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		t := c.Query("access_token")
		return t, t != ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetSession returns the caller's session, or nil if the request did not
// pass through AuthMiddleware.
func GetSession(c *gin.Context) *messenger.Session {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return nil
	}
	sess, ok := val.(*messenger.Session)
	if !ok {
		return nil
	}
	return sess
}

func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

func GetUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}
