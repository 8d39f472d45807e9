package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/pocketchat/internal/auth"
	"github.com/lalith-99/pocketchat/internal/middleware"
)

const secret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AuthMiddleware(secret))
	r.GET("/whoami", func(c *gin.Context) {
		sess := middleware.GetSession(c)
		if sess == nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, sess.UserID+"/"+sess.Username+"/"+middleware.GetUserID(c))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	valid, err := auth.GenerateToken("u1", "alice", secret, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	foreign, _ := auth.GenerateToken("u1", "alice", "other", time.Hour)

	tests := []struct {
		name     string
		header   string
		query    string
		wantCode int
		wantBody string
	}{
		{"valid bearer", "Bearer " + valid, "", http.StatusOK, "u1/alice/u1"},
		{"lowercase scheme", "bearer " + valid, "", http.StatusOK, "u1/alice/u1"},
		{"query token", "", "?access_token=" + valid, http.StatusOK, "u1/alice/u1"},
		{"missing", "", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic " + valid, "", http.StatusUnauthorized, ""},
		{"empty bearer", "Bearer ", "", http.StatusUnauthorized, ""},
		{"foreign secret", "Bearer " + foreign, "", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newRouter().ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d (%s)", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestGetSessionWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if middleware.GetSession(c) != nil {
		t.Error("expected nil session")
	}
	if middleware.GetUserID(c) != "" {
		t.Error("expected empty user id")
	}
}
