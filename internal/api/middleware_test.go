package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bmohak/echo/internal/auth"
	"github.com/bmohak/echo/internal/models"
	"github.com/bmohak/echo/internal/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret"
	engine := gin.New()
	engine.GET("/protected", Auth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetInt64(ctxUserID)})
	})

	token, err := auth.IssueToken(secret, time.Hour, &models.User{ID: 7, Username: "alice"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"no bearer prefix", token, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	engine := gin.New()
	engine.GET("/admin", func(c *gin.Context) { c.Set(ctxIsAdmin, false) }, AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want 403", w.Code)
	}
}

type stubCounter struct {
	counts map[string]int64
}

func (s *stubCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[key]++
	return s.counts[key], nil
}

func (s *stubCounter) GetInt(_ context.Context, key string) (int64, error) {
	return s.counts[key], nil
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.New(&stubCounter{}, "test", 2, time.Minute)
	engine := gin.New()
	engine.GET("/limited", RateLimit(limiter, keyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}
	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("first two requests should pass, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", statuses[2])
	}
}

func TestRateLimitNilLimiterAllows(t *testing.T) {
	engine := gin.New()
	engine.GET("/open", RateLimit(nil, keyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestPathID(t *testing.T) {
	engine := gin.New()
	engine.GET("/p/:id", func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/p/42", http.StatusOK},
		{"/p/abc", http.StatusBadRequest},
		{"/p/-1", http.StatusBadRequest},
		{"/p/0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		if w.Code != tt.wantStatus {
			t.Errorf("GET %s status = %d, want %d", tt.path, w.Code, tt.wantStatus)
		}
	}
}
