package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bmohak/echo/internal/auth"
	"github.com/bmohak/echo/internal/ratelimit"
	"github.com/bmohak/echo/pkg/logging"
)

// context keys set by the middleware chain
const (
	ctxRequestID = "request_id"
	ctxUserID    = "user_id"
	ctxUsername  = "username"
	ctxIsAdmin   = "is_admin"
)

// RequestLogger tags each request with a UUID and writes an access log line.
func RequestLogger() gin.HandlerFunc {
	logger := logging.WithComponent("http")
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set(ctxRequestID, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

// Auth validates the bearer token and exposes the session claims.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		claims, err := auth.ParseToken(jwtSecret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)
		c.Set(ctxIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// AdminOnly gates a route to admin sessions. Must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RateLimit rejects requests over the limiter's window with 429. keyFn
// picks the counting key, the authenticated user or the client IP.
func RateLimit(limiter *ratelimit.Limiter, keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := limiter.Check(c.Request.Context(), keyFn(c))
		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate limit exceeded",
				"resetAt": result.ResetAt.Unix(),
			})
			return
		}
		c.Next()
	}
}

// keyByUser counts per authenticated user, falling back to the client IP
// for anonymous requests.
func keyByUser(c *gin.Context) string {
	if id := c.GetInt64(ctxUserID); id != 0 {
		return "user:" + strconv.FormatInt(id, 10)
	}
	return keyByIP(c)
}

func keyByIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}
