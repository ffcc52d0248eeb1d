package server

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scanworks/passport-scanner/internal/common"
)

const (
	requestIDKey    = "requestId"
	sessionSubKey   = "sessionSub"
	sessionTokenKey = "sessionToken"
)

// RequestID attaches a request ID to context and response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = generateRequestID()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-Id", id)
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func generateRequestID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Now().UTC().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(b[:])
}

// Logging emits one structured log line per request.
func Logging(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request.complete",
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
			"client_ip", c.ClientIP(),
		)
	}
}

// Recovery converts panics into 500 responses instead of dropped
// connections.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("request.panic",
					"request_id", c.GetString(requestIDKey),
					"path", c.Request.URL.Path,
					"panic", r,
				)
				respondError(c, http.StatusInternalServerError, "internal", "internal error")
			}
		}()
		c.Next()
	}
}

// RequireSession rejects requests without a valid session cookie.
func RequireSession(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "login required")
			return
		}
		claims, err := sessions.Verify(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "unauthorized", "session expired or invalid")
			return
		}
		c.Set(sessionSubKey, claims.Sub)
		c.Set(sessionTokenKey, token)
		c.Request = c.Request.WithContext(common.WithSessionID(c.Request.Context(), claims.Sub))
		c.Next()
	}
}

// RejectSession returns 409 when the caller already holds a valid session,
// steering logged-in clients away from the login endpoint.
func RejectSession(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
			if _, err := sessions.Verify(token); err == nil {
				respondError(c, http.StatusConflict, "conflict", "already logged in")
				return
			}
		}
		c.Next()
	}
}
