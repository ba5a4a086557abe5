package http

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"projectshelf/internal/domain"
)

const (
	ctxUserID   = "userId"
	ctxUserName = "userName"
)

// requireAuth accepts "Authorization: Bearer <token>" and stores the caller's
// id and name in the gin context.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.Fields(c.GetHeader("Authorization"))
		if len(parts) < 2 {
			h.fail(c, domain.E(domain.KindMissingToken, "Token missing"))
			return
		}
		if !strings.EqualFold(parts[0], "Bearer") || len(parts) != 2 {
			h.fail(c, domain.E(domain.KindInvalidToken, "Invalid token"))
			return
		}

		claims, err := h.tokens.Parse(parts[1])
		if err != nil {
			h.fail(c, err)
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserName, claims.UserName)
		c.Next()
	}
}

func callerID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		})
		if id := callerID(c); id != "" {
			entry = entry.WithField("user_id", id)
		}
		if c.Writer.Status() >= 500 {
			entry.Warn("request")
			return
		}
		entry.Info("request")
	}
}
