package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// ContextSessionKey is the gin context key storing the resolved session.
const ContextSessionKey = "currentSession"

type sessionResolver interface {
	Current(ctx context.Context, id string) *models.Session
}

// Session attaches the current session to the request context when the
// bearer session ID resolves. It never blocks; admission is the guard's job.
func Session(store sessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := sessionID(c)
		if id == "" {
			c.Next()
			return
		}
		if sess := store.Current(c.Request.Context(), id); sess != nil {
			c.Set(ContextSessionKey, sess)
		}
		c.Next()
	}
}

// SessionFromContext returns the attached session, or nil.
func SessionFromContext(c *gin.Context) *models.Session {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil
	}
	sess, ok := value.(*models.Session)
	if !ok {
		return nil
	}
	return sess
}

func sessionID(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.GetHeader("X-Session-ID")
}
