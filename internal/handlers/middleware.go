package handlers

import (
	"errors"
	"net/http"
	"strings"

	"tempmonitor/internal/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by requireAuth.
const (
	ctxKeyUsername = "username"
	ctxKeyToken    = "token"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Empty string if absent or malformed.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// requireAuth rejects requests without a valid session. Error bodies
// distinguish missing/invalid/expired only as far as the client UX needs.
func (h *Handler) requireAuth(c *gin.Context) {
	token := bearerToken(c)

	sess, err := h.services.Sessions.Validate(token)
	if err != nil {
		var unauthorized *service.UnauthorizedError
		msg := "invalid token"
		if errors.As(err, &unauthorized) {
			msg = unauthorized.Error()
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}

	c.Set(ctxKeyUsername, sess.Username)
	c.Set(ctxKeyToken, sess.Token)
	c.Next()
}
