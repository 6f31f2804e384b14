package handlers

import (
	"errors"
	"net/http"

	"tempmonitor/internal/service"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"` // epoch milliseconds
}

// @Summary      Log in
// @Description  Authenticates the configured admin identity and issues a 24h bearer token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      loginRequest  true  "username and password"
// @Success      200  {object}  loginResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil || input.Username == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	sess, err := h.services.Sessions.Login(input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if h.log != nil {
				h.log.Infow("login_failed", "username", input.Username)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if h.log != nil {
			h.log.Errorw("login_error", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt.UnixMilli(),
	})
}

// @Summary      Validate token
// @Description  Reports whether the presented bearer token is still valid.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "valid, username, expiresAt"
// @Failure      401  {object}  map[string]bool
// @Router       /api/auth/validate [get]
// @Security     BearerAuth
func (h *Handler) validateToken(c *gin.Context) {
	sess, err := h.services.Sessions.Validate(bearerToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":     true,
		"username":  sess.Username,
		"expiresAt": sess.ExpiresAt.UnixMilli(),
	})
}

// @Summary      Log out
// @Description  Revokes the presented bearer token. Idempotent.
// @Tags         auth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/logout [post]
// @Security     BearerAuth
func (h *Handler) logout(c *gin.Context) {
	h.services.Sessions.Revoke(c.GetString(ctxKeyToken))
	c.Status(http.StatusNoContent)
}
