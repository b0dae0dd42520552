package http

import (
	"net/http"
	"time"

	"karaoke-browser/domain/dto"
	"karaoke-browser/infrastructure/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ErrorUnmarshal = "Error while unmarshal"

	anonymousTokenTTL = 30 * 24 * time.Hour
)

type IAuthHandler interface {
	AnonymousSignIn(c *gin.Context)
}

type AuthHandler struct {
	secretKey string
	newID     func() string
}

func NewAuthHandler(secretKey string) IAuthHandler {
	return &AuthHandler{secretKey: secretKey, newID: uuid.NewString}
}

// AnonymousSignIn handles POST /auth/anonymous by minting a fresh user id.
func (h *AuthHandler) AnonymousSignIn(c *gin.Context) {
	if h.secretKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "sign-in is not configured"})
		return
	}
	now := utils.GetCurrentTime()
	userID := h.newID()
	expiresAt := now.Add(anonymousTokenTTL).Unix()

	token, err := utils.GenerateToken(map[string]interface{}{
		"sub":  userID,
		"iat":  now.Unix(),
		"exp":  expiresAt,
		"anon": true,
	}, h.secretKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": dto.AnonymousSession{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}})
}
