package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"karaoke-browser/infrastructure/logger"
	"karaoke-browser/infrastructure/utils"
)

// UserIDKey is the gin context key holding the signed-in user id.
const UserIDKey = "user_id"

// Identity resolves an optional bearer token into UserIDKey. Requests without
// Authorization browse anonymously; a bad token is rejected with 401.
func Identity(secretKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authorization := ctx.GetHeader("Authorization")
		if authorization == "" {
			ctx.Next()
			return
		}
		raw, ok := strings.CutPrefix(authorization, "Bearer ")
		if !ok || raw == "" || secretKey == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}

		claims, err := utils.ParseToken(raw, secretKey)
		if err != nil {
			logger.GetLogger().WithField("error", err).Debug("Rejected bearer token")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": rejectMessage(err)})
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Token has no subject"})
			return
		}
		ctx.Set(UserIDKey, sub)
		ctx.Next()
	}
}

func rejectMessage(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return "That's not even a token"
		} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			// Token is either expired or not active yet
			return "Timing is everything"
		}
	}
	return fmt.Sprintf("Couldn't handle this token: %v", err)
}
